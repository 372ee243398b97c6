package vango

import "testing"

func TestOwnerDisposeRunsCleanupsInReverse(t *testing.T) {
	owner := NewOwner(nil)
	var order []int
	owner.OnCleanup(func() { order = append(order, 1) })
	owner.OnCleanup(func() { order = append(order, 2) })

	owner.Dispose()
	owner.Dispose()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("cleanup order = %v, want [2 1]", order)
	}
	if !owner.IsDisposed() {
		t.Error("owner should be disposed")
	}
}

func TestOwnerParentDisposesChild(t *testing.T) {
	parent := NewOwner(nil)
	child := NewOwner(parent)

	var order []string
	parent.OnCleanup(func() { order = append(order, "parent") })
	child.OnCleanup(func() { order = append(order, "child") })

	parent.Dispose()

	if len(order) != 2 || order[0] != "parent" || order[1] != "child" {
		t.Errorf("order = %v, want [parent child]", order)
	}
	if !child.IsDisposed() {
		t.Error("child should be disposed with parent")
	}
}

func TestOwnerChildDisposeIsIndependent(t *testing.T) {
	parent := NewOwner(nil)
	child := NewOwner(parent)

	child.Dispose()
	if parent.IsDisposed() {
		t.Error("disposing a child must not dispose its parent")
	}
	parent.Dispose()
}

func TestOwnerOnCleanupAfterDispose(t *testing.T) {
	owner := NewOwner(nil)
	owner.Dispose()

	ran := false
	owner.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after dispose should run immediately")
	}
}
