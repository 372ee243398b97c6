package vdom

// createElement creates a new VNode with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *VNode, []*VNode, string.
func createElement(tag string, args []any) *VNode {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*VNode, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			node.setAttr(v)
		case []Attr:
			for _, a := range v {
				node.setAttr(a)
			}
		case *VNode, []*VNode, string:
			node.Children = appendChild(node.Children, v)
		}
	}

	return node
}

func (v *VNode) setAttr(a Attr) {
	if a.IsEmpty() {
		return
	}
	v.Props[a.Key] = a.Value
}

// appendChild appends child, a *VNode, []*VNode or string, skipping nils.
func appendChild(children []*VNode, child any) []*VNode {
	switch c := child.(type) {
	case *VNode:
		if c != nil {
			children = append(children, c)
		}
	case []*VNode:
		for _, n := range c {
			if n != nil {
				children = append(children, n)
			}
		}
	case string:
		children = append(children, Text(c))
	}
	return children
}

// Layout

func Main(args ...any) *VNode { return createElement("main", args) }
func Div(args ...any) *VNode  { return createElement("div", args) }
func Ul(args ...any) *VNode   { return createElement("ul", args) }
func Li(args ...any) *VNode   { return createElement("li", args) }

// Text content

func H1(args ...any) *VNode { return createElement("h1", args) }
func H2(args ...any) *VNode { return createElement("h2", args) }
func P(args ...any) *VNode  { return createElement("p", args) }
func A(args ...any) *VNode  { return createElement("a", args) }

// Media

func Img(args ...any) *VNode    { return createElement("img", args) }
func Iframe(args ...any) *VNode { return createElement("iframe", args) }
