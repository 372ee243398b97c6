// Package features provides the view-level building blocks fetchview is
// made of.
//
// # Subsystems
//
//   - resource: one asynchronous fetch per activation with Loading, Failed
//     and Ready states, and views that render each state
//   - interval: periodic callbacks and a self-advancing counter
//
// # Usage
//
// Each subsystem is in its own sub-package and can be imported independently:
//
//	import "github.com/vango-go/fetchview/pkg/features/resource"
//	import "github.com/vango-go/fetchview/pkg/features/interval"
package features
