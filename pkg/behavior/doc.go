// Package behavior implements a behavior tree engine.
//
// A tree is built bottom-up from leaves supplied by the caller and the
// composites and decorators of this package, then driven by a Tree, one
// Advance per logical step of the embedding application:
//
//	patrol, _ := behavior.NewSequence("patrol",
//		behavior.Condition("path clear", pathClear),
//		behavior.Action("walk", walk),
//	)
//	root, _ := behavior.NewSelector("root", fleeIfHurt, patrol)
//	tree, err := behavior.New(root)
//	...
//	for tree.Advance(ctx) == behavior.StatusRunning {
//		// next frame
//	}
//
// Every node returns StatusSuccess, StatusFailure or StatusRunning. Running
// means the node needs more steps; Sequence and Selector remember the running
// child and resume there on the next step without re-ticking earlier
// children. Their reactive variants start over at the first child on every
// step instead.
//
// Constructors reject malformed trees (composites without children,
// decorators without a child, shared nodes) before anything is ticked.
package behavior
