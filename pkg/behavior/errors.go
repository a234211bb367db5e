package behavior

import "errors"

// Construction errors. They are returned wrapped with the offending node's
// name; test with errors.Is.
var (
	ErrNoChildren       = errors.New("behavior: composite requires at least one child")
	ErrNoChild          = errors.New("behavior: decorator requires a child")
	ErrNilChild         = errors.New("behavior: nil child")
	ErrNilRoot          = errors.New("behavior: tree requires a root node")
	ErrSharedNode       = errors.New("behavior: node appears more than once in the tree")
	ErrInvalidCount     = errors.New("behavior: invalid count")
	ErrInvalidDuration  = errors.New("behavior: invalid duration")
	ErrInvalidThreshold = errors.New("behavior: invalid threshold")
)

// ErrConcurrentAdvance is the panic value raised when a tree is advanced while
// another Advance on the same tree is still in progress.
var ErrConcurrentAdvance = errors.New("behavior: concurrent advance of the same tree")
