package behavior

import (
	"fmt"
	"reflect"
)

// Validate checks that root forms a strict tree: no nil nodes and no node
// reachable along more than one path, which rules out shared subtrees and
// cycles alike. Only pointer-typed nodes take part in the identity check.
func Validate(root Node) error {
	if isNil(root) {
		return ErrNilRoot
	}
	seen := make(map[Node]struct{})
	var visit func(n Node, path string) error
	visit = func(n Node, path string) error {
		if isNil(n) {
			return fmt.Errorf("%s: %w", path, ErrNilChild)
		}
		if reflect.ValueOf(n).Kind() == reflect.Pointer {
			if _, dup := seen[n]; dup {
				return fmt.Errorf("%s: %w", path, ErrSharedNode)
			}
			seen[n] = struct{}{}
		}
		p, ok := n.(Parent)
		if !ok {
			return nil
		}
		for i, ch := range p.Children() {
			if err := visit(ch, fmt.Sprintf("%s/%d:%s", path, i, NameOf(ch))); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(root, NameOf(root))
}

// Walk visits the tree depth-first in pre-order. Returning false from fn
// skips the children of the visited node. The tree must have passed Validate.
func Walk(root Node, fn func(n Node, depth int) bool) {
	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		if isNil(n) || !fn(n, depth) {
			return
		}
		if p, ok := n.(Parent); ok {
			for _, ch := range p.Children() {
				walk(ch, depth+1)
			}
		}
	}
	walk(root, 0)
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root Node) int {
	n := 0
	Walk(root, func(Node, int) bool {
		n++
		return true
	})
	return n
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
