// Package loader builds behavior trees from YAML or JSON definitions.
//
// A definition names every node once in a flat map and wires them together by
// name; leaves are created through a Registry:
//
//	name: guard
//	root: main
//	nodes:
//	  main:   {type: selector, children: [alarm, patrol]}
//	  alarm:  {type: condition, condition: is_true, params: {key: alarm}}
//	  patrol: {type: action, action: wait_ticks, params: {ticks: 3}}
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/behave/pkg/behavior"
)

// Definition describes one tree.
type Definition struct {
	Name  string              `json:"name,omitempty" yaml:"name,omitempty"`
	Root  string              `json:"root" yaml:"root"`
	Nodes map[string]NodeSpec `json:"nodes" yaml:"nodes"`
}

// NodeSpec describes one node. Composites list Children, decorators name a
// single Child, and leaves name the registered Action or Condition kind.
type NodeSpec struct {
	Type      string   `json:"type" yaml:"type"`
	Children  []string `json:"children,omitempty" yaml:"children,omitempty"`
	Child     string   `json:"child,omitempty" yaml:"child,omitempty"`
	Action    string   `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string   `json:"condition,omitempty" yaml:"condition,omitempty"`
	Params    Params   `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadYAML decodes a definition from YAML. Unknown fields are rejected.
func LoadYAML(r io.Reader) (*Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &d, nil
}

// LoadJSON decodes a definition from JSON. Unknown fields are rejected.
func LoadJSON(r io.Reader) (*Definition, error) {
	var d Definition
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return &d, nil
}

// LoadFile decodes the definition at path, choosing the format by extension.
// A definition without a name is named after the file.
func LoadFile(path string) (*Definition, error) {
	var load func(io.Reader) (*Definition, error)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		load = LoadYAML
	case ".json":
		load = LoadJSON
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// Fingerprint returns a hash of the definition's canonical JSON encoding.
// Definitions that build identical trees share a fingerprint.
func (d *Definition) Fingerprint() uint64 {
	b, err := json.Marshal(d)
	if err != nil {
		b = fmt.Appendf(nil, "%v", *d)
	}
	return xxhash.Sum64(b)
}

// Unreachable returns the names of nodes not referenced from the root, in
// sorted order.
func (d *Definition) Unreachable() []string {
	seen := make(map[string]bool, len(d.Nodes))
	var mark func(name string)
	mark = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		spec, ok := d.Nodes[name]
		if !ok {
			return
		}
		for _, ch := range spec.Children {
			mark(ch)
		}
		if spec.Child != "" {
			mark(spec.Child)
		}
	}
	if d.Root != "" {
		mark(d.Root)
	}
	var out []string
	for name := range d.Nodes {
		if !seen[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Build creates the node tree described by d. Every node may be referenced
// once: a second reference is ErrSharedNode and a reference back to an
// ancestor is ErrCycle.
func (d *Definition) Build(reg *Registry) (behavior.Node, error) {
	if d.Root == "" {
		return nil, ErrNoRoot
	}
	if reg == nil {
		reg = DefaultRegistry()
	}
	b := &builder{
		def:    d,
		reg:    reg,
		active: make(map[string]bool),
		built:  make(map[string]bool),
	}
	return b.node(d.Root)
}

// NewTree builds d and wraps it in a tree named after the definition.
// Options given by the caller take precedence.
func (d *Definition) NewTree(reg *Registry, opts ...behavior.Option) (*behavior.Tree, error) {
	root, err := d.Build(reg)
	if err != nil {
		return nil, err
	}
	if d.Name != "" {
		opts = append([]behavior.Option{behavior.WithName(d.Name)}, opts...)
	}
	return behavior.New(root, opts...)
}

type builder struct {
	def    *Definition
	reg    *Registry
	active map[string]bool
	built  map[string]bool
}

func (b *builder) node(name string) (behavior.Node, error) {
	if b.active[name] {
		return nil, fmt.Errorf("node %q: %w", name, ErrCycle)
	}
	if b.built[name] {
		return nil, fmt.Errorf("node %q: %w", name, behavior.ErrSharedNode)
	}
	spec, ok := b.def.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", name, ErrUnknownNode)
	}
	b.active[name] = true
	n, err := b.create(name, spec)
	delete(b.active, name)
	if err != nil {
		return nil, err
	}
	b.built[name] = true
	return n, nil
}

func (b *builder) children(names []string) ([]behavior.Node, error) {
	out := make([]behavior.Node, 0, len(names))
	for _, name := range names {
		n, err := b.node(name)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (b *builder) child(name string, spec NodeSpec) (behavior.Node, error) {
	if spec.Child == "" {
		return nil, fmt.Errorf("node %q: %w", name, behavior.ErrNoChild)
	}
	return b.node(spec.Child)
}

func (b *builder) create(name string, spec NodeSpec) (behavior.Node, error) {
	n, err := b.createKind(name, strings.ToLower(spec.Type), spec)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", name, err)
	}
	return n, nil
}

func (b *builder) createKind(name, kind string, spec NodeSpec) (behavior.Node, error) {
	p := spec.Params
	switch kind {
	case "sequence", "selector", "priority", "fallback", "reactive_sequence", "reactive_selector", "parallel":
		children, err := b.children(spec.Children)
		if err != nil {
			return nil, err
		}
		return composite(name, kind, p, children)
	case "inverter", "succeeder", "failer", "repeater", "until_success", "until_failure", "timeout", "cooldown", "counter":
		child, err := b.child(name, spec)
		if err != nil {
			return nil, err
		}
		return decorate(name, kind, p, child)
	case "action":
		return b.reg.NewAction(spec.Action, name, p)
	case "condition":
		return b.reg.NewCondition(spec.Condition, name, p)
	}
	return nil, fmt.Errorf("%q: %w", spec.Type, ErrUnknownType)
}

func composite(name, kind string, p Params, children []behavior.Node) (behavior.Node, error) {
	switch kind {
	case "sequence":
		return behavior.NewSequence(name, children...)
	case "selector", "priority", "fallback":
		return behavior.NewSelector(name, children...)
	case "reactive_sequence":
		return behavior.NewReactiveSequence(name, children...)
	case "reactive_selector":
		return behavior.NewReactiveSelector(name, children...)
	}
	success, err := p.Int("success", 0)
	if err != nil {
		return nil, err
	}
	failure, err := p.Int("failure", 0)
	if err != nil {
		return nil, err
	}
	return behavior.NewParallel(name, success, failure, children...)
}

func decorate(name, kind string, p Params, child behavior.Node) (behavior.Node, error) {
	switch kind {
	case "inverter":
		return behavior.NewInverter(name, child)
	case "succeeder":
		return behavior.NewSucceeder(name, child)
	case "failer":
		return behavior.NewFailer(name, child)
	case "repeater":
		times, err := p.Int("times", 0)
		if err != nil {
			return nil, err
		}
		policy, err := p.String("policy", "succeed")
		if err != nil {
			return nil, err
		}
		var opts []behavior.RepeatOption
		switch policy {
		case "succeed":
		case "last":
			opts = append(opts, behavior.WithRepeatPolicy(behavior.RepeatLastResult))
		default:
			return nil, fmt.Errorf("%w: policy %q, want succeed or last", ErrInvalidParam, policy)
		}
		return behavior.NewRepeater(name, times, child, opts...)
	case "until_success", "until_failure":
		limit, err := p.Int("max", 0)
		if err != nil {
			return nil, err
		}
		if kind == "until_success" {
			return behavior.NewUntilSuccess(name, limit, child)
		}
		return behavior.NewUntilFailure(name, limit, child)
	case "timeout":
		ticks, err := p.Int("ticks", 0)
		if err != nil {
			return nil, err
		}
		return behavior.NewTimeout(name, ticks, child)
	case "cooldown":
		period, err := p.Duration("duration", 0)
		if err != nil {
			return nil, err
		}
		successOnly, err := p.Bool("success_only", false)
		if err != nil {
			return nil, err
		}
		return behavior.NewCooldown(name, period, successOnly, child)
	}
	key, err := p.String("key", name)
	if err != nil {
		return nil, err
	}
	return behavior.NewCounter(name, key, child)
}
