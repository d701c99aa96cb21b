package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/formwork/pkg/domain"
)

// Condition is a compiled, named predicate. It is immutable once its
// Registry has been built and safe for concurrent use.
type Condition struct {
	Name   string
	Source string

	node     node
	registry *Registry
}

// Fn evaluates the condition against a whole state.
func (c *Condition) Fn(state map[string]any) bool {
	return c.Eval(Snapshot{Root: state})
}

// Eval evaluates the condition. An evaluation error counts as false.
func (c *Condition) Eval(snap Snapshot) bool {
	ok, err := c.Evaluate(snap)
	return err == nil && ok
}

// Evaluate evaluates the condition and reports evaluation errors.
func (c *Condition) Evaluate(snap Snapshot) (bool, error) {
	v, err := c.node.eval(&env{snap: snap, registry: c.registry, current: c.Name})
	if err != nil {
		return false, fmt.Errorf("condition %q: %w", c.Name, err)
	}
	return truthy(v), nil
}

// References returns the names of other conditions this one depends on.
// An identifier equal to the condition's own name refers to an answer.
func (c *Condition) References() []string {
	var out []string
	for _, ident := range references(c.node) {
		if _, ok := c.registry.conds[ident]; ok && ident != c.Name {
			out = append(out, ident)
		}
	}
	return out
}

// Registry maps condition names to compiled conditions.
type Registry struct {
	conds map[string]*Condition
	order []string
}

// CompileError reports a condition that could not be compiled.
type CompileError struct {
	Name string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("condition %q: %v", e.Name, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile builds a registry from definitions. Every problem is reported,
// joined with errors.Join: duplicate or empty names, parse failures and
// reference cycles. The returned registry holds the conditions that compiled.
func Compile(defs []domain.ConditionDef) (*Registry, error) {
	r := &Registry{conds: make(map[string]*Condition, len(defs))}
	var errs []error

	for _, def := range defs {
		if def.Name == "" {
			errs = append(errs, &CompileError{Name: def.Name, Err: errors.New("name is required")})
			continue
		}
		if _, dup := r.conds[def.Name]; dup {
			errs = append(errs, &CompileError{Name: def.Name, Err: errors.New("duplicate name")})
			continue
		}
		n, err := parse(def.Value)
		if err != nil {
			errs = append(errs, &CompileError{Name: def.Name, Err: err})
			continue
		}
		r.conds[def.Name] = &Condition{Name: def.Name, Source: def.Value, node: n, registry: r}
		r.order = append(r.order, def.Name)
	}

	// Drop cyclic conditions so evaluation always terminates.
	for cycle := r.findCycle(); cycle != nil; cycle = r.findCycle() {
		errs = append(errs, &CompileError{
			Name: cycle[0],
			Err:  fmt.Errorf("reference cycle %s", strings.Join(cycle, " -> ")),
		})
		for _, name := range cycle {
			delete(r.conds, name)
		}
		kept := r.order[:0]
		for _, name := range r.order {
			if _, ok := r.conds[name]; ok {
				kept = append(kept, name)
			}
		}
		r.order = kept
	}

	return r, errors.Join(errs...)
}

// findCycle returns the first reference cycle found, closed on its first name.
func (r *Registry) findCycle() []string {
	const (
		_ = iota
		visiting
		done
	)
	state := make(map[string]int, len(r.conds))
	var stack []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		switch state[name] {
		case visiting:
			for i, n := range stack {
				if n == name {
					cycle = append(append([]string{}, stack[i:]...), name)
					break
				}
			}
			return true
		case done:
			return false
		}
		state[name] = visiting
		stack = append(stack, name)
		for _, ref := range r.conds[name].References() {
			if visit(ref) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return false
	}

	for _, name := range r.order {
		if visit(name) {
			return cycle
		}
	}
	return nil
}

// Get returns the condition with the given name.
func (r *Registry) Get(name string) (*Condition, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.conds[name]
	return c, ok
}

// Has reports whether a condition with the given name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns condition names in definition order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Eval evaluates the named condition. Unknown names evaluate to false.
func (r *Registry) Eval(name string, snap Snapshot) bool {
	c, ok := r.Get(name)
	if !ok {
		return false
	}
	return c.Eval(snap)
}
