package condition

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
)

// Snapshot is the state a condition is evaluated against. Identifiers resolve
// against Scope first and then against Root.
type Snapshot struct {
	Scope map[string]any
	Root  map[string]any
}

type env struct {
	snap     Snapshot
	registry *Registry
	current  string
}

func (n orNode) eval(e *env) (any, error) {
	left, err := n.left.eval(e)
	if err != nil {
		return false, err
	}
	if truthy(left) {
		return true, nil
	}
	right, err := n.right.eval(e)
	if err != nil {
		return false, err
	}
	return truthy(right), nil
}

func (n andNode) eval(e *env) (any, error) {
	left, err := n.left.eval(e)
	if err != nil {
		return false, err
	}
	if !truthy(left) {
		return false, nil
	}
	right, err := n.right.eval(e)
	if err != nil {
		return false, err
	}
	return truthy(right), nil
}

func (n notNode) eval(e *env) (any, error) {
	v, err := n.inner.eval(e)
	if err != nil {
		return false, err
	}
	return !truthy(v), nil
}

func (n literalNode) eval(*env) (any, error) {
	return n.value, nil
}

func (n identNode) eval(e *env) (any, error) {
	// A condition naming itself reads the answer of the same name.
	if e.registry != nil && n.path != e.current {
		if c, ok := e.registry.conds[n.path]; ok {
			prev := e.current
			e.current = n.path
			v, err := c.node.eval(e)
			e.current = prev
			return v, err
		}
	}
	if v, ok := lookup(e.snap.Scope, n.path); ok {
		return v, nil
	}
	v, _ := lookup(e.snap.Root, n.path)
	return v, nil
}

func (n compareNode) eval(e *env) (any, error) {
	left, err := n.left.eval(e)
	if err != nil {
		return false, err
	}
	right, err := n.right.eval(e)
	if err != nil {
		return false, err
	}

	switch n.op {
	case tokenEq:
		return equal(left, right), nil
	case tokenNeq:
		return !equal(left, right), nil
	}

	// Ordering against nil is always false.
	if left == nil || right == nil {
		return false, nil
	}
	c, ok := order(left, right)
	if !ok {
		return false, fmt.Errorf("cannot order %T and %T", left, right)
	}
	switch n.op {
	case tokenLt:
		return c < 0, nil
	case tokenLte:
		return c <= 0, nil
	case tokenGt:
		return c > 0, nil
	case tokenGte:
		return c >= 0, nil
	}
	return false, fmt.Errorf("unsupported operator %d", n.op)
}

func lookup(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		next, ok := m[part]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case domain.State:
		return m, true
	}
	return nil, false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case time.Time:
		return !v.IsZero()
	}
	if f, err := schema.ToFloat(value); err == nil {
		return f != 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	}
	return true
}

// equal is loose equality: numbers compare by value, dates by instant, and
// booleans match their textual spellings.
func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ta, tb, ok := asDates(a, b); ok {
		return ta.Equal(tb)
	}

	_, aStr := a.(string)
	_, bStr := b.(string)
	if !aStr || !bStr {
		fa, errA := schema.ToFloat(a)
		fb, errB := schema.ToFloat(b)
		if errA == nil && errB == nil {
			return fa == fb
		}
	}

	ab, aBool := a.(bool)
	bb, bBool := b.(bool)
	if aBool || bBool {
		if aBool && bBool {
			return ab == bb
		}
		return fmt.Sprint(a) == fmt.Sprint(b)
	}

	if aStr || bStr {
		return fmt.Sprint(a) == fmt.Sprint(b)
	}
	return reflect.DeepEqual(a, b)
}

// order returns -1, 0 or 1. Dates order chronologically, numbers numerically
// and strings lexically.
func order(a, b any) (int, bool) {
	if ta, tb, ok := asDates(a, b); ok {
		return ta.Compare(tb), true
	}
	fa, errA := schema.ToFloat(a)
	fb, errB := schema.ToFloat(b)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb), true
	}
	return 0, false
}

// asDates succeeds when both sides convert to a date and at least one of them
// is a date already or two strings are being compared. Stores that keep state
// as JSON hand dates back as RFC 3339 text, so "2000-01-01T00:00:00Z" must
// still equal "2000-01-01".
func asDates(a, b any) (time.Time, time.Time, bool) {
	_, aTime := a.(time.Time)
	_, bTime := b.(time.Time)
	_, aStr := a.(string)
	_, bStr := b.(string)
	if !aTime && !bTime && !(aStr && bStr) {
		return time.Time{}, time.Time{}, false
	}
	ta, okA := toInstant(a)
	tb, okB := toInstant(b)
	return ta, tb, okA && okB
}

func toInstant(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	return schema.ToDate(v)
}
