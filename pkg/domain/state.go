package domain

// State holds the answers collected for a form session.
// Top-level keys are either field values or section names mapping to the
// nested answers of that section.
type State map[string]any

// NewState creates an empty state.
func NewState() State {
	return make(State)
}

// Clone returns a copy of the state. Section maps are copied one level deep so
// a later section replacement never aliases the original.
func (s State) Clone() State {
	next := make(State, len(s))
	for k, v := range s {
		if m, ok := asMap(v); ok {
			sub := make(map[string]any, len(m))
			for sk, sv := range m {
				sub[sk] = sv
			}
			next[k] = sub
			continue
		}
		next[k] = v
	}
	return next
}

// Scope returns the sub-state stored under a section name.
// A missing or malformed entry yields an empty map.
func (s State) Scope(section string) map[string]any {
	if section == "" {
		return s
	}
	if m, ok := asMap(s[section]); ok {
		return m
	}
	return map[string]any{}
}

// MergeState applies a partial update at the top level and returns the new
// state. Each key of update replaces the previous value wholesale, so a section
// entry replaces that section's entire sub-state.
func MergeState(state State, update map[string]any) State {
	next := state.Clone()
	for k, v := range update {
		next[k] = v
	}
	return next
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case State:
		return m, true
	default:
		return nil, false
	}
}
