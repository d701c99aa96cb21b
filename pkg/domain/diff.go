package domain

import (
	"reflect"
)

// Diff returns the top-level keys that changed between oldState and newState.
// Added or modified keys carry their new value; deleted keys carry nil.
// It returns nil when nothing changed.
func Diff(oldState, newState State) map[string]any {
	delta := make(map[string]any)

	for k, newVal := range newState {
		oldVal, exists := oldState[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	for k := range oldState {
		if _, exists := newState[k]; !exists {
			delta[k] = nil
		}
	}

	// Return nil so omitempty can drop the key
	if len(delta) == 0 {
		return nil
	}
	return delta
}
