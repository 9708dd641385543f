// Package revision tracks which semantic fields a mutation touched and
// renders the change description stamped onto the entity.
package revision

import "strings"

const NoChanges = "No changes detected"

type Tracker struct {
	changed []string
}

// Field records a candidate field; it is listed only when changed is true.
// Call order decides the order in the description.
func (t *Tracker) Field(name string, changed bool) {
	if changed {
		t.changed = append(t.changed, name)
	}
}

func (t *Tracker) Changed() bool {
	return len(t.changed) > 0
}

// Describe renders e.g. "Updated status, team", or NoChanges when the
// payload matched the current state.
func (t *Tracker) Describe() string {
	if len(t.changed) == 0 {
		return NoChanges
	}
	return "Updated " + strings.Join(t.changed, ", ")
}
