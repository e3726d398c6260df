// Package relation decides and applies membership toggles: follow/unfollow,
// like/unlike and save/unsave.
package relation

import "slices"

// Action is the outcome of a toggle decision
type Action int

const (
	// Add inserts the membership on every side
	Add Action = iota
	// Remove deletes the membership from every side
	Remove
)

func (a Action) String() string {
	if a == Remove {
		return "remove"
	}
	return "add"
}

// Decide returns Remove only when every side already holds the membership.
// A pair that is out of sync resolves to Add, and since Insert is idempotent
// the next toggle finds both sides populated and removes cleanly.
func Decide(memberships ...bool) Action {
	if len(memberships) == 0 {
		return Add
	}
	for _, held := range memberships {
		if !held {
			return Add
		}
	}
	return Remove
}

// Contains reports whether id is in set
func Contains(set []string, id string) bool {
	return slices.Contains(set, id)
}

// Insert appends id to set unless it is already present
func Insert(set []string, id string) []string {
	if Contains(set, id) {
		return set
	}
	return append(set, id)
}

// Delete removes every occurrence of id from set
func Delete(set []string, id string) []string {
	return slices.DeleteFunc(set, func(v string) bool { return v == id })
}

// Apply runs Insert or Delete depending on action
func Apply(action Action, set []string, id string) []string {
	if action == Remove {
		return Delete(set, id)
	}
	return Insert(set, id)
}
