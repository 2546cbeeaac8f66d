package models

// SentinelAll is the wire marker clients and storage use to say an item is
// split across the whole roster rather than a listed subset. It never appears
// inside an Assignment; ParseAssignment translates it at the boundary.
const SentinelAll = "All"

// AssignmentKind discriminates how a line item's cost is divided.
type AssignmentKind int

const (
	// Unassigned means nobody was picked; the item contributes nothing to
	// any split and is surfaced as a warning.
	Unassigned AssignmentKind = iota

	// Everyone means the item is split equally across the full roster.
	Everyone

	// Subset means the item is split equally across the listed participants.
	Subset
)

// Assignment describes who shares a line item. It is a tagged variant so the
// "split across everyone" case is a distinct state rather than a magic string
// buried in a participant list.
type Assignment struct {
	kind  AssignmentKind
	names []string
}

// AssignEveryone returns the whole-roster assignment.
func AssignEveryone() Assignment {
	return Assignment{kind: Everyone}
}

// AssignSubset returns an assignment to the given participants, deduplicated
// in first-seen order. An empty list yields the unassigned state.
func AssignSubset(names ...string) Assignment {
	deduped := dedupe(names)
	if len(deduped) == 0 {
		return Assignment{kind: Unassigned}
	}
	return Assignment{kind: Subset, names: deduped}
}

// NoAssignment returns the unassigned state.
func NoAssignment() Assignment {
	return Assignment{kind: Unassigned}
}

// ParseAssignment converts a wire-format assignee list into an Assignment.
// The SentinelAll marker anywhere in the list means the whole roster; an
// empty list means unassigned.
func ParseAssignment(ids []string) Assignment {
	for _, id := range ids {
		if id == SentinelAll {
			return AssignEveryone()
		}
	}
	return AssignSubset(ids...)
}

// Kind reports how the item is divided.
func (a Assignment) Kind() AssignmentKind {
	return a.kind
}

// Participants returns a copy of the assigned names. Only meaningful for
// Subset assignments; Everyone and Unassigned return nil.
func (a Assignment) Participants() []string {
	if len(a.names) == 0 {
		return nil
	}
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Count returns the number of listed assignees (zero unless Subset).
func (a Assignment) Count() int {
	return len(a.names)
}

// Includes reports whether the named participant is listed in a Subset
// assignment. Everyone assignments include the whole roster implicitly, which
// callers must resolve against the session themselves.
func (a Assignment) Includes(name string) bool {
	for _, n := range a.names {
		if n == name {
			return true
		}
	}
	return false
}

// Wire converts the assignment back to the wire/storage format: nil for
// unassigned, the SentinelAll marker for everyone, the names otherwise.
func (a Assignment) Wire() []string {
	switch a.kind {
	case Everyone:
		return []string{SentinelAll}
	case Subset:
		return a.Participants()
	default:
		return nil
	}
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
