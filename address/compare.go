package address

// Compare returns the document order of two paths:
// -1 if a is earlier than b, 0 if they are equal, +1 if a is later than b.
//
// Steps are compared pairwise by their CFI integers; element and text steps
// never tie, because of their different parity. If all steps of one path
// are a prefix of the other path, the shorter path (an ancestor) is earlier.
// Paths with identical steps are ordered by their character offsets, where
// a missing offset is earlier than any offset.
//
// Id assertions, tag names, assertions and redirection markers do not take
// part in the comparison. Compare is a strict weak ordering and may be used
// as a sort key for paths from the same publication.
func Compare(a, b Path) int {
	if c := CompareSteps(a.Steps, b.Steps); c != 0 {
		return c
	}
	return compareTerminals(a.Terminal, b.Terminal)
}

// CompareSteps compares two step sequences, see Compare.
func CompareSteps(a, b []Step) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i].Index < b[i].Index {
			return -1
		}
		if a[i].Index > b[i].Index {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func compareTerminals(a, b *Terminal) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}
