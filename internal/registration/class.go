package registration

import "strings"

// Class is an FCI competition class.
type Class string

const (
	ClassBaby         Class = "baby"
	ClassPuppy        Class = "puppy"
	ClassJunior       Class = "junior"
	ClassIntermediate Class = "intermediate"
	ClassOpen         Class = "open"
	ClassWorking      Class = "working"
	ClassChampion     Class = "champion"
	ClassVeteran      Class = "veteran"
)

// Classes lists the classes from youngest to oldest.
var Classes = []Class{
	ClassBaby,
	ClassPuppy,
	ClassJunior,
	ClassIntermediate,
	ClassOpen,
	ClassWorking,
	ClassChampion,
	ClassVeteran,
}

// ParseClass normalises case and whitespace and reports whether s names a
// known class.
func ParseClass(s string) (Class, bool) {
	c := Class(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Classes {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// IsKnownClass reports whether s names a class after normalisation.
func IsKnownClass(s string) bool {
	_, ok := ParseClass(s)
	return ok
}
