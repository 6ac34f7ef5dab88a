package registration

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/zjrosen/ringside/internal/hierarchy"
)

// Grouping level names as used in the config file.
const (
	GroupByClass    = "class"
	GroupByBreed    = "breed"
	GroupByFCIGroup = "fci_group"
)

// DefaultGrouping groups by class only.
var DefaultGrouping = []string{GroupByClass}

// Fallback group labels.
const (
	FallbackClass    = "Unassigned class"
	FallbackBreed    = "Unknown breed"
	FallbackFCIGroup = "Ungrouped"
)

// Leaf identifies dogs by DogID, since a dog is registered once per show,
// and falls back to the registration id for records without one.
var Leaf = hierarchy.Leaf[Registration]{
	ID: func(r Registration) string {
		if r.DogID != "" {
			return r.DogID
		}
		return r.ID
	},
	Label: func(r Registration) string {
		if r.DogName != "" {
			return r.DogName
		}
		return r.ID
	},
}

// LevelClass groups by competition class. Class names are lowercased so
// "Open" and "open" share a group.
func LevelClass() hierarchy.Level[Registration] {
	return hierarchy.Level[Registration]{
		Name: GroupByClass,
		Key: func(r Registration) string {
			if c, ok := ParseClass(r.DogClass); ok {
				return string(c)
			}
			return r.DogClass
		},
		Known:    IsKnownClass,
		Fallback: FallbackClass,
	}
}

// LevelBreed groups by breed name.
func LevelBreed() hierarchy.Level[Registration] {
	return hierarchy.Level[Registration]{
		Name:     GroupByBreed,
		Key:      func(r Registration) string { return r.Breed },
		Fallback: FallbackBreed,
	}
}

// LevelFCIGroup groups by FCI breed group. Numeric groups are labelled
// "FCI <n>".
func LevelFCIGroup() hierarchy.Level[Registration] {
	return hierarchy.Level[Registration]{
		Name:     GroupByFCIGroup,
		Key:      func(r Registration) string { return r.FCIGroup },
		Label:    fciLabel,
		Fallback: FallbackFCIGroup,
	}
}

func fciLabel(key string) string {
	if n, err := strconv.Atoi(key); err == nil && n > 0 {
		return "FCI " + strconv.Itoa(n)
	}
	return key
}

var levelsByName = map[string]func() hierarchy.Level[Registration]{
	GroupByClass:    LevelClass,
	GroupByBreed:    LevelBreed,
	GroupByFCIGroup: LevelFCIGroup,
}

// LevelNames returns the accepted grouping names.
func LevelNames() []string {
	return []string{GroupByFCIGroup, GroupByBreed, GroupByClass}
}

// Levels resolves grouping names, outermost first. An empty list means
// DefaultGrouping. Unknown or repeated names are an error.
func Levels(names []string) ([]hierarchy.Level[Registration], error) {
	if len(names) == 0 {
		names = DefaultGrouping
	}
	levels := make([]hierarchy.Level[Registration], 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		newLevel, ok := levelsByName[key]
		if !ok {
			return nil, fmt.Errorf("unknown grouping level %q (valid: %s)", name, strings.Join(LevelNames(), ", "))
		}
		if seen[key] {
			return nil, fmt.Errorf("grouping level %q listed twice", name)
		}
		seen[key] = true
		levels = append(levels, newLevel())
	}
	return levels, nil
}

// GroupingPresets are the groupings the tree view cycles through.
var GroupingPresets = [][]string{
	{GroupByClass},
	{GroupByBreed, GroupByClass},
	{GroupByFCIGroup, GroupByBreed},
	{GroupByFCIGroup, GroupByBreed, GroupByClass},
}

// NextGrouping returns the preset after current, wrapping around. A grouping
// that is not a preset is followed by the first preset.
func NextGrouping(current []string) []string {
	for i, preset := range GroupingPresets {
		if slices.Equal(preset, current) {
			return slices.Clone(GroupingPresets[(i+1)%len(GroupingPresets)])
		}
	}
	return slices.Clone(GroupingPresets[0])
}
