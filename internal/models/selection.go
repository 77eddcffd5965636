package models

import (
	"encoding/json"
	"slices"
)

// Selection is the unit filter: either every unit or a specific, non-empty set.
// The zero value selects all units.
type Selection struct {
	ids []int
}

// AllUnits selects every unit.
func AllUnits() Selection {
	return Selection{}
}

// SpecificUnits selects the given unit ids. Duplicates are dropped and ids are kept
// sorted; an empty list selects all units.
func SpecificUnits(ids ...int) Selection {
	if len(ids) == 0 {
		return Selection{}
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return Selection{ids: slices.Compact(out)}
}

func (s Selection) IsAll() bool {
	return len(s.ids) == 0
}

// IDs returns a copy of the selected ids, or nil for all units.
func (s Selection) IDs() []int {
	if s.IsAll() {
		return nil
	}
	return slices.Clone(s.ids)
}

// Contains reports whether unitID is selected.
func (s Selection) Contains(unitID int) bool {
	if s.IsAll() {
		return true
	}
	_, found := slices.BinarySearch(s.ids, unitID)
	return found
}

func (s Selection) Len() int {
	return len(s.ids)
}

func (s Selection) Equal(o Selection) bool {
	return slices.Equal(s.ids, o.ids)
}

// MarshalJSON encodes all units as null and a specific selection as an array.
func (s Selection) MarshalJSON() ([]byte, error) {
	if s.IsAll() {
		return []byte("null"), nil
	}
	return json.Marshal(s.ids)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = SpecificUnits(ids...)
	return nil
}
