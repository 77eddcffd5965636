package progress

import (
	"context"
	"encoding/json"

	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/repository"
)

// SelectedUnits returns the unit filter. Absent or unreadable data means all
// units.
func (s *Store) SelectedUnits(ctx context.Context) models.Selection {
	raw, ok := s.read(ctx, KeySelectedUnits)
	if !ok {
		return models.AllUnits()
	}
	sel, err := decodeSelection(raw)
	if err != nil {
		s.discard(ctx, KeySelectedUnits, err)
		return models.AllUnits()
	}
	return sel
}

// SetSelectedUnits overwrites the filter in a single write.
func (s *Store) SetSelectedUnits(ctx context.Context, sel models.Selection) {
	s.put(ctx, KeySelectedUnits, sel)
}

// ToggleUnitSelection flips unitID in the selection and returns the result.
// Toggling a unit off "all units" stores every other unit explicitly. The
// selection is returned unchanged when unitID is outside 1..totalUnits or
// when the toggle would leave no unit selected.
func (s *Store) ToggleUnitSelection(ctx context.Context, unitID, totalUnits int) models.Selection {
	if unitID < 1 || unitID > totalUnits {
		return s.SelectedUnits(ctx)
	}

	var result models.Selection
	s.mutate(ctx, KeySelectedUnits, func(cur []byte, _ bool) ([]byte, error) {
		current, err := decodeSelection(cur)
		if err != nil {
			recoverCorrupt(ctx, KeySelectedUnits, err)
			current = models.AllUnits()
		}

		next, changed := toggle(current, unitID, totalUnits)
		result = next
		if !changed {
			return nil, repository.ErrSkipWrite
		}
		return json.Marshal(next)
	})
	return result
}

func toggle(current models.Selection, unitID, totalUnits int) (models.Selection, bool) {
	if current.IsAll() {
		ids := make([]int, 0, totalUnits)
		for id := 1; id <= totalUnits; id++ {
			if id != unitID {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return current, false
		}
		return models.SpecificUnits(ids...), true
	}

	if !current.Contains(unitID) {
		return models.SpecificUnits(append(current.IDs(), unitID)...), true
	}
	if current.Len() == 1 {
		return current, false
	}

	ids := current.IDs()
	kept := ids[:0]
	for _, id := range ids {
		if id != unitID {
			kept = append(kept, id)
		}
	}
	return models.SpecificUnits(kept...), true
}
