package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wortdrill/internal/models"
)

func TestSelection_ZeroValueIsAll(t *testing.T) {
	var sel models.Selection
	assert.True(t, sel.IsAll())
	assert.True(t, sel.Contains(42))
	assert.Nil(t, sel.IDs())
}

func TestSpecificUnits_NormalizesIDs(t *testing.T) {
	sel := models.SpecificUnits(3, 1, 3, 2)

	assert.False(t, sel.IsAll())
	assert.Equal(t, []int{1, 2, 3}, sel.IDs())
	assert.True(t, sel.Contains(2))
	assert.False(t, sel.Contains(4))
	assert.Equal(t, 3, sel.Len())
}

func TestSpecificUnits_EmptyMeansAll(t *testing.T) {
	assert.True(t, models.SpecificUnits().IsAll())
}

func TestSelection_JSON(t *testing.T) {
	tests := []struct {
		name string
		sel  models.Selection
		want string
	}{
		{name: "all units", sel: models.AllUnits(), want: "null"},
		{name: "specific units", sel: models.SpecificUnits(2, 1), want: "[1,2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.sel)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var decoded models.Selection
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.True(t, tt.sel.Equal(decoded))
		})
	}
}

func TestSelection_IDsReturnsCopy(t *testing.T) {
	sel := models.SpecificUnits(1, 2)
	ids := sel.IDs()
	ids[0] = 99

	assert.Equal(t, []int{1, 2}, sel.IDs())
}
