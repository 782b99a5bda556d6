package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMealSlot(t *testing.T) {
	tests := []struct {
		input string
		want  MealSlot
	}{
		{"breakfast", Breakfast},
		{"Lunch", Lunch},
		{" DINNER ", Dinner},
		{"Protein", ProteinSupplement},
		{"protein_supplement", ProteinSupplement},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMealSlot(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMealSlot("brunch")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestMealSlotProperties(t *testing.T) {
	for i, slot := range SwappableSlots {
		assert.True(t, slot.Swappable(), slot.String())
		assert.Equal(t, i, slot.DefaultOrder())
	}
	assert.False(t, ProteinSupplement.Swappable())
	assert.Equal(t, 3, ProteinSupplement.DefaultOrder())
	assert.Equal(t, "Breakfast", Breakfast.Label())
	assert.Equal(t, "Protein", ProteinSupplement.Label())
}

func TestPlanRequestsFor(t *testing.T) {
	reqs := PlanRequests{
		Breakfast: MealRequest{Slot: Breakfast},
		Lunch:     MealRequest{Slot: Lunch},
		Dinner:    MealRequest{Slot: Dinner},
	}

	for _, slot := range SwappableSlots {
		req, ok := reqs.For(slot)
		require.True(t, ok)
		assert.Equal(t, slot, req.Slot)
	}

	_, ok := reqs.For(ProteinSupplement)
	assert.False(t, ok)
}
