package game

import (
	"testing"

	"github.com/ninelive/colorclash-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeOf(t *testing.T) {
	expected := []struct {
		number int
		color  models.Color
		size   models.Size
	}{
		{0, models.ColorViolet, models.SizeSmall},
		{1, models.ColorGreen, models.SizeSmall},
		{2, models.ColorRed, models.SizeSmall},
		{3, models.ColorGreen, models.SizeSmall},
		{4, models.ColorRed, models.SizeSmall},
		{5, models.ColorViolet, models.SizeBig},
		{6, models.ColorRed, models.SizeBig},
		{7, models.ColorGreen, models.SizeBig},
		{8, models.ColorRed, models.SizeBig},
		{9, models.ColorGreen, models.SizeBig},
	}

	for _, e := range expected {
		outcome, ok := OutcomeOf(e.number)
		require.True(t, ok, "number %d", e.number)
		assert.Equal(t, e.color, outcome.Color, "color of %d", e.number)
		assert.Equal(t, e.size, outcome.Size, "size of %d", e.number)
	}
}

func TestOutcomeOfOutOfRange(t *testing.T) {
	for _, n := range []int{-1, 10, 100} {
		_, ok := OutcomeOf(n)
		assert.False(t, ok, "number %d", n)
	}
}

func TestNumbersWithColor(t *testing.T) {
	assert.Equal(t, []int{2, 4, 6, 8}, NumbersWithColor(models.ColorRed))
	assert.Equal(t, []int{1, 3, 7, 9}, NumbersWithColor(models.ColorGreen))
	assert.Equal(t, []int{0, 5}, NumbersWithColor(models.ColorViolet))
}

func TestNumbersWithSize(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3, 4}, NumbersWithSize(models.SizeSmall))
	assert.Equal(t, []int{5, 6, 7, 8, 9}, NumbersWithSize(models.SizeBig))
}
