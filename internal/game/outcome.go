// Package game holds the pure betting rules of Color Clash: the fixed
// number-to-outcome mapping, the odds table, and the winner selection
// policies. Nothing in this package touches storage or transport.
package game

import "github.com/ninelive/colorclash-backend/internal/models"

// Outcome is the color and size a winning number maps to.
type Outcome struct {
	Color models.Color
	Size  models.Size
}

// numberOutcomes is the fixed, process-lifetime mapping for numbers 0-9.
// 0 and 5 are Violet; the rest alternate Green (odd) and Red (even);
// 0-4 are Small, 5-9 are Big.
var numberOutcomes = [10]Outcome{
	0: {Color: models.ColorViolet, Size: models.SizeSmall},
	1: {Color: models.ColorGreen, Size: models.SizeSmall},
	2: {Color: models.ColorRed, Size: models.SizeSmall},
	3: {Color: models.ColorGreen, Size: models.SizeSmall},
	4: {Color: models.ColorRed, Size: models.SizeSmall},
	5: {Color: models.ColorViolet, Size: models.SizeBig},
	6: {Color: models.ColorRed, Size: models.SizeBig},
	7: {Color: models.ColorGreen, Size: models.SizeBig},
	8: {Color: models.ColorRed, Size: models.SizeBig},
	9: {Color: models.ColorGreen, Size: models.SizeBig},
}

// OutcomeOf returns the outcome mapping for a number. ok is false outside
// [0,9].
func OutcomeOf(n int) (Outcome, bool) {
	if n < 0 || n > 9 {
		return Outcome{}, false
	}
	return numberOutcomes[n], true
}

// NumbersWithColor returns the numbers mapping to the given color.
func NumbersWithColor(c models.Color) []int {
	var nums []int
	for n, o := range numberOutcomes {
		if o.Color == c {
			nums = append(nums, n)
		}
	}
	return nums
}

// NumbersWithSize returns the numbers mapping to the given size.
func NumbersWithSize(s models.Size) []int {
	var nums []int
	for n, o := range numberOutcomes {
		if o.Size == s {
			nums = append(nums, n)
		}
	}
	return nums
}
