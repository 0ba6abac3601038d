package vision

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/susu3304/haileybot/internal/food"
)

const MsgNothingDetected = "Unable to detect this object. What is it ?"

// FormatPredictions renders one block per prediction, in the order the
// classifier returned them.
func FormatPredictions(preds []Prediction, table *food.Table) string {
	if len(preds) == 0 {
		return MsgNothingDetected
	}
	blocks := make([]string, 0, len(preds))
	for _, p := range preds {
		d := table.Lookup(p.Label)
		blocks = append(blocks, fmt.Sprintf("Result: %s\nScore: %s%%\nCalories: %s\nRecommendation: %s",
			d.DisplayName, Percentage(p.Score), d.Calories.String(), d.Recommendation))
	}
	return strings.Join(blocks, "\n\n")
}

// Percentage formats a [0,1] score as a percentage with four decimals.
func Percentage(score float64) string {
	return decimal.NewFromFloat(score).Shift(2).StringFixed(4)
}
