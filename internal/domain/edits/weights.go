package edits

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/painel/internal/domain/normalize"
)

// WeightTotal is the required sum of indicator weights in one period.
const WeightTotal = 10.0

const weightTolerance = 1e-9

// ValidateWeightSum checks that values (indicator to weight) sum to
// WeightTotal for period.
func ValidateWeightSum(values map[string]string, period string) error {
	var sum float64
	for _, v := range values {
		sum += normalize.Number(v)
	}
	if math.Abs(sum-WeightTotal) > weightTolerance {
		return fmt.Errorf("%w: period %s sums to %s", ErrWeightSum, period, normalize.Decimal(round(sum)))
	}
	return nil
}

// ValidateWeights checks every period column of a weight table after
// applying pending on top of current. current maps period to indicator
// to value; only periods touched by pending are checked.
func ValidateWeights(current map[string]map[string]string, pending []Change) error {
	merged := make(map[string]map[string]string)
	for _, c := range pending {
		period := c.Field
		if _, ok := merged[period]; !ok {
			col := make(map[string]string, len(current[period]))
			for k, v := range current[period] {
				col[k] = v
			}
			merged[period] = col
		}
		merged[period][c.Entity] = c.Value
	}

	periods := make([]string, 0, len(merged))
	for p := range merged {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	var errs []string
	for _, p := range periods {
		if err := ValidateWeightSum(merged[p], p); err != nil {
			errs = append(errs, strings.TrimPrefix(err.Error(), ErrWeightSum.Error()+": "))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrWeightSum, strings.Join(errs, "; "))
	}
	return nil
}

func round(v float64) float64 { return math.Round(v*1e6) / 1e6 }
