package sales

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var layouts = []string{"02/01/2006", "2/1/2006", "02/01/06", "2/1/06", "2006-01-02"}

// ParseDate reads dd/mm/yyyy, dd/mm/yy, yyyy-mm-dd and serial day numbers.
// A trailing time of day is ignored.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrBadDate)
	}
	day, _, _ := strings.Cut(s, " ")
	if len(day) > 10 && day[10] == 'T' {
		day = day[:10]
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, day); err == nil {
			return t, nil
		}
	}
	if n, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil && n > 0 && n < 2958466 {
		return serialEpoch.AddDate(0, 0, int(math.Floor(n))), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}
