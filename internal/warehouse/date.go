package warehouse

import (
	"sort"
	"time"

	"github.com/leapstack-labs/starmill/internal/staging"
)

// DateSource declares which columns of a dataset hold date values for the
// calendar dimension.
type DateSource struct {
	Dataset *staging.Dataset
	Columns []string
}

// BuildDateDim scans every declared date column across every declared
// dataset, pools the values that parse as calendar dates, and emits one row
// per distinct date, sorted ascending. Unparsable values are dropped
// silently: an absent date is not an error. The calendar is sparse - no rows
// are synthesized for dates that never appear.
func BuildDateDim(sources []DateSource) (DateDim, error) {
	for _, src := range sources {
		if err := src.Dataset.Require(src.Columns...); err != nil {
			return nil, err
		}
	}

	seen := make(map[int]time.Time)
	for _, src := range sources {
		for row := 0; row < src.Dataset.Len(); row++ {
			for _, col := range src.Columns {
				d, ok := src.Dataset.Date(row, col)
				if !ok {
					continue
				}
				seen[dateID(d)] = d
			}
		}
	}

	dim := make(DateDim, 0, len(seen))
	for id, d := range seen {
		dim = append(dim, DateRow{
			DateID:  id,
			Date:    d,
			DayName: d.Weekday().String(),
			Month:   d.Month().String(),
			Year:    d.Year(),
			Quarter: (int(d.Month())-1)/3 + 1,
		})
	}
	sort.Slice(dim, func(i, j int) bool { return dim[i].Date.Before(dim[j].Date) })
	return dim, nil
}

// dateID encodes a calendar date as its YYYYMMDD surrogate key.
func dateID(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Index returns a date_id set for foreign-key resolution.
func (d DateDim) Index() map[int]struct{} {
	idx := make(map[int]struct{}, len(d))
	for _, r := range d {
		idx[r.DateID] = struct{}{}
	}
	return idx
}
