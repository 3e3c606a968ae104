package warehouse

import (
	"github.com/leapstack-labs/starmill/internal/staging"
)

// BuildStoreDim projects the store dataset onto the dimension attribute set
// with the same composite-key region binding as the customer dimension.
func BuildStoreDim(stores *staging.Dataset, regions RegionDim) (StoreDim, error) {
	required := append([]string{"store_id", "store_name", "phone", "email"}, locationColumns...)
	if err := stores.Require(required...); err != nil {
		return nil, err
	}

	regionIndex := regions.Index()
	seen := make(map[int]struct{})
	var dim StoreDim
	for row := 0; row < stores.Len(); row++ {
		id, ok := stores.Int(row, "store_id")
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		s := StoreRow{
			StoreID:   id,
			StoreName: stores.Value(row, "store_name"),
			Phone:     stores.Value(row, "phone"),
			Email:     stores.Value(row, "email"),
		}
		s.RegionID = resolveRegion(stores, row, regionIndex)
		dim = append(dim, s)
	}
	return dim, nil
}

// Index maps store keys to their region key for the fact assembler.
func (d StoreDim) Index() map[int]*int {
	idx := make(map[int]*int, len(d))
	for _, r := range d {
		idx[r.StoreID] = r.RegionID
	}
	return idx
}
