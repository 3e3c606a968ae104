package warehouse

import (
	"github.com/leapstack-labs/starmill/internal/staging"
)

// locationColumns is the composite business key shared by customers and
// stores.
var locationColumns = []string{"city", "state", "zip_code"}

// BuildRegionDim unions the (city, state, zip) triples of the customer and
// store datasets into one conformed dimension. Customers are scanned before
// stores and triples keep first-seen order, so surrogate keys are
// deterministic for a given input ordering. The keys carry no meaning beyond
// identity.
func BuildRegionDim(customers, stores *staging.Dataset) (RegionDim, error) {
	if err := customers.Require(locationColumns...); err != nil {
		return nil, err
	}
	if err := stores.Require(locationColumns...); err != nil {
		return nil, err
	}

	seq := NewSequence()
	seen := make(map[RegionKey]struct{})
	var dim RegionDim
	for _, ds := range []*staging.Dataset{customers, stores} {
		for row := 0; row < ds.Len(); row++ {
			key := RegionKey{
				City:    ds.Value(row, "city"),
				State:   ds.Value(row, "state"),
				ZipCode: ds.Value(row, "zip_code"),
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			dim = append(dim, RegionRow{RegionID: seq.Next(), RegionKey: key})
		}
	}
	return dim, nil
}
