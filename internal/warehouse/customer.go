package warehouse

import (
	"github.com/leapstack-labs/starmill/internal/staging"
)

// BuildCustomerDim projects the customer dataset onto the dimension
// attribute set, resolving each customer's region through a left-outer join
// on the composite (city, state, zip) key. A customer whose triple is not in
// the region dimension keeps its row with a nil region key; resolving that
// gap is left to the caller's data-quality reporting.
func BuildCustomerDim(customers *staging.Dataset, regions RegionDim) (CustomerDim, error) {
	required := append([]string{"customer_id", "first_name", "last_name", "phone", "email", "local_flag"}, locationColumns...)
	if err := customers.Require(required...); err != nil {
		return nil, err
	}

	regionIndex := regions.Index()
	seen := make(map[int]struct{})
	var dim CustomerDim
	for row := 0; row < customers.Len(); row++ {
		id, ok := customers.Int(row, "customer_id")
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		c := CustomerRow{
			CustomerID: id,
			FirstName:  customers.Value(row, "first_name"),
			LastName:   customers.Value(row, "last_name"),
			Phone:      customers.Value(row, "phone"),
			Email:      customers.Value(row, "email"),
			LocalFlag:  customers.Value(row, "local_flag"),
		}
		c.RegionID = resolveRegion(customers, row, regionIndex)
		dim = append(dim, c)
	}
	return dim, nil
}

// Index maps customer keys to their region key for the fact assembler.
func (d CustomerDim) Index() map[int]*int {
	idx := make(map[int]*int, len(d))
	for _, r := range d {
		idx[r.CustomerID] = r.RegionID
	}
	return idx
}

// resolveRegion looks up the row's location triple in the region index.
func resolveRegion(ds *staging.Dataset, row int, index map[RegionKey]int) *int {
	key := RegionKey{
		City:    ds.Value(row, "city"),
		State:   ds.Value(row, "state"),
		ZipCode: ds.Value(row, "zip_code"),
	}
	if id, ok := index[key]; ok {
		return &id
	}
	return nil
}
