package warehouse

import (
	"github.com/leapstack-labs/starmill/internal/staging"
)

// BuildStaffDim projects the staff dataset onto the dimension attribute set.
// No lookups are needed; the natural staff key passes through.
func BuildStaffDim(staffs *staging.Dataset) (StaffDim, error) {
	if err := staffs.Require("staff_id", "first_name", "last_name", "email", "phone", "active"); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	var dim StaffDim
	for row := 0; row < staffs.Len(); row++ {
		id, ok := staffs.Int(row, "staff_id")
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		s := StaffRow{
			StaffID:   id,
			FirstName: staffs.Value(row, "first_name"),
			LastName:  staffs.Value(row, "last_name"),
			Email:     staffs.Value(row, "email"),
			Phone:     staffs.Value(row, "phone"),
		}
		s.Active, _ = staffs.Int(row, "active")
		dim = append(dim, s)
	}
	return dim, nil
}

// Index returns the staff-key set used by the fact assembler.
func (d StaffDim) Index() map[int]struct{} {
	idx := make(map[int]struct{}, len(d))
	for _, r := range d {
		idx[r.StaffID] = struct{}{}
	}
	return idx
}
