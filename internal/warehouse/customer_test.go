package warehouse

import (
	"testing"

	"github.com/leapstack-labs/starmill/internal/staging"
)

var customerColumns = []string{
	"customer_id", "first_name", "last_name", "phone", "email", "local_flag",
	"city", "state", "zip_code",
}

func TestBuildCustomerDim(t *testing.T) {
	customers := staging.New("customers", customerColumns, [][]string{
		{"1", "Debra", "Burks", "", "debra@example.com", "Y", "Orchard Park", "NY", "14127"},
		{"2", "Kasha", "Todd", "", "kasha@example.com", "N", "Atlantis", "ZZ", "00000"}, // no matching region
		{"1", "Debra", "Duplicate", "", "", "Y", "Orchard Park", "NY", "14127"},
	})
	regions := RegionDim{
		{RegionID: 1, RegionKey: RegionKey{City: "Orchard Park", State: "NY", ZipCode: "14127"}},
	}

	dim, err := BuildCustomerDim(customers, regions)
	if err != nil {
		t.Fatalf("BuildCustomerDim failed: %v", err)
	}

	if len(dim) != 2 {
		t.Fatalf("expected 2 customers after dedupe, got %d", len(dim))
	}

	first := dim[0]
	if first.LastName != "Burks" {
		t.Errorf("duplicate did not keep first occurrence: %+v", first)
	}
	if first.RegionID == nil || *first.RegionID != 1 {
		t.Errorf("expected region 1, got %v", first.RegionID)
	}
	if first.LocalFlag != "Y" {
		t.Errorf("local_flag = %q, want Y", first.LocalFlag)
	}

	// An unmatched triple keeps the customer with a null region key.
	second := dim[1]
	if second.RegionID != nil {
		t.Errorf("expected nil region for unmatched triple, got %d", *second.RegionID)
	}
}

func TestCustomerDimIndex(t *testing.T) {
	regionID := 3
	dim := CustomerDim{
		{CustomerID: 10, RegionID: &regionID},
		{CustomerID: 11, RegionID: nil},
	}

	idx := dim.Index()
	if got, ok := idx[10]; !ok || got == nil || *got != 3 {
		t.Errorf("expected region 3 for customer 10, got %v", got)
	}
	if got, ok := idx[11]; !ok || got != nil {
		t.Errorf("expected nil region for customer 11, got %v", got)
	}
	if _, ok := idx[12]; ok {
		t.Error("unexpected entry for unknown customer")
	}
}

func TestBuildStoreDim(t *testing.T) {
	stores := staging.New("stores",
		[]string{"store_id", "store_name", "phone", "email", "city", "state", "zip_code"},
		[][]string{
			{"1", "Santa Cruz Bikes", "(831) 476-4321", "santacruz@example.com", "Santa Cruz", "CA", "95060"},
			{"2", "Baldwin Bikes", "(516) 379-8888", "baldwin@example.com", "Baldwin", "NY", "11432"},
		})
	regions := RegionDim{
		{RegionID: 5, RegionKey: RegionKey{City: "Santa Cruz", State: "CA", ZipCode: "95060"}},
	}

	dim, err := BuildStoreDim(stores, regions)
	if err != nil {
		t.Fatalf("BuildStoreDim failed: %v", err)
	}

	if len(dim) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(dim))
	}
	if dim[0].RegionID == nil || *dim[0].RegionID != 5 {
		t.Errorf("expected region 5 for first store, got %v", dim[0].RegionID)
	}
	if dim[1].RegionID != nil {
		t.Errorf("expected nil region for unmatched store, got %d", *dim[1].RegionID)
	}
	if dim[0].StoreName != "Santa Cruz Bikes" {
		t.Errorf("unexpected store name %q", dim[0].StoreName)
	}
}

func TestBuildStaffDim(t *testing.T) {
	staffs := staging.New("staffs",
		[]string{"staff_id", "first_name", "last_name", "email", "phone", "active"},
		[][]string{
			{"1", "Fabiola", "Jackson", "fabiola@example.com", "(831) 555-5554", "1"},
			{"2", "Mireya", "Copeland", "mireya@example.com", "", "0"},
		})

	dim, err := BuildStaffDim(staffs)
	if err != nil {
		t.Fatalf("BuildStaffDim failed: %v", err)
	}

	if len(dim) != 2 {
		t.Fatalf("expected 2 staff rows, got %d", len(dim))
	}
	if dim[0].Active != 1 || dim[1].Active != 0 {
		t.Errorf("unexpected active flags: %d, %d", dim[0].Active, dim[1].Active)
	}

	idx := dim.Index()
	if _, ok := idx[2]; !ok {
		t.Error("expected staff 2 in index")
	}
}
