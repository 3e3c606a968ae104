package warehouse

import (
	"testing"
	"time"
)

func TestDateDimRelation(t *testing.T) {
	dim := DateDim{
		{DateID: 20160101, Date: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC),
			DayName: "Friday", Month: "January", Year: 2016, Quarter: 1},
	}

	rel := dim.Relation()
	if rel.Name != "dim_date" {
		t.Errorf("name = %s, want dim_date", rel.Name)
	}
	if rel.Rows() != 1 {
		t.Fatalf("expected 1 record, got %d", rel.Rows())
	}

	want := []string{"20160101", "2016-01-01", "Friday", "January", "2016", "1"}
	got := rel.Records[0]
	if len(got) != len(rel.Columns) {
		t.Fatalf("record width %d does not match column count %d", len(got), len(rel.Columns))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %s = %q, want %q", rel.Columns[i], got[i], want[i])
		}
	}
}

func TestNullRendering(t *testing.T) {
	// Absent keys and names render as empty cells, which both store
	// adapters load as NULL.
	dim := CustomerDim{
		{CustomerID: 2, RegionID: nil, FirstName: "Kasha", LastName: "Todd"},
	}
	rel := dim.Relation()
	if got := rel.Records[0][1]; got != "" {
		t.Errorf("nil region_id rendered as %q, want empty", got)
	}

	products := ProductDim{{ProductID: 1, ProductName: "Trail King"}}
	prel := products.Relation()
	if got := prel.Records[0][2]; got != "" {
		t.Errorf("nil category_name rendered as %q, want empty", got)
	}
}

func TestFactRelationShape(t *testing.T) {
	orderDate := 20160101
	fact := FactTable{
		{
			SalesKey: 1, OrderID: 1, ProductID: 1, CustomerID: 1, StoreID: 1,
			StaffID: 1, OrderDateID: &orderDate, Discount: 0.2, Status: "Completed",
			Quantity: 2, ListPriceLocal: 100, TotalSales: 160,
		},
	}

	rel := fact.Relation()
	if rel.Name != "fact_sales" {
		t.Errorf("name = %s, want fact_sales", rel.Name)
	}
	if len(rel.Columns) != 19 {
		t.Fatalf("expected 19 columns, got %d", len(rel.Columns))
	}
	rec := rel.Records[0]
	if len(rec) != len(rel.Columns) {
		t.Fatalf("record width %d does not match column count %d", len(rec), len(rel.Columns))
	}

	cols := make(map[string]string, len(rec))
	for i, c := range rel.Columns {
		cols[c] = rec[i]
	}
	if cols["sales_key"] != "1" {
		t.Errorf("sales_key = %q", cols["sales_key"])
	}
	if cols["order_date_id"] != "20160101" {
		t.Errorf("order_date_id = %q", cols["order_date_id"])
	}
	if cols["shipped_date_id"] != "" {
		t.Errorf("shipped_date_id = %q, want empty", cols["shipped_date_id"])
	}
	if cols["discount"] != "0.2" {
		t.Errorf("discount = %q", cols["discount"])
	}
	if cols["total_sales"] != "160" {
		t.Errorf("total_sales = %q", cols["total_sales"])
	}
}

func TestSequence(t *testing.T) {
	seq := NewSequence()
	if seq.Last() != 0 {
		t.Errorf("fresh sequence Last = %d, want 0", seq.Last())
	}
	for want := 1; want <= 3; want++ {
		if got := seq.Next(); got != want {
			t.Errorf("Next = %d, want %d", got, want)
		}
	}
	if seq.Last() != 3 {
		t.Errorf("Last = %d, want 3", seq.Last())
	}
}
