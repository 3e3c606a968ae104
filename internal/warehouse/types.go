// Package warehouse implements the dimensional modeling engine: it turns
// cleaned staging datasets into surrogate-keyed dimension tables and a
// sales fact table at order-item grain. Builders are pure functions over the
// inputs they are handed; no builder reads state it was not given.
package warehouse

import (
	"strconv"
	"time"
)

// DateRow is one calendar date that appears somewhere in the tracked date
// columns. The date is its own surrogate key, encoded as YYYYMMDD.
type DateRow struct {
	DateID  int
	Date    time.Time
	DayName string
	Month   string
	Year    int
	Quarter int
}

// RegionKey is the composite business key a region is identified by.
// No natural region identifier exists upstream, so the full triple is the key.
type RegionKey struct {
	City    string
	State   string
	ZipCode string
}

// RegionRow is one conformed (city, state, zip) region shared by customers
// and stores.
type RegionRow struct {
	RegionID int
	RegionKey
}

// ProductRow carries the denormalized product attributes. Category and brand
// names are nil when the reference lookup has no matching entry.
type ProductRow struct {
	ProductID    int
	ProductName  string
	CategoryName *string
	BrandName    *string
	ModelYear    int
	ListPrice    float64
}

// CustomerRow keeps the natural customer key and binds to a region by
// composite triple match. RegionID is nil for customers whose triple is
// absent from the region dimension.
type CustomerRow struct {
	CustomerID int
	RegionID   *int
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	LocalFlag  string
}

// StoreRow keeps the natural store key; region binding as for customers.
type StoreRow struct {
	StoreID   int
	RegionID  *int
	StoreName string
	Phone     string
	Email     string
}

// StaffRow keeps the natural staff key.
type StaffRow struct {
	StaffID   int
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Active    int
}

// FactRow is one order line item with surrogate foreign keys into every
// dimension plus the additive measures. Nullable foreign keys and measures
// are pointers; nil renders as an SQL NULL when published.
type FactRow struct {
	SalesKey         int
	OrderID          int
	ProductID        int
	CustomerID       int
	StoreID          int
	CustomerRegionID *int
	StoreRegionID    *int
	StaffID          int
	OrderDateID      *int
	RequiredDateID   *int
	ShippedDateID    *int
	Discount         float64
	DeliveryTimeDays *int
	LateDeliveryDays *int
	LateFlag         *int
	Status           string
	Quantity         int
	ListPriceLocal   float64
	TotalSales       float64
}

// Dimension and fact collections. Row order is the publish order and, for
// allocator-keyed tables, the key assignment order.
type (
	DateDim     []DateRow
	RegionDim   []RegionRow
	ProductDim  []ProductRow
	CustomerDim []CustomerRow
	StoreDim    []StoreRow
	StaffDim    []StaffRow
	FactTable   []FactRow
)

// Index returns the composite-key lookup used to resolve customers and
// stores to their region surrogate key.
func (d RegionDim) Index() map[RegionKey]int {
	idx := make(map[RegionKey]int, len(d))
	for _, r := range d {
		idx[r.RegionKey] = r.RegionID
	}
	return idx
}

// Relation is the publishable shape of a warehouse table: a name, ordered
// columns, and string-rendered records where "" encodes NULL.
type Relation struct {
	Name    string
	Columns []string
	Records [][]string
}

// Rows returns the record count.
func (r Relation) Rows() int { return len(r.Records) }

const dateFormat = "2006-01-02"

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatNullInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatNullString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// Relation renders the date dimension for publishing.
func (d DateDim) Relation() Relation {
	rel := Relation{
		Name:    "dim_date",
		Columns: []string{"date_id", "date", "day_name", "month", "year", "quarter"},
	}
	for _, r := range d {
		rel.Records = append(rel.Records, []string{
			formatInt(r.DateID), r.Date.Format(dateFormat), r.DayName,
			r.Month, formatInt(r.Year), formatInt(r.Quarter),
		})
	}
	return rel
}

// Relation renders the region dimension for publishing.
func (d RegionDim) Relation() Relation {
	rel := Relation{
		Name:    "dim_region",
		Columns: []string{"region_id", "city", "state", "zip_code"},
	}
	for _, r := range d {
		rel.Records = append(rel.Records, []string{
			formatInt(r.RegionID), r.City, r.State, r.ZipCode,
		})
	}
	return rel
}

// Relation renders the product dimension for publishing.
func (d ProductDim) Relation() Relation {
	rel := Relation{
		Name:    "dim_product",
		Columns: []string{"product_id", "product_name", "category_name", "brand_name", "model_year", "list_price"},
	}
	for _, r := range d {
		rel.Records = append(rel.Records, []string{
			formatInt(r.ProductID), r.ProductName, formatNullString(r.CategoryName),
			formatNullString(r.BrandName), formatInt(r.ModelYear), formatFloat(r.ListPrice),
		})
	}
	return rel
}

// Relation renders the customer dimension for publishing.
func (d CustomerDim) Relation() Relation {
	rel := Relation{
		Name:    "dim_customer",
		Columns: []string{"customer_id", "region_id", "first_name", "last_name", "phone", "email", "local_flag"},
	}
	for _, r := range d {
		rel.Records = append(rel.Records, []string{
			formatInt(r.CustomerID), formatNullInt(r.RegionID), r.FirstName,
			r.LastName, r.Phone, r.Email, r.LocalFlag,
		})
	}
	return rel
}

// Relation renders the store dimension for publishing.
func (d StoreDim) Relation() Relation {
	rel := Relation{
		Name:    "dim_store",
		Columns: []string{"store_id", "region_id", "store_name", "phone", "email"},
	}
	for _, r := range d {
		rel.Records = append(rel.Records, []string{
			formatInt(r.StoreID), formatNullInt(r.RegionID), r.StoreName, r.Phone, r.Email,
		})
	}
	return rel
}

// Relation renders the staff dimension for publishing.
func (d StaffDim) Relation() Relation {
	rel := Relation{
		Name:    "dim_staff",
		Columns: []string{"staff_id", "first_name", "last_name", "email", "phone", "active"},
	}
	for _, r := range d {
		rel.Records = append(rel.Records, []string{
			formatInt(r.StaffID), r.FirstName, r.LastName, r.Email, r.Phone, formatInt(r.Active),
		})
	}
	return rel
}

// Relation renders the sales fact table for publishing.
func (f FactTable) Relation() Relation {
	rel := Relation{
		Name: "fact_sales",
		Columns: []string{
			"sales_key", "order_id", "product_id", "customer_id", "store_id",
			"customer_region_id", "store_region_id", "staff_id",
			"order_date_id", "required_date_id", "shipped_date_id",
			"discount", "delivery_time_days", "late_delivery_days", "late_flag",
			"status", "quantity", "list_price_local", "total_sales",
		},
	}
	for _, r := range f {
		rel.Records = append(rel.Records, []string{
			formatInt(r.SalesKey), formatInt(r.OrderID), formatInt(r.ProductID),
			formatInt(r.CustomerID), formatInt(r.StoreID),
			formatNullInt(r.CustomerRegionID), formatNullInt(r.StoreRegionID),
			formatInt(r.StaffID),
			formatNullInt(r.OrderDateID), formatNullInt(r.RequiredDateID), formatNullInt(r.ShippedDateID),
			formatFloat(r.Discount),
			formatNullInt(r.DeliveryTimeDays), formatNullInt(r.LateDeliveryDays), formatNullInt(r.LateFlag),
			r.Status, formatInt(r.Quantity), formatFloat(r.ListPriceLocal), formatFloat(r.TotalSales),
		})
	}
	return rel
}
