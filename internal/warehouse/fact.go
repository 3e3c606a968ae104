package warehouse

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/leapstack-labs/starmill/internal/staging"
)

// Dimension names a fact row can be required to resolve. Requiring a
// dimension makes its join an inner join: an unresolvable key drops the fact
// row. Optional dimensions null the foreign key instead.
const (
	DimOrderDate = "order_date"
	DimProduct   = "product"
	DimCustomer  = "customer"
	DimStore     = "store"
	DimStaff     = "staff"
)

var knownDimensions = []string{DimOrderDate, DimProduct, DimCustomer, DimStore, DimStaff}

// FactPolicy makes the required-versus-optional dimension set explicit
// instead of leaving it implicit in join choice.
type FactPolicy struct {
	required map[string]bool
}

// DefaultFactPolicy requires every joinable dimension, which is the policy
// that guarantees referential completeness of the published fact table.
func DefaultFactPolicy() FactPolicy {
	return FactPolicy{required: map[string]bool{
		DimOrderDate: true,
		DimProduct:   true,
		DimCustomer:  true,
		DimStore:     true,
		DimStaff:     true,
	}}
}

// NewFactPolicy builds a policy from configuration. Unknown dimension names
// are rejected so a typo cannot silently relax the policy.
func NewFactPolicy(required []string) (FactPolicy, error) {
	known := make(map[string]bool, len(knownDimensions))
	for _, d := range knownDimensions {
		known[d] = true
	}
	p := FactPolicy{required: make(map[string]bool, len(required))}
	for _, d := range required {
		if !known[d] {
			return FactPolicy{}, fmt.Errorf("unknown fact dimension %q (known: %s)",
				d, strings.Join(knownDimensions, ", "))
		}
		p.required[d] = true
	}
	return p, nil
}

// Requires reports whether the named dimension must resolve for a fact row
// to survive.
func (p FactPolicy) Requires(dim string) bool { return p.required[dim] }

// FactInputs carries everything the assembler joins against. All dimensions
// must already be built.
type FactInputs struct {
	Orders     *staging.Dataset
	OrderItems *staging.Dataset
	Dates      DateDim
	Products   ProductDim
	Customers  CustomerDim
	Stores     StoreDim
	Staff      StaffDim
}

// FactStats records row counts through the join sequence so silent row loss
// is observable by the caller.
type FactStats struct {
	OrderRows int
	ItemRows  int
	GrainRows int            // after the order-to-item inner join
	Dropped   map[string]int // rows removed per required dimension
	Output    int
}

// orderHeader is a parsed order row. Dates carry their parse status; a
// failed parse is an absent date, not an error.
type orderHeader struct {
	orderID      int
	customerID   int
	storeID      int
	staffID      int
	status       string
	orderDate    time.Time
	hasOrderDate bool
	requiredDate time.Time
	hasRequired  bool
	shippedDate  time.Time
	hasShipped   bool
}

// statusLabels maps the retail source's numeric order status codes to
// their labels. Unknown codes pass through as the raw cell value.
var statusLabels = map[int]string{
	1: "Pending",
	2: "Processing",
	3: "Rejected",
	4: "Completed",
}

// BuildFactSales assembles the fact table at order-item grain. The join
// sequence is fixed: the order-to-item inner join sets the grain, dates are
// normalized, then each dimension resolves in turn with drop-or-null
// behavior decided by the policy. Surrogate keys are assigned dense and
// 1-based in output row order, and total_sales is derived last.
//
// An empty result is not an error here; the caller is expected to surface it
// as a data-quality signal.
func BuildFactSales(in FactInputs, policy FactPolicy) (FactTable, FactStats, error) {
	stats := FactStats{Dropped: make(map[string]int)}

	if err := in.Orders.Require("order_id", "customer_id", "store_id", "staff_id",
		"order_date", "required_date", "shipped_date", "order_status"); err != nil {
		return nil, stats, err
	}
	if err := in.OrderItems.Require("order_id", "product_id", "quantity", "discount", "list_price_local"); err != nil {
		return nil, stats, err
	}

	stats.OrderRows = in.Orders.Len()
	stats.ItemRows = in.OrderItems.Len()

	dateIndex := in.Dates.Index()
	productIndex := in.Products.Index()
	customerIndex := in.Customers.Index()
	storeIndex := in.Stores.Index()
	staffIndex := in.Staff.Index()

	itemsByOrder := groupItemRows(in.OrderItems)

	seq := NewSequence()
	var fact FactTable
	for row := 0; row < in.Orders.Len(); row++ {
		hdr, ok := parseOrderHeader(in.Orders, row)
		if !ok {
			continue
		}
		items := itemsByOrder[hdr.orderID]
		stats.GrainRows += len(items)

		for _, itemRow := range items {
			r, dropped := assembleRow(in.OrderItems, itemRow, hdr, policy,
				dateIndex, productIndex, customerIndex, storeIndex, staffIndex)
			if dropped != "" {
				stats.Dropped[dropped]++
				continue
			}
			key := seq.Next()
			r.SalesKey = key
			r.TotalSales = float64(r.Quantity) * r.ListPriceLocal * (1 - r.Discount)
			fact = append(fact, r)
		}
	}
	stats.Output = len(fact)
	return fact, stats, nil
}

// groupItemRows indexes order-item row numbers by order key, preserving
// source row order within each order.
func groupItemRows(items *staging.Dataset) map[int][]int {
	grouped := make(map[int][]int)
	for row := 0; row < items.Len(); row++ {
		orderID, ok := items.Int(row, "order_id")
		if !ok {
			continue
		}
		grouped[orderID] = append(grouped[orderID], row)
	}
	return grouped
}

func parseOrderHeader(orders *staging.Dataset, row int) (orderHeader, bool) {
	var hdr orderHeader
	var ok bool
	if hdr.orderID, ok = orders.Int(row, "order_id"); !ok {
		return hdr, false
	}
	hdr.customerID, _ = orders.Int(row, "customer_id")
	hdr.storeID, _ = orders.Int(row, "store_id")
	hdr.staffID, _ = orders.Int(row, "staff_id")
	hdr.orderDate, hdr.hasOrderDate = orders.Date(row, "order_date")
	hdr.requiredDate, hdr.hasRequired = orders.Date(row, "required_date")
	hdr.shippedDate, hdr.hasShipped = orders.Date(row, "shipped_date")

	raw := orders.Value(row, "order_status")
	if code, ok := staging.ParseInt(raw); ok {
		if label, known := statusLabels[code]; known {
			hdr.status = label
		} else {
			hdr.status = raw
		}
	} else {
		hdr.status = raw
	}
	return hdr, true
}

// assembleRow resolves one order item against every dimension. The returned
// dimension name is non-empty when the row was dropped by a required join.
func assembleRow(items *staging.Dataset, itemRow int, hdr orderHeader, policy FactPolicy,
	dateIndex map[int]struct{}, productIndex map[int]struct{},
	customerIndex map[int]*int, storeIndex map[int]*int, staffIndex map[int]struct{},
) (FactRow, string) {
	r := FactRow{
		OrderID:    hdr.orderID,
		CustomerID: hdr.customerID,
		StoreID:    hdr.storeID,
		StaffID:    hdr.staffID,
		Status:     hdr.status,
	}
	r.ProductID, _ = items.Int(itemRow, "product_id")
	r.Quantity, _ = items.Int(itemRow, "quantity")
	r.Discount, _ = items.Float(itemRow, "discount")
	r.ListPriceLocal, _ = items.Float(itemRow, "list_price_local")

	// Order date: the one join where a missing match can eliminate the row.
	r.OrderDateID = resolveDate(hdr.orderDate, hdr.hasOrderDate, dateIndex)
	if r.OrderDateID == nil && policy.Requires(DimOrderDate) {
		return r, DimOrderDate
	}

	// Required and shipped dates may legitimately be unset; absence nulls
	// the key regardless of policy.
	r.RequiredDateID = resolveDate(hdr.requiredDate, hdr.hasRequired, dateIndex)
	r.ShippedDateID = resolveDate(hdr.shippedDate, hdr.hasShipped, dateIndex)

	if _, ok := productIndex[r.ProductID]; !ok && policy.Requires(DimProduct) {
		return r, DimProduct
	}
	regionID, ok := customerIndex[r.CustomerID]
	if !ok && policy.Requires(DimCustomer) {
		return r, DimCustomer
	}
	if ok {
		r.CustomerRegionID = regionID
	}
	regionID, ok = storeIndex[r.StoreID]
	if !ok && policy.Requires(DimStore) {
		return r, DimStore
	}
	if ok {
		r.StoreRegionID = regionID
	}
	if _, ok := staffIndex[r.StaffID]; !ok && policy.Requires(DimStaff) {
		return r, DimStaff
	}

	r.DeliveryTimeDays, r.LateDeliveryDays, r.LateFlag = deliveryMeasures(hdr)
	return r, ""
}

// resolveDate returns the date surrogate key when the date exists and is
// present in the dimension, nil otherwise.
func resolveDate(d time.Time, has bool, index map[int]struct{}) *int {
	if !has {
		return nil
	}
	id := dateID(d)
	if _, ok := index[id]; !ok {
		return nil
	}
	return &id
}

// deliveryMeasures derives the delivery metrics from the order's dates.
// Every metric that depends on a date that never existed is nil, not zero.
func deliveryMeasures(hdr orderHeader) (deliveryDays, lateDays, lateFlag *int) {
	if hdr.hasOrderDate && hdr.hasShipped {
		d := daysBetween(hdr.orderDate, hdr.shippedDate)
		deliveryDays = &d
	}
	if hdr.hasRequired && hdr.hasShipped {
		d := daysBetween(hdr.requiredDate, hdr.shippedDate)
		lateDays = &d
		flag := 0
		if d > 0 {
			flag = 1
		}
		lateFlag = &flag
	}
	return deliveryDays, lateDays, lateFlag
}

// daysBetween returns whole days from a to b; negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// DroppedDimensions lists the dimensions that removed rows, sorted, for
// stable log output.
func (s FactStats) DroppedDimensions() []string {
	dims := make([]string, 0, len(s.Dropped))
	for d := range s.Dropped {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	return dims
}

// TotalDropped sums rows removed by required joins.
func (s FactStats) TotalDropped() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}
