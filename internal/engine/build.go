package engine

// build.go - full-refresh rebuild of every warehouse table

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/starmill/internal/publish"
	"github.com/leapstack-labs/starmill/internal/staging"
	"github.com/leapstack-labs/starmill/internal/state"
	"github.com/leapstack-labs/starmill/internal/warehouse"
)

// stagingDatasets are the inputs a rebuild consumes, by file stem.
var stagingDatasets = []string{
	"orders", "order_items", "products", "categories", "brands",
	"customers", "stores", "staffs",
}

// Build performs a full truncate-and-reload rebuild: Date and Region first,
// then the entity dimensions (Customer and Store depend on Region), then
// the fact table, publishing each table as it completes. The returned run
// reflects the final ledger state even when an error is also returned.
func (e *Engine) Build(ctx context.Context) (*state.Run, error) {
	run, err := e.store.CreateRun()
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	e.logger.Info("starting rebuild", "run_id", run.ID)

	buildErr := e.build(ctx, run)
	if buildErr != nil {
		e.logger.Error("rebuild failed", "run_id", run.ID, "error", buildErr.Error())
		_ = e.store.CompleteRun(run.ID, state.RunStatusFailed, buildErr.Error())
	} else {
		e.logger.Info("rebuild completed", "run_id", run.ID)
		_ = e.store.CompleteRun(run.ID, state.RunStatusCompleted, "")
	}

	run, _ = e.store.GetRun(run.ID)
	return run, buildErr
}

func (e *Engine) build(ctx context.Context, run *state.Run) error {
	datasets, err := staging.LoadDir(e.stagingDir, stagingDatasets...)
	if err != nil {
		return err
	}
	for _, name := range stagingDatasets {
		e.logger.Debug("loaded staging dataset", "dataset", name, "rows", datasets[name].Len())
	}

	if err := e.ensureStoreConnected(ctx); err != nil {
		return err
	}
	publisher, err := publish.New(e.warehouseDir, e.db, e.logger)
	if err != nil {
		return err
	}

	orders := datasets["orders"]
	items := datasets["order_items"]
	customers := datasets["customers"]
	stores := datasets["stores"]

	// Date and Region have no dependency on other dimensions.
	dates, err := warehouse.BuildDateDim([]warehouse.DateSource{
		{Dataset: orders, Columns: []string{"order_date", "required_date", "shipped_date"}},
	})
	if err != nil {
		return err
	}
	if err := e.publishTable(ctx, publisher, run, dates.Relation(), orders.Len()); err != nil {
		return err
	}

	regions, err := warehouse.BuildRegionDim(customers, stores)
	if err != nil {
		return err
	}
	if err := e.publishTable(ctx, publisher, run, regions.Relation(), customers.Len()+stores.Len()); err != nil {
		return err
	}

	products, err := warehouse.BuildProductDim(datasets["products"], datasets["categories"], datasets["brands"])
	if err != nil {
		return err
	}
	if err := e.publishTable(ctx, publisher, run, products.Relation(), datasets["products"].Len()); err != nil {
		return err
	}

	customerDim, err := warehouse.BuildCustomerDim(customers, regions)
	if err != nil {
		return err
	}
	e.warnUnmatchedRegions("dim_customer", countNilCustomerRegions(customerDim))
	if err := e.publishTable(ctx, publisher, run, customerDim.Relation(), customers.Len()); err != nil {
		return err
	}

	storeDim, err := warehouse.BuildStoreDim(stores, regions)
	if err != nil {
		return err
	}
	e.warnUnmatchedRegions("dim_store", countNilStoreRegions(storeDim))
	if err := e.publishTable(ctx, publisher, run, storeDim.Relation(), stores.Len()); err != nil {
		return err
	}

	staffDim, err := warehouse.BuildStaffDim(datasets["staffs"])
	if err != nil {
		return err
	}
	if err := e.publishTable(ctx, publisher, run, staffDim.Relation(), datasets["staffs"].Len()); err != nil {
		return err
	}

	// The fact assembler requires every dimension.
	fact, stats, err := warehouse.BuildFactSales(warehouse.FactInputs{
		Orders:     orders,
		OrderItems: items,
		Dates:      dates,
		Products:   products,
		Customers:  customerDim,
		Stores:     storeDim,
		Staff:      staffDim,
	}, e.policy)
	if err != nil {
		return err
	}
	for _, dim := range stats.DroppedDimensions() {
		e.logger.Warn("fact rows dropped by required dimension",
			"dimension", dim, "rows", stats.Dropped[dim])
	}
	if stats.Output == 0 {
		e.logger.Warn("fact table is empty", "order_rows", stats.OrderRows, "item_rows", stats.ItemRows)
	}

	rel := fact.Relation()
	if err := publisher.Publish(ctx, rel); err != nil {
		return err
	}
	e.logger.Info("published table", "table", rel.Name,
		"rows_in", stats.ItemRows, "rows_out", stats.Output, "dropped", stats.TotalDropped())
	return e.store.RecordTableLoad(state.TableLoad{
		RunID:   run.ID,
		Table:   rel.Name,
		RowsIn:  stats.ItemRows,
		RowsOut: stats.Output,
		Dropped: stats.TotalDropped(),
	})
}

// publishTable publishes a dimension and records its row accounting.
func (e *Engine) publishTable(ctx context.Context, publisher *publish.Publisher, run *state.Run, rel warehouse.Relation, rowsIn int) error {
	if err := publisher.Publish(ctx, rel); err != nil {
		return err
	}
	e.logger.Info("published table", "table", rel.Name, "rows_in", rowsIn, "rows_out", rel.Rows())
	return e.store.RecordTableLoad(state.TableLoad{
		RunID:   run.ID,
		Table:   rel.Name,
		RowsIn:  rowsIn,
		RowsOut: rel.Rows(),
	})
}

// warnUnmatchedRegions surfaces rows whose region triple resolved to
// nothing. An accepted gap, but a data-quality signal worth seeing.
func (e *Engine) warnUnmatchedRegions(table string, count int) {
	if count > 0 {
		e.logger.Warn("rows with unmatched region triple", "table", table, "rows", count)
	}
}

func countNilCustomerRegions(dim warehouse.CustomerDim) int {
	n := 0
	for _, r := range dim {
		if r.RegionID == nil {
			n++
		}
	}
	return n
}

func countNilStoreRegions(dim warehouse.StoreDim) int {
	n := 0
	for _, r := range dim {
		if r.RegionID == nil {
			n++
		}
	}
	return n
}
