package publish

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/starmill/internal/testutil"
	"github.com/leapstack-labs/starmill/internal/warehouse"
)

func testRelation() warehouse.Relation {
	return warehouse.Relation{
		Name:    "dim_region",
		Columns: []string{"region_id", "city", "state", "zip_code"},
		Records: [][]string{
			{"1", "Santa Cruz", "CA", "95060"},
			{"2", "Baldwin", "NY", ""},
		},
	}
}

func TestPublishFileOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "warehouse")

	p, err := New(dir, nil, testutil.NewTestLogger(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rel := testRelation()
	if err := p.Publish(context.Background(), rel); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	f, err := os.Open(p.Path("dim_region"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "region_id" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[2][3] != "" {
		t.Errorf("expected empty cell preserved, got %q", records[2][3])
	}
}

func TestPublishReplacesArtifact(t *testing.T) {
	dir := t.TempDir()
	p, err := New(dir, nil, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rel := testRelation()
	if err := p.Publish(context.Background(), rel); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	// Second publish with fewer rows must fully replace the file.
	rel.Records = rel.Records[:1]
	if err := p.Publish(context.Background(), rel); err != nil {
		t.Fatalf("second publish failed: %v", err)
	}

	f, err := os.Open(p.Path("dim_region"))
	if err != nil {
		t.Fatalf("failed to open artifact: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected header + 1 row after replacement, got %d records", len(records))
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "warehouse")
	if _, err := New(dir, nil, nil); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("warehouse directory not created: %v", err)
	}
}
