package staging

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv", "order_id,order_date\n1,2016-01-01\n2,2016-01-02\n")

	ds, err := ReadCSV(filepath.Join(dir, "orders.csv"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if ds.Name() != "orders" {
		t.Errorf("expected dataset name orders, got %s", ds.Name())
	}
	if got := ds.Columns(); len(got) != 2 || got[0] != "order_id" || got[1] != "order_date" {
		t.Errorf("unexpected columns: %v", got)
	}
	if ds.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", ds.Len())
	}
	if got := ds.Value(1, "order_date"); got != "2016-01-02" {
		t.Errorf("expected 2016-01-02, got %q", got)
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stores.csv", "store_id,city,state\n1,Santa Cruz\n")

	ds, err := ReadCSV(filepath.Join(dir, "stores.csv"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if got := ds.Value(0, "state"); got != "" {
		t.Errorf("expected short row to pad with empty cell, got %q", got)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.csv", "")

	if _, err := ReadCSV(filepath.Join(dir, "empty.csv")); err == nil {
		t.Fatal("expected error for file without header row")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv", "order_id\n1\n")
	writeFile(t, dir, "customers.csv", "customer_id\n7\n")

	datasets, err := LoadDir(dir, "orders", "customers")
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(datasets))
	}
	if datasets["orders"].Len() != 1 || datasets["customers"].Len() != 1 {
		t.Error("unexpected dataset sizes")
	}
}

func TestLoadDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.csv", "order_id\n1\n")

	if _, err := LoadDir(dir, "orders", "staffs"); err == nil {
		t.Fatal("expected missing staging file to be fatal")
	}
}
