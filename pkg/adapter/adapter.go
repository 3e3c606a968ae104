// Package adapter provides the queryable-store contract for starmill's
// warehouse publisher. Concrete adapter implementations live in
// pkg/adapters/ subdirectories and register themselves by name.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the configuration for connecting to a warehouse store.
type Config struct {
	// Type specifies the store type (e.g., "duckdb", "postgres")
	Type string `koanf:"type"`

	// Path is the file path for file-based stores (e.g., DuckDB)
	// Use ":memory:" for an in-memory store
	Path string `koanf:"path"`

	// Host is the hostname for network-based stores
	Host string `koanf:"host"`

	// Port is the port number for network-based stores
	Port int `koanf:"port"`

	// Database is the database name
	Database string `koanf:"database"`

	// Username for authentication
	Username string `koanf:"username"`

	// Password for authentication
	Password string `koanf:"password"`

	// Schema is the default schema to use
	Schema string `koanf:"schema"`

	// Options contains additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// Column represents a column in a store table.
type Column struct {
	// Name is the column name
	Name string

	// Type is the data type of the column
	Type string

	// Nullable indicates whether the column allows NULL values
	Nullable bool

	// Position is the ordinal position of the column in the table
	Position int
}

// Metadata holds metadata about a store table.
type Metadata struct {
	// Schema is the schema containing the table
	Schema string

	// Name is the table name
	Name string

	// Columns contains metadata for each column
	Columns []Column

	// RowCount is the approximate number of rows (may not be exact)
	RowCount int64
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// Adapter defines the interface that all warehouse store adapters must
// implement. It provides methods for connecting, executing SQL, retrieving
// metadata, and replacing a table from a CSV artifact.
type Adapter interface {
	// Connect establishes a connection to the store using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the store connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// GetTableMetadata retrieves metadata for a specified table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// LoadCSV fully replaces the named table with the contents of a CSV
	// file. This is the publisher's store-side write: any previous version
	// of the table is dropped.
	LoadCSV(ctx context.Context, tableName string, filePath string) error
}
