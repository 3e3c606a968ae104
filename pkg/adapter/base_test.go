package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSQLAdapter_Close(t *testing.T) {
	t.Run("close with nil DB", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		assert.NoError(t, base.Close())
	})

	t.Run("close with open DB", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectClose()

		base := &BaseSQLAdapter{DB: db}
		assert.NoError(t, base.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		expectErr bool
		errMsg    string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "store connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("DROP TABLE IF EXISTS dim_date").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql:       "DROP TABLE IF EXISTS dim_date",
			expectErr: false,
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			var mock sqlmock.Sqlmock
			if tt.setupDB {
				db, m, err := sqlmock.New()
				require.NoError(t, err)
				defer db.Close()
				mock = m
				base.DB = db
			}
			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			err := base.Exec(context.Background(), tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	t.Run("query without connection", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		_, err := base.Query(context.Background(), "SELECT 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store connection not established")
	})

	t.Run("query success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT region_id FROM dim_region").
			WillReturnRows(sqlmock.NewRows([]string{"region_id"}).AddRow(1).AddRow(2))

		base := &BaseSQLAdapter{DB: db}
		rows, err := base.Query(context.Background(), "SELECT region_id FROM dim_region")
		require.NoError(t, err)
		defer rows.Close()

		var count int
		for rows.Next() {
			count++
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, 2, count)
	})
}

func TestParseQualifiedName(t *testing.T) {
	tests := []struct {
		input      string
		wantSchema string
		wantName   string
	}{
		{"fact_sales", "main", "fact_sales"},
		{"analytics.fact_sales", "analytics", "fact_sales"},
	}

	for _, tt := range tests {
		schema, name := ParseQualifiedName(tt.input, "main")
		assert.Equal(t, tt.wantSchema, schema)
		assert.Equal(t, tt.wantName, name)
	}
}

func TestGetTableMetadataCommon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").
		WithArgs("main", "dim_date").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
			AddRow("date_id", "BIGINT", "NO", 1).
			AddRow("date", "DATE", "YES", 2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM main.dim_date`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(365))

	base := &BaseSQLAdapter{DB: db}
	md, err := base.GetTableMetadataCommon(context.Background(), "dim_date", "main", func(int) string { return "?" })
	require.NoError(t, err)

	assert.Equal(t, "main", md.Schema)
	assert.Equal(t, "dim_date", md.Name)
	assert.Equal(t, int64(365), md.RowCount)
	require.Len(t, md.Columns, 2)
	assert.Equal(t, "date_id", md.Columns[0].Name)
	assert.False(t, md.Columns[0].Nullable)
	assert.True(t, md.Columns[1].Nullable)
}

func TestGetTableMetadataCommonNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").
		WithArgs("main", "dim_missing").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

	base := &BaseSQLAdapter{DB: db}
	_, err = base.GetTableMetadataCommon(context.Background(), "dim_missing", "main", func(int) string { return "?" })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
