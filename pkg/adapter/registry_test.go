package adapter

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	BaseSQLAdapter
}

func (s *stubAdapter) Connect(_ context.Context, _ Config) error { return nil }
func (s *stubAdapter) GetTableMetadata(_ context.Context, _ string) (*Metadata, error) {
	return nil, nil
}
func (s *stubAdapter) LoadCSV(_ context.Context, _, _ string) error { return nil }

func TestRegisterAndGet(t *testing.T) {
	Register("stub", func(logger *slog.Logger) Adapter {
		return &stubAdapter{BaseSQLAdapter{Logger: logger}}
	})

	factory, ok := Get("stub")
	require.True(t, ok)
	require.NotNil(t, factory)

	assert.True(t, IsRegistered("stub"))
	assert.False(t, IsRegistered("no-such-adapter"))
	assert.Contains(t, ListAdapters(), "stub")
}

func TestNew(t *testing.T) {
	Register("stub", func(logger *slog.Logger) Adapter {
		return &stubAdapter{BaseSQLAdapter{Logger: logger}}
	})

	db, err := New(Config{Type: "stub"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, db)
}

func TestNewMissingType(t *testing.T) {
	_, err := New(Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adapter type not specified")
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(Config{Type: "oracle"}, nil)
	require.Error(t, err)

	var unknownErr *UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "oracle", unknownErr.Type)
	assert.Contains(t, err.Error(), "starmill.yaml")
}
