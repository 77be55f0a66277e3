package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
	"github.com/GoSim-25-26J-441/projectdash/internal/docstore/docstoretest"
)

func TestWhere(t *testing.T) {
	c := NewCollection(nil, "projects")

	tests := []struct {
		name     string
		filter   docstore.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "collection only",
			filter:   docstore.Filter{},
			wantSQL:  "collection = $1",
			wantArgs: []any{"projects"},
		},
		{
			name:     "id and owner",
			filter:   docstore.Filter{ID: "id-1", OwnerID: "u1"},
			wantSQL:  "collection = $1 and id = $2::uuid and owner_id = $3",
			wantArgs: []any{"projects", "id-1", "u1"},
		},
		{
			name:     "owner only",
			filter:   docstore.Filter{OwnerID: "u1"},
			wantSQL:  "collection = $1 and owner_id = $2",
			wantArgs: []any{"projects", "u1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := c.where(tt.filter)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCollection_MalformedIDNeverReachesDatabase(t *testing.T) {
	// A nil pool would panic if any of these issued a query.
	c := NewCollection(nil, "projects")
	ctx := context.Background()

	_, err := c.FindOne(ctx, docstore.Filter{ID: "not-a-uuid"}, docstore.FindOptions{})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	ures, err := c.UpdateOne(ctx, docstore.Filter{ID: "not-a-uuid"}, docstore.Update{})
	require.NoError(t, err)
	assert.Zero(t, ures.Matched)

	dres, err := c.DeleteOne(ctx, docstore.Filter{ID: "not-a-uuid"})
	require.NoError(t, err)
	assert.Zero(t, dres.Deleted)
}

// Runs against a real database when PROJECTDASH_TEST_DSN is set.
func TestCollection_Conformance(t *testing.T) {
	dsn := os.Getenv("PROJECTDASH_TEST_DSN")
	if dsn == "" {
		t.Skip("PROJECTDASH_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))

	docstoretest.Run(t, func(t *testing.T) docstore.Collection {
		name := "test_" + uuid.NewString()
		t.Cleanup(func() {
			_, _ = pool.Exec(context.Background(), `delete from documents where collection = $1`, name)
		})
		return NewCollection(pool, name)
	})
}
