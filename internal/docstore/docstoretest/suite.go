// Package docstoretest holds the behaviour every docstore.Collection backend
// has to share. Backends call Run from their own tests.
package docstoretest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
)

// Factory returns an empty collection; it owns cleanup via t.Cleanup.
type Factory func(t *testing.T) docstore.Collection

// Run exercises a backend against the gateway contract.
func Run(t *testing.T, newCollection Factory) {
	t.Run("insert assigns id and timestamps", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		id, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1", Data: raw(t, map[string]any{"name": "Alpha"})})
		require.NoError(t, err)
		assert.True(t, docstore.ValidID(id))

		doc, err := c.FindOne(ctx, docstore.Filter{ID: id, OwnerID: "u1"}, docstore.FindOptions{})
		require.NoError(t, err)
		assert.Equal(t, id, doc.ID)
		assert.Equal(t, "u1", doc.OwnerID)
		assert.False(t, doc.CreatedAt.IsZero())
		assert.True(t, doc.CreatedAt.Equal(doc.UpdatedAt))
		assert.Equal(t, "Alpha", field(t, doc, "name"))
	})

	t.Run("insert ids are distinct", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		seen := map[string]bool{}
		for i := 0; i < 10; i++ {
			id, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1"})
			require.NoError(t, err)
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	})

	t.Run("insert requires owner", func(t *testing.T) {
		c := newCollection(t)

		_, err := c.InsertOne(context.Background(), docstore.Document{Data: raw(t, map[string]any{"name": "x"})})
		assert.ErrorIs(t, err, docstore.ErrInvalidDocument)
	})

	t.Run("find is owner scoped", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		id, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1"})
		require.NoError(t, err)

		_, err = c.FindOne(ctx, docstore.Filter{ID: id, OwnerID: "u2"}, docstore.FindOptions{})
		assert.ErrorIs(t, err, docstore.ErrNotFound)

		_, err = c.FindOne(ctx, docstore.Filter{ID: docstore.NewID(), OwnerID: "u1"}, docstore.FindOptions{})
		assert.ErrorIs(t, err, docstore.ErrNotFound)

		doc, err := c.FindOne(ctx, docstore.Filter{ID: id}, docstore.FindOptions{})
		require.NoError(t, err)
		assert.Equal(t, "u1", doc.OwnerID)
	})

	t.Run("find newest by owner", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		_, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1", CreatedAt: base, Data: raw(t, map[string]any{"name": "old"})})
		require.NoError(t, err)
		newest, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1", CreatedAt: base.Add(time.Hour), Data: raw(t, map[string]any{"name": "new"})})
		require.NoError(t, err)
		_, err = c.InsertOne(ctx, docstore.Document{OwnerID: "u2", CreatedAt: base.Add(2 * time.Hour), Data: raw(t, map[string]any{"name": "other"})})
		require.NoError(t, err)

		doc, err := c.FindOne(ctx, docstore.Filter{OwnerID: "u1"}, docstore.FindOptions{Newest: true})
		require.NoError(t, err)
		assert.Equal(t, newest, doc.ID)
		assert.Equal(t, "new", field(t, doc, "name"))

		_, err = c.FindOne(ctx, docstore.Filter{OwnerID: "nobody"}, docstore.FindOptions{Newest: true})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("update merges and refreshes updatedAt", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		id, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1", Data: raw(t, map[string]any{"name": "Alpha", "description": "d"})})
		require.NoError(t, err)
		before, err := c.FindOne(ctx, docstore.Filter{ID: id}, docstore.FindOptions{})
		require.NoError(t, err)

		// A clock that lags the stored value must still move updatedAt forward.
		res, err := c.UpdateOne(ctx, docstore.Filter{ID: id, OwnerID: "u1"}, docstore.Update{
			Set: map[string]any{"name": "Beta"},
			At:  before.UpdatedAt.Add(-time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Matched)

		after, err := c.FindOne(ctx, docstore.Filter{ID: id}, docstore.FindOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Beta", field(t, after, "name"))
		assert.Equal(t, "d", field(t, after, "description"))
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
		assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
	})

	t.Run("update is owner scoped", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		id, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1", Data: raw(t, map[string]any{"name": "Alpha"})})
		require.NoError(t, err)

		res, err := c.UpdateOne(ctx, docstore.Filter{ID: id, OwnerID: "u2"}, docstore.Update{
			Set: map[string]any{"name": "Hack"},
			At:  time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Matched)

		doc, err := c.FindOne(ctx, docstore.Filter{ID: id}, docstore.FindOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Alpha", field(t, doc, "name"))
	})

	t.Run("delete is owner scoped", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()

		id, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1"})
		require.NoError(t, err)

		res, err := c.DeleteOne(ctx, docstore.Filter{ID: id, OwnerID: "u2"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Deleted)

		res, err = c.DeleteOne(ctx, docstore.Filter{ID: id, OwnerID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Deleted)

		_, err = c.FindOne(ctx, docstore.Filter{ID: id, OwnerID: "u1"}, docstore.FindOptions{})
		assert.ErrorIs(t, err, docstore.ErrNotFound)

		res, err = c.DeleteOne(ctx, docstore.Filter{ID: id, OwnerID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Deleted)
	})

	t.Run("deleted document leaves newest lookup", func(t *testing.T) {
		c := newCollection(t)
		ctx := context.Background()
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

		older, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1", CreatedAt: base})
		require.NoError(t, err)
		newer, err := c.InsertOne(ctx, docstore.Document{OwnerID: "u1", CreatedAt: base.Add(time.Minute)})
		require.NoError(t, err)

		_, err = c.DeleteOne(ctx, docstore.Filter{ID: newer, OwnerID: "u1"})
		require.NoError(t, err)

		doc, err := c.FindOne(ctx, docstore.Filter{OwnerID: "u1"}, docstore.FindOptions{Newest: true})
		require.NoError(t, err)
		assert.Equal(t, older, doc.ID)
	})

	t.Run("ping", func(t *testing.T) {
		c := newCollection(t)
		assert.NoError(t, c.Ping(context.Background()))
	})
}

func raw(t *testing.T, v map[string]any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func field(t *testing.T, doc *docstore.Document, key string) any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(doc.Data, &m))
	return m[key]
}
