// Package redisstore keeps docstore documents in Redis as JSON strings with a
// sorted-set index per owner, ordered by creation time.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
)

const (
	keyPrefix  = "doc:" // doc:{collection}:{id}, doc:{collection}:owner:{owner}, doc:{collection}:all
	maxRetries = 5      // optimistic transaction attempts before giving up
)

// Collection is a docstore.Collection backed by Redis. The client is shared
// and owned by the caller.
type Collection struct {
	client *redis.Client
	name   string
}

func NewCollection(client *redis.Client, name string) *Collection {
	return &Collection{client: client, name: name}
}

func (c *Collection) Name() string { return c.name }

func (c *Collection) FindOne(ctx context.Context, f docstore.Filter, opts docstore.FindOptions) (*docstore.Document, error) {
	id := f.ID
	if id == "" {
		var err error
		id, err = c.newestID(ctx, f.OwnerID)
		if err != nil {
			return nil, err
		}
	}

	doc, err := c.get(ctx, c.client, id)
	if err != nil {
		return nil, err
	}
	if !f.Matches(doc) {
		return nil, docstore.ErrNotFound
	}
	return doc, nil
}

func (c *Collection) InsertOne(ctx context.Context, in docstore.Document) (string, error) {
	doc, err := docstore.PrepareInsert(in)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	score := float64(doc.CreatedAt.UnixMicro())
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.docKey(doc.ID), data, 0)
		pipe.ZAdd(ctx, c.ownerKey(doc.OwnerID), redis.Z{Score: score, Member: doc.ID})
		pipe.ZAdd(ctx, c.allKey(), redis.Z{Score: score, Member: doc.ID})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return doc.ID, nil
}

func (c *Collection) UpdateOne(ctx context.Context, f docstore.Filter, u docstore.Update) (docstore.UpdateResult, error) {
	id, err := c.resolveID(ctx, f)
	if errors.Is(err, docstore.ErrNotFound) {
		return docstore.UpdateResult{}, nil
	}
	if err != nil {
		return docstore.UpdateResult{}, err
	}

	var matched int64
	txf := func(tx *redis.Tx) error {
		matched = 0
		doc, err := c.get(ctx, tx, id)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !f.Matches(doc) {
			return nil
		}

		merged, err := docstore.MergeData(doc.Data, u.Set)
		if err != nil {
			return err
		}
		doc.Data = merged
		doc.UpdatedAt = docstore.NextUpdatedAt(doc.UpdatedAt, u.At)

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.docKey(id), data, 0)
			return nil
		})
		if err == nil {
			matched = 1
		}
		return err
	}

	if err := c.watch(ctx, txf, c.docKey(id)); err != nil {
		return docstore.UpdateResult{}, fmt.Errorf("failed to update document: %w", err)
	}
	return docstore.UpdateResult{Matched: matched}, nil
}

func (c *Collection) DeleteOne(ctx context.Context, f docstore.Filter) (docstore.DeleteResult, error) {
	id, err := c.resolveID(ctx, f)
	if errors.Is(err, docstore.ErrNotFound) {
		return docstore.DeleteResult{}, nil
	}
	if err != nil {
		return docstore.DeleteResult{}, err
	}

	var deleted int64
	txf := func(tx *redis.Tx) error {
		deleted = 0
		doc, err := c.get(ctx, tx, id)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !f.Matches(doc) {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, c.docKey(id))
			pipe.ZRem(ctx, c.ownerKey(doc.OwnerID), id)
			pipe.ZRem(ctx, c.allKey(), id)
			return nil
		})
		if err == nil {
			deleted = 1
		}
		return err
	}

	if err := c.watch(ctx, txf, c.docKey(id)); err != nil {
		return docstore.DeleteResult{}, fmt.Errorf("failed to delete document: %w", err)
	}
	return docstore.DeleteResult{Deleted: deleted}, nil
}

func (c *Collection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close is a no-op; the client belongs to whoever opened it.
func (c *Collection) Close() error { return nil }

// watch runs txf under WATCH, retrying when another writer got in first.
func (c *Collection) watch(ctx context.Context, txf func(*redis.Tx) error, keys ...string) error {
	for i := 0; i < maxRetries; i++ {
		err := c.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("transaction aborted after %d attempts", maxRetries)
}

func (c *Collection) resolveID(ctx context.Context, f docstore.Filter) (string, error) {
	if f.ID != "" {
		return f.ID, nil
	}
	return c.newestID(ctx, f.OwnerID)
}

func (c *Collection) newestID(ctx context.Context, ownerID string) (string, error) {
	idx := c.allKey()
	if ownerID != "" {
		idx = c.ownerKey(ownerID)
	}
	ids, err := c.client.ZRevRange(ctx, idx, 0, 0).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read index: %w", err)
	}
	if len(ids) == 0 {
		return "", docstore.ErrNotFound
	}
	return ids[0], nil
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *Collection) get(ctx context.Context, cmd getter, id string) (*docstore.Document, error) {
	data, err := cmd.Get(ctx, c.docKey(id)).Result()
	if err == redis.Nil {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc docstore.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

func (c *Collection) docKey(id string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, c.name, id)
}

func (c *Collection) ownerKey(ownerID string) string {
	return fmt.Sprintf("%s%s:owner:%s", keyPrefix, c.name, ownerID)
}

func (c *Collection) allKey() string {
	return fmt.Sprintf("%s%s:all", keyPrefix, c.name)
}
