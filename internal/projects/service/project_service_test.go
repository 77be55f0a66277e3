package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/domain"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/repository"
)

// faultyCollection wraps a working collection and injects failures.
type faultyCollection struct {
	docstore.Collection
	findErr      error
	insertErr    error
	updateErr    error
	deleteErr    error
	rewriteOwner string
}

func (f *faultyCollection) FindOne(ctx context.Context, fl docstore.Filter, opts docstore.FindOptions) (*docstore.Document, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	doc, err := f.Collection.FindOne(ctx, fl, opts)
	if err == nil && f.rewriteOwner != "" {
		doc.OwnerID = f.rewriteOwner
	}
	return doc, err
}

func (f *faultyCollection) InsertOne(ctx context.Context, doc docstore.Document) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	return f.Collection.InsertOne(ctx, doc)
}

func (f *faultyCollection) UpdateOne(ctx context.Context, fl docstore.Filter, u docstore.Update) (docstore.UpdateResult, error) {
	if f.updateErr != nil {
		return docstore.UpdateResult{}, f.updateErr
	}
	return f.Collection.UpdateOne(ctx, fl, u)
}

func (f *faultyCollection) DeleteOne(ctx context.Context, fl docstore.Filter) (docstore.DeleteResult, error) {
	if f.deleteErr != nil {
		return docstore.DeleteResult{}, f.deleteErr
	}
	return f.Collection.DeleteOne(ctx, fl)
}

func newTestService(t *testing.T) (*ProjectService, *docstore.MemoryCollection) {
	t.Helper()
	mem := docstore.NewMemoryCollection(repository.CollectionName)
	return NewProjectService(repository.NewProjectRepository(mem), zap.NewNop()), mem
}

func newObservedService(t *testing.T, coll docstore.Collection) (*ProjectService, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewProjectService(repository.NewProjectRepository(coll), zap.New(core)), logs
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, s *ProjectService, userID, name string) *domain.Project {
	t.Helper()
	res := s.Create(context.Background(), userID, domain.CreateInput{Name: name})
	require.Equal(t, OutcomeCreated, res.Outcome, res.Message)
	require.NotNil(t, res.Project)
	return res.Project
}

func TestCreate_ThenGetCurrent(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	res := s.Create(ctx, "u1", domain.CreateInput{Name: "Alpha"})
	assert.Equal(t, http.StatusCreated, res.StatusCode())
	require.NotNil(t, res.Project)
	assert.Equal(t, "Alpha", res.Project.Name)
	assert.Equal(t, "u1", res.Project.OwnerID)

	cur := s.GetCurrent(ctx, "u1")
	assert.Equal(t, http.StatusOK, cur.StatusCode())
	require.NotNil(t, cur.Project)
	assert.Equal(t, res.Project.ID, cur.Project.ID)
}

func TestCreate_EmptyNameStoresNothing(t *testing.T) {
	s, mem := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"", "   "} {
		res := s.Create(ctx, "u1", domain.CreateInput{Name: name})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode())
		assert.False(t, res.Success())
		assert.Contains(t, res.Message, "name")
		assert.Contains(t, res.Message, "required")
		assert.ErrorIs(t, res.Err(), domain.ErrValidation)
	}
	assert.Equal(t, 0, mem.Len())
}

func TestUpdate_OtherOwnerIsNotFound(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, "u1", "Alpha")

	res := s.Update(ctx, "u2", domain.UpdateInput{ID: p.ID, Name: strPtr("Hack")})
	assert.Equal(t, http.StatusNotFound, res.StatusCode())
	assert.Nil(t, res.Project)

	orig := s.GetByID(ctx, p.ID, "u1")
	require.Equal(t, OutcomeOK, orig.Outcome)
	assert.Equal(t, "Alpha", orig.Project.Name)
	assert.Equal(t, p.UpdatedAt, orig.Project.UpdatedAt)
}

func TestDelete_ThenGetIsNotFound(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, "u1", "Alpha")

	res := s.Delete(ctx, p.ID, "u1")
	assert.Equal(t, http.StatusNoContent, res.StatusCode())
	assert.True(t, res.Success())
	assert.Nil(t, res.Project)

	again := s.GetByID(ctx, p.ID, "u1")
	assert.Equal(t, http.StatusNotFound, again.StatusCode())

	twice := s.Delete(ctx, p.ID, "u1")
	assert.Equal(t, http.StatusNotFound, twice.StatusCode())
}

func TestOwnershipIsolation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, "u1", "Alpha")

	t.Run("get by other owner", func(t *testing.T) {
		res := s.GetByID(ctx, p.ID, "u2")
		assert.Equal(t, OutcomeNotFound, res.Outcome)
		assert.Nil(t, res.Project)
		assert.ErrorIs(t, res.Err(), domain.ErrNotFound)
	})

	t.Run("current for other owner", func(t *testing.T) {
		res := s.GetCurrent(ctx, "u2")
		assert.Equal(t, OutcomeNotFound, res.Outcome)
	})

	t.Run("update by other owner", func(t *testing.T) {
		res := s.Update(ctx, "u2", domain.UpdateInput{ID: p.ID, Description: strPtr("mine now")})
		assert.Equal(t, OutcomeNotFound, res.Outcome)
	})

	t.Run("delete by other owner", func(t *testing.T) {
		res := s.Delete(ctx, p.ID, "u2")
		assert.Equal(t, OutcomeNotFound, res.Outcome)
	})

	t.Run("missing and foreign ids look the same", func(t *testing.T) {
		foreign := s.GetByID(ctx, p.ID, "u2")
		missing := s.GetByID(ctx, docstore.NewID(), "u2")
		assert.Equal(t, missing.StatusCode(), foreign.StatusCode())
		assert.Equal(t, missing.Envelope(), foreign.Envelope())
	})

	res := s.GetByID(ctx, p.ID, "u1")
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, *p, *res.Project)
}

func TestCreate_OwnedByCaller(t *testing.T) {
	s, _ := newTestService(t)

	seen := map[string]bool{}
	for _, user := range []string{"u1", "u2", "u1", "u3"} {
		p := mustCreate(t, s, user, "  Project  ")
		assert.Equal(t, user, p.OwnerID)
		assert.Equal(t, "Project", p.Name)
		assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))
		assert.True(t, docstore.ValidID(p.ID))
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestUpdateFreshness(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	// A frozen clock must still move updatedAt forward on every write.
	frozen := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	p := mustCreate(t, s, "u1", "Alpha")
	prev := p.UpdatedAt
	for i, in := range []domain.UpdateInput{
		{ID: p.ID, Name: strPtr("Beta")},
		{ID: p.ID, Description: strPtr("notes")},
		{ID: p.ID},
	} {
		res := s.Update(ctx, "u1", in)
		require.Equal(t, OutcomeOK, res.Outcome, "update %d: %s", i, res.Message)
		assert.True(t, res.Project.UpdatedAt.After(prev), "update %d did not advance updatedAt", i)
		assert.True(t, res.Project.CreatedAt.Equal(p.CreatedAt))
		prev = res.Project.UpdatedAt
	}

	final := s.GetByID(ctx, p.ID, "u1")
	require.Equal(t, OutcomeOK, final.Outcome)
	assert.Equal(t, "Beta", final.Project.Name)
	assert.Equal(t, "notes", final.Project.Description)
}

func TestGetCurrent_ReturnsNewest(t *testing.T) {
	s, _ := newTestService(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	mustCreate(t, s, "u1", "First")
	s.now = func() time.Time { return base.Add(time.Minute) }
	second := mustCreate(t, s, "u1", "Second")

	res := s.GetCurrent(context.Background(), "u1")
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, second.ID, res.Project.ID)
}

func TestValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, s, "u1", "Alpha")

	tests := []struct {
		name string
		res  Result
		msg  string
	}{
		{"create without user", s.Create(ctx, "", domain.CreateInput{Name: "x"}), "user id is required"},
		{"get without user", s.GetByID(ctx, p.ID, ""), "user id is required"},
		{"current without user", s.GetCurrent(ctx, " "), "user id is required"},
		{"get without id", s.GetByID(ctx, "", "u1"), "id is required"},
		{"get malformed id", s.GetByID(ctx, "not-an-id", "u1"), "invalid id format"},
		{"update without id", s.Update(ctx, "u1", domain.UpdateInput{Name: strPtr("x")}), "id is required"},
		{"update malformed id", s.Update(ctx, "u1", domain.UpdateInput{ID: "507f1f77bcf86cd799439011"}), "invalid id format"},
		{"update empty name", s.Update(ctx, "u1", domain.UpdateInput{ID: p.ID, Name: strPtr("  ")}), "name must not be empty"},
		{"delete without user", s.Delete(ctx, p.ID, ""), "user id is required"},
		{"delete malformed id", s.Delete(ctx, "current", "u1"), "invalid id format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, OutcomeValidationFailed, tt.res.Outcome)
			assert.Equal(t, http.StatusBadRequest, tt.res.StatusCode())
			assert.Equal(t, tt.msg, tt.res.Message)
			assert.Equal(t, domain.Envelope{Success: false, Error: tt.msg}, tt.res.Envelope())
		})
	}

	res := s.GetByID(ctx, p.ID, "u1")
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, "Alpha", res.Project.Name)
}

func TestStoreFailures(t *testing.T) {
	storeErr := errors.New("connection refused by 10.0.0.5")

	setup := func(t *testing.T) (*faultyCollection, string) {
		mem := docstore.NewMemoryCollection(repository.CollectionName)
		id, err := mem.InsertOne(context.Background(), docstore.Document{OwnerID: "u1"})
		require.NoError(t, err)
		return &faultyCollection{Collection: mem}, id
	}

	tests := []struct {
		name   string
		inject func(f *faultyCollection)
		call   func(s *ProjectService, id string) Result
		op     string
	}{
		{
			name:   "insert",
			inject: func(f *faultyCollection) { f.insertErr = storeErr },
			call: func(s *ProjectService, _ string) Result {
				return s.Create(context.Background(), "u1", domain.CreateInput{Name: "Alpha"})
			},
			op: "create",
		},
		{
			name:   "find",
			inject: func(f *faultyCollection) { f.findErr = storeErr },
			call:   func(s *ProjectService, id string) Result { return s.GetByID(context.Background(), id, "u1") },
			op:     "get",
		},
		{
			name:   "update",
			inject: func(f *faultyCollection) { f.updateErr = storeErr },
			call: func(s *ProjectService, id string) Result {
				return s.Update(context.Background(), "u1", domain.UpdateInput{ID: id, Name: strPtr("x")})
			},
			op: "update",
		},
		{
			name:   "delete",
			inject: func(f *faultyCollection) { f.deleteErr = storeErr },
			call:   func(s *ProjectService, id string) Result { return s.Delete(context.Background(), id, "u1") },
			op:     "delete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, id := setup(t)
			tt.inject(coll)
			s, logs := newObservedService(t, coll)

			res := tt.call(s, id)
			assert.Equal(t, OutcomeInternalError, res.Outcome)
			assert.Equal(t, http.StatusInternalServerError, res.StatusCode())
			assert.Equal(t, domain.Envelope{Success: false, Error: "internal error"}, res.Envelope())
			assert.ErrorIs(t, res.Err(), domain.ErrStore)

			entries := logs.FilterMessage("project operation failed").All()
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, tt.op, fields["op"])
			assert.Equal(t, "u1", fields["user.id"])
			assert.Contains(t, fields["error"], "connection refused")
			assert.Contains(t, fields, "at")
		})
	}
}

func TestCreate_IntegrityCheck(t *testing.T) {
	mem := docstore.NewMemoryCollection(repository.CollectionName)
	coll := &faultyCollection{Collection: mem, rewriteOwner: "someone-else"}
	s, logs := newObservedService(t, coll)

	res := s.Create(context.Background(), "u1", domain.CreateInput{Name: "Alpha"})
	assert.Equal(t, OutcomeInternalError, res.Outcome)
	assert.Equal(t, "internal error", res.Envelope().Error)
	assert.Nil(t, res.Project)

	entries := logs.FilterMessage("project operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ErrIntegrity.Error(), entries[0].ContextMap()["kind"])
}

func TestResult_StatusMapping(t *testing.T) {
	p := &domain.Project{ID: "p1"}
	tests := []struct {
		res     Result
		status  int
		success bool
		err     error
	}{
		{ok(p), http.StatusOK, true, nil},
		{created(p), http.StatusCreated, true, nil},
		{deleted(), http.StatusNoContent, true, nil},
		{invalid("bad"), http.StatusBadRequest, false, domain.ErrValidation},
		{notFound(), http.StatusNotFound, false, domain.ErrNotFound},
		{internalError(), http.StatusInternalServerError, false, domain.ErrStore},
		{Result{}, http.StatusInternalServerError, false, domain.ErrStore},
	}

	for _, tt := range tests {
		t.Run(tt.res.Outcome.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.res.StatusCode())
			assert.Equal(t, tt.success, tt.res.Success())
			assert.Equal(t, tt.success, tt.res.Envelope().Success)
			if tt.err == nil {
				assert.NoError(t, tt.res.Err())
			} else {
				assert.ErrorIs(t, tt.res.Err(), tt.err)
			}
		})
	}
}
