package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/internal/auth"
	"github.com/GoSim-25-26J-441/projectdash/internal/auth/middleware"
	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/domain"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/repository"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/service"
)

func setupRouter(t *testing.T) (*gin.Engine, *docstore.MemoryCollection) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := docstore.NewMemoryCollection(repository.CollectionName)
	svc := service.NewProjectService(repository.NewProjectRepository(mem), zap.NewNop())

	router := gin.New()
	group := router.Group("/api/projects", middleware.RequireSession(auth.HeaderResolver{}, zap.NewNop()))
	New(svc).Register(group)
	return router, mem
}

func do(t *testing.T, router *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-Id", user)
		req.Header.Set("X-User-Email", user+"@example.com")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) domain.Envelope {
	t.Helper()
	var env domain.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func createProject(t *testing.T, router *gin.Engine, user, name string) domain.Project {
	t.Helper()
	rr := do(t, router, http.MethodPost, "/api/projects", user, map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env := decode(t, rr)
	require.True(t, env.Success)
	require.NotNil(t, env.Project)
	return *env.Project
}

func TestUnauthenticatedRequests(t *testing.T) {
	router, mem := setupRouter(t)
	id := docstore.NewID()

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/projects", nil},
		{http.MethodPost, "/api/projects", map[string]any{"name": "Alpha"}},
		{http.MethodPatch, "/api/projects", map[string]any{"id": id, "name": "x"}},
		{http.MethodGet, "/api/projects/" + id, nil},
		{http.MethodPatch, "/api/projects/" + id, map[string]any{"name": "x"}},
		{http.MethodDelete, "/api/projects/" + id, nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, router, tt.method, tt.path, "", tt.body)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"success":false,"error":"unauthorized"}`, rr.Body.String())
		})
	}
	assert.Equal(t, 0, mem.Len())
}

func TestCreateAndGetCurrent(t *testing.T) {
	router, _ := setupRouter(t)

	p := createProject(t, router, "u1", "Alpha")
	assert.Equal(t, "Alpha", p.Name)
	assert.Equal(t, "u1", p.OwnerID)

	rr := do(t, router, http.MethodGet, "/api/projects", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	env := decode(t, rr)
	assert.True(t, env.Success)
	assert.Equal(t, p.ID, env.Project.ID)

	rr = do(t, router, http.MethodGet, "/api/projects", "u2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, decode(t, rr).Success)
}

func TestCreate_Validation(t *testing.T) {
	router, mem := setupRouter(t)

	rr := do(t, router, http.MethodPost, "/api/projects", "u1", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "name is required", decode(t, rr).Error)

	rr = do(t, router, http.MethodPost, "/api/projects", "u1", "not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid body", decode(t, rr).Error)

	rr = do(t, router, http.MethodPost, "/api/projects", "u1", `["Alpha"]`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Equal(t, 0, mem.Len())
}

func TestCreate_IgnoresBodyOwner(t *testing.T) {
	router, _ := setupRouter(t)

	rr := do(t, router, http.MethodPost, "/api/projects", "u1", map[string]any{
		"name":    "Alpha",
		"ownerId": "u2",
		"email":   "u2@example.com",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "u1", decode(t, rr).Project.OwnerID)
}

func TestGetByID(t *testing.T) {
	router, _ := setupRouter(t)
	p := createProject(t, router, "u1", "Alpha")

	rr := do(t, router, http.MethodGet, "/api/projects/"+p.ID, "u1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, p.ID, decode(t, rr).Project.ID)

	rr = do(t, router, http.MethodGet, "/api/projects/"+p.ID, "u2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, router, http.MethodGet, "/api/projects/not-an-id", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid id format", decode(t, rr).Error)
}

func TestUpdate(t *testing.T) {
	router, _ := setupRouter(t)
	p := createProject(t, router, "u1", "Alpha")
	other := createProject(t, router, "u1", "Other")

	t.Run("by path", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/api/projects/"+p.ID, "u1", map[string]any{"name": "Beta"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		got := decode(t, rr).Project
		assert.Equal(t, "Beta", got.Name)
		assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
	})

	t.Run("by body id", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/api/projects", "u1", map[string]any{"id": p.ID, "description": "d"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		got := decode(t, rr).Project
		assert.Equal(t, "Beta", got.Name)
		assert.Equal(t, "d", got.Description)
	})

	t.Run("path id wins over body id", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/api/projects/"+other.ID, "u1", map[string]any{"id": p.ID, "name": "Renamed"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, other.ID, decode(t, rr).Project.ID)

		rr = do(t, router, http.MethodGet, "/api/projects/"+p.ID, "u1", nil)
		assert.Equal(t, "Beta", decode(t, rr).Project.Name)
	})

	t.Run("missing id", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/api/projects", "u1", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("other owner", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/api/projects/"+p.ID, "u2", map[string]any{"name": "Hack"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("ownerId in body ignored", func(t *testing.T) {
		rr := do(t, router, http.MethodPatch, "/api/projects/"+p.ID, "u1", map[string]any{"ownerId": "u2"})
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "u1", decode(t, rr).Project.OwnerID)
	})
}

func TestDelete(t *testing.T) {
	router, mem := setupRouter(t)
	p := createProject(t, router, "u1", "Alpha")

	rr := do(t, router, http.MethodDelete, "/api/projects/"+p.ID, "u2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 1, mem.Len())

	rr = do(t, router, http.MethodDelete, "/api/projects/"+p.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = do(t, router, http.MethodGet, "/api/projects/"+p.ID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
