package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/domain"
)

// CollectionName is the docstore collection projects live in.
const CollectionName = "projects"

// ProjectRepository maps projects onto a docstore collection.
type ProjectRepository struct {
	coll docstore.Collection
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(coll docstore.Collection) *ProjectRepository {
	return &ProjectRepository{coll: coll}
}

// projectData is the stored shape of a project's own fields.
type projectData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// QueryFilter resolves a query to the single store lookup that answers it.
// Every filter it returns is scoped by owner.
func QueryFilter(q domain.ProjectQuery) (docstore.Filter, docstore.FindOptions, error) {
	if q.OwnerID == "" {
		return docstore.Filter{}, docstore.FindOptions{}, fmt.Errorf("%w: owner id required", domain.ErrValidation)
	}
	switch q.Kind {
	case domain.QueryCurrent:
		return docstore.Filter{OwnerID: q.OwnerID}, docstore.FindOptions{Newest: true}, nil
	case domain.QueryByID:
		if q.ID == "" {
			return docstore.Filter{}, docstore.FindOptions{}, fmt.Errorf("%w: id required", domain.ErrValidation)
		}
		return docstore.Filter{ID: q.ID, OwnerID: q.OwnerID}, docstore.FindOptions{}, nil
	default:
		return docstore.Filter{}, docstore.FindOptions{}, fmt.Errorf("%w: unknown query kind %d", domain.ErrValidation, q.Kind)
	}
}

// Insert stores a new project for ownerID and returns its id.
func (r *ProjectRepository) Insert(ctx context.Context, ownerID string, in domain.CreateInput, at time.Time) (string, error) {
	data, err := json.Marshal(projectData{Name: in.Name, Description: in.Description})
	if err != nil {
		return "", err
	}
	return r.coll.InsertOne(ctx, docstore.Document{
		OwnerID:   ownerID,
		Data:      data,
		CreatedAt: at,
	})
}

// Find returns the project q selects, or domain.ErrNotFound.
func (r *ProjectRepository) Find(ctx context.Context, q domain.ProjectQuery) (*domain.Project, error) {
	filter, opts, err := QueryFilter(q)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, filter, opts)
}

// FindUnscoped reads a project by id regardless of owner. It exists for the
// post-insert owner check and must not serve caller reads.
func (r *ProjectRepository) FindUnscoped(ctx context.Context, id string) (*domain.Project, error) {
	return r.findOne(ctx, docstore.Filter{ID: id}, docstore.FindOptions{})
}

// Update applies in to the project id owned by ownerID. It reports false
// when no such project exists.
func (r *ProjectRepository) Update(ctx context.Context, ownerID string, in domain.UpdateInput, at time.Time) (bool, error) {
	filter, _, err := QueryFilter(domain.ByID(in.ID, ownerID))
	if err != nil {
		return false, err
	}

	set := map[string]any{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}

	res, err := r.coll.UpdateOne(ctx, filter, docstore.Update{Set: set, At: at})
	if err != nil {
		return false, err
	}
	return res.Matched > 0, nil
}

// Delete removes the project id owned by ownerID. It reports false when no
// such project exists.
func (r *ProjectRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	filter, _, err := QueryFilter(domain.ByID(id, ownerID))
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.Deleted > 0, nil
}

// Ping checks the underlying store.
func (r *ProjectRepository) Ping(ctx context.Context) error {
	return r.coll.Ping(ctx)
}

func (r *ProjectRepository) findOne(ctx context.Context, filter docstore.Filter, opts docstore.FindOptions) (*domain.Project, error) {
	doc, err := r.coll.FindOne(ctx, filter, opts)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toProject(doc)
}

func toProject(doc *docstore.Document) (*domain.Project, error) {
	var data projectData
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &data); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", doc.ID, err)
		}
	}
	return &domain.Project{
		ID:          doc.ID,
		OwnerID:     doc.OwnerID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}
