package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/internal/docstore"
	"github.com/GoSim-25-26J-441/projectdash/internal/logging"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/domain"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/repository"
)

// ProjectService validates project requests, scopes them to their owner and
// shapes every outcome into a Result. It never returns a Go error.
type ProjectService struct {
	repo *repository.ProjectRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository, log *zap.Logger) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{
		repo: repo,
		log:  log,
		now:  docstore.Now,
	}
}

// Create stores a new project owned by userID.
func (s *ProjectService) Create(ctx context.Context, userID string, in domain.CreateInput) Result {
	if strings.TrimSpace(userID) == "" {
		return invalid("user id is required")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return invalid("name is required")
	}

	id, err := s.repo.Insert(ctx, userID, in, s.now())
	if err != nil {
		return s.fail(ctx, "create", userID, "", err)
	}

	// Re-read without the owner scope so a store that linked the document
	// to someone else is caught rather than masked as not found.
	p, err := s.repo.FindUnscoped(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return s.fail(ctx, "create", userID, id, domain.ErrIntegrity)
	}
	if err != nil {
		return s.fail(ctx, "create", userID, id, err)
	}
	if p.OwnerID != userID {
		return s.fail(ctx, "create", userID, id, domain.ErrIntegrity)
	}
	return created(p)
}

// GetCurrent returns userID's most recently created project.
func (s *ProjectService) GetCurrent(ctx context.Context, userID string) Result {
	return s.Get(ctx, domain.Current(userID))
}

// GetByID returns project id if userID owns it.
func (s *ProjectService) GetByID(ctx context.Context, id, userID string) Result {
	return s.Get(ctx, domain.ByID(id, userID))
}

func (s *ProjectService) Get(ctx context.Context, q domain.ProjectQuery) Result {
	if strings.TrimSpace(q.OwnerID) == "" {
		return invalid("user id is required")
	}
	if q.Kind == domain.QueryByID {
		if r, bad := checkID(q.ID); bad {
			return r
		}
	}

	p, err := s.repo.Find(ctx, q)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound()
	}
	if errors.Is(err, domain.ErrValidation) {
		return invalid("invalid query")
	}
	if err != nil {
		return s.fail(ctx, "get", q.OwnerID, q.ID, err)
	}
	return ok(p)
}

// Update applies the non-nil fields of in to project in.ID owned by userID.
// A project owned by someone else is reported exactly like a missing one.
func (s *ProjectService) Update(ctx context.Context, userID string, in domain.UpdateInput) Result {
	if strings.TrimSpace(userID) == "" {
		return invalid("user id is required")
	}
	if r, bad := checkID(in.ID); bad {
		return r
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return invalid("name must not be empty")
		}
		in.Name = &name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		in.Description = &desc
	}

	matched, err := s.repo.Update(ctx, userID, in, s.now())
	if err != nil {
		return s.fail(ctx, "update", userID, in.ID, err)
	}
	if !matched {
		return notFound()
	}

	p, err := s.repo.Find(ctx, domain.ByID(in.ID, userID))
	if errors.Is(err, domain.ErrNotFound) {
		// Deleted between the write and the read.
		return notFound()
	}
	if err != nil {
		return s.fail(ctx, "update", userID, in.ID, err)
	}
	return ok(p)
}

// Delete removes project id owned by userID.
func (s *ProjectService) Delete(ctx context.Context, id, userID string) Result {
	if strings.TrimSpace(userID) == "" {
		return invalid("user id is required")
	}
	if r, bad := checkID(id); bad {
		return r
	}

	removed, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return s.fail(ctx, "delete", userID, id, err)
	}
	if !removed {
		return notFound()
	}
	return deleted()
}

// Ping reports whether the project store is reachable.
func (s *ProjectService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func checkID(id string) (Result, bool) {
	if strings.TrimSpace(id) == "" {
		return invalid("id is required"), true
	}
	if !docstore.ValidID(id) {
		return invalid("invalid id format"), true
	}
	return Result{}, false
}

// fail logs an internal fault with its context and degrades it to a generic
// result.
func (s *ProjectService) fail(ctx context.Context, op, userID, projectID string, err error) Result {
	kind := domain.ErrStore
	if errors.Is(err, domain.ErrIntegrity) {
		kind = domain.ErrIntegrity
	}
	logging.FromContext(ctx, s.log).Error("project operation failed",
		zap.String("op", op),
		zap.String("user.id", userID),
		zap.String("project.id", projectID),
		zap.Time("at", time.Now().UTC()),
		zap.NamedError("kind", kind),
		zap.Error(err),
	)
	return internalError()
}
