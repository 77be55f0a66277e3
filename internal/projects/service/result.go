package service

import (
	"fmt"
	"net/http"

	"github.com/GoSim-25-26J-441/projectdash/internal/projects/domain"
)

// Outcome discriminates the result of a project operation.
type Outcome int

const (
	OutcomeOK Outcome = iota + 1
	OutcomeCreated
	OutcomeDeleted
	OutcomeValidationFailed
	OutcomeNotFound
	OutcomeInternalError
)

const (
	msgNotFound = "project not found"
	msgInternal = "internal error"
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeCreated:
		return "created"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInternalError:
		return "internal_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is what every ProjectService operation returns. Project is set for
// OutcomeOK and OutcomeCreated; Message is set for failures.
type Result struct {
	Outcome Outcome
	Project *domain.Project
	Message string
}

func ok(p *domain.Project) Result      { return Result{Outcome: OutcomeOK, Project: p} }
func created(p *domain.Project) Result { return Result{Outcome: OutcomeCreated, Project: p} }
func deleted() Result                  { return Result{Outcome: OutcomeDeleted} }
func notFound() Result                 { return Result{Outcome: OutcomeNotFound, Message: msgNotFound} }
func internalError() Result            { return Result{Outcome: OutcomeInternalError, Message: msgInternal} }

func invalid(msg string) Result {
	return Result{Outcome: OutcomeValidationFailed, Message: msg}
}

// StatusCode maps the outcome to its HTTP status.
func (r Result) StatusCode() int {
	switch r.Outcome {
	case OutcomeOK:
		return http.StatusOK
	case OutcomeCreated:
		return http.StatusCreated
	case OutcomeDeleted:
		return http.StatusNoContent
	case OutcomeValidationFailed:
		return http.StatusBadRequest
	case OutcomeNotFound:
		return http.StatusNotFound
	case OutcomeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (r Result) Success() bool {
	switch r.Outcome {
	case OutcomeOK, OutcomeCreated, OutcomeDeleted:
		return true
	default:
		return false
	}
}

// Envelope renders the result as a response body.
func (r Result) Envelope() domain.Envelope {
	if r.Success() {
		return domain.Envelope{Success: true, Project: r.Project}
	}
	msg := r.Message
	if msg == "" {
		msg = msgInternal
	}
	return domain.Envelope{Success: false, Error: msg}
}

// Err maps a failed outcome onto the domain sentinel errors, or nil on success.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeOK, OutcomeCreated, OutcomeDeleted:
		return nil
	case OutcomeValidationFailed:
		return fmt.Errorf("%w: %s", domain.ErrValidation, r.Message)
	case OutcomeNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrStore
	}
}
