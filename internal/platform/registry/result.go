package registry

import (
	"net/http"

	"github.com/labsuite/labsuite/internal/platform/form"
)

// Outcome classifies the result of a command.
type Outcome string

const (
	OutcomeSuccess              Outcome = "success"
	OutcomeValidationError      Outcome = "validation_error"
	OutcomeBlocked              Outcome = "blocked"
	OutcomeNotFound             Outcome = "not_found"
	OutcomeConfirmationRequired Outcome = "confirmation_required"
)

// Toast levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Result is what every save, toggle and delete returns. The caller decides
// from it whether to notify and navigate (Redirect set) or notify and stay.
type Result[T any] struct {
	Outcome  Outcome     `json:"outcome"`
	Message  string      `json:"message"`
	Redirect string      `json:"redirect,omitempty"`
	Record   T           `json:"record,omitempty"`
	Next     T           `json:"next,omitempty"`
	Errors   form.Errors `json:"errors,omitempty"`
}

func (r Result[T]) OK() bool { return r.Outcome == OutcomeSuccess }

// Level is the toast severity for the result.
func (r Result[T]) Level() string {
	if r.OK() {
		return LevelSuccess
	}
	return LevelError
}

// HTTPStatus maps the outcome to a status code. created selects 201 for a
// successful insert.
func (r Result[T]) HTTPStatus(created bool) int {
	switch r.Outcome {
	case OutcomeSuccess:
		if created {
			return http.StatusCreated
		}
		return http.StatusOK
	case OutcomeValidationError:
		return http.StatusUnprocessableEntity
	case OutcomeBlocked:
		return http.StatusConflict
	case OutcomeNotFound:
		return http.StatusNotFound
	case OutcomeConfirmationRequired:
		return http.StatusPreconditionRequired
	}
	return http.StatusInternalServerError
}

func Success[T any](msg string, v T) Result[T] {
	return Result[T]{Outcome: OutcomeSuccess, Message: msg, Record: v}
}

func Invalid[T any](v T, errs form.Errors) Result[T] {
	first, _ := errs.First()
	msg := first.Message
	if len(errs) > 1 {
		msg = errs.Error()
	}
	return Result[T]{Outcome: OutcomeValidationError, Message: msg, Record: v, Errors: errs}
}

func Refused[T any](reason string) Result[T] {
	return Result[T]{Outcome: OutcomeBlocked, Message: reason}
}

func NotFound[T any](msg string) Result[T] {
	return Result[T]{Outcome: OutcomeNotFound, Message: msg}
}
