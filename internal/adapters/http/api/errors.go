package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/jungle/internal/adapters/mq/queue"
	"github.com/okian/jungle/internal/adapters/repository"
	service "github.com/okian/jungle/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("participant not identified")
	ErrBackpressure = errors.New("backpressure")
)

// opError is "op: kind: cause". Both kind and cause match errors.Is.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.kind != nil && e.err != nil:
		return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
	case e.kind != nil:
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	default:
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
}

func (e *opError) Unwrap() []error {
	var errs []error
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.err != nil {
		errs = append(errs, e.err)
	}
	return errs
}

// Wrap prefixes err with the operation name.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind tags err with a sentinel kind.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// NewKind reports a sentinel kind with no underlying cause.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// classify maps an error to an HTTP status and a short error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnknownRound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnauthorized), errors.Is(err, service.ErrUnknownParticipant):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrNotBettor):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrLocked):
		return http.StatusConflict, "locked"
	case errors.Is(err, service.ErrNotLocked):
		return http.StatusConflict, "not_locked"
	case errors.Is(err, service.ErrNoLine):
		return http.StatusConflict, "no_line"
	case errors.Is(err, ErrBackpressure), errors.Is(err, queue.ErrFull):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrUnknownStat),
		errors.Is(err, service.ErrUnknownProp),
		errors.Is(err, service.ErrNotOnRoster),
		errors.Is(err, service.ErrInvalidValue):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
