package api

import (
	"errors"
	"net/http"

	workerpool "github.com/okian/eventmatch/internal/adapters/mq/worker"
	repository "github.com/okian/eventmatch/internal/adapters/repository"
	service "github.com/okian/eventmatch/internal/app"
	"github.com/okian/eventmatch/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("unavailable")
)

// opError tags an error with the handler operation and an optional kind.
// errors.Is matches both the kind and the wrapped cause.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	msg := e.op
	if e.kind != nil {
		msg += ": " + e.kind.Error()
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *opError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.err != nil {
		errs = append(errs, e.err)
	}
	return errs
}

// NewKind returns an error of kind for op with no further cause.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// Wrap tags err with op. It returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return &opError{op: op, kind: kind, err: err}
}

// classify maps errors from the service layer onto API kinds.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return WrapKind(op, ErrNotFound, err)
	case errors.Is(err, model.ErrInvalidPackage),
		errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, service.ErrBatchTooLarge):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, workerpool.ErrBackpressure):
		return WrapKind(op, ErrBackpressure, err)
	case errors.Is(err, workerpool.ErrPoolClosed), errors.Is(err, service.ErrNotStarted):
		return WrapKind(op, ErrUnavailable, err)
	default:
		return Wrap(op, err)
	}
}

// status returns the HTTP status and error code for err.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
