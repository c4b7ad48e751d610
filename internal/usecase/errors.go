package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrForbidden             = errors.New("forbidden")
	ErrPrecondition          = errors.New("precondition failed")
	ErrConflict              = errors.New("conflict")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ErrorKind is the stable, transport independent name of a failure class.
type ErrorKind string

const (
	KindValidation    ErrorKind = "ValidationError"
	KindNotFound      ErrorKind = "NotFoundError"
	KindAuthorization ErrorKind = "AuthorizationError"
	KindPrecondition  ErrorKind = "PreconditionError"
	KindConflict      ErrorKind = "ConflictError"
	KindUnauthorized  ErrorKind = "UnauthenticatedError"
	KindUnavailable   ErrorKind = "DependencyUnavailableError"
	KindInternal      ErrorKind = "InternalError"
)

// KindOf classifies err by the sentinel it wraps.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindAuthorization
	case errors.Is(err, ErrPrecondition):
		return KindPrecondition
	case errors.Is(err, ErrConflict), errors.Is(err, uow.ErrDuplicate):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrDependencyUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}
