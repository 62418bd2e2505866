package internal

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/derWhity/fyyur/internal/forms"
)

const (
	// ErrCodeUnknown is the error code for unknown errors
	ErrCodeUnknown = "UNKNOWN_ERROR"
	// ErrCodeRepoError is returned when the request to a repo fails with an error
	ErrCodeRepoError = "STORAGE_QUERY_FAILED"
	// ErrCodeRequiredFieldMissing is returned when at least one required field has not been populated on an incoming
	// request
	ErrCodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	// ErrCodeIllegalForm is returned when the request body could not be parsed as a form
	ErrCodeIllegalForm = "ILLEGAL_FORM_REQUEST"
	// ErrCodeIllegalValue is returned when any field in the transferred data does not validate for some reason
	ErrCodeIllegalValue = "ILLEGAL_VALUE"
	// ErrCodeInvalidUint is returned when an ID is required inside a request, but is not provided or in a wrong format
	ErrCodeInvalidUint = "INVALID_UINT"
	// ErrCodeVenueNotFound is returned when an operation works on a venue that does not exist
	ErrCodeVenueNotFound = "VENUE_NOT_FOUND"
	// ErrCodeArtistNotFound is returned when an operation works on an artist that does not exist
	ErrCodeArtistNotFound = "ARTIST_NOT_FOUND"
	// ErrCodeShowNotFound is returned when a show or one of the records it references cannot be loaded
	ErrCodeShowNotFound = "SHOW_NOT_FOUND"
	// ErrCodePageNotFound is returned for unknown routes
	ErrCodePageNotFound = "PAGE_NOT_FOUND"
	// ErrCodeReferenceNotFound is returned when a show should be created for a venue or an artist that does not exist
	ErrCodeReferenceNotFound = "REFERENCE_NOT_FOUND"
)

// Kind classifies errors the way the handlers react to them
type Kind int

const (
	// KindPersistence is any failure of the storage layer - and the kind of every unclassified error
	KindPersistence Kind = iota
	// KindNotFound means that a requested record does not exist
	KindNotFound
	// KindValidation means that the submitted data is malformed or incomplete
	KindValidation
	// KindIntegrity means that the submitted data references records that do not exist
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "ValidationFailure"
	case KindIntegrity:
		return "IntegrityViolation"
	}
	return "PersistenceFailure"
}

// ErrPageNotFound is the error rendered for routes that do not exist
var ErrPageNotFound = MakeError(http.StatusNotFound, ErrCodePageNotFound, "Page not found")

// HTTPError is an error that contains information about the error message to return to the client
type HTTPError struct {
	message string
	code    string
	status  int
	data    interface{}
}

// MakeError creates a new HTTPError with the given contents
func MakeError(status int, code, message string) *HTTPError {
	return MakeErrorWithData(status, code, message, nil)
}

// MakeErrorWithData creates a new HTTPError with the given contents and an additional data element
func MakeErrorWithData(status int, code, message string, data interface{}) *HTTPError {
	return &HTTPError{message, code, status, data}
}

// Error implements the errorer interface
func (e *HTTPError) Error() string {
	return e.message
}

// Status returns the HTTP status that should be returned
func (e *HTTPError) Status() int {
	return e.status
}

// ErrorCode returns the machine-readable error code
func (e *HTTPError) ErrorCode() string {
	return e.code
}

// Data returns additional data about the error
func (e *HTTPError) Data() interface{} {
	return e.data
}

// Kind returns the classification of this error
func (e *HTTPError) Kind() Kind {
	switch e.code {
	case ErrCodeVenueNotFound, ErrCodeArtistNotFound, ErrCodeShowNotFound, ErrCodePageNotFound:
		return KindNotFound
	case ErrCodeRequiredFieldMissing, ErrCodeIllegalValue, ErrCodeIllegalForm, ErrCodeInvalidUint:
		return KindValidation
	case ErrCodeReferenceNotFound:
		return KindIntegrity
	}
	return KindPersistence
}

// ErrorKind returns the classification of any error. Errors not created by this package count as persistence
// failures.
func ErrorKind(err error) Kind {
	if e, ok := err.(*HTTPError); ok {
		return e.Kind()
	}
	return KindPersistence
}

// -- Common errors ----------------------------------------------------------------------------------------------------

func makeNotFound(code, entity string, id uint) *HTTPError {
	return MakeError(http.StatusNotFound, code, fmt.Sprintf("%s #%d does not exist", entity, id))
}

func makeRepoError(message string) *HTTPError {
	return MakeError(http.StatusInternalServerError, ErrCodeRepoError, message)
}

// makeValidationError builds the error returned for forms that do not validate. The data element maps the names of
// the failing fields to a message.
func makeValidationError(fields forms.Errors) *HTTPError {
	return MakeErrorWithData(http.StatusBadRequest, ErrCodeIllegalValue, "The submitted form is invalid", fields)
}

// storageError logs the root cause of a failed repository call and returns the error shown to the client
func storageError(logger *logrus.Entry, err error, message string) *HTTPError {
	logger.WithError(errors.Cause(err)).Error(message)
	return makeRepoError(message)
}
