// Package errs provides structured errors carrying an operation stack and a
// classification kind, plus a helper for turning them into HTTP responses.
//
// Inspired by:
// - https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html
// - https://github.com/gilcrest/diygoapi
package errs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Op describes an operation, usually as the package and method,
// such as "workflowService.GetWorkflow".
type Op string

// Parameter represents the request parameter related to the error.
type Parameter string

// UserName is the name of the user attempting the operation.
type UserName string

// Kind defines the kind of error this is.
type Kind uint8

const (
	Other          Kind = iota // Unclassified error
	Exist                      // Item already exists
	NotExist                   // Item does not exist
	InvalidRequest             // Invalid request payload or parameters
	Validation                 // Input validation error
	Database                   // Error from the database
	IO                         // External I/O error, such as file system operations
	Unsupported                // Unsupported input, such as an unknown file type or mode
	Internal                   // Internal error or inconsistency
	Unauthenticated            // Request lacks valid authentication credentials
	Unauthorized               // Caller is not permitted to perform the operation
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other"
	case Exist:
		return "item_already_exists"
	case NotExist:
		return "item_does_not_exist"
	case InvalidRequest:
		return "invalid_request"
	case Validation:
		return "input_validation_error"
	case Database:
		return "database_error"
	case IO:
		return "I/O_error"
	case Unsupported:
		return "unsupported_input"
	case Internal:
		return "internal_error"
	case Unauthenticated:
		return "unauthenticated_request"
	case Unauthorized:
		return "unauthorized_request"
	}
	return "unknown_error_kind"
}

// Error is the type that implements the error interface. An Error value may
// leave some fields unset.
type Error struct {
	Op    Op
	Kind  Kind
	Param Parameter
	User  UserName
	Err   error
}

func (e *Error) Error() string {
	b := new(bytes.Buffer)
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	if b.Len() == 0 {
		return "no error message provided"
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) isZero() bool {
	return e.Op == "" && e.Kind == 0 && e.Param == "" && e.User == "" && e.Err == nil
}

// E builds an error value from its arguments. There must be at least one
// argument or E panics. The type of each argument determines its meaning:
//
//	Op        the operation being performed
//	Kind      the class of error
//	Parameter the request parameter related to the error
//	UserName  the user attempting the operation
//	string    treated as an error message, converted with errors.New
//	error     the underlying error
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("call to errs.E with no arguments")
	}
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case Kind:
			e.Kind = arg
		case Parameter:
			e.Param = arg
		case UserName:
			e.User = arg
		case string:
			e.Err = errors.New(arg)
		case *Error:
			copied := *arg
			e.Err = &copied
		case error:
			e.Err = arg
		default:
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	prev, ok := e.Err.(*Error)
	if !ok {
		return e
	}
	// Inherit the kind from the wrapped error when unset, and collapse
	// duplicate kinds so the chain stays readable.
	if prev.Kind == e.Kind {
		prev.Kind = Other
	}
	if e.Kind == Other {
		e.Kind = prev.Kind
		prev.Kind = Other
	}

	return e
}

// KindIs reports whether any error in the chain matches kind.
func KindIs(kind Kind, err error) bool {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind != Other {
			return e.Kind == kind
		}
		return KindIs(kind, e.Err)
	}
	return false
}

// TopKind returns the first non-Other kind found in the chain.
func TopKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind != Other {
			return e.Kind
		}
		return TopKind(e.Err)
	}
	return Other
}

// OpStack returns the chain of operations recorded in the error, outermost
// first. Useful as a diagnostic trace.
func OpStack(err error) []string {
	var stack []string
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		if e.Op != "" {
			stack = append(stack, string(e.Op))
		}
		err = e.Err
	}
	return stack
}

// ErrResponse is the JSON body written for every failed request.
type ErrResponse struct {
	Error string `json:"error"`
}

func httpStatus(kind Kind) int {
	switch kind {
	case NotExist:
		return http.StatusNotFound
	case Exist, InvalidRequest, Validation, Unsupported:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Unauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorResponse writes err as a well-formed JSON response. Internal
// detail is logged, never leaked: only the top-level message reaches the
// caller.
func HTTPErrorResponse(w http.ResponseWriter, logger zerolog.Logger, err error) {
	if err == nil {
		logger.Error().Msg("nil error passed to HTTPErrorResponse")
		writeJSON(w, logger, http.StatusInternalServerError, ErrResponse{Error: "internal error"})
		return
	}

	var e *Error
	if errors.As(err, &e) {
		logger.Error().
			Str("kind", TopKind(err).String()).
			Strs("ops", OpStack(err)).
			Str("param", string(e.Param)).
			Err(err).
			Msg("request failed")

		writeJSON(w, logger, httpStatus(TopKind(err)), ErrResponse{Error: e.Error()})
		return
	}

	logger.Error().Err(err).Msg("unstructured request failure")
	writeJSON(w, logger, http.StatusInternalServerError, ErrResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("encoding error response")
	}
}
