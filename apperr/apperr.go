package apperr

import (
	"errors"
	"net/http"
)

// Kind groups errors by who can fix them.
type Kind string

const (
	// KindConfig is a missing or broken stored Google configuration. An admin fixes it.
	KindConfig Kind = "config"
	// KindAuth covers provider exchange, identity verification and session token failures.
	KindAuth Kind = "auth"
	// KindStore is a persistence failure passed up from the store.
	KindStore Kind = "store"
)

// Error represents a typed, status-aware application error.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message,omitempty"`
	Status  int            `json:"-"`
	Kind    Kind           `json:"-"`
	Fields  map[string]any `json:"fields,omitempty"`
	Err     error          `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return "error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Code, so copies made by Wrap still match their base.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil || t.Code == "" {
		return false
	}
	return e.Code == t.Code
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

func newKind(kind Kind, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Kind: kind}
}

func Wrap(err error, base *Error, message string) *Error {
	if err == nil {
		return nil
	}
	if base == nil {
		base = ErrInternal
	}
	copy := *base
	if message != "" {
		copy.Message = message
	}
	copy.Err = err
	return &copy
}

func WithFields(base *Error, fields map[string]any) *Error {
	if base == nil {
		return nil
	}
	copy := *base
	copy.Fields = fields
	return &copy
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := As(err); ok {
		return e.Kind == kind
	}
	return false
}

func Status(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

func Code(err error) string {
	if e, ok := As(err); ok && e.Code != "" {
		return e.Code
	}
	return "internal_error"
}

func Message(err error) string {
	if e, ok := As(err); ok {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Code
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func Payload(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	if e, ok := As(err); ok {
		payload := map[string]any{
			"code":    Code(e),
			"message": Message(e),
		}
		if len(e.Fields) > 0 {
			payload["fields"] = e.Fields
		}
		return payload
	}
	return map[string]any{
		"code":    "internal_error",
		"message": err.Error(),
	}
}

// Rejection renders err in the {error: true, message} shape handed back to callers.
func Rejection(err error) map[string]any {
	payload := Payload(err)
	payload["error"] = true
	return payload
}

var (
	ErrBadRequest   = New("bad_request", http.StatusBadRequest, "")
	ErrValidation   = New("validation_error", http.StatusBadRequest, "")
	ErrEmptyBody    = New("empty_body", http.StatusBadRequest, "request body is empty")
	ErrUnauthorized = New("unauthorized", http.StatusUnauthorized, "")
	ErrForbidden    = New("forbidden", http.StatusForbidden, "")
	ErrNotFound     = New("not_found", http.StatusNotFound, "")
	ErrConflict     = New("conflict", http.StatusConflict, "")
	ErrInternal     = New("internal_error", http.StatusInternalServerError, "")
	ErrUnavailable  = New("service_unavailable", http.StatusServiceUnavailable, "")
	ErrMarshal      = New("marshal_error", http.StatusInternalServerError, "")
	ErrDatabase     = newKind(KindStore, "database_error", http.StatusInternalServerError, "")
)

// Google sign-in errors.
var (
	ErrMissingCredentials    = newKind(KindConfig, "missing_credentials", http.StatusBadRequest, "Add credentials to activate the login feature.")
	ErrIncompleteCredentials = newKind(KindConfig, "missing_credentials", http.StatusBadRequest, "Missing credentials")
	ErrInvalidScopes         = newKind(KindConfig, "invalid_scopes", http.StatusBadRequest, "Invalid/missing scopes")

	ErrTokenExchange        = newKind(KindAuth, "token_exchange_failed", http.StatusBadRequest, "")
	ErrIdentityVerification = newKind(KindAuth, "identity_verification_failed", http.StatusUnauthorized, "")
	ErrInvalidToken         = newKind(KindAuth, "invalid_token", http.StatusUnauthorized, "Invalid token")
	ErrUserNotFound         = newKind(KindAuth, "user_not_found", http.StatusUnauthorized, "User not found")
	ErrBlocked              = newKind(KindAuth, "blocked", http.StatusForbidden, "Your account has been blocked by an administrator")

	ErrUserConflict = newKind(KindStore, "user_conflict", http.StatusConflict, "A user with this email already exists")
)
