package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Method is the HTTP method a command is sent with.
type Method string

const (
	// MethodGet reads a resource.
	MethodGet Method = "GET"
	// MethodPost creates a resource.
	MethodPost Method = "POST"
	// MethodPut updates a resource.
	MethodPut Method = "PUT"
	// MethodDelete deletes a resource.
	MethodDelete Method = "DELETE"
)

// ParseMethod converts a case-insensitive method name into a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return m, nil
	}
	return "", zerr.With(zerr.Wrap(ErrInvalidMethod, "unsupported http method"), "method", s)
}

// IsRead reports whether m only reads server state.
func (m Method) IsRead() bool {
	return m == MethodGet
}

func (m Method) String() string {
	return string(m)
}
