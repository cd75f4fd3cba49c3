package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// Keys of the dictionary representation of a command.
const (
	KeyHTTPPath     = "httpPath"
	KeyHTTPMethod   = "httpMethod"
	KeyParameters   = "parameters"
	KeySessionToken = "sessionToken"
	KeyLocalID      = "localId"
)

// Cache key components. Bump CacheKeyFormatVersion when the cached value schema changes
// and APIVersion when the wire contract changes, so stale entries miss instead of being misread.
const (
	CacheKeyNamespace     = "RESTCommand"
	CacheKeyFormatVersion = 1
	APIVersion            = 1
)

// ClassesSegment is the first path segment of object collection paths.
const ClassesSegment = "classes"

// Command is a pending remote-API operation.
//
// A Command is owned by a single goroutine. Its cache key is computed on first use and
// never recomputed, so path, method, parameters and session token must not change
// after CacheKey has been called.
type Command struct {
	Path         string
	Method       Method
	Parameters   map[string]any
	SessionToken string

	// LocalID is set while the command operates on an object that has no server id yet.
	LocalID string

	// OperationSetUUID identifies the batch of field mutations the command commits.
	OperationSetUUID string

	keyOnce  sync.Once
	cacheKey string
}

// NewCommand creates a command for the given path and method.
func NewCommand(path string, method Method, parameters map[string]any, sessionToken string) *Command {
	return &Command{
		Path:         path,
		Method:       method,
		Parameters:   parameters,
		SessionToken: sessionToken,
	}
}

// CacheKey returns the memoized cache key of the command.
func (c *Command) CacheKey() string {
	c.keyOnce.Do(func() {
		c.cacheKey = ComputeCacheKey(c)
	})
	return c.cacheKey
}

// ComputeCacheKey derives the cache key of a command from its method, path, parameters
// and session token. Local id and operation set are not part of the identity.
func ComputeCacheKey(c *Command) string {
	normalized := make(map[string]any, 2)
	if c.Parameters != nil {
		normalized[KeyParameters] = c.Parameters
	}
	if c.SessionToken != "" {
		normalized[KeySessionToken] = c.SessionToken
	}

	return fmt.Sprintf("%s.%d.%s.%s.%d.%s",
		CacheKeyNamespace,
		CacheKeyFormatVersion,
		c.Method,
		DigestString(c.Path),
		APIVersion,
		Digest(normalized),
	)
}

// PathSegments returns the non-empty segments of the command path.
// Leading, trailing and repeated slashes do not form segments, so "/classes/Foo/"
// is the two-segment collection path of class Foo.
func (c *Command) PathSegments() []string {
	return strings.FieldsFunc(c.Path, func(r rune) bool { return r == '/' })
}

// DictionaryRepresentation returns the stored form of the command.
// Only present fields are emitted; httpPath is always present.
func (c *Command) DictionaryRepresentation() (map[string]any, error) {
	dict := map[string]any{
		KeyHTTPPath: c.Path,
	}
	if c.Method != "" {
		dict[KeyHTTPMethod] = c.Method.String()
	}
	if c.Parameters != nil {
		if err := ValidateStored(c.Parameters); err != nil {
			return nil, errors.Join(ErrEncodingFailure, zerr.With(zerr.Wrap(err, "parameters are not representable"), "path", c.Path))
		}
		dict[KeyParameters] = cloneStoredMap(c.Parameters)
	}
	if c.SessionToken != "" {
		dict[KeySessionToken] = c.SessionToken
	}
	if c.LocalID != "" {
		dict[KeyLocalID] = c.LocalID
	}
	return dict, nil
}

// CommandFromDictionary rebuilds a command from its stored form.
// It returns ErrMalformedRepresentation when httpPath is absent or a field has the wrong type.
func CommandFromDictionary(dict map[string]any) (*Command, error) {
	path, ok := dict[KeyHTTPPath].(string)
	if !ok {
		return nil, zerr.Wrap(ErrMalformedRepresentation, "httpPath is required")
	}

	c := &Command{Path: path}

	if raw, present := dict[KeyHTTPMethod]; present && raw != nil {
		name, ok := raw.(string)
		if !ok {
			return nil, malformedField(KeyHTTPMethod, raw)
		}
		method, err := ParseMethod(name)
		if err != nil {
			return nil, errors.Join(ErrMalformedRepresentation, err)
		}
		c.Method = method
	}

	if raw, present := dict[KeyParameters]; present && raw != nil {
		params, ok := raw.(map[string]any)
		if !ok {
			return nil, malformedField(KeyParameters, raw)
		}
		c.Parameters = cloneStoredMap(params)
	}

	var err error
	if c.SessionToken, err = optionalString(dict, KeySessionToken); err != nil {
		return nil, err
	}
	if c.LocalID, err = optionalString(dict, KeyLocalID); err != nil {
		return nil, err
	}

	return c, nil
}

func optionalString(dict map[string]any, key string) (string, error) {
	raw, present := dict[key]
	if !present || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", malformedField(key, raw)
	}
	return s, nil
}

func malformedField(key string, raw any) error {
	return zerr.With(zerr.With(zerr.Wrap(ErrMalformedRepresentation, "field has the wrong type"),
		"field", key), "type", fmt.Sprintf("%T", raw))
}
