// Package resolver rewrites commands once the server ids of their local objects are known.
package resolver

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver replaces local id references in a command with server ids taken from a LocalIDStore,
// and turns a create into an update once its own object exists on the server.
type Resolver struct {
	store ports.LocalIDStore
	dec   ports.Decoder
	enc   ports.Encoder
	log   ports.Logger
}

// New creates a new Resolver.
func New(store ports.LocalIDStore, dec ports.Decoder, enc ports.Encoder, log ports.Logger) *Resolver {
	return &Resolver{
		store: store,
		dec:   dec,
		enc:   enc,
		log:   log,
	}
}

// ResolveLocalIDs resolves every placeholder in the parameters of cmd and then rewrites its operation.
//
// On error cmd is left as it was before the call, apart from changes made by a previous
// successful call, and must not be sent. Errors wrap one of domain.ErrEncodingFailure,
// domain.ErrResolutionFailure or domain.ErrConsistencyViolation.
func (r *Resolver) ResolveLocalIDs(ctx context.Context, cmd *domain.Command) error {
	params, err := r.resolveParameters(ctx, cmd)
	if err != nil {
		r.log.Error(err)
		return err
	}

	objectID, found, err := r.lookupOwnID(ctx, cmd)
	if err != nil {
		r.log.Error(err)
		return err
	}

	// Commit only once every step has succeeded.
	cmd.Parameters = params
	rewriteOperation(cmd, objectID, found)
	return nil
}

// resolveParameters returns the parameters of cmd with every placeholder resolved.
// The original map is returned when nothing had to change.
func (r *Resolver) resolveParameters(ctx context.Context, cmd *domain.Command) (map[string]any, error) {
	if cmd.Parameters == nil {
		return nil, nil
	}

	tree, err := r.dec.Decode(cmd.Parameters)
	if err != nil {
		return nil, joinKind(domain.ErrEncodingFailure, zerr.With(zerr.Wrap(err, "failed to decode parameters"), "path", cmd.Path))
	}

	walked, modified, err := domain.Walk(tree, r.visitor(ctx))
	if err != nil {
		return nil, zerr.With(err, "path", cmd.Path)
	}
	if !modified {
		return cmd.Parameters, nil
	}

	resolved, ok := walked.(domain.Map)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrEncodingFailure, "resolved parameters are not a map"), "kind", walked.Kind().String())
	}

	params, err := r.enc.Encode(resolved)
	if err != nil {
		return nil, joinKind(domain.ErrEncodingFailure, zerr.With(zerr.Wrap(err, "failed to encode parameters"), "path", cmd.Path))
	}
	return params, nil
}

// visitor looks up the server id of each placeholder. A missing mapping is a failure:
// the referenced object has to exist before anything can point at it.
func (r *Resolver) visitor(ctx context.Context) domain.Visitor {
	return func(p *domain.Placeholder) (domain.Value, error) {
		objectID, found, err := r.store.ObjectIDForLocalID(ctx, p.LocalID)
		if err != nil {
			return nil, errors.Join(domain.ErrResolutionFailure,
				zerr.With(zerr.With(zerr.Wrap(err, "failed to look up local id"), "local_id", p.LocalID), "class_name", p.ClassName))
		}
		if !found {
			return nil, errors.Join(domain.ErrResolutionFailure,
				zerr.With(zerr.With(zerr.Wrap(domain.ErrLocalIDNotFound, "referenced object has no server id"), "local_id", p.LocalID), "class_name", p.ClassName))
		}
		return p.WithObjectID(objectID), nil
	}
}

// lookupOwnID resolves the local id of the object the command itself operates on.
func (r *Resolver) lookupOwnID(ctx context.Context, cmd *domain.Command) (string, bool, error) {
	if cmd.LocalID == "" {
		return "", false, nil
	}

	objectID, found, err := r.store.ObjectIDForLocalID(ctx, cmd.LocalID)
	if err != nil {
		return "", false, errors.Join(domain.ErrResolutionFailure,
			zerr.With(zerr.Wrap(err, "failed to look up local id of command"), "local_id", cmd.LocalID))
	}

	if !found && cmd.Method == domain.MethodDelete {
		return "", false, zerr.With(zerr.With(zerr.Wrap(domain.ErrConsistencyViolation, "cannot delete an object that was never created"),
			"local_id", cmd.LocalID), "path", cmd.Path)
	}
	return objectID, found, nil
}

// rewriteOperation promotes a create to an update once the object has a server id.
func rewriteOperation(cmd *domain.Command, objectID string, found bool) {
	if cmd.LocalID == "" || !found {
		return
	}

	segments := cmd.PathSegments()
	cmd.LocalID = ""
	if len(segments) == 2 {
		cmd.Path = strings.TrimSuffix(cmd.Path, "/") + "/" + objectID
	}
	if cmd.Method == domain.MethodPost && len(segments) > 0 && segments[0] == domain.ClassesSegment {
		cmd.Method = domain.MethodPut
	}
}

// joinKind attaches kind to err unless err already carries it.
func joinKind(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return errors.Join(kind, err)
}
