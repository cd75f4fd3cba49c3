// Package app implements the application layer for courier.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/courier/internal/engine/queue"
	"go.trai.ch/courier/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	opener       ports.StoreOpener
	queueStore   ports.QueueStore
	resolvers    *resolver.Factory
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	opener ports.StoreOpener,
	queueStore ports.QueueStore,
	resolvers *resolver.Factory,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		opener:       opener,
		queueStore:   queueStore,
		resolvers:    resolvers,
		logger:       logger,
	}
}

// ResolveOptions configures a ResolveQueue run.
type ResolveOptions struct {
	// ConfigPath locates the configuration file.
	ConfigPath string
	// QueuePath is the queue file to resolve.
	QueuePath string
	// OutputPath receives the rewritten queue. Empty means QueuePath.
	OutputPath string
}

// ResolveReport summarizes a ResolveQueue run.
type ResolveReport struct {
	// Statuses holds the status of every command read, in file order.
	Statuses []queue.Status
	// Written is the number of commands written to the output.
	Written int
	// Rejected holds the commands that failed fatally. They are not written back.
	Rejected []*domain.Command
}

// Count returns how many commands ended in status.
func (r *ResolveReport) Count(status queue.Status) int {
	n := 0
	for _, s := range r.Statuses {
		if s == status {
			n++
		}
	}
	return n
}

// CacheKeys returns the cache key of every command in the queue file.
func (a *App) CacheKeys(queuePath string) ([]string, error) {
	cmds, err := a.queueStore.Load(queuePath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load queue")
	}

	keys := make([]string, len(cmds))
	for i, cmd := range cmds {
		keys[i] = cmd.CacheKey()
	}
	return keys, nil
}

// ResolveQueue resolves the local ids of every command in a queue file and writes the
// rewritten queue. Duplicate reads and rejected commands are dropped from the output;
// commands that failed for any other reason are written unchanged so that they can be
// retried. An interrupted run writes nothing. The returned error joins every command failure.
func (a *App) ResolveQueue(ctx context.Context, opts ResolveOptions) (*ResolveReport, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	cmds, err := a.queueStore.Load(opts.QueuePath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load queue")
	}

	store, err := a.opener.Open(ctx, cfg.Store)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open local id store")
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			a.logger.Error(zerr.Wrap(cerr, "failed to close local id store"))
		}
	}()

	q := queue.New(a.resolvers.New(store), a.logger, cfg.Queue.DedupWindow)
	for _, cmd := range cmds {
		q.Add(cmd)
	}

	runErr := q.Run(ctx, cfg.Queue.Parallelism)
	if ctx.Err() != nil || (runErr != nil && !errors.Is(runErr, domain.ErrCommandFailed)) {
		// Interrupted before every command was attempted: keep the input as it is.
		if runErr == nil {
			runErr = ctx.Err()
		}
		return &ResolveReport{Statuses: q.Statuses()}, zerr.Wrap(runErr, "queue resolution interrupted")
	}

	out := opts.OutputPath
	if out == "" {
		out = opts.QueuePath
	}
	resolved := q.Commands()
	if err := a.queueStore.Save(out, resolved); err != nil {
		return nil, zerr.Wrap(err, "failed to write queue")
	}

	report := &ResolveReport{Statuses: q.Statuses(), Written: len(resolved), Rejected: q.Rejected()}
	for _, cmd := range report.Rejected {
		a.logger.Warn(fmt.Sprintf("dropped rejected command %s %s (local id %q)", cmd.Method, cmd.Path, cmd.LocalID))
	}
	a.logger.Info(fmt.Sprintf("wrote %d commands to %s (%d resolved, %d failed, %d rejected, %d duplicates)",
		report.Written, out,
		report.Count(queue.StatusResolved), report.Count(queue.StatusFailed),
		report.Count(queue.StatusRejected), report.Count(queue.StatusDuplicate)))

	if runErr != nil {
		return report, zerr.Wrap(runErr, "some commands failed to resolve")
	}
	return report, nil
}

// MapLocalID records that the object created under localID received objectID from the server.
func (a *App) MapLocalID(ctx context.Context, configPath, localID, objectID string) error {
	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	store, err := a.opener.Open(ctx, cfg.Store)
	if err != nil {
		return zerr.Wrap(err, "failed to open local id store")
	}

	if err := store.SetObjectID(ctx, localID, objectID); err != nil {
		_ = store.Close()
		return zerr.Wrap(err, "failed to record object id")
	}
	if err := store.Close(); err != nil {
		return zerr.Wrap(err, "failed to close local id store")
	}

	a.logger.Info(fmt.Sprintf("mapped %s to %s", localID, objectID))
	return nil
}
