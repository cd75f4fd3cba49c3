// Package queue resolves a batch of pending commands once connectivity returns.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Status represents the status of a queued command.
type Status string

const (
	// StatusPending indicates the command is waiting to be resolved.
	StatusPending Status = "Pending"
	// StatusResolved indicates the command was resolved and can be sent.
	StatusResolved Status = "Resolved"
	// StatusFailed indicates resolution failed; the command must not be sent yet
	// and is kept for a later attempt.
	StatusFailed Status = "Failed"
	// StatusRejected indicates resolution failed fatally; the command must never be sent.
	StatusRejected Status = "Rejected"
	// StatusDuplicate indicates an identical command was queued within the dedup window.
	StatusDuplicate Status = "Duplicate"
)

// Resolver resolves the local ids of a single command.
type Resolver interface {
	ResolveLocalIDs(ctx context.Context, cmd *domain.Command) error
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, cmd *domain.Command) error

// ResolveLocalIDs calls f.
func (f ResolverFunc) ResolveLocalIDs(ctx context.Context, cmd *domain.Command) error {
	return f(ctx, cmd)
}

type entry struct {
	cmd    *domain.Command
	key    string
	status Status
}

// Queue holds commands in insertion order and resolves them concurrently.
type Queue struct {
	resolver Resolver
	log      ports.Logger
	seen     *ttlcache.Cache[string, int]

	mu      sync.RWMutex
	entries []entry
}

// New creates a new Queue. Read commands with the same cache key added within window of
// each other are recorded as duplicates. Writes are never deduplicated: the cache key
// ignores the local id, so two identical creates may still create two objects.
// A zero window disables deduplication.
func New(resolver Resolver, log ports.Logger, window time.Duration) *Queue {
	q := &Queue{
		resolver: resolver,
		log:      log,
	}
	if window > 0 {
		q.seen = ttlcache.New[string, int](
			ttlcache.WithTTL[string, int](window),
			ttlcache.WithDisableTouchOnHit[string, int](),
		)
	}
	return q
}

// Add appends cmd to the queue and returns its index and initial status.
// A command without an operation set UUID is assigned one.
func (q *Queue) Add(cmd *domain.Command) (int, Status) {
	if cmd.OperationSetUUID == "" {
		cmd.OperationSetUUID = domain.NewOperationSetUUID()
	}
	key := cmd.CacheKey()

	q.mu.Lock()
	defer q.mu.Unlock()

	index := len(q.entries)
	status := StatusPending
	if q.seen != nil && cmd.Method.IsRead() {
		if item, loaded := q.seen.GetOrSet(key, index); loaded {
			status = StatusDuplicate
			q.log.Warn(fmt.Sprintf("command %d duplicates command %d (%s)", index, item.Value(), key))
		}
	}

	q.entries = append(q.entries, entry{cmd: cmd, key: key, status: status})
	return index, status
}

// Len returns the number of queued commands, duplicates included.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.entries)
}

// Statuses returns a copy of the status table, indexed like the queue.
func (q *Queue) Statuses() []Status {
	q.mu.RLock()
	defer q.mu.RUnlock()

	statuses := make([]Status, len(q.entries))
	for i, e := range q.entries {
		statuses[i] = e.status
	}
	return statuses
}

// Commands returns the queued commands that may still be sent, in queue order.
// Duplicates and rejected commands are left out.
func (q *Queue) Commands() []*domain.Command {
	return q.filter(func(s Status) bool { return s != StatusDuplicate && s != StatusRejected })
}

// Rejected returns the commands that failed fatally, in queue order.
func (q *Queue) Rejected() []*domain.Command {
	return q.filter(func(s Status) bool { return s == StatusRejected })
}

func (q *Queue) filter(keep func(Status) bool) []*domain.Command {
	q.mu.RLock()
	defer q.mu.RUnlock()

	cmds := make([]*domain.Command, 0, len(q.entries))
	for _, e := range q.entries {
		if keep(e.status) {
			cmds = append(cmds, e.cmd)
		}
	}
	return cmds
}

func (q *Queue) updateStatus(index int, status Status) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[index].status = status
}

// pending returns the indexes of commands still waiting for resolution.
func (q *Queue) pending() []int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var indexes []int
	for i, e := range q.entries {
		if e.status == StatusPending {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// Run resolves every pending command with at most parallelism resolutions in flight.
// A failing command does not stop the others; all failures are returned joined,
// in queue order, each wrapping domain.ErrCommandFailed. Fatal failures leave the
// command in StatusRejected, all others in StatusFailed.
func (q *Queue) Run(ctx context.Context, parallelism int) error {
	if parallelism < 1 {
		parallelism = 1
	}

	indexes := q.pending()
	failures := make([]error, len(indexes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for slot, index := range indexes {
		if gctx.Err() != nil {
			break
		}

		q.mu.RLock()
		e := q.entries[index]
		q.mu.RUnlock()

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := q.resolver.ResolveLocalIDs(gctx, e.cmd); err != nil {
				status := StatusFailed
				if domain.IsFatal(err) {
					status = StatusRejected
				}
				q.updateStatus(index, status)
				failures[slot] = zerr.With(zerr.With(zerr.Wrap(errors.Join(domain.ErrCommandFailed, err),
					"command resolution failed"), "index", index), "cache_key", e.key)
				return nil
			}
			q.updateStatus(index, StatusResolved)
			return nil
		})
	}

	waitErr := g.Wait()

	errs := errors.Join(failures...)
	if waitErr != nil {
		errs = errors.Join(errs, waitErr)
	} else if err := ctx.Err(); err != nil {
		errs = errors.Join(errs, err)
	}

	q.log.Info(fmt.Sprintf("resolved %d of %d queued commands", q.count(StatusResolved), len(indexes)))
	return errs
}

func (q *Queue) count(status Status) int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	n := 0
	for _, e := range q.entries {
		if e.status == status {
			n++
		}
	}
	return n
}
