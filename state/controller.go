package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Feed yields changed collection names; nil means "reload everything".
// db.Listener implements it.
type Feed interface {
	Changes() <-chan *string
}

var ErrAlreadyStarted = errors.New("state controller already started")

// Controller keeps the latest Snapshot and fans out Change events.
// Reloads triggered by the feed run on a single goroutine.
type Controller struct {
	source Source
	logger *slog.Logger

	reloadMu sync.Mutex
	mu       sync.RWMutex
	snapshot Snapshot

	subMu  sync.Mutex
	subs   map[int]chan Change
	nextID int

	started bool
	done    chan struct{}
}

func NewController(source Source, logger *slog.Logger) *Controller {
	return &Controller{
		source: source,
		logger: logger,
		subs:   make(map[int]chan Change),
		done:   make(chan struct{}),
	}
}

// Snapshot implements Reader.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Start performs the initial full load and then follows feed until ctx is
// cancelled or the feed closes. It returns once the initial load is done.
func (c *Controller) Start(ctx context.Context, feed Feed) error {
	c.subMu.Lock()
	if c.started {
		c.subMu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.subMu.Unlock()

	if err := c.Reload(ctx); err != nil {
		return fmt.Errorf("initial snapshot load: %w", err)
	}

	go c.follow(ctx, feed)
	return nil
}

// Done is closed when the controller stops following the feed.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) follow(ctx context.Context, feed Feed) {
	defer close(c.done)
	defer c.closeSubscribers()

	changes := feed.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-changes:
			if !ok {
				c.logger.Warn("change feed closed, snapshot is frozen")
				return
			}
			var err error
			if name == nil || !Collection(*name).Valid() {
				err = c.Reload(ctx)
			} else {
				err = c.Reload(ctx, Collection(*name))
			}
			if err != nil {
				// Следующее событие или переподключение повторит загрузку.
				c.logger.Error("failed to reload snapshot", slog.Any("error", err))
			}
		}
	}
}

// Reload fetches the named collections (all when none are given) concurrently
// and publishes one Change for the batch.
func (c *Controller) Reload(ctx context.Context, collections ...Collection) error {
	if len(collections) == 0 {
		collections = AllCollections
	}
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	var next Snapshot
	g, gctx := errgroup.WithContext(ctx)
	for _, col := range collections {
		col := col
		g.Go(func() error {
			return c.load(gctx, col, &next)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	merged := c.snapshot
	for _, col := range collections {
		switch col {
		case Teams:
			merged.Teams = next.Teams
		case Matches:
			merged.Matches = next.Matches
		case Players:
			merged.Players = next.Players
		case Rounds:
			merged.Rounds = next.Rounds
		case Users:
			merged.Users = next.Users
		case Notifications:
			merged.Notifications = next.Notifications
		}
	}
	merged.Version++
	c.snapshot = merged
	c.mu.Unlock()

	c.logger.Debug("snapshot reloaded", slog.Any("collections", collections), slog.Uint64("version", merged.Version))
	c.publish(Change{Collections: append([]Collection(nil), collections...), Version: merged.Version})
	return nil
}

// load writes exactly one field of dst, so concurrent loads never overlap.
func (c *Controller) load(ctx context.Context, col Collection, dst *Snapshot) error {
	var err error
	switch col {
	case Teams:
		dst.Teams, err = c.source.Teams(ctx)
	case Matches:
		dst.Matches, err = c.source.Matches(ctx)
	case Players:
		dst.Players, err = c.source.Players(ctx)
	case Rounds:
		dst.Rounds, err = c.source.Rounds(ctx)
	case Users:
		dst.Users, err = c.source.Users(ctx)
	case Notifications:
		dst.Notifications, err = c.source.Notifications(ctx)
	default:
		return fmt.Errorf("unknown collection %q", col)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", col, err)
	}
	return nil
}

// Subscribe returns a channel of changes and a cancel func. Each subscriber
// has a one-slot buffer: if it lags, pending changes are merged into one.
func (c *Controller) Subscribe() (<-chan Change, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan Change, 1)
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()
			if existing, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(existing)
			}
		})
	}
	return ch, cancel
}

func (c *Controller) publish(change Change) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subs {
		select {
		case ch <- change:
			continue
		default:
		}
		pending := change
		select {
		case old := <-ch:
			pending = old.merge(change)
		default:
		}
		select {
		case ch <- pending:
		default:
		}
	}
}

func (c *Controller) closeSubscribers() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}
