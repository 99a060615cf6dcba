package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// ChangesChannel is the NOTIFY channel fed by the collection triggers.
const ChangesChannel = "league_changes"

const (
	minReconnectInterval = time.Second
	maxReconnectInterval = 30 * time.Second
	// Без уведомлений долго — пингуем соединение, чтобы заметить обрыв.
	idlePingInterval = 90 * time.Second
)

// ChangeFeed delivers the name of each changed collection. A nil value means
// the feed lost events (reconnect) and every collection must be reloaded.
type ChangeFeed interface {
	Changes() <-chan *string
	Close() error
}

// Listener is a ChangeFeed backed by Postgres LISTEN/NOTIFY.
type Listener struct {
	listener *pq.Listener
	out      chan *string
	logger   *slog.Logger
	done     chan struct{}
}

func NewListener(ctx context.Context, dsn string, logger *slog.Logger) (*Listener, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warn("change feed connection attempt failed", slog.Any("error", err))
		case pq.ListenerEventDisconnected:
			logger.Warn("change feed disconnected", slog.Any("error", err))
		case pq.ListenerEventReconnected:
			logger.Info("change feed reconnected")
		}
	}

	pl := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, reportProblem)
	if err := pl.Listen(ChangesChannel); err != nil {
		_ = pl.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", ChangesChannel, err)
	}

	l := &Listener{
		listener: pl,
		out:      make(chan *string, 64),
		logger:   logger,
		done:     make(chan struct{}),
	}
	go l.run(ctx)
	return l, nil
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.out)
	ticker := time.NewTicker(idlePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case n, ok := <-l.listener.Notify:
			if !ok {
				return
			}
			var collection *string
			// pq шлёт nil после переподключения: события могли потеряться.
			if n != nil {
				name := n.Extra
				collection = &name
			}
			select {
			case l.out <- collection:
			case <-ctx.Done():
				return
			case <-l.done:
				return
			}
		case <-ticker.C:
			if err := l.listener.Ping(); err != nil {
				l.logger.Warn("change feed ping failed", slog.Any("error", err))
			}
		}
	}
}

func (l *Listener) Changes() <-chan *string {
	return l.out
}

func (l *Listener) Close() error {
	select {
	case <-l.done:
		return nil
	default:
		close(l.done)
	}
	return l.listener.Close()
}
