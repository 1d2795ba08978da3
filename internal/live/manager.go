// Package live delivers push-based query subscriptions on top of the
// document store's change streams. Every subscription re-materializes the
// full matching result set on each change notification and hands it to the
// registered callback; deliveries for one subscription are serialized, and
// Stop tears the underlying stream down before returning.
package live

import (
	"context"
	"errors"

	"convo/internal/entity"
	"convo/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Manager struct {
	logger   *zap.SugaredLogger
	streams  streamOpener
	users    repository.UserRepository
	chats    repository.ChatRepository
	messages repository.MessageRepository
}

func NewManager(
	db *mongo.Database,
	users repository.UserRepository,
	chats repository.ChatRepository,
	messages repository.MessageRepository,
	logger *zap.SugaredLogger,
) *Manager {
	return &Manager{
		logger:   logger,
		streams:  &mongoStreams{db: db},
		users:    users,
		chats:    chats,
		messages: messages,
	}
}

// Subscription is the teardown handle returned by every subscribe call.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop unsubscribes from the store's change stream and waits for the
// delivery goroutine to exit. No callback runs after Stop returns.
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}

// Messages subscribes to a chat's message stream. With limit > 0 each
// delivery is the limit most recent messages in chronological order;
// otherwise the full history. The initial load counts as a delivery.
func (m *Manager) Messages(ctx context.Context, chatId string, limit int64, fn func([]entity.Message)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	w, err := m.streams.messages(ctx, chatId)
	if err != nil {
		cancel()
		return nil, err
	}

	deliver := func(ctx context.Context) error {
		messages, err := m.messages.Latest(ctx, chatId, limit)
		if err != nil {
			return err
		}
		fn(messages)
		return nil
	}

	return m.run(ctx, cancel, w, deliver), nil
}

// Chats subscribes to a user's chat list, sorted by last activity on every
// delivery.
func (m *Manager) Chats(ctx context.Context, userId string, fn func([]entity.Chat)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	w, err := m.streams.chats(ctx, userId)
	if err != nil {
		cancel()
		return nil, err
	}

	deliver := func(ctx context.Context) error {
		chats, err := m.chats.ByUser(ctx, userId)
		if err != nil {
			return err
		}
		fn(chats)
		return nil
	}

	return m.run(ctx, cancel, w, deliver), nil
}

// Presence subscribes to a single user's presence record. The callback
// receives nil once the record no longer exists.
func (m *Manager) Presence(ctx context.Context, userId string, fn func(*entity.User)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	w, err := m.streams.presence(ctx, userId)
	if err != nil {
		cancel()
		return nil, err
	}

	deliver := func(ctx context.Context) error {
		user, err := m.users.Get(ctx, userId)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				fn(nil)
				return nil
			}
			return err
		}
		fn(&user)
		return nil
	}

	return m.run(ctx, cancel, w, deliver), nil
}

// run owns the delivery loop: one initial snapshot, then one re-query per
// change notification, all on a single goroutine so callbacks for this
// subscription never overlap.
func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, w watcher, deliver func(context.Context) error) *Subscription {
	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer func() {
			if err := w.Close(context.Background()); err != nil {
				m.logger.Debugf("closing change stream: %v", err)
			}
		}()

		if err := deliver(ctx); err != nil && ctx.Err() == nil {
			m.logger.Errorf("initial snapshot delivery: %v", err)
		}

		for w.Next(ctx) {
			if err := deliver(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				m.logger.Errorf("snapshot delivery: %v", err)
			}
		}

		if err := w.Err(); err != nil && ctx.Err() == nil {
			m.logger.Errorf("change stream: %v", err)
		}
	}()

	return sub
}
