package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/Dosada05/lamasia-league/models"
	"github.com/Dosada05/lamasia-league/repositories"
	"github.com/Dosada05/lamasia-league/state"
	"github.com/jonboulle/clockwork"
)

// PopupPusher delivers a notification to the live sessions that accepted popups.
type PopupPusher interface {
	PushPopup(n models.Notification)
}

// Mailer sends plain notification e-mails.
type Mailer interface {
	SendNotificationEmail(to, subject, message string) error
}

type NotificationService interface {
	// Send is the manual, authorized entry point.
	Send(ctx context.Context, actor *models.User, input SendNotificationInput) (*models.Notification, error)
	// Notify records a system notification (welcome, results, role changes).
	Notify(ctx context.Context, notice Notice) (*models.Notification, error)
	MarkRead(ctx context.Context, actor *models.User, notificationID int) error
	ListVisible(ctx context.Context, actor *models.User) (*NotificationFeed, error)
}

type SendNotificationInput struct {
	Target  string                  `json:"target"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Type    models.NotificationType `json:"type"`
}

// Notice is a notification about to be stored. A nil UserID broadcasts it.
type Notice struct {
	UserID  *int
	Title   string
	Message string
	Type    models.NotificationType
}

type NotificationFeed struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                    `json:"unread"`
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	reader           state.Reader
	popups           PopupPusher
	mailer           Mailer
	clock            clockwork.Clock
	logger           *slog.Logger
}

// NewNotificationService wires the service. popups and mailer may be nil.
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	reader state.Reader,
	popups PopupPusher,
	mailer Mailer,
	clock clockwork.Clock,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		reader:           reader,
		popups:           popups,
		mailer:           mailer,
		clock:            clock,
		logger:           logger,
	}
}

// ParseTarget turns "all" or a numeric user id into a recipient.
func ParseTarget(target string) (*int, error) {
	target = strings.TrimSpace(target)
	if target == "" || target == models.BroadcastTarget {
		return nil, nil
	}
	id, err := strconv.Atoi(target)
	if err != nil || id <= 0 {
		return nil, ErrInvalidTarget
	}
	return &id, nil
}

func (s *notificationService) Send(ctx context.Context, actor *models.User, input SendNotificationInput) (*models.Notification, error) {
	if err := Authorize(actor, ActionSendNotification, Scope{}); err != nil {
		return nil, err
	}
	userID, err := ParseTarget(input.Target)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		if _, err := s.userRepo.GetByID(ctx, *userID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to check recipient %d: %w", *userID, err)
		}
	}
	return s.Notify(ctx, Notice{UserID: userID, Title: input.Title, Message: input.Message, Type: input.Type})
}

func (s *notificationService) Notify(ctx context.Context, notice Notice) (*models.Notification, error) {
	title := strings.TrimSpace(notice.Title)
	message := strings.TrimSpace(notice.Message)
	if title == "" || message == "" {
		return nil, ErrNotificationEmpty
	}
	if notice.Type == "" {
		notice.Type = models.NotificationInfo
	}
	if !notice.Type.Valid() {
		return nil, ErrInvalidNotifType
	}

	n := &models.Notification{
		UserID:  notice.UserID,
		Title:   title,
		Message: message,
		Date:    s.clock.Now().UTC(),
		Type:    notice.Type,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to store notification %q: %w", title, err)
	}

	s.logger.Info("notification sent",
		slog.Int("notification_id", n.ID),
		slog.String("target", n.Target()),
		slog.String("type", string(n.Type)))

	if s.popups != nil {
		s.popups.PushPopup(*n)
	}
	if s.mailer != nil && !n.IsBroadcast() {
		s.email(ctx, n)
	}
	return n, nil
}

// email is best effort: the notification is already stored.
func (s *notificationService) email(ctx context.Context, n *models.Notification) {
	user, err := s.userRepo.GetByID(ctx, *n.UserID)
	if err != nil {
		s.logger.Warn("notification e-mail skipped", slog.Int("user_id", *n.UserID), slog.Any("error", err))
		return
	}
	if err := s.mailer.SendNotificationEmail(user.Email, n.Title, n.Message); err != nil {
		s.logger.Warn("notification e-mail failed", slog.Int("user_id", user.ID), slog.Any("error", err))
	}
}

func (s *notificationService) MarkRead(ctx context.Context, actor *models.User, notificationID int) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification %d: %w", notificationID, err)
	}
	if err := Authorize(actor, ActionMarkRead, Scope{Notification: n}); err != nil {
		return err
	}
	if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification %d read: %w", notificationID, err)
	}
	return nil
}

// ListVisible returns the actor's and broadcast notifications, newest first.
func (s *notificationService) ListVisible(ctx context.Context, actor *models.User) (*NotificationFeed, error) {
	if actor == nil {
		return nil, ErrAuthenticationFailed
	}
	snap := s.reader.Snapshot()

	feed := &NotificationFeed{Notifications: make([]models.Notification, 0)}
	for _, n := range snap.Notifications {
		if !n.VisibleTo(actor.ID) {
			continue
		}
		feed.Notifications = append(feed.Notifications, n)
		if !n.Read {
			feed.Unread++
		}
	}
	sort.SliceStable(feed.Notifications, func(i, j int) bool {
		return feed.Notifications[i].Date.After(feed.Notifications[j].Date)
	})
	return feed, nil
}
