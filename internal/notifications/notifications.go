package notifications

import (
	"context"
	"sort"
	"time"

	"fypportal/internal/metrics"
	"fypportal/internal/qerrors"
)

// Service is the append-only notification feed.
type Service struct {
	repository Repository
	now        func() time.Time
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

// Notify appends an unread notification for userUID.
func (s *Service) Notify(ctx context.Context, userUID, message string) error {
	n := &Notification{
		UserUID:   userUID,
		Message:   message,
		Read:      false,
		CreatedAt: s.now(),
	}
	if err := s.repository.Create(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsCreated.Inc()
	return nil
}

// List returns a user's notifications, newest first.
func (s *Service) List(ctx context.Context, userUID string) ([]*Notification, error) {
	if userUID == "" {
		return nil, qerrors.MissingUserUIDError
	}

	feed, err := s.repository.ListForUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	if feed == nil {
		feed = []*Notification{}
	}
	return feed, nil
}
