package service

import (
	"context"
	"time"

	providersvc "github.com/LewisLovet/opatam-sub005/internal/providers/service"
	"github.com/LewisLovet/opatam-sub005/internal/reminders/repository"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	"github.com/LewisLovet/opatam-sub005/pkg/events"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

// maxReminderOffset bounds the sweep window to the largest offset providers
// may configure.
const maxReminderOffset = 720 * time.Hour

type ReminderService interface {
	// SweepDue walks confirmed bookings inside the reminder horizon and
	// publishes one reminder.due per newly reached offset. Safe to run on
	// overlapping schedules: the ledger write is the dedupe point.
	SweepDue(ctx context.Context, now time.Time) (int, error)
	// SweepReviewRequests publishes review.requested for completed bookings
	// whose review delay has elapsed.
	SweepReviewRequests(ctx context.Context, now time.Time) (int, error)
}

type reminderService struct {
	repo      repository.ReminderRepository
	settings  providersvc.ProviderSettingsService
	publisher events.Publisher
	cfg       *config.Config
}

func NewReminderService(
	repo repository.ReminderRepository,
	settings providersvc.ProviderSettingsService,
	publisher events.Publisher,
	cfg *config.Config,
) ReminderService {
	return &reminderService{
		repo:      repo,
		settings:  settings,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *reminderService) SweepDue(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()
	bookings, err := s.repo.FindConfirmedStartingBetween(ctx, now, now.Add(maxReminderOffset))
	if err != nil {
		s.cfg.Log.Error("Reminder sweep query failed", "error", err)
		return 0, err
	}

	dispatched := 0
	offsetsByProvider := make(map[string][]int)

	for _, b := range bookings {
		offsets, ok := offsetsByProvider[b.ProviderID]
		if !ok {
			settings, err := s.settings.Get(ctx, b.ProviderID)
			if err != nil {
				s.cfg.Log.Warn("Skipping provider in reminder sweep",
					"provider_id", b.ProviderID,
					"error", err,
				)
				offsetsByProvider[b.ProviderID] = nil
				continue
			}
			offsets = settings.ReminderOffsetsHours
			offsetsByProvider[b.ProviderID] = offsets
		}

		for _, offsetHours := range offsets {
			due := b.StartTime.Add(-time.Duration(offsetHours) * time.Hour)
			if now.Before(due) {
				continue
			}

			sent, err := s.repo.MarkSent(ctx, b.ID, offsetHours)
			if err != nil {
				s.cfg.Log.Error("Failed to mark reminder sent",
					"booking_id", b.ID,
					"offset_hours", offsetHours,
					"error", err,
				)
				continue
			}
			if !sent {
				continue
			}

			s.publishReminder(ctx, events.TypeReminderDue, b, offsetHours)
			dispatched++
		}
	}

	if dispatched > 0 {
		s.cfg.Log.Info("Reminder sweep dispatched", "count", dispatched)
	}
	return dispatched, nil
}

func (s *reminderService) SweepReviewRequests(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()
	bookings, err := s.repo.FindCompletedWithoutReview(ctx, now.Add(-s.cfg.ReviewRequestDelay))
	if err != nil {
		s.cfg.Log.Error("Review request sweep query failed", "error", err)
		return 0, err
	}

	dispatched := 0
	for _, b := range bookings {
		stamped, err := s.repo.MarkReviewRequested(ctx, b.ID, now)
		if err != nil {
			s.cfg.Log.Error("Failed to mark review requested",
				"booking_id", b.ID,
				"error", err,
			)
			continue
		}
		if !stamped {
			continue
		}

		s.publishReminder(ctx, events.TypeReviewRequested, b, 0)
		dispatched++
	}

	if dispatched > 0 {
		s.cfg.Log.Info("Review request sweep dispatched", "count", dispatched)
	}
	return dispatched, nil
}

func (s *reminderService) publishReminder(ctx context.Context, eventType string, b *model.Booking, offsetHours int) {
	fact := events.ReminderFact{
		BookingID:   b.ID,
		ProviderID:  b.ProviderID,
		ClientEmail: b.Client.Email,
		ClientPhone: b.Client.Phone,
		OffsetHours: offsetHours,
		BookingDate: model.DateOf(b.StartTime),
		StartMin:    model.MinutesOf(b.StartTime),
		OccurredAt:  time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, eventType, b.ID, fact); err != nil {
		s.cfg.Log.Warn("Failed to publish reminder event",
			"event_type", eventType,
			"booking_id", b.ID,
			"error", err,
		)
	}
}
