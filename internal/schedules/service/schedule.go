package service

import (
	"context"
	"time"

	"github.com/LewisLovet/opatam-sub005/internal/schedules/repository"
	"github.com/LewisLovet/opatam-sub005/internal/schedules/validator"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	apperrors "github.com/LewisLovet/opatam-sub005/pkg/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

type ScheduleService interface {
	SetImmediate(ctx context.Context, entry *model.WeeklyScheduleEntry) error
	ScheduleChange(ctx context.Context, entry *model.WeeklyScheduleEntry) error
	GetWeekly(ctx context.Context, key model.ScheduleKey) ([]*model.WeeklyScheduleEntry, error)
	GetEffective(ctx context.Context, key model.ScheduleKey, onDate time.Time) (*model.WeeklyScheduleEntry, error)
}

type scheduleService struct {
	repo      repository.ScheduleRepository
	validator *validator.ScheduleValidator
	cfg       *config.Config
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	validator *validator.ScheduleValidator,
	cfg *config.Config,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// SetImmediate overwrites the baseline hours for one day of week. Dated
// versions already scheduled for that day are left untouched and keep
// superseding the new baseline from their effective date on.
func (s *scheduleService) SetImmediate(ctx context.Context, entry *model.WeeklyScheduleEntry) error {
	entry.EffectiveFrom = nil

	if err := s.validator.Validate(entry); err != nil {
		s.cfg.Log.Warn("Schedule entry validation failed",
			"provider_id", entry.ProviderID,
			"location_id", entry.LocationID,
			"day_of_week", entry.DayOfWeek,
			"error", err,
		)
		return apperrors.Validation("Schedule entry validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpsertBaseline(ctx, entry); err != nil {
		s.cfg.Log.Error("Failed to set schedule baseline",
			"provider_id", entry.ProviderID,
			"location_id", entry.LocationID,
			"day_of_week", entry.DayOfWeek,
			"error", err,
		)
		return apperrors.Internal("Failed to store schedule entry", err)
	}

	s.cfg.Log.Info("Schedule baseline updated",
		"provider_id", entry.ProviderID,
		"location_id", entry.LocationID,
		"member_id", entry.MemberID,
		"day_of_week", entry.DayOfWeek,
		"is_open", entry.IsOpen,
	)
	return nil
}

// ScheduleChange appends a future-dated version of one day's hours. The
// change takes effect on its date; dates already in the past are rejected
// because they would silently rewrite history.
func (s *scheduleService) ScheduleChange(ctx context.Context, entry *model.WeeklyScheduleEntry) error {
	if entry.EffectiveFrom == nil {
		return apperrors.InvalidInput("effective_from is required for a scheduled change")
	}

	effective := model.DateOf(*entry.EffectiveFrom)
	today := model.DateOf(time.Now())
	if effective.Before(today) {
		return apperrors.InvalidInput("effective_from must be today or a future date")
	}
	entry.EffectiveFrom = &effective

	if err := s.validator.Validate(entry); err != nil {
		s.cfg.Log.Warn("Schedule change validation failed",
			"provider_id", entry.ProviderID,
			"location_id", entry.LocationID,
			"day_of_week", entry.DayOfWeek,
			"effective_from", effective,
			"error", err,
		)
		return apperrors.Validation("Schedule change validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpsertVersion(ctx, entry); err != nil {
		s.cfg.Log.Error("Failed to store schedule change",
			"provider_id", entry.ProviderID,
			"location_id", entry.LocationID,
			"day_of_week", entry.DayOfWeek,
			"effective_from", effective,
			"error", err,
		)
		return apperrors.Internal("Failed to store schedule change", err)
	}

	s.cfg.Log.Info("Schedule change recorded",
		"provider_id", entry.ProviderID,
		"location_id", entry.LocationID,
		"member_id", entry.MemberID,
		"day_of_week", entry.DayOfWeek,
		"effective_from", effective,
	)
	return nil
}

func (s *scheduleService) GetWeekly(ctx context.Context, key model.ScheduleKey) ([]*model.WeeklyScheduleEntry, error) {
	if key.ProviderID == "" || key.LocationID == "" {
		return nil, apperrors.InvalidInput("provider_id and location_id are required")
	}

	entries, err := s.repo.FindVersions(ctx, key)
	if err != nil {
		s.cfg.Log.Error("Failed to load weekly schedule",
			"provider_id", key.ProviderID,
			"location_id", key.LocationID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load weekly schedule", err)
	}

	return entries, nil
}

// GetEffective resolves the hours that apply on one calendar date, taking
// scheduled changes into account.
func (s *scheduleService) GetEffective(ctx context.Context, key model.ScheduleKey, onDate time.Time) (*model.WeeklyScheduleEntry, error) {
	if key.ProviderID == "" || key.LocationID == "" {
		return nil, apperrors.InvalidInput("provider_id and location_id are required")
	}

	dayOfWeek := int(model.DateOf(onDate).Weekday())
	entries, err := s.repo.FindVersionsForDay(ctx, key, dayOfWeek)
	if err != nil {
		s.cfg.Log.Error("Failed to load schedule versions",
			"provider_id", key.ProviderID,
			"location_id", key.LocationID,
			"day_of_week", dayOfWeek,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load schedule versions", err)
	}

	effective := model.EffectiveEntry(entries, onDate)
	if effective == nil {
		return nil, apperrors.NotFound("Schedule entry")
	}
	return effective, nil
}
