package service

import (
	"context"
	"time"

	"github.com/LewisLovet/opatam-sub005/internal/availability/engine"
	blocksrepo "github.com/LewisLovet/opatam-sub005/internal/blocks/repository"
	bookingsrepo "github.com/LewisLovet/opatam-sub005/internal/bookings/repository"
	providersvc "github.com/LewisLovet/opatam-sub005/internal/providers/service"
	schedrepo "github.com/LewisLovet/opatam-sub005/internal/schedules/repository"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	apperrors "github.com/LewisLovet/opatam-sub005/pkg/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

// SlotList is one day of bookable start times, in minutes since midnight.
type SlotList struct {
	Date        time.Time `json:"date"`
	DurationMin int       `json:"duration_min"`
	BufferMin   int       `json:"buffer_min"`
	Starts      []int     `json:"starts"`
}

// ScheduleChangeProposal is the day shape a provider wants to switch to,
// checked against existing bookings before it is committed.
type ScheduleChangeProposal struct {
	Key           model.ScheduleKey `json:"key"`
	DayOfWeek     int               `json:"day_of_week" validate:"min=0,max=6"`
	IsOpen        bool              `json:"is_open"`
	Slots         []model.TimeRange `json:"slots"`
	EffectiveFrom time.Time         `json:"effective_from" validate:"required"`
}

type AvailabilityService interface {
	// FreeSlots computes the bookable start times for one day. Advisory:
	// the booking service re-runs the same computation transactionally.
	FreeSlots(ctx context.Context, query *model.SlotQuery) (*SlotList, error)
	// DetectScheduleConflicts reports the bookings a proposed schedule change
	// would orphan, without mutating any of them.
	DetectScheduleConflicts(ctx context.Context, proposal *ScheduleChangeProposal) ([]model.Conflict, error)
}

type availabilityService struct {
	schedules schedrepo.ScheduleRepository
	blocks    blocksrepo.BlockedRangeRepository
	bookings  bookingsrepo.BookingRepository
	settings  providersvc.ProviderSettingsService
	cfg       *config.Config
}

func NewAvailabilityService(
	schedules schedrepo.ScheduleRepository,
	blocks blocksrepo.BlockedRangeRepository,
	bookings bookingsrepo.BookingRepository,
	settings providersvc.ProviderSettingsService,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		schedules: schedules,
		blocks:    blocks,
		bookings:  bookings,
		settings:  settings,
		cfg:       cfg,
	}
}

func (s *availabilityService) FreeSlots(ctx context.Context, query *model.SlotQuery) (*SlotList, error) {
	if query.ProviderID == "" || query.LocationID == "" {
		return nil, apperrors.InvalidInput("provider_id and location_id are required")
	}
	if query.DurationMin <= 0 {
		return nil, apperrors.InvalidInput("duration_min must be positive")
	}

	settings, err := s.settings.Get(ctx, query.ProviderID)
	if err != nil {
		return nil, err
	}

	date := model.DateOf(query.Date)
	now := time.Now().UTC()
	if date.Before(model.DateOf(now)) {
		return nil, apperrors.InvalidInput("date must not be in the past")
	}
	earliest, latest := settings.BookingWindow(now)
	if date.Before(model.DateOf(earliest)) {
		return nil, apperrors.Policy("This date is inside the provider's minimum booking notice")
	}
	if date.After(model.DateOf(latest)) {
		return nil, apperrors.Policy("This date is beyond the provider's booking horizon")
	}

	bufferMin := query.BufferMin
	if bufferMin == 0 {
		bufferMin = settings.DefaultBufferMin
	}

	key := model.ScheduleKey{
		ProviderID: query.ProviderID,
		LocationID: query.LocationID,
		MemberID:   query.MemberID,
	}

	entries, err := s.schedules.FindVersionsForDay(ctx, key, int(date.Weekday()))
	if err != nil {
		s.cfg.Log.Error("Failed to load schedule", "provider_id", key.ProviderID, "error", err)
		return nil, apperrors.Internal("Failed to load schedule", err)
	}
	entry := model.EffectiveEntry(entries, date)

	blocks, err := s.blocks.FindCovering(ctx, query.ProviderID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load blocked ranges", "provider_id", key.ProviderID, "error", err)
		return nil, apperrors.Internal("Failed to load blocked ranges", err)
	}

	bookings, err := s.bookings.FindActiveForKeyOnDate(ctx, key, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings", "provider_id", key.ProviderID, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	starts := engine.GenerateSlots(entry, blocks, bookings, date, query.DurationMin, bufferMin)

	// On the day the notice window opens, starts before it are not bookable.
	if date.Equal(model.DateOf(earliest)) {
		kept := starts[:0]
		for _, start := range starts {
			if !date.Add(time.Duration(start) * time.Minute).Before(earliest) {
				kept = append(kept, start)
			}
		}
		starts = kept
	}

	return &SlotList{
		Date:        date,
		DurationMin: query.DurationMin,
		BufferMin:   bufferMin,
		Starts:      starts,
	}, nil
}

func (s *availabilityService) DetectScheduleConflicts(ctx context.Context, proposal *ScheduleChangeProposal) ([]model.Conflict, error) {
	if proposal.Key.ProviderID == "" || proposal.Key.LocationID == "" {
		return nil, apperrors.InvalidInput("provider_id and location_id are required")
	}
	if proposal.DayOfWeek < 0 || proposal.DayOfWeek > 6 {
		return nil, apperrors.InvalidInput("day_of_week must be between 0 and 6")
	}
	if proposal.EffectiveFrom.IsZero() {
		return nil, apperrors.InvalidInput("effective_from is required")
	}
	if proposal.IsOpen {
		for _, slot := range proposal.Slots {
			if !slot.Valid() {
				return nil, apperrors.InvalidInput("proposed slots must be valid half-open minute ranges")
			}
		}
	}

	settings, err := s.settings.Get(ctx, proposal.Key.ProviderID)
	if err != nil {
		return nil, err
	}

	// Bookings beyond the booking horizon cannot exist, so the scan stops
	// there.
	from := model.DateOf(proposal.EffectiveFrom)
	to := from.AddDate(0, 0, settings.MaxBookingAdvanceDays+1)

	bookings, err := s.bookings.FindActiveInRange(ctx, proposal.Key, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for conflict scan",
			"provider_id", proposal.Key.ProviderID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	var onWeekday []*model.Booking
	for _, b := range bookings {
		if int(model.DateOf(b.StartTime).Weekday()) == proposal.DayOfWeek {
			onWeekday = append(onWeekday, b)
		}
	}

	conflicts := engine.DetectConflicts(proposal.IsOpen, proposal.Slots, onWeekday)

	if len(conflicts) > 0 {
		s.cfg.Log.Info("Schedule change proposal conflicts with existing bookings",
			"provider_id", proposal.Key.ProviderID,
			"day_of_week", proposal.DayOfWeek,
			"conflicts", len(conflicts),
		)
	}
	return conflicts, nil
}
