package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/LewisLovet/opatam-sub005/internal/availability/engine"
	blocksrepo "github.com/LewisLovet/opatam-sub005/internal/blocks/repository"
	bookingserrors "github.com/LewisLovet/opatam-sub005/internal/bookings/errors"
	"github.com/LewisLovet/opatam-sub005/internal/bookings/repository"
	"github.com/LewisLovet/opatam-sub005/internal/bookings/statemachine"
	"github.com/LewisLovet/opatam-sub005/internal/bookings/validator"
	providersvc "github.com/LewisLovet/opatam-sub005/internal/providers/service"
	schedrepo "github.com/LewisLovet/opatam-sub005/internal/schedules/repository"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	apperrors "github.com/LewisLovet/opatam-sub005/pkg/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/events"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
	"github.com/LewisLovet/opatam-sub005/pkg/sanitizer"
	"github.com/LewisLovet/opatam-sub005/pkg/sealer"
)

type BookingService interface {
	// Create books a slot. On success it returns the booking and the sealed
	// self-service cancellation token handed to the client.
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, string, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListForMemberOnDate(ctx context.Context, key model.ScheduleKey, date time.Time) ([]*model.Booking, error)
	Confirm(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	MarkNoShow(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string, actor string, reason string) error
	CancelByToken(ctx context.Context, sealedToken string, reason string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	claims    repository.SlotClaimRepository
	schedules schedrepo.ScheduleRepository
	blocks    blocksrepo.BlockedRangeRepository
	settings  providersvc.ProviderSettingsService
	validator *validator.BookingValidator
	sealer    *sealer.Sealer
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	claims repository.SlotClaimRepository,
	schedules schedrepo.ScheduleRepository,
	blocks blocksrepo.BlockedRangeRepository,
	settings providersvc.ProviderSettingsService,
	validator *validator.BookingValidator,
	sealer *sealer.Sealer,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		claims:    claims,
		schedules: schedules,
		blocks:    blocks,
		settings:  settings,
		validator: validator,
		sealer:    sealer,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, string, error) {
	s.sanitizeRequest(req)

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed",
			"provider_id", req.ProviderID,
			"error", err,
		)
		return nil, "", apperrors.Validation("Booking request validation failed", map[string]any{
			"error": err.Error(),
		})
	}
	req.StartTime = req.StartTime.UTC().Truncate(time.Minute)

	settings, err := s.settings.Get(ctx, req.ProviderID)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	earliest, latest := settings.BookingWindow(now)
	if req.StartTime.Before(earliest) {
		return nil, "", apperrors.Policy("This slot is below the provider's minimum booking notice")
	}
	if req.StartTime.After(latest) {
		return nil, "", apperrors.Policy("This slot is beyond the provider's maximum booking horizon")
	}

	// Advisory lock on the slot coordinates. The unique _id insert is the
	// only cross-request exclusion point; everything after it is re-checked
	// inside the transaction anyway.
	claimID := model.SlotClaimID(req.ProviderID, req.LocationID, req.MemberID, req.StartTime)
	if err := s.claims.Create(ctx, &model.SlotClaim{ID: claimID}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return nil, "", apperrors.Internal("Failed to acquire slot claim", err)
	}
	defer func() {
		if releaseErr := s.claims.Delete(ctx, claimID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot claim", "claim_id", claimID, "error", releaseErr)
		}
	}()

	status := model.StatusConfirmed
	if settings.RequiresConfirmation {
		status = model.StatusPending
	}

	booking := &model.Booking{
		ProviderID:  req.ProviderID,
		LocationID:  req.LocationID,
		MemberID:    req.MemberID,
		ServiceID:   req.ServiceID,
		StartTime:   req.StartTime,
		EndTime:     req.StartTime.Add(time.Duration(req.DurationMin) * time.Minute),
		DurationMin: req.DurationMin,
		BufferMin:   settings.DefaultBufferMin,
		Status:      status,
		Client:      req.Client,
		CancelToken: uuid.New().String(),
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySlotAvailable(sessCtx, req, settings); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"provider_id", req.ProviderID,
			"start_time", req.StartTime,
			"error", err,
		)
		return nil, "", err
	}

	sealedToken := ""
	if s.sealer != nil {
		sealedToken, err = s.sealer.Seal(booking.ID, booking.CancelToken)
		if err != nil {
			s.cfg.Log.Error("Failed to seal cancellation token", "booking_id", booking.ID, "error", err)
			sealedToken = ""
		}
	}

	s.publishFact(ctx, events.TypeBookingCreated, booking, "", "")

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"provider_id", booking.ProviderID,
		"start_time", booking.StartTime,
		"status", booking.Status,
	)
	return booking, sealedToken, nil
}

// verifySlotAvailable re-runs slot generation against the state visible to
// the transaction. This is the authoritative availability check; anything a
// UI computed earlier is advisory.
func (s *bookingService) verifySlotAvailable(ctx context.Context, req *model.BookingRequest, settings *model.ProviderSettings) error {
	key := model.ScheduleKey{
		ProviderID: req.ProviderID,
		LocationID: req.LocationID,
		MemberID:   req.MemberID,
	}
	date := model.DateOf(req.StartTime)

	entries, err := s.schedules.FindVersionsForDay(ctx, key, int(date.Weekday()))
	if err != nil {
		return apperrors.Internal("Failed to load schedule", err)
	}
	entry := model.EffectiveEntry(entries, date)

	blocks, err := s.blocks.FindCovering(ctx, req.ProviderID, date)
	if err != nil {
		return apperrors.Internal("Failed to load blocked ranges", err)
	}

	existing, err := s.repo.FindActiveForKeyOnDate(ctx, key, date)
	if err != nil {
		return apperrors.Internal("Failed to load existing bookings", err)
	}

	starts := engine.GenerateSlots(entry, blocks, existing, date, req.DurationMin, settings.DefaultBufferMin)
	startMin := model.MinutesOf(req.StartTime)
	for _, start := range starts {
		if start == startMin {
			return nil
		}
	}
	return apperrors.Conflict("The requested slot is no longer available")
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListForMemberOnDate(ctx context.Context, key model.ScheduleKey, date time.Time) ([]*model.Booking, error) {
	if key.ProviderID == "" || key.LocationID == "" {
		return nil, apperrors.InvalidInput("provider_id and location_id are required")
	}

	bookings, err := s.repo.FindActiveForKeyOnDate(ctx, key, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings",
			"provider_id", key.ProviderID,
			"date", model.DateOf(date),
			"error", err,
		)
		return nil, apperrors.Internal("Failed to list bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, statemachine.ActionConfirm, events.TypeBookingConfirmed)
}

func (s *bookingService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, statemachine.ActionComplete, events.TypeBookingCompleted)
}

func (s *bookingService) MarkNoShow(ctx context.Context, id string) error {
	return s.transition(ctx, id, statemachine.ActionNoShow, events.TypeBookingNoShow)
}

func (s *bookingService) transition(ctx context.Context, id string, action statemachine.Action, eventType string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	next, noop, err := statemachine.Next(booking.Status, action)
	if err != nil {
		return apperrors.StateTransition(err.Error(), map[string]any{
			"booking_id":     id,
			"current_status": booking.Status,
			"action":         action,
		})
	}
	if noop {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, id, booking.Status, next); err != nil {
		return s.resolveCASFailure(ctx, id, next, err)
	}

	booking.Status = next
	s.publishFact(ctx, eventType, booking, "", "")

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"action", action,
		"status", next,
	)
	return nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, actor string, reason string) error {
	if actor != model.ActorProvider && actor != model.ActorClient {
		return apperrors.InvalidInput("actor must be provider or client")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.cancelLoaded(ctx, booking, actor, reason)
}

// CancelByToken is the self-service path: the sealed token both locates the
// booking and proves the caller received it at creation time.
func (s *bookingService) CancelByToken(ctx context.Context, sealedToken string, reason string) error {
	if s.sealer == nil {
		return apperrors.Unavailable("Self-service cancellation")
	}

	bookingID, cancelToken, err := s.sealer.Open(sealedToken)
	if err != nil {
		return apperrors.Unauthorized("Invalid cancellation token")
	}

	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return apperrors.Unauthorized("Invalid cancellation token")
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(booking.CancelToken), []byte(cancelToken)) != 1 {
		return apperrors.Unauthorized("Invalid cancellation token")
	}

	return s.cancelLoaded(ctx, booking, model.ActorClient, reason)
}

func (s *bookingService) cancelLoaded(ctx context.Context, booking *model.Booking, actor string, reason string) error {
	_, noop, err := statemachine.Next(booking.Status, statemachine.ActionCancel)
	if err != nil {
		return apperrors.StateTransition(err.Error(), map[string]any{
			"booking_id":     booking.ID,
			"current_status": booking.Status,
			"action":         statemachine.ActionCancel,
		})
	}
	if noop {
		return nil
	}

	if actor == model.ActorClient {
		settings, err := s.settings.Get(ctx, booking.ProviderID)
		if err != nil {
			return err
		}
		if !settings.AllowClientCancellation {
			return apperrors.Policy("This provider does not allow client cancellations")
		}
		deadline := booking.StartTime.Add(-time.Duration(settings.CancellationDeadlineMin) * time.Minute)
		if time.Now().UTC().After(deadline) {
			return apperrors.Policy("The cancellation deadline for this booking has passed")
		}
	}

	reason = sanitizer.SanitizeFreeText(reason)
	now := time.Now().UTC().Truncate(time.Millisecond)

	if err := s.repo.MarkCancelled(ctx, booking.ID, booking.Status, actor, reason, now); err != nil {
		return s.resolveCASFailure(ctx, booking.ID, model.StatusCancelled, err)
	}

	booking.Status = model.StatusCancelled
	booking.CancelledBy = actor
	booking.CancelReason = reason
	booking.CancelledAt = &now
	s.publishFact(ctx, events.TypeBookingCancelled, booking, actor, reason)

	s.cfg.Log.Info("Booking cancelled",
		"id", booking.ID,
		"cancelled_by", actor,
	)
	return nil
}

// resolveCASFailure turns a lost compare-and-set race into an idempotent
// success when the concurrent writer applied the same transition, and a
// retryable conflict otherwise.
func (s *bookingService) resolveCASFailure(ctx context.Context, id string, wanted model.BookingStatus, err error) error {
	if !errors.Is(err, bookingserrors.ErrStatusChanged) {
		return apperrors.Internal("Failed to update booking status", err)
	}

	current, findErr := s.repo.FindByID(ctx, id)
	if findErr == nil && current.Status == wanted {
		return nil
	}
	return apperrors.Conflict("Booking status changed concurrently, please retry")
}

func (s *bookingService) sanitizeRequest(req *model.BookingRequest) {
	req.Client.Name = sanitizer.NormalizeName(req.Client.Name)
	req.Client.Email = sanitizer.NormalizeEmail(req.Client.Email)
	req.Client.Phone = sanitizer.NormalizePhone(req.Client.Phone)
	req.Client.Notes = sanitizer.SanitizeFreeText(req.Client.Notes)
}

// publishFact emits a booking lifecycle event. Best effort: a broker outage
// never fails the booking operation.
func (s *bookingService) publishFact(ctx context.Context, eventType string, b *model.Booking, actor, reason string) {
	fact := events.BookingFact{
		BookingID:   b.ID,
		ProviderID:  b.ProviderID,
		LocationID:  b.LocationID,
		MemberID:    b.MemberID,
		ServiceID:   b.ServiceID,
		ClientName:  b.Client.Name,
		ClientEmail: b.Client.Email,
		Status:      string(b.Status),
		Actor:       actor,
		Reason:      reason,
		BookingDate: model.DateOf(b.StartTime),
		StartMin:    model.MinutesOf(b.StartTime),
		EndMin:      model.MinutesOf(b.StartTime) + b.DurationMin,
		OccurredAt:  time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, eventType, b.ID, fact); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", b.ID,
			"error", err,
		)
	}
}
