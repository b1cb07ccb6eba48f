package service

import (
	"context"
	"errors"
	"time"

	blockserrors "github.com/LewisLovet/opatam-sub005/internal/blocks/errors"
	"github.com/LewisLovet/opatam-sub005/internal/blocks/repository"
	"github.com/LewisLovet/opatam-sub005/internal/blocks/validator"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	apperrors "github.com/LewisLovet/opatam-sub005/pkg/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
	"github.com/LewisLovet/opatam-sub005/pkg/sanitizer"
)

type BlockedRangeService interface {
	Create(ctx context.Context, br *model.BlockedRange) error
	ListUpcoming(ctx context.Context, providerID string, fromDate time.Time) ([]*model.BlockedRange, error)
	Delete(ctx context.Context, id string) error
	PurgePast(ctx context.Context, providerID string) (int64, error)
}

type blockedRangeService struct {
	repo      repository.BlockedRangeRepository
	validator *validator.BlockedRangeValidator
	cfg       *config.Config
}

func NewBlockedRangeService(
	repo repository.BlockedRangeRepository,
	validator *validator.BlockedRangeValidator,
	cfg *config.Config,
) BlockedRangeService {
	return &blockedRangeService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *blockedRangeService) Create(ctx context.Context, br *model.BlockedRange) error {
	br.Reason = sanitizer.SanitizeFreeText(br.Reason)
	br.StartDate = model.DateOf(br.StartDate)
	br.EndDate = model.DateOf(br.EndDate)
	if br.AllDay {
		br.StartTime = 0
		br.EndTime = 0
	}

	if err := s.validator.Validate(br); err != nil {
		s.cfg.Log.Warn("Blocked range validation failed",
			"provider_id", br.ProviderID,
			"error", err,
		)
		return apperrors.Validation("Blocked range validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, br); err != nil {
		s.cfg.Log.Error("Failed to create blocked range",
			"provider_id", br.ProviderID,
			"error", err,
		)
		return apperrors.Internal("Failed to create blocked range", err)
	}

	s.cfg.Log.Info("Blocked range created",
		"id", br.ID,
		"provider_id", br.ProviderID,
		"start_date", br.StartDate,
		"end_date", br.EndDate,
		"all_day", br.AllDay,
	)
	return nil
}

func (s *blockedRangeService) ListUpcoming(ctx context.Context, providerID string, fromDate time.Time) ([]*model.BlockedRange, error) {
	if providerID == "" {
		return nil, apperrors.InvalidInput("provider_id is required")
	}
	if fromDate.IsZero() {
		fromDate = time.Now()
	}

	ranges, err := s.repo.FindUpcoming(ctx, providerID, fromDate)
	if err != nil {
		s.cfg.Log.Error("Failed to list blocked ranges",
			"provider_id", providerID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to list blocked ranges", err)
	}
	return ranges, nil
}

func (s *blockedRangeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Blocked range ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Blocked range", id)
		}
		if errors.Is(err, blockserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid blocked range ID format")
		}
		s.cfg.Log.Error("Failed to delete blocked range",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete blocked range", err)
	}

	s.cfg.Log.Info("Blocked range deleted", "id", id)
	return nil
}

// PurgePast removes ranges that ended before today. Safe to call from a
// cron or on demand; repeated runs delete nothing further.
func (s *blockedRangeService) PurgePast(ctx context.Context, providerID string) (int64, error) {
	if providerID == "" {
		return 0, apperrors.InvalidInput("provider_id is required")
	}

	deleted, err := s.repo.DeleteEndedBefore(ctx, providerID, time.Now())
	if err != nil {
		s.cfg.Log.Error("Failed to purge past blocked ranges",
			"provider_id", providerID,
			"error", err,
		)
		return 0, apperrors.Internal("Failed to purge past blocked ranges", err)
	}

	s.cfg.Log.Info("Past blocked ranges purged",
		"provider_id", providerID,
		"deleted_count", deleted,
	)
	return deleted, nil
}
