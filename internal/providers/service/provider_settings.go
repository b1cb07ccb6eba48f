package service

import (
	"context"
	"errors"

	providerserrors "github.com/LewisLovet/opatam-sub005/internal/providers/errors"
	"github.com/LewisLovet/opatam-sub005/internal/providers/repository"
	"github.com/LewisLovet/opatam-sub005/internal/providers/validator"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	apperrors "github.com/LewisLovet/opatam-sub005/pkg/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

type ProviderSettingsService interface {
	// Get returns the provider's settings, or the platform defaults when the
	// provider never customized anything. Never returns NOT_FOUND.
	Get(ctx context.Context, providerID string) (*model.ProviderSettings, error)
	Upsert(ctx context.Context, settings *model.ProviderSettings) error
}

type providerSettingsService struct {
	repo      repository.ProviderSettingsRepository
	validator *validator.ProviderSettingsValidator
	cfg       *config.Config
}

func NewProviderSettingsService(
	repo repository.ProviderSettingsRepository,
	validator *validator.ProviderSettingsValidator,
	cfg *config.Config,
) ProviderSettingsService {
	return &providerSettingsService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *providerSettingsService) Get(ctx context.Context, providerID string) (*model.ProviderSettings, error) {
	if providerID == "" {
		return nil, apperrors.InvalidInput("provider_id is required")
	}

	settings, err := s.repo.Find(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerserrors.ErrNotFound) {
			return s.Defaults(providerID), nil
		}
		s.cfg.Log.Error("Failed to load provider settings",
			"provider_id", providerID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load provider settings", err)
	}

	return settings, nil
}

func (s *providerSettingsService) Upsert(ctx context.Context, settings *model.ProviderSettings) error {
	if err := s.validator.Validate(settings); err != nil {
		s.cfg.Log.Warn("Provider settings validation failed",
			"provider_id", settings.ProviderID,
			"error", err,
		)
		return apperrors.Validation("Provider settings validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		s.cfg.Log.Error("Failed to store provider settings",
			"provider_id", settings.ProviderID,
			"error", err,
		)
		return apperrors.Internal("Failed to store provider settings", err)
	}

	s.cfg.Log.Info("Provider settings updated",
		"provider_id", settings.ProviderID,
		"requires_confirmation", settings.RequiresConfirmation,
		"allow_client_cancellation", settings.AllowClientCancellation,
	)
	return nil
}

// Defaults builds settings from the platform-wide configuration.
func (s *providerSettingsService) Defaults(providerID string) *model.ProviderSettings {
	return &model.ProviderSettings{
		ProviderID:              providerID,
		RequiresConfirmation:    s.cfg.DefaultRequiresConfirmation,
		DefaultBufferMin:        s.cfg.DefaultBufferMin,
		MinBookingNoticeMin:     s.cfg.DefaultMinBookingNoticeMin,
		MaxBookingAdvanceDays:   s.cfg.DefaultMaxBookingAdvanceDays,
		AllowClientCancellation: s.cfg.DefaultAllowClientCancellation,
		CancellationDeadlineMin: s.cfg.DefaultCancellationDeadlineMin,
		ReminderOffsetsHours:    s.cfg.DefaultReminderOffsetsHours,
	}
}
