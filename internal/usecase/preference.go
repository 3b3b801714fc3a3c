package usecase

import (
	"context"
	"errors"
	"log/slog"

	"docs-chat/internal/domain"
)

const modeKey = "mode"

// KeyValueStore persists string preferences.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// PreferenceService reads and writes the display mode.
type PreferenceService struct {
	store  KeyValueStore
	logger *slog.Logger
}

func NewPreferenceService(store KeyValueStore, logger *slog.Logger) (*PreferenceService, error) {
	if store == nil {
		return nil, errors.New("usecase: preference store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceService{store: store, logger: logger}, nil
}

// Load returns the stored mode. An absent, invalid or unreadable value is
// replaced by light, which is written back before returning.
func (s *PreferenceService) Load(ctx context.Context) domain.Mode {
	raw, ok, err := s.store.Get(ctx, modeKey)
	if err != nil {
		s.logger.WarnContext(ctx, "preference read failed",
			"code", ErrorPreference, "reason", "preference_read_error", "err", err)
	}
	if err == nil && ok {
		if mode, valid := domain.ParseMode(raw); valid {
			return mode
		}
		s.logger.InfoContext(ctx, "resetting invalid display mode", "stored", raw)
	}

	if err := s.store.Set(ctx, modeKey, domain.ModeLight.String()); err != nil {
		s.logger.WarnContext(ctx, "preference write failed",
			"code", ErrorPreference, "reason", "preference_write_error", "err", err)
	}
	return domain.ModeLight
}

func (s *PreferenceService) Save(ctx context.Context, mode domain.Mode) error {
	if _, ok := domain.ParseMode(string(mode)); !ok {
		return newError(ErrorInvalidInput, "invalid_mode", nil)
	}
	if err := s.store.Set(ctx, modeKey, mode.String()); err != nil {
		return newError(ErrorPreference, "preference_write_error", err)
	}
	return nil
}

// Toggle flips current and persists the result. The new mode is returned even
// when persisting fails so the caller can still switch for this session.
func (s *PreferenceService) Toggle(ctx context.Context, current domain.Mode) (domain.Mode, error) {
	next := domain.Toggle(current)
	return next, s.Save(ctx, next)
}
