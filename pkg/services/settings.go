package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
)

const privateChatSuffix = "@s.whatsapp.net"

// knownSettings lists the keys accepted through Set. gemini_model is kept for
// editors that still expose it.
var knownSettings = []string{
	models.SettingAutoReply,
	models.SettingRespondGroups,
	models.SettingAllowedGroups,
	models.SettingBlockedContacts,
	models.SettingBlockWord,
	models.SettingAgentPrompt,
	models.SettingGeminiModel,
}

// Settings reads and writes the bot runtime settings.
type Settings struct {
	persistence persistence.Persistence
	logger      *slog.Logger

	// blockedMu serializes read-modify-write of the blocked contacts list.
	blockedMu sync.Mutex
}

// NewSettings creates a new settings service.
func NewSettings(persistence persistence.Persistence, logger *slog.Logger) *Settings {
	return &Settings{
		persistence: persistence,
		logger:      logger.With("module", "settings"),
	}
}

// Get returns the stored value of key, or "" when unset.
func (s *Settings) Get(ctx context.Context, key string) (string, error) {
	value, _, err := s.persistence.SettingsRepository().Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return value, nil
}

// GetOrDefault returns the stored value of key, or fallback when unset or empty.
func (s *Settings) GetOrDefault(ctx context.Context, key, fallback string) (string, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return fallback, err
	}

	if value == "" {
		return fallback, nil
	}

	return value, nil
}

// All returns every stored setting.
func (s *Settings) All(ctx context.Context) (map[string]string, error) {
	return s.persistence.SettingsRepository().GetAll(ctx)
}

// Set stores a known setting.
func (s *Settings) Set(ctx context.Context, key, value string) error {
	if !slices.Contains(knownSettings, key) {
		return NewValidationError("Set", "UNKNOWN_SETTING", "unknown setting "+key, ErrUnknownSetting)
	}

	if key == models.SettingBlockedContacts {
		s.blockedMu.Lock()
		defer s.blockedMu.Unlock()
	}

	err := s.persistence.SettingsRepository().Set(ctx, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	s.logger.InfoContext(ctx, "Setting changed", "key", key)

	return nil
}

// BlockedContacts returns the normalised blocked JIDs in stored order.
func (s *Settings) BlockedContacts(ctx context.Context) ([]string, error) {
	raw, err := s.Get(ctx, models.SettingBlockedContacts)
	if err != nil {
		return nil, err
	}

	return SplitList(raw, NormalizeJID), nil
}

// IsBlocked reports whether jid is in the blocked contacts list.
func (s *Settings) IsBlocked(ctx context.Context, jid string) (bool, error) {
	blocked, err := s.BlockedContacts(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(blocked, NormalizeJID(jid)), nil
}

// BlockContact appends jid to the blocked contacts list if absent.
func (s *Settings) BlockContact(ctx context.Context, jid string) error {
	normalized := NormalizeJID(jid)
	if normalized == "" {
		return ErrEmptyJID
	}

	s.blockedMu.Lock()
	defer s.blockedMu.Unlock()

	blocked, err := s.BlockedContacts(ctx)
	if err != nil {
		return err
	}

	if slices.Contains(blocked, normalized) {
		return nil
	}

	err = s.persistence.SettingsRepository().Set(ctx, models.SettingBlockedContacts, strings.Join(append(blocked, normalized), ", "))
	if err != nil {
		return fmt.Errorf("failed to block contact: %w", err)
	}

	s.logger.InfoContext(ctx, "Contact blocked", "jid", normalized)

	return nil
}

// UnblockContact removes jid from the blocked contacts list.
func (s *Settings) UnblockContact(ctx context.Context, jid string) error {
	normalized := NormalizeJID(jid)
	if normalized == "" {
		return ErrEmptyJID
	}

	s.blockedMu.Lock()
	defer s.blockedMu.Unlock()

	blocked, err := s.BlockedContacts(ctx)
	if err != nil {
		return err
	}

	remaining := slices.DeleteFunc(blocked, func(id string) bool { return id == normalized })

	err = s.persistence.SettingsRepository().Set(ctx, models.SettingBlockedContacts, strings.Join(remaining, ", "))
	if err != nil {
		return fmt.Errorf("failed to unblock contact: %w", err)
	}

	s.logger.InfoContext(ctx, "Contact unblocked", "jid", normalized)

	return nil
}

// NormalizeJID trims id and appends the private chat suffix to bare numbers.
func NormalizeJID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "@") {
		return id
	}

	return id + privateChatSuffix
}

// SplitList splits a comma separated setting, trimming and dropping empty
// entries. normalize may be nil.
func SplitList(raw string, normalize func(string) string) []string {
	var items []string

	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		if normalize != nil {
			item = normalize(item)
		}

		items = append(items, item)
	}

	return items
}
