package store

import (
	"encoding/json"
	"fmt"

	"github.com/choreboard/choreboard/internal/model"
)

// SettingsStore persists the single household settings record under the
// choreboardSettings key.
type SettingsStore struct {
	kv *KVStore
}

func NewSettingsStore(kv *KVStore) *SettingsStore {
	return &SettingsStore{kv: kv}
}

// Get returns the stored settings, or the defaults when nothing valid is
// stored.
func (s *SettingsStore) Get() (model.Settings, error) {
	raw, ok, err := s.kv.Get(KeySettings)
	if err != nil {
		return model.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if !ok {
		return model.DefaultSettings(), nil
	}

	var settings model.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return model.DefaultSettings(), nil
	}
	return settings, nil
}

// SettingsPatch carries the sections to replace. A nil section is left
// untouched; a present one overwrites the stored section wholesale.
type SettingsPatch struct {
	Notifications *model.NotificationSettings  `json:"notifications"`
	ChoreRotation *model.ChoreRotationSettings `json:"choreRotation"`
	General       *model.GeneralSettings       `json:"general"`
}

// Update merges the patch into the stored settings and persists the result.
func (s *SettingsStore) Update(patch SettingsPatch) (model.Settings, error) {
	settings, err := s.Get()
	if err != nil {
		return model.Settings{}, err
	}

	if patch.Notifications != nil {
		settings.Notifications = *patch.Notifications
	}
	if patch.ChoreRotation != nil {
		settings.ChoreRotation = *patch.ChoreRotation
	}
	if patch.General != nil {
		settings.General = *patch.General
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return model.Settings{}, fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.kv.Set(KeySettings, string(data)); err != nil {
		return model.Settings{}, fmt.Errorf("persist settings: %w", err)
	}
	return settings, nil
}
