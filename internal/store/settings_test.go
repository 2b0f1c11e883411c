package store

import (
	"testing"

	"github.com/choreboard/choreboard/internal/database"
	"github.com/choreboard/choreboard/internal/model"
)

func setupSettingsTest(t *testing.T) (*SettingsStore, *KVStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	kv := NewKVStore(db)
	return NewSettingsStore(kv), kv
}

func TestSettingsDefaults(t *testing.T) {
	ss, _ := setupSettingsTest(t)

	settings, err := ss.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !settings.Notifications.ChoreReminders || !settings.Notifications.ExpenseAlerts {
		t.Error("reminders and alerts should default on")
	}
	if settings.Notifications.WeeklyReports {
		t.Error("weekly reports should default off")
	}
	if settings.ChoreRotation.Enabled || settings.ChoreRotation.Frequency != "weekly" {
		t.Errorf("rotation = %+v, want disabled/weekly", settings.ChoreRotation)
	}
	if settings.General.Theme != "light" || settings.General.AutoApproveExpenses {
		t.Errorf("general = %+v, want light/no auto-approve", settings.General)
	}
}

func TestSettingsSectionMerge(t *testing.T) {
	ss, _ := setupSettingsTest(t)

	updated, err := ss.Update(SettingsPatch{
		General: &model.GeneralSettings{Theme: "dark", AutoApproveExpenses: true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.General.Theme != "dark" {
		t.Errorf("theme = %q, want dark", updated.General.Theme)
	}
	// Untouched sections keep their values.
	if !updated.Notifications.ChoreReminders {
		t.Error("notifications section should be untouched")
	}

	// A second update to another section keeps the first.
	updated, err = ss.Update(SettingsPatch{
		ChoreRotation: &model.ChoreRotationSettings{Enabled: true, Frequency: "daily"},
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.General.Theme != "dark" {
		t.Error("general section lost on unrelated update")
	}
	if !updated.ChoreRotation.Enabled || updated.ChoreRotation.Frequency != "daily" {
		t.Errorf("rotation = %+v, want enabled/daily", updated.ChoreRotation)
	}
}

func TestSettingsCorruptReadsAsDefaults(t *testing.T) {
	ss, kv := setupSettingsTest(t)

	if err := kv.Set(KeySettings, "]["); err != nil {
		t.Fatalf("set corrupt: %v", err)
	}
	settings, err := ss.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if settings != model.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}
