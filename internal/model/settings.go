package model

// Settings is the household-wide configuration record. It is data only:
// rotation and auto-approval are stored but nothing acts on them.
type Settings struct {
	Notifications NotificationSettings  `json:"notifications"`
	ChoreRotation ChoreRotationSettings `json:"choreRotation"`
	General       GeneralSettings       `json:"general"`
}

type NotificationSettings struct {
	ChoreReminders bool `json:"choreReminders"`
	ExpenseAlerts  bool `json:"expenseAlerts"`
	WeeklyReports  bool `json:"weeklyReports"`
}

type ChoreRotationSettings struct {
	Enabled   bool   `json:"enabled"`
	Frequency string `json:"frequency"` // daily, weekly, biweekly, monthly
}

type GeneralSettings struct {
	Theme               string `json:"theme"` // light, dark, auto
	AutoApproveExpenses bool   `json:"autoApproveExpenses"`
}

// DefaultSettings returns the settings used before anyone touches the
// settings page.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			ChoreReminders: true,
			ExpenseAlerts:  true,
			WeeklyReports:  false,
		},
		ChoreRotation: ChoreRotationSettings{
			Enabled:   false,
			Frequency: "weekly",
		},
		General: GeneralSettings{
			Theme:               "light",
			AutoApproveExpenses: false,
		},
	}
}
