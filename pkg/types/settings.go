package types

// Recognized settings keys.
const (
	SettingNotifyAfter     = "notify_after"
	SettingNotifyUnits     = "notify_units"
	SettingDisableSaturday = "disable_saturday"
	SettingDisableSunday   = "disable_sunday"
)

// SettingKeys lists every recognized key in display order.
var SettingKeys = []string{
	SettingNotifyAfter,
	SettingNotifyUnits,
	SettingDisableSaturday,
	SettingDisableSunday,
}

// Notification interval units.
const (
	UnitMinutes = "minutes"
	UnitHours   = "hours"
)

// UnitMinutesFactor maps an interval unit to its length in minutes.
var UnitMinutesFactor = map[string]int{
	UnitMinutes: 1,
	UnitHours:   60,
}

// Settings is the typed view of the settings map.
type Settings struct {
	NotifyAfter     int    `json:"notify_after"`
	NotifyUnits     string `json:"notify_units"`
	DisableSaturday bool   `json:"disable_saturday"`
	DisableSunday   bool   `json:"disable_sunday"`
}

// DefaultSettings returns the values used for any key missing from the
// settings file.
func DefaultSettings() Settings {
	return Settings{
		NotifyAfter: 30,
		NotifyUnits: UnitMinutes,
	}
}

// Map returns the settings as a key/value map.
func (s Settings) Map() map[string]any {
	return map[string]any{
		SettingNotifyAfter:     s.NotifyAfter,
		SettingNotifyUnits:     s.NotifyUnits,
		SettingDisableSaturday: s.DisableSaturday,
		SettingDisableSunday:   s.DisableSunday,
	}
}
