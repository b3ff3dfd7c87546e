package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownSetting = errors.New("unknown setting")

const (
	SettingSound         = "soundEnabled"
	SettingNotifications = "notificationsEnabled"
)

// Settings are per-user preferences. They are always handed to callers as values.
type Settings struct {
	SoundEnabled         bool `json:"soundEnabled"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
}

func DefaultSettings() Settings {
	return Settings{
		SoundEnabled:         true,
		NotificationsEnabled: false,
	}
}

// SettingNames lists the settings in a stable order.
var SettingNames = []string{SettingSound, SettingNotifications}

func ValidateSettingName(name string) error {
	switch name {
	case SettingSound, SettingNotifications:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownSetting, name)
}

func (s Settings) Value(name string) bool {
	switch name {
	case SettingSound:
		return s.SoundEnabled
	case SettingNotifications:
		return s.NotificationsEnabled
	}
	return false
}

func (s *Settings) Apply(name string, value bool) {
	switch name {
	case SettingSound:
		s.SoundEnabled = value
	case SettingNotifications:
		s.NotificationsEnabled = value
	}
}
