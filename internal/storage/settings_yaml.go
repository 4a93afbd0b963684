package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/deni-m/standupTracker/internal/core/model"
)

const (
	appDirName       = "StandUpTracker"
	settingsFileName = "settings.yaml"
)

// Settings defines editable user preferences.
type Settings struct {
	Tracker   model.TrackerConfig
	LogDir    string
	ReportDir string
	Autostart bool
}

type yamlSettings struct {
	BreakAfterMinutes       int      `yaml:"break_after_minutes"`
	IdleThresholdSeconds    int      `yaml:"idle_threshold_seconds"`
	GraceBeforeBreakSeconds int      `yaml:"grace_before_break_seconds"`
	ReminderRepeatMinutes   int      `yaml:"reminder_repeat_minutes"`
	TickSeconds             int      `yaml:"tick_seconds"`
	MuteWhenPresenting      bool     `yaml:"mute_when_presenting"`
	ActiveWorkApplications  []string `yaml:"active_work_applications"`
	LogDir                  string   `yaml:"log_dir"`
	ReportDir               string   `yaml:"report_dir"`
	Autostart               bool     `yaml:"autostart"`
}

// DefaultSettings returns default settings with the per-user data folders.
func DefaultSettings() Settings {
	settings := Settings{Tracker: model.DefaultTrackerConfig()}
	if configDir, err := os.UserConfigDir(); err == nil {
		settings.LogDir = filepath.Join(configDir, appDirName, "logs")
		settings.ReportDir = filepath.Join(configDir, appDirName, "reports")
	}
	return settings
}

// LoadSettings reads user preferences from YAML. A missing file yields the
// defaults without error.
func LoadSettings() (Settings, error) {
	settings := DefaultSettings()
	configPath, err := settingsPath()
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, errors.Wrap(err, "read settings file")
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, errors.Wrap(err, "parse settings yaml")
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(settings Settings) error {
	configPath, err := settingsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	fileData := yamlSettings{
		BreakAfterMinutes:       int(settings.Tracker.BreakAfter / time.Minute),
		IdleThresholdSeconds:    int(settings.Tracker.IdleThreshold / time.Second),
		GraceBeforeBreakSeconds: int(settings.Tracker.GraceBeforeBreak / time.Second),
		ReminderRepeatMinutes:   int(settings.Tracker.ReminderRepeat / time.Minute),
		TickSeconds:             int(settings.Tracker.TickInterval / time.Second),
		MuteWhenPresenting:      settings.Tracker.MuteWhenPresenting,
		ActiveWorkApplications:  settings.Tracker.ActiveWorkApplications,
		LogDir:                  settings.LogDir,
		ReportDir:               settings.ReportDir,
		Autostart:               settings.Autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return errors.Wrap(err, "marshal settings yaml")
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return errors.Wrap(err, "write settings file")
	}
	return nil
}

func settingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(configDir, appDirName, settingsFileName), nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.BreakAfterMinutes > 0 {
		settings.Tracker.BreakAfter = time.Duration(fileData.BreakAfterMinutes) * time.Minute
	}
	if fileData.IdleThresholdSeconds > 0 {
		settings.Tracker.IdleThreshold = time.Duration(fileData.IdleThresholdSeconds) * time.Second
	}
	if fileData.GraceBeforeBreakSeconds > 0 {
		settings.Tracker.GraceBeforeBreak = time.Duration(fileData.GraceBeforeBreakSeconds) * time.Second
	}
	if fileData.ReminderRepeatMinutes > 0 {
		settings.Tracker.ReminderRepeat = time.Duration(fileData.ReminderRepeatMinutes) * time.Minute
	}
	if fileData.TickSeconds > 0 {
		settings.Tracker.TickInterval = time.Duration(fileData.TickSeconds) * time.Second
	}
	if len(fileData.ActiveWorkApplications) > 0 {
		settings.Tracker.ActiveWorkApplications = fileData.ActiveWorkApplications
	}
	if fileData.LogDir != "" {
		settings.LogDir = fileData.LogDir
	}
	if fileData.ReportDir != "" {
		settings.ReportDir = fileData.ReportDir
	}

	settings.Tracker.MuteWhenPresenting = fileData.MuteWhenPresenting
	settings.Autostart = fileData.Autostart
}
