package service

import (
	"os"
	"path/filepath"

	"github.com/critic-tools/critic/internal/config"
	"github.com/spf13/viper"
)

const (
	// settingsEnvVar points at an explicit settings file location
	settingsEnvVar = "CRITIC_CONF"

	// envPrefix namespaces per-field environment overrides (CRITIC_DEBUG,
	// CRITIC_LOG_LEVEL, ...)
	envPrefix = "CRITIC"

	settingsFileName = "critic.conf"
)

// SettingsLoader resolves the run configuration from the settings file,
// environment variables, and explicit overrides.
type SettingsLoader struct{}

// NewSettingsLoader creates a new settings loader
func NewSettingsLoader() *SettingsLoader {
	return &SettingsLoader{}
}

// Resolve builds the run configuration. An empty path triggers discovery;
// environment overrides apply first, caller-supplied overrides win.
func (l *SettingsLoader) Resolve(repository, path string, overrides map[string]any) (*config.Config, error) {
	if path == "" {
		path = l.FindSettingsFile()
	}

	merged := l.EnvOverrides()
	for field, value := range overrides {
		merged[field] = value
	}

	// A repository from the environment counts as explicit, not as an
	// override, so construction can resolve the per-repository section.
	if repository == "" {
		if r, ok := merged[config.FieldRepository].(string); ok {
			repository = r
			delete(merged, config.FieldRepository)
		}
	}

	return config.New(repository, path, merged)
}

// FindSettingsFile locates the settings file: the CRITIC_CONF environment
// variable, then ~/.config/critic.conf, then ./critic.conf. Returns ""
// when none exists.
func (l *SettingsLoader) FindSettingsFile() string {
	if p := os.Getenv(settingsEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", settingsFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if _, err := os.Stat(settingsFileName); err == nil {
		return settingsFileName
	}
	return ""
}

// EnvOverrides collects CRITIC_<FIELD> environment variables for every
// known field. Values are text and pass through the same coercion as
// settings-file values.
func (l *SettingsLoader) EnvOverrides() map[string]any {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	overrides := make(map[string]any)
	for _, field := range config.FieldNames() {
		_ = v.BindEnv(field)
		if value := v.GetString(field); value != "" {
			overrides[field] = value
		}
	}
	return overrides
}
