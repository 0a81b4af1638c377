package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/lilachbitton/newcalander/internal/calendar"
)

const maxPageLimit = 1000

// Runtime is the resolved daemon configuration.
type Runtime struct {
	ConfigFile string

	Listen       string
	BaseURL      string
	CollectionID string
	APIKey       string

	PageLimit    int
	Timeout      time.Duration
	DefaultView  calendar.View
	DemoFallback bool

	StateDir        string
	SavedConfigFile string
}

// Connection returns the backend connection settings as the opaque triple
// the core consumes.
func (r Runtime) Connection() calendar.Config {
	return calendar.Config{
		BaseURL:      r.BaseURL,
		CollectionID: r.CollectionID,
		APIKey:       r.APIKey,
	}
}

// Load resolves configuration from, in increasing precedence: legacy ini
// settings file, env file, process environment.
func Load() (Runtime, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Runtime{}, fmt.Errorf("resolve home dir: %w", err)
	}

	xdgConfig := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	xdgState := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if xdgState == "" {
		xdgState = filepath.Join(home, ".local", "state")
	}

	defaultConfig := filepath.Join(xdgConfig, "origamical", "origamical.env")
	configFile := strings.TrimSpace(os.Getenv("ORIGAMI_CONFIG_FILE"))
	if configFile == "" {
		configFile = defaultConfig
	}

	_ = loadEnvFile(configFile)

	v := viper.New()
	v.SetEnvPrefix("ORIGAMI")
	v.AutomaticEnv()

	_ = v.BindEnv("listen", "ORIGAMI_LISTEN", "LISTEN")
	_ = v.BindEnv("base_url", "ORIGAMI_BASE_URL", "BASE_URL")
	_ = v.BindEnv("collection_id", "ORIGAMI_COLLECTION_ID", "COLLECTION_ID")
	_ = v.BindEnv("api_key", "ORIGAMI_API_KEY", "API_KEY")
	_ = v.BindEnv("page_limit", "ORIGAMI_PAGE_LIMIT")
	_ = v.BindEnv("timeout_seconds", "ORIGAMI_TIMEOUT_SECONDS")
	_ = v.BindEnv("default_view", "ORIGAMI_DEFAULT_VIEW")
	_ = v.BindEnv("demo_fallback", "ORIGAMI_DEMO_FALLBACK")
	_ = v.BindEnv("state_dir", "ORIGAMI_STATE_DIR")
	_ = v.BindEnv("settings_file", "ORIGAMI_SETTINGS_FILE")

	v.SetDefault("listen", "127.0.0.1:8793")
	v.SetDefault("base_url", "")
	v.SetDefault("collection_id", "e_90")
	v.SetDefault("page_limit", maxPageLimit)
	v.SetDefault("timeout_seconds", 15)
	v.SetDefault("default_view", string(calendar.ViewWeek))
	v.SetDefault("demo_fallback", false)
	v.SetDefault("state_dir", filepath.Join(xdgState, "origamical"))

	// A legacy settings file seeds defaults; environment still wins.
	if settingsFile := strings.TrimSpace(v.GetString("settings_file")); settingsFile != "" {
		if err := applySettingsFile(v, settingsFile); err != nil {
			return Runtime{}, err
		}
	}

	pageLimit := v.GetInt("page_limit")
	if pageLimit <= 0 || pageLimit > maxPageLimit {
		pageLimit = maxPageLimit
	}

	timeoutSeconds := v.GetInt("timeout_seconds")
	if timeoutSeconds <= 0 {
		timeoutSeconds = 15
	}

	view, ok := calendar.ParseView(v.GetString("default_view"))
	if !ok {
		view = calendar.ViewWeek
	}

	stateDir := strings.TrimSpace(v.GetString("state_dir"))
	if stateDir == "" {
		stateDir = filepath.Join(xdgState, "origamical")
	}

	return Runtime{
		ConfigFile:      configFile,
		Listen:          strings.TrimSpace(v.GetString("listen")),
		BaseURL:         strings.TrimSpace(v.GetString("base_url")),
		CollectionID:    strings.TrimSpace(v.GetString("collection_id")),
		APIKey:          strings.TrimSpace(v.GetString("api_key")),
		PageLimit:       pageLimit,
		Timeout:         time.Duration(timeoutSeconds) * time.Second,
		DefaultView:     view,
		DemoFallback:    v.GetBool("demo_fallback"),
		StateDir:        stateDir,
		SavedConfigFile: filepath.Join(stateDir, "connection.json"),
	}, nil
}

// applySettingsFile reads an `[origami]` ini section written by an external
// settings tool and installs its values as defaults.
func applySettingsFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("load settings file %s: %w", path, err)
	}

	section := cfg.Section("origami")
	mapping := map[string]string{
		"base_url":      section.Key("base_url").String(),
		"collection_id": section.Key("collection_id").String(),
		"api_key":       section.Key("api_key").String(),
	}
	for key, value := range mapping {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			v.SetDefault(key, trimmed)
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open env file %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}

		if len(value) >= 2 {
			if (value[0] == '\'' && value[len(value)-1] == '\'') ||
				(value[0] == '"' && value[len(value)-1] == '"') {
				value = value[1 : len(value)-1]
			}
		}

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, value)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan env file %s: %w", path, err)
	}
	return nil
}
