package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !strings.HasSuffix(cfg.StateFile, filepath.Join(".local", "share", "theine", "state.json")) {
		t.Errorf("Wrong default state file: %s", cfg.StateFile)
	}

	if cfg.TimeFormat != 12 {
		t.Errorf("Wrong default time format: %d", cfg.TimeFormat)
	}

	if cfg.MinutesPerRow != 15 {
		t.Errorf("Wrong default minutes per row: %d", cfg.MinutesPerRow)
	}

	if cfg.StartupView != ViewActivities {
		t.Errorf("Wrong default startup view: %s", cfg.StartupView)
	}

	if cfg.RefreshRate != time.Minute {
		t.Errorf("Wrong default refresh rate: %v", cfg.RefreshRate)
	}

	if !cfg.AutoReload {
		t.Error("Auto reload should be enabled by default")
	}

	if action, ok := cfg.Action("q"); !ok || action != ActionQuit {
		t.Errorf("Wrong quit key binding: %q", action)
	}

	for _, element := range []string{"sleep", "seekLight", "avoidLight", "now", "marker"} {
		if cfg.Colors[element] == "" {
			t.Errorf("No default color for %s", element)
		}
	}
}

func TestParseLine(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		line     string
		check    func(*Config) bool
		hasError bool
	}{
		{
			line: "set state_file /var/lib/theine/state.json",
			check: func(c *Config) bool {
				return c.StateFile == "/var/lib/theine/state.json"
			},
		},
		{
			line: `set calculator "theine-calc --json"`,
			check: func(c *Config) bool {
				return c.Calculator == "theine-calc --json"
			},
		},
		{
			line: "set time_format 24",
			check: func(c *Config) bool {
				return c.TimeFormat == 24
			},
		},
		{
			line: "set auto_reload false",
			check: func(c *Config) bool {
				return !c.AutoReload
			},
		},
		{
			line: "set refresh_rate 30",
			check: func(c *Config) bool {
				return c.RefreshRate == 30*time.Second
			},
		},
		{
			line: "bind space toggle_view",
			check: func(c *Config) bool {
				return c.KeyBindings["space"] == ActionToggleView
			},
		},
		{
			line: "color seekLight yellow",
			check: func(c *Config) bool {
				return c.Colors["seekLight"] == "yellow"
			},
		},
		{
			line: "color now #ff0000",
			check: func(c *Config) bool {
				return c.Colors["now"] == "#ff0000"
			},
		},
		{
			line:     "bind x launch_rockets",
			hasError: true,
		},
		{
			line:     "color today cyan",
			hasError: true,
		},
		{
			line:     "invalid command",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := cfg.parseLine(tt.line)

			if tt.hasError && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Check failed for line: %s", tt.line)
			}
		})
	}
}

func TestSetVariable(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		value    string
		check    func(*Config) bool
		hasError bool
	}{
		{
			name:  "state_file",
			value: "~/theine.json",
			check: func(c *Config) bool {
				return filepath.IsAbs(c.StateFile) && strings.HasSuffix(c.StateFile, "theine.json")
			},
		},
		{
			name:  "minutes_per_row",
			value: "10",
			check: func(c *Config) bool {
				return c.MinutesPerRow == 10
			},
		},
		{name: "minutes_per_row", value: "7", hasError: true},
		{name: "minutes_per_row", value: "0", hasError: true},
		{name: "minutes_per_row", value: "many", hasError: true},
		{
			name:  "startup_view",
			value: "calendar",
			check: func(c *Config) bool {
				return c.StartupView == ViewCalendar
			},
		},
		{name: "startup_view", value: "month", hasError: true},
		{name: "time_format", value: "15:04", hasError: true},
		{
			name:  "log_level",
			value: "DEBUG",
			check: func(c *Config) bool {
				return c.LogLevel == "debug"
			},
		},
		{name: "log_level", value: "loud", hasError: true},
		{
			name:  "wrap_text",
			value: "no",
			check: func(c *Config) bool {
				return !c.WrapText
			},
		},
		{
			name:  "refresh_rate",
			value: "5m",
			check: func(c *Config) bool {
				return c.RefreshRate == 5*time.Minute
			},
		},
		{name: "refresh_rate", value: "-1s", hasError: true},
		{name: "unknown_variable", value: "something", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			err := cfg.setVariable(tt.name, tt.value)

			if tt.hasError && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Check failed for %s = %s", tt.name, tt.value)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "theinerc")

	content := `# Test config file
set state_file /tmp/theine-state.json
set time_format 24
set minutes_per_row 30
set startup_view calendar
set refresh_rate 120

bind Q quit
bind n jump_now

color sleep 19
color header bold
`

	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFile(configFile)
	if err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if cfg.StateFile != "/tmp/theine-state.json" {
		t.Errorf("Wrong state file: %s", cfg.StateFile)
	}
	if cfg.TimeFormat != 24 || cfg.MinutesPerRow != 30 || cfg.StartupView != ViewCalendar {
		t.Errorf("Display settings not applied: %+v", cfg)
	}
	if cfg.RefreshRate != 120*time.Second {
		t.Errorf("Wrong refresh rate: %v", cfg.RefreshRate)
	}
	if got := cfg.KeysFor(ActionQuit); !reflect.DeepEqual(got, []string{"Q", "ctrl+c", "q"}) {
		t.Errorf("Wrong quit keys: %v", got)
	}
	if got := cfg.KeysFor(ActionJumpNow); !reflect.DeepEqual(got, []string{"n", "t"}) {
		t.Errorf("Wrong jump keys: %v", got)
	}
	if cfg.Colors["sleep"] != "19" {
		t.Errorf("Wrong sleep color: %s", cfg.Colors["sleep"])
	}
}

func TestLoadFileReportsLine(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "theinerc")
	content := "set time_format 24\n\nset minutes_per_row 7\n"
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configFile)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Expected error mentioning line 3, got %v", err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadConfigSearchOrder(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("THEINE_CONFIG", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig without files: %v", err)
	}
	if cfg.TimeFormat != 12 {
		t.Errorf("Expected defaults, got time format %d", cfg.TimeFormat)
	}

	if err := os.WriteFile(filepath.Join(home, ".theinerc"), []byte("set time_format 24\n"), 0644); err != nil {
		t.Fatal(err)
	}
	xdgDir := filepath.Join(xdg, "theine")
	if err := os.MkdirAll(xdgDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(xdgDir, "theinerc"), []byte("set minutes_per_row 20\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MinutesPerRow != 20 {
		t.Errorf("XDG config not used: minutes per row %d", cfg.MinutesPerRow)
	}
	if cfg.TimeFormat != 12 {
		t.Error("Only the first config file found should be applied")
	}

	explicit := filepath.Join(t.TempDir(), "rc")
	if err := os.WriteFile(explicit, []byte("set startup_view calendar\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("THEINE_CONFIG", explicit)

	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.StartupView != ViewCalendar || cfg.MinutesPerRow != 15 {
		t.Errorf("THEINE_CONFIG not preferred: %+v", cfg)
	}
}
