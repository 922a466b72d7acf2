package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cwarden/theine/internal/activity"
)

// Actions that keys can be bound to.
const (
	ActionQuit        = "quit"
	ActionHelp        = "help"
	ActionToggleView  = "toggle_view"
	ActionScrollDown  = "scroll_down"
	ActionScrollUp    = "scroll_up"
	ActionJumpNow     = "jump_now"
	ActionReload      = "reload"
	ActionRecalculate = "recalculate"
)

var actions = map[string]bool{
	ActionQuit:        true,
	ActionHelp:        true,
	ActionToggleView:  true,
	ActionScrollDown:  true,
	ActionScrollUp:    true,
	ActionJumpNow:     true,
	ActionReload:      true,
	ActionRecalculate: true,
}

// Colorable UI elements besides the activity types.
var uiElements = map[string]bool{
	"header": true,
	"now":    true,
	"marker": true,
	"help":   true,
	"status": true,
}

const (
	ViewActivities = "activities"
	ViewCalendar   = "calendar"
)

var (
	setRe   = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)
	bindRe  = regexp.MustCompile(`^bind\s+(\S+)\s+(\S+)$`)
	colorRe = regexp.MustCompile(`^color\s+(\w+)\s+(.+)$`)
)

type Config struct {
	// Files
	StateFile  string
	Calculator string
	LogFile    string
	LogLevel   string

	// Display settings
	TimeFormat    int
	MinutesPerRow int
	StartupView   string
	WrapText      bool

	// Behavior settings
	RefreshRate time.Duration
	AutoReload  bool

	// Colors maps an activity type or UI element to a lipgloss color.
	Colors map[string]string

	// KeyBindings maps a key, as reported by bubbletea, to an action.
	KeyBindings map[string]string
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		StateFile: filepath.Join(home, ".local", "share", "theine", "state.json"),
		LogLevel:  "info",

		TimeFormat:    12,
		MinutesPerRow: 15,
		StartupView:   ViewActivities,
		WrapText:      true,

		RefreshRate: time.Minute,
		AutoReload:  true,

		Colors: map[string]string{
			string(activity.TypeSleep):      "57",
			string(activity.TypeNap):        "99",
			string(activity.TypeBreakfast):  "208",
			string(activity.TypeLunch):      "214",
			string(activity.TypeDinner):     "166",
			string(activity.TypeSeekLight):  "220",
			string(activity.TypeAvoidLight): "240",
			"header":                        "39",
			"now":                           "196",
			"marker":                        "242",
			"help":                          "241",
			"status":                        "245",
		},

		KeyBindings: map[string]string{
			"q":      ActionQuit,
			"ctrl+c": ActionQuit,
			"?":      ActionHelp,
			"tab":    ActionToggleView,
			"v":      ActionToggleView,
			"j":      ActionScrollDown,
			"down":   ActionScrollDown,
			"k":      ActionScrollUp,
			"up":     ActionScrollUp,
			"t":      ActionJumpNow,
			"r":      ActionReload,
			"R":      ActionRecalculate,
		},
	}
}

// SearchPaths lists the config file locations tried by LoadConfig, in order.
func SearchPaths() []string {
	home := os.Getenv("HOME")
	paths := []string{os.Getenv("THEINE_CONFIG")}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "theine", "theinerc"))
	}
	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".config", "theine", "theinerc"),
			filepath.Join(home, ".theinerc"),
		)
	}
	return paths
}

// LoadConfig applies the first existing file from SearchPaths on top of the
// defaults. Having no config file at all is fine.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	for _, path := range SearchPaths() {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			if err := config.loadFromFile(path); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", path, err)
			}
			break
		}
	}

	return config, nil
}

// LoadFile applies a specific config file on top of the defaults. Unlike
// LoadConfig, a missing file is an error.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.loadFromFile(path); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.parseLine(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return scanner.Err()
}

func (c *Config) parseLine(line string) error {
	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}

	if matches := bindRe.FindStringSubmatch(line); matches != nil {
		key, action := matches[1], matches[2]
		if !actions[action] {
			return fmt.Errorf("unknown action: %s", action)
		}
		c.KeyBindings[key] = action
		return nil
	}

	if matches := colorRe.FindStringSubmatch(line); matches != nil {
		element := matches[1]
		if !uiElements[element] && !activity.Type(element).Known() {
			return fmt.Errorf("unknown color element: %s", element)
		}
		c.Colors[element] = strings.Trim(strings.TrimSpace(matches[2]), `"'`)
		return nil
	}

	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) setVariable(name, value string) error {
	value = strings.Trim(strings.TrimSpace(value), `"'`)

	switch name {
	case "state_file":
		c.StateFile = expandHome(value)

	case "calculator":
		c.Calculator = value

	case "log_file":
		c.LogFile = expandHome(value)

	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log_level: %s", value)
		}

	case "time_format":
		switch value {
		case "12", "24":
			c.TimeFormat, _ = strconv.Atoi(value)
		default:
			return fmt.Errorf("invalid time_format: %s (want 12 or 24)", value)
		}

	case "minutes_per_row":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || 60%n != 0 {
			return fmt.Errorf("invalid minutes_per_row: %s (must divide 60)", value)
		}
		c.MinutesPerRow = n

	case "startup_view":
		switch value {
		case ViewActivities, ViewCalendar:
			c.StartupView = value
		default:
			return fmt.Errorf("invalid startup_view: %s", value)
		}

	case "wrap_text":
		c.WrapText = parseBool(value)

	case "auto_reload":
		c.AutoReload = parseBool(value)

	case "refresh_rate":
		rate, err := time.ParseDuration(value)
		if err != nil {
			if seconds, err2 := strconv.Atoi(value); err2 == nil {
				rate = time.Duration(seconds) * time.Second
			} else {
				return fmt.Errorf("invalid refresh_rate: %s", value)
			}
		}
		if rate <= 0 {
			return fmt.Errorf("invalid refresh_rate: %s", value)
		}
		c.RefreshRate = rate

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

// Action returns the action bound to key, if any.
func (c *Config) Action(key string) (string, bool) {
	action, ok := c.KeyBindings[key]
	return action, ok
}

// KeysFor lists the keys bound to action, sorted for stable help output.
func (c *Config) KeysFor(action string) []string {
	var keys []string
	for k, a := range c.KeyBindings {
		if a == action {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func parseBool(value string) bool {
	return strings.ToLower(value) == "true" || value == "1" || strings.ToLower(value) == "yes"
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
