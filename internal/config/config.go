// Package config loads the typed display configuration from YAML (via viper)
// or from the flat line-oriented config.txt format.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wall_display/internal/models"

	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is prepended to environment overrides, e.g. WALLDISPLAY_WEATHER_API_KEY.
const EnvPrefix = "WALLDISPLAY"

type WeatherConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Location string        `mapstructure:"location"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type BacklightConfig struct {
	Device  string `mapstructure:"device"`
	Default int    `mapstructure:"default"`
	Night   int    `mapstructure:"night"`
}

type NightConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type AlarmConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Time        string        `mapstructure:"time"`
	AutoDismiss time.Duration `mapstructure:"auto_dismiss"`
}

type LoopConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	TouchDebounce time.Duration `mapstructure:"touch_debounce"`
}

type RenderConfig struct {
	// Output is "png", "framebuffer" or "none".
	Output string `mapstructure:"output"`
	Path   string `mapstructure:"path"`
	// PixelFormat applies to the framebuffer output: "bgra32" or "rgb565".
	PixelFormat string `mapstructure:"pixel_format"`
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	IconDir     string `mapstructure:"icon_dir"`
}

type TouchConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Bus     string `mapstructure:"bus"`
	Addr    uint16 `mapstructure:"addr"`
}

type HTTPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Username     string        `mapstructure:"username"`
	PasswordHash string        `mapstructure:"password_hash"`
	SigningKey   string        `mapstructure:"signing_key"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Config is the whole application configuration.
type Config struct {
	Weather   WeatherConfig   `mapstructure:"weather"`
	Backlight BacklightConfig `mapstructure:"backlight"`
	Night     NightConfig     `mapstructure:"night"`
	Alarm     AlarmConfig     `mapstructure:"alarm"`
	Loop      LoopConfig      `mapstructure:"loop"`
	Render    RenderConfig    `mapstructure:"render"`
	Touch     TouchConfig     `mapstructure:"touch"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
}

var defaults = map[string]any{
	"weather.base_url":     "http://api.openweathermap.org/data/2.5",
	"weather.timeout":      10 * time.Second,
	"backlight.device":     "/sys/class/backlight/rpi_backlight/brightness",
	"backlight.default":    255,
	"backlight.night":      64,
	"night.start":          "21:00:00",
	"night.end":            "05:00:00",
	"alarm.enabled":        false,
	"alarm.time":           "06:00:00",
	"alarm.auto_dismiss":   60 * time.Second,
	"loop.poll_interval":   100 * time.Millisecond,
	"loop.touch_debounce":  700 * time.Millisecond,
	"render.output":        "png",
	"render.path":          "frame.png",
	"render.pixel_format":  "bgra32",
	"render.width":         800,
	"render.height":        480,
	"render.icon_dir":      "icons",
	"touch.enabled":        false,
	"touch.bus":            "1",
	"touch.addr":           0x14,
	"http.enabled":         true,
	"http.port":            "8080",
	"db.path":              "display.db",
	"auth.token_ttl":       time.Hour,
	"log.level":            "info",
	"log.encoding":         "console",
}

// New returns a viper instance with defaults and env overrides applied.
func New() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the YAML file at path (if non-empty) into a validated Config.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NightWindow parses the configured night-mode bounds.
func (c Config) NightWindow() (models.NightWindow, error) {
	return models.NewNightWindow(c.Night.Start, c.Night.End)
}

// AlarmTime parses the configured alarm time.
func (c Config) AlarmTime() (models.TimeOfDay, error) {
	return models.ParseTimeOfDay(c.Alarm.Time)
}

// Validate rejects values the core cannot run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.NightWindow(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.AlarmTime(); err != nil {
		errs = append(errs, fmt.Errorf("alarm time: %w", err))
	}
	if c.Backlight.Default < 0 || c.Backlight.Default > 255 {
		errs = append(errs, fmt.Errorf("backlight.default %d out of range 0-255", c.Backlight.Default))
	}
	if c.Backlight.Night < 0 || c.Backlight.Night > 255 {
		errs = append(errs, fmt.Errorf("backlight.night %d out of range 0-255", c.Backlight.Night))
	}
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		errs = append(errs, errors.New("weather.api_key is required"))
	}
	if strings.TrimSpace(c.Weather.Location) == "" {
		errs = append(errs, errors.New("weather.location is required"))
	}
	if c.Alarm.AutoDismiss <= 0 {
		errs = append(errs, errors.New("alarm.auto_dismiss must be positive"))
	}
	if c.Loop.PollInterval <= 0 || c.Loop.PollInterval > time.Second {
		errs = append(errs, fmt.Errorf("loop.poll_interval %v must be in (0, 1s]", c.Loop.PollInterval))
	}
	switch c.Render.Output {
	case "png", "framebuffer", "none":
	default:
		errs = append(errs, fmt.Errorf("render.output %q must be png, framebuffer or none", c.Render.Output))
	}
	switch c.Render.PixelFormat {
	case "bgra32", "rgb565":
	default:
		errs = append(errs, fmt.Errorf("render.pixel_format %q must be bgra32 or rgb565", c.Render.PixelFormat))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
