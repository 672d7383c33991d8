package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// legacyKeys is the line order of the flat config file. Only the first
// whitespace-separated token of each line is used, so trailing notes are allowed.
var legacyKeys = []string{
	"weather.api_key",
	"weather.location",
	"backlight.default",
	"backlight.night",
	"night.start",
	"night.end",
	"alarm.time",
}

// requiredLegacyLines is everything up to and including night.end.
const requiredLegacyLines = 6

// LoadLegacy overlays the flat file at path onto v and returns the result.
func LoadLegacy(v *viper.Viper, path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open legacy config %q: %w", path, err)
	}
	defer f.Close()

	if err := ApplyLegacy(v, f); err != nil {
		return Config{}, err
	}
	return decode(v)
}

// ApplyLegacy reads the flat format from r and sets the matching viper keys.
// A seventh line enables the alarm at that time.
func ApplyLegacy(v *viper.Viper, r io.Reader) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() && n < len(legacyKeys) {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			return fmt.Errorf("%w: legacy config line %d (%s) is empty", ErrInvalidConfig, n+1, legacyKeys[n])
		}
		key := legacyKeys[n]
		switch key {
		case "backlight.default", "backlight.night":
			level, err := strconv.Atoi(fields[0])
			if err != nil {
				return fmt.Errorf("%w: legacy config line %d (%s): %v", ErrInvalidConfig, n+1, key, err)
			}
			v.Set(key, level)
		case "alarm.time":
			v.Set(key, fields[0])
			v.Set("alarm.enabled", true)
		default:
			v.Set(key, fields[0])
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read legacy config: %w", err)
	}
	if n < requiredLegacyLines {
		return fmt.Errorf("%w: legacy config has %d lines, need at least %d", ErrInvalidConfig, n, requiredLegacyLines)
	}
	return nil
}
