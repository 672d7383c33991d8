package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flags are the command-line options that pick the config source.
type Flags struct {
	ConfigPath string
	LegacyPath string
}

// RegisterFlags adds the config flags to fs and binds the overridable ones into v.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "configs/config.yml", "path to YAML config")
	fs.StringVar(&f.LegacyPath, "legacy-config", "", "path to flat config.txt; overrides --config")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("render-output", "png", "render sink (png, framebuffer, none)")
	_ = v.BindPFlag("log.level", fs.Lookup("log-level"))
	_ = v.BindPFlag("render.output", fs.Lookup("render-output"))
	return f
}

// Resolve loads from the legacy file when given, else from the YAML file.
func (f *Flags) Resolve(v *viper.Viper) (Config, error) {
	if f.LegacyPath != "" {
		return LoadLegacy(v, f.LegacyPath)
	}
	return Load(v, f.ConfigPath)
}
