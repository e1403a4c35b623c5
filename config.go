package block

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig. A
// double underscore separates nesting levels: BLOCK_LOG_LEVEL sets
// log_level, BLOCK_SHARED__APP_NAME sets shared.app_name.
const EnvPrefix = "BLOCK_"

// Config describes an engine: where views live, how they are named and
// what data every view sees.
type Config struct {
	// Views is the directory of the default namespace.
	Views string `koanf:"views"`
	// Extension is the view file extension, without the dot.
	Extension string `koanf:"extension"`
	// Namespaces maps namespace names to directories.
	Namespaces map[string]string `koanf:"namespaces"`
	// Shared is data shared with every view.
	Shared map[string]any `koanf:"shared"`
	// LogLevel is a zerolog level name used by the command line tool.
	LogLevel string `koanf:"log_level"`
}

func defaultConfig() map[string]any {
	return map[string]any{
		"views":     "views",
		"extension": DefaultExtension,
		"log_level": "warn",
	}
}

// LoadConfig reads configuration from defaults, then the file at path when
// path is not empty, then BLOCK_ environment variables. The file format is
// picked from its extension: .toml, or YAML otherwise.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		parser := koanf.Parser(yaml.Parser())
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			parser = toml.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if path != "" {
		cfg.resolvePaths(filepath.Dir(path))
	}
	return &cfg, nil
}

// resolvePaths makes relative view directories relative to base.
func (c *Config) resolvePaths(base string) {
	abs := func(dir string) string {
		if dir == "" || filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}
	c.Views = abs(c.Views)
	for ns, dir := range c.Namespaces {
		c.Namespaces[ns] = abs(dir)
	}
}

// NewEngineFromConfig creates an engine from cfg. Options are applied after
// the configuration.
func NewEngineFromConfig(cfg *Config, opts ...Option) (*Engine, error) {
	if info, err := os.Stat(cfg.Views); err != nil {
		return nil, fmt.Errorf("error opening views directory '%s': %w", cfg.Views, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("views path '%s' is not a directory", cfg.Views)
	}

	r := NewFSResolver(nil)
	r.SetDirectory(cfg.Views)
	if cfg.Extension != "" {
		r.SetViewExtension(cfg.Extension)
	}
	for ns, dir := range cfg.Namespaces {
		r.SetDirectory(dir, ns)
	}

	e := New(r, opts...)
	for k, v := range cfg.Shared {
		e.Share(k, v)
	}
	return e, nil
}
