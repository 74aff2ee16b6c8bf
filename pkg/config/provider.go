package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/tinyzimmer/zipper/pkg/log"
	"github.com/tinyzimmer/zipper/pkg/types"
	"github.com/tinyzimmer/zipper/pkg/util"
)

const (
	// FileName is the name of the configuration file looked up in the working
	// directory and the user's config directory.
	FileName = "zip.config"
	// EnvPrefix is prepended to every key when reading from the environment.
	EnvPrefix = "ZIPPER"
)

// Configuration keys, matching the names used in zip.config files.
const (
	KeyBufferSize   = "bufferSize"
	KeyLevel        = "level"
	KeyCharset      = "charset"
	KeyCoverageMode = "CoverageMode"
)

// Keys lists every supported configuration key.
var Keys = []string{KeyBufferSize, KeyLevel, KeyCharset, KeyCoverageMode}

// Provider supplies default settings from a configuration file and the
// environment. Invalid stored values never fail a lookup, they are replaced
// by their defaults.
type Provider struct {
	v    *viper.Viper
	path string
}

// DefaultPath returns the user level configuration file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".zipper", FileName), nil
}

// NewProvider loads configuration from the given file. When path is empty,
// zip.config in the working directory is used if present, then the user
// level file. A missing file is not an error.
func NewProvider(path string) (*Provider, error) {
	v := viper.New()
	v.SetDefault(KeyBufferSize, DefaultBufferSize)
	v.SetDefault(KeyLevel, DefaultLevel)
	v.SetDefault(KeyCharset, DefaultEncoding)
	v.SetDefault(KeyCoverageMode, DefaultOverwrite)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path == "" {
		resolved, err := discover()
		if err != nil {
			return nil, err
		}
		path = resolved
	}

	v.SetConfigFile(path)
	v.SetConfigType(configType(path))

	if util.FileExists(path) {
		log.Debugf("Reading configuration from %q", path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	} else {
		log.Debugf("No configuration found at %q, using defaults", path)
	}

	return &Provider{v: v, path: path}, nil
}

func discover() (string, error) {
	if util.FileExists(FileName) {
		return filepath.Abs(FileName)
	}
	return DefaultPath()
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	}
	return "properties"
}

// Path returns the file this provider reads from and writes to.
func (p *Provider) Path() string { return p.path }

// BufferSize returns the configured buffer size, normalized.
func (p *Provider) BufferSize() int {
	size, err := cast.ToIntE(p.v.Get(KeyBufferSize))
	if err != nil {
		log.Warningf("Invalid %s %v, using default %d", KeyBufferSize, p.v.Get(KeyBufferSize), DefaultBufferSize)
		return DefaultBufferSize
	}
	return NormalizeBufferSize(size)
}

// Level returns the configured compression level, normalized.
func (p *Provider) Level() int {
	level, err := cast.ToIntE(p.v.Get(KeyLevel))
	if err != nil {
		log.Warningf("Invalid %s %v, using default %d", KeyLevel, p.v.Get(KeyLevel), DefaultLevel)
		return DefaultLevel
	}
	return NormalizeLevel(level)
}

// Charset returns the configured charset name.
func (p *Provider) Charset() string {
	name := p.v.GetString(KeyCharset)
	canonical, err := CanonicalEncoding(name)
	if err != nil {
		log.Warningf("Invalid %s %q, using default %s", KeyCharset, name, DefaultEncoding)
		return DefaultEncoding
	}
	return canonical
}

// CoverageMode returns whether existing targets should be replaced.
func (p *Provider) CoverageMode() bool {
	mode, err := cast.ToBoolE(p.v.Get(KeyCoverageMode))
	if err != nil {
		log.Warningf("Invalid %s %v, using default %t", KeyCoverageMode, p.v.Get(KeyCoverageMode), DefaultOverwrite)
		return DefaultOverwrite
	}
	return mode
}

// Settings returns the full set of configured settings.
func (p *Provider) Settings() types.Settings {
	return types.Settings{
		BufferSize: p.BufferSize(),
		Level:      p.Level(),
		Encoding:   p.Charset(),
		Overwrite:  p.CoverageMode(),
	}
}

// Set validates and stores a single value, then persists the configuration file.
func (p *Provider) Set(key, value string) error {
	canonical, ok := lookupKey(key)
	if !ok {
		return fmt.Errorf("unknown configuration key %q, valid keys are %s", key, strings.Join(Keys, ", "))
	}

	var stored interface{}
	switch canonical {
	case KeyBufferSize:
		size, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", canonical, err)
		}
		stored = NormalizeBufferSize(size)
	case KeyLevel:
		level, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", canonical, err)
		}
		stored = NormalizeLevel(level)
	case KeyCharset:
		name, err := CanonicalEncoding(value)
		if err != nil {
			return err
		}
		stored = name
	case KeyCoverageMode:
		mode, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", canonical, err)
		}
		stored = mode
	}

	p.v.Set(canonical, stored)
	return p.write()
}

func (p *Provider) write() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return err
	}
	log.Debugf("Writing configuration to %q", p.path)
	return p.v.WriteConfigAs(p.path)
}

func lookupKey(key string) (string, bool) {
	for _, k := range Keys {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}
