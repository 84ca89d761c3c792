package apiversion

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kmercer/jobs-api/internal/xerrors"
)

// Config is the on-disk shape of the version registry:
//
//	supported: [v1, v2]
//	deprecated:
//	  v1:
//	    sunset: "2026-04-22"
//	    replacement: v2
//	    docs_url: "https://api.example.com/docs/v2/"
type Config struct {
	Supported  []string                     `koanf:"supported"`
	Deprecated map[string]DeprecatedVersion `koanf:"deprecated"`
}

// Load reads the version registry: built-in defaults, then the YAML file at
// path if given, then JOBSAPI_VERSIONS_* environment overrides. Validation
// errors here are fatal to startup so requests never see a half-formed
// registry.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"supported": []string{"v1"},
	}, "."), nil); err != nil {
		return nil, xerrors.Wrap(err, "loading version defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, xerrors.Wrapf(err, "loading version registry %s", path)
		}
	}

	// JOBSAPI_VERSIONS_SUPPORTED="v1 v2" overrides the supported list;
	// nested deprecation entries stay file-only.
	if err := k.Load(env.ProviderWithValue("JOBSAPI_VERSIONS_", ".", func(key, value string) (string, any) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, "JOBSAPI_VERSIONS_")), "_", ".")
		if key == "supported" {
			return key, strings.Fields(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, xerrors.Wrap(err, "loading version env overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, xerrors.Wrap(err, "parsing version registry")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the supported list and every deprecation entry.
func (c *Config) Validate() error {
	if len(c.Supported) == 0 {
		return xerrors.New("no supported versions configured")
	}
	for _, v := range c.Supported {
		if !IsToken(v) {
			return xerrors.Newf("supported version %q: invalid identifier (want v<digits>)", v)
		}
	}
	return Registry(c.Deprecated).Validate()
}

// SupportedSet builds the immutable accept set.
func (c *Config) SupportedSet() (Set, error) {
	return NewSet(c.Supported...)
}

// Registry builds the immutable deprecation registry.
func (c *Config) Registry() Registry {
	if c.Deprecated == nil {
		return Registry{}
	}
	return Registry(c.Deprecated)
}
