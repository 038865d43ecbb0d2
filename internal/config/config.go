package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docmatrix/internal/foundation"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
)

// DefaultFileName is the run configuration looked up in the docs root when
// no explicit path is given.
const DefaultFileName = "docmatrix.yaml"

// Config is the explicit per-run configuration threaded through every
// constructor. It replaces process-wide settings such as the docs root, the
// log verbosity and the topic nesting limit.
type Config struct {
	DocsRoot           string          `yaml:"docs_root"`
	DistroMapFile      string          `yaml:"distro_map_file"`
	TopicMapFile       string          `yaml:"topic_map_file"`
	LegacyTopicMapFile string          `yaml:"legacy_topic_map_file"`
	PreviewDir         string          `yaml:"preview_dir"`
	PackageDir         string          `yaml:"package_dir"`
	SourceExtension    string          `yaml:"source_extension"`
	MaxDepth           int             `yaml:"max_depth"`
	DevBranch          DevBranchConfig `yaml:"dev_branch"`
	Logging            LoggingConfig   `yaml:"logging"`
	Metrics            MetricsConfig   `yaml:"metrics"`
	Discovery          DiscoveryConfig `yaml:"discovery"`

	maxDepthSpecified bool
}

// DevBranchConfig controls the synthetic branch configuration used when a
// distro is built on a branch the distro map does not list.
type DevBranchConfig struct {
	Name string `yaml:"name"`
	// InheritDistro copies the owning distro's name and author. When false the
	// placeholders below are used instead.
	InheritDistro     *bool  `yaml:"inherit_distro"`
	PlaceholderName   string `yaml:"placeholder_name"`
	PlaceholderAuthor string `yaml:"placeholder_author"`
}

// Inherit reports whether dev builds inherit distro name/author.
func (d DevBranchConfig) Inherit() bool {
	return d.InheritDistro == nil || *d.InheritDistro
}

// MetricsConfig configures optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// DiscoveryConfig controls which on-disk source files count when looking
// for orphans.
type DiscoveryConfig struct {
	IgnoreDirs     []string `yaml:"ignore_dirs"`
	IgnorePrefixes []string `yaml:"ignore_prefixes"`
	IgnoreNames    []string `yaml:"ignore_names"`
}

// UnmarshalYAML records whether max_depth was given so an explicit 0 survives defaulting.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	var raw plain
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = Config(raw)
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "max_depth" {
			c.maxDepthSpecified = true
		}
	}
	return nil
}

// Default returns the configuration used when no config file exists.
func Default(docsRoot string) *Config {
	cfg := &Config{DocsRoot: docsRoot}
	applyDefaults(cfg)
	return cfg
}

// Load reads configuration from path. A missing file at the default
// location yields Default(docsRoot); a missing explicit file is an error.
func Load(path, docsRoot string, explicit bool) (*Config, error) {
	if err := loadEnvFile(docsRoot); err != nil {
		return nil, err
	}

	if path == "" {
		path = filepath.Join(docsRoot, DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(docsRoot), nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read configuration file").
			Fatal().
			WithContext("file", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse configuration file").
			Fatal().
			WithContext("file", path).
			Build()
	}
	if docsRoot != "" && cfg.DocsRoot == "" {
		cfg.DocsRoot = docsRoot
	}
	applyDefaults(cfg)

	if res := cfg.Validate(); !res.Valid {
		return nil, res.ToError(fmt.Sprintf("The configuration file at '%s' contains the following errors", path))
	}
	return cfg, nil
}

// Parse decodes configuration YAML after environment expansion. Defaults are not applied.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() foundation.ValidationResult {
	v := foundation.NewCollector(false)
	v.Check(foundation.ValidString(c.DocsRoot), "docs_root", "blank", "docs root must not be blank")
	v.Check(foundation.ValidString(c.DistroMapFile), "distro_map_file", "blank", "distro map filename must not be blank")
	v.Check(foundation.ValidString(c.TopicMapFile), "topic_map_file", "blank", "topic map filename must not be blank")
	v.Check(c.MaxDepth >= 0, "max_depth", "negative", fmt.Sprintf("max depth must not be negative, got %d", c.MaxDepth))
	v.Check(len(c.SourceExtension) > 1 && c.SourceExtension[0] == '.', "source_extension", "format",
		fmt.Sprintf("source extension must start with '.', got %q", c.SourceExtension))
	v.Check(foundation.ValidString(c.PreviewDir) && !filepath.IsAbs(c.PreviewDir), "preview_dir", "format",
		"preview dir must be a relative, non-blank path")
	v.Check(foundation.ValidString(c.DevBranch.Name), "dev_branch.name", "blank", "dev branch name must not be blank")
	if !c.DevBranch.Inherit() {
		v.Check(foundation.ValidString(c.DevBranch.PlaceholderName), "dev_branch.placeholder_name", "blank",
			"placeholder name is required when inherit_distro is false")
		v.Check(foundation.ValidString(c.DevBranch.PlaceholderAuthor), "dev_branch.placeholder_author", "blank",
			"placeholder author is required when inherit_distro is false")
	}
	return v.Result()
}

// DistroMapPath returns the absolute-or-relative path to the distro map.
func (c *Config) DistroMapPath() string { return filepath.Join(c.DocsRoot, c.DistroMapFile) }

// PreviewRoot returns the directory generated output is written under.
func (c *Config) PreviewRoot() string { return filepath.Join(c.DocsRoot, c.PreviewDir) }

// PackageRoot returns the packaging directory.
func (c *Config) PackageRoot() string { return filepath.Join(c.DocsRoot, c.PackageDir) }
