package config

// Defaults mirroring the layout of an existing docs repository.
const (
	DefaultDistroMapFile      = "_distro_map.yml"
	DefaultTopicMapFile       = "_topic_map.yml"
	DefaultLegacyTopicMapFile = "_build_cfg.yml"
	DefaultPreviewDir         = "_preview"
	DefaultPackageDir         = "_package"
	DefaultSourceExtension    = ".md"
	DefaultMaxDepth           = 2
	DefaultDevBranchName      = "Branch Build"
	DefaultPlaceholderName    = "Development Build"
	DefaultPlaceholderAuthor  = "Unknown"
)

// defaultApplier applies defaults for one configuration domain.
type defaultApplier interface {
	applyDefaults(cfg *Config)
}

type pathDefaults struct{}

func (pathDefaults) applyDefaults(cfg *Config) {
	if cfg.DocsRoot == "" {
		cfg.DocsRoot = "."
	}
	if cfg.DistroMapFile == "" {
		cfg.DistroMapFile = DefaultDistroMapFile
	}
	if cfg.TopicMapFile == "" {
		cfg.TopicMapFile = DefaultTopicMapFile
	}
	if cfg.LegacyTopicMapFile == "" {
		cfg.LegacyTopicMapFile = DefaultLegacyTopicMapFile
	}
	if cfg.PreviewDir == "" {
		cfg.PreviewDir = DefaultPreviewDir
	}
	if cfg.PackageDir == "" {
		cfg.PackageDir = DefaultPackageDir
	}
}

type topicDefaults struct{}

func (topicDefaults) applyDefaults(cfg *Config) {
	if cfg.SourceExtension == "" {
		cfg.SourceExtension = DefaultSourceExtension
	}
	if !cfg.maxDepthSpecified && cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
}

type devBranchDefaults struct{}

func (devBranchDefaults) applyDefaults(cfg *Config) {
	if cfg.DevBranch.Name == "" {
		cfg.DevBranch.Name = DefaultDevBranchName
	}
	if cfg.DevBranch.PlaceholderName == "" {
		cfg.DevBranch.PlaceholderName = DefaultPlaceholderName
	}
	if cfg.DevBranch.PlaceholderAuthor == "" {
		cfg.DevBranch.PlaceholderAuthor = DefaultPlaceholderAuthor
	}
}

type loggingDefaults struct{}

func (loggingDefaults) applyDefaults(cfg *Config) {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}

type discoveryDefaults struct{}

func (discoveryDefaults) applyDefaults(cfg *Config) {
	if cfg.Discovery.IgnoreDirs == nil {
		cfg.Discovery.IgnoreDirs = []string{"old"}
	}
	if cfg.Discovery.IgnorePrefixes == nil {
		cfg.Discovery.IgnorePrefixes = []string{"_", "."}
	}
	if cfg.Discovery.IgnoreNames == nil {
		cfg.Discovery.IgnoreNames = []string{"README"}
	}
}

var appliers = []defaultApplier{
	pathDefaults{},
	topicDefaults{},
	devBranchDefaults{},
	loggingDefaults{},
	discoveryDefaults{},
}

func applyDefaults(cfg *Config) {
	for _, a := range appliers {
		a.applyDefaults(cfg)
	}
}
