package config

// Config is the launcher manifest (cueup.yaml) at the repository root. Every
// field has a default tuned for the pooltool layout, so a project without a
// manifest still bootstraps.
type Config struct {
	Version      string             `yaml:"version,omitempty" validate:"omitempty,release_version"`
	Name         string             `yaml:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Runtime      RuntimeConfig      `yaml:"runtime,omitempty"`
	Environment  EnvironmentConfig  `yaml:"environment,omitempty"`
	Dependencies DependencyConfig   `yaml:"dependencies,omitempty"`
	Entry        EntryConfig        `yaml:"entry,omitempty"`
	Capabilities []CapabilityConfig `yaml:"capabilities,omitempty" validate:"omitempty,dive"`
}

// RuntimeConfig declares the interpreter requirement.
type RuntimeConfig struct {
	MinimumVersion string `yaml:"minimum_version,omitempty" validate:"omitempty,release_version"`
}

// EnvironmentConfig declares where the isolated environment lives.
type EnvironmentConfig struct {
	Root string `yaml:"root,omitempty"`
}

// DependencyConfig declares the manifest, lock file, and pinned tool used to
// reconcile dependencies.
type DependencyConfig struct {
	Manifest    string `yaml:"manifest,omitempty"`
	Lock        string `yaml:"lock,omitempty"`
	Tool        string `yaml:"tool,omitempty" validate:"omitempty,module_name"`
	ToolVersion string `yaml:"tool_version,omitempty"`
	Module      string `yaml:"module,omitempty" validate:"omitempty,module_name"`
}

// EntryConfig declares the application entry point.
type EntryConfig struct {
	Module string `yaml:"module,omitempty" validate:"omitempty,module_name"`
}

// CapabilityConfig declares one optional capability to probe for.
type CapabilityConfig struct {
	Name   string `yaml:"name" validate:"required,capability_name"`
	Module string `yaml:"module" validate:"required,module_name"`
	Hint   string `yaml:"hint,omitempty"`
}
