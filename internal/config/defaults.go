package config

// FileName is the launcher manifest looked up at the repository root.
const FileName = "cueup.yaml"

// Default returns the configuration used when no manifest exists. The values
// match the pooltool project layout.
func Default() *Config {
	cfg := &Config{
		Version: "1.0",
		Name:    "pooltool",
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills any field the manifest left empty.
func applyDefaults(cfg *Config) {
	if cfg.Runtime.MinimumVersion == "" {
		cfg.Runtime.MinimumVersion = "3.10"
	}
	if cfg.Environment.Root == "" {
		cfg.Environment.Root = ".venv"
	}
	if cfg.Dependencies.Manifest == "" {
		cfg.Dependencies.Manifest = "pyproject.toml"
	}
	if cfg.Dependencies.Lock == "" {
		cfg.Dependencies.Lock = "poetry.lock"
	}
	if cfg.Dependencies.Tool == "" {
		cfg.Dependencies.Tool = "poetry"
	}
	if cfg.Dependencies.ToolVersion == "" {
		cfg.Dependencies.ToolVersion = "1.8.3"
	}
	if cfg.Dependencies.Module == "" {
		cfg.Dependencies.Module = "pooltool"
	}
	if cfg.Entry.Module == "" {
		cfg.Entry.Module = cfg.Dependencies.Module
	}
	if cfg.Capabilities == nil {
		cfg.Capabilities = []CapabilityConfig{
			{
				Name:   "tunneling",
				Module: "pyngrok",
				Hint:   "run 'pip install pyngrok' inside the environment to enable internet multiplayer",
			},
		}
	}
}
