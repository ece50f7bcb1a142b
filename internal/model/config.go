package model

// Config is the complete bp-flow configuration
type Config struct {
	LLM        LLMConfig        `yaml:"llm" json:"llm"`
	Cache      CacheConfig      `yaml:"cache" json:"cache"`
	Thresholds ThresholdsConfig `yaml:"thresholds" json:"thresholds"`
	Output     OutputConfig     `yaml:"output" json:"output"`
}

// LLMConfig configures the remote classification provider.
// An empty Provider disables the remote path entirely: the engine then runs
// on heuristics alone and speech deconstruction is unavailable.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai", "ollama", ""
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`

	// RequestsPerSecond and Burst bound the call rate against the provider
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// CacheConfig configures caching of remote classification results
type CacheConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// ThresholdsConfig names the load-bearing behavioral constants of the
// engine. These are contracts, not tuning noise: callers gate auto-apply
// and confirmation UI on them, and the repair rules cap confidence with
// them.
type ThresholdsConfig struct {
	// AutoApply: results at or above this confidence are safe to commit
	// without human confirmation.
	AutoApply float64 `yaml:"auto_apply" json:"auto_apply"`

	// SurfaceFloor: results at or above this confidence are worth
	// surfacing with a pre-filled suggestion; below it the caller should
	// de-emphasize them.
	SurfaceFloor float64 `yaml:"surface_floor" json:"surface_floor"`

	// RefutationSimFloor: minimum token-overlap similarity for the
	// heuristic to link a refutation to an opposing point.
	RefutationSimFloor float64 `yaml:"refutation_sim_floor" json:"refutation_sim_floor"`

	// ThemeLabelSimFloor: minimum similarity for matching text directly
	// against an existing theme label.
	ThemeLabelSimFloor float64 `yaml:"theme_label_sim_floor" json:"theme_label_sim_floor"`

	// ThemeAggregateFloor: minimum per-theme aggregate similarity when
	// falling back to matching against member points.
	ThemeAggregateFloor float64 `yaml:"theme_aggregate_floor" json:"theme_aggregate_floor"`

	// UnresolvedRefutationCap: confidence ceiling applied when a remote
	// refutation link had to be discarded as unresolvable.
	UnresolvedRefutationCap float64 `yaml:"unresolved_refutation_cap" json:"unresolved_refutation_cap"`

	// DeconstructMinChars: minimum input length before the batch
	// deconstruction path engages.
	DeconstructMinChars int `yaml:"deconstruct_min_chars" json:"deconstruct_min_chars"`

	// MaxFieldChars: hard truncation cap for restated claims, mechanisms
	// and impacts returned by the remote model.
	MaxFieldChars int `yaml:"max_field_chars" json:"max_field_chars"`

	// ContextWindow: how many recent points are serialized into the
	// remote prompt.
	ContextWindow int `yaml:"context_window" json:"context_window"`
}

// OutputConfig controls diagnostic output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "",
			Model:             "",
			Timeout:           30,
			MaxTokens:         2000,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 600,
		},
		Thresholds: DefaultThresholds(),
		Output: OutputConfig{
			Verbose: false,
		},
	}
}

// DefaultThresholds returns the standard engine thresholds
func DefaultThresholds() ThresholdsConfig {
	return ThresholdsConfig{
		AutoApply:               0.85,
		SurfaceFloor:            0.3,
		RefutationSimFloor:      0.15,
		ThemeLabelSimFloor:      0.2,
		ThemeAggregateFloor:     0.1,
		UnresolvedRefutationCap: 0.4,
		DeconstructMinChars:     40,
		MaxFieldChars:           200,
		ContextWindow:           20,
	}
}
