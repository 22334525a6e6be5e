package config

// Config is the root configuration for the StreamSight client.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis,omitempty"`
	Media    MediaConfig    `yaml:"media,omitempty"`
	Gateway  GatewayConfig  `yaml:"gateway,omitempty"`
	Archive  ArchiveConfig  `yaml:"archive,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// AnalysisConfig describes the remote analysis service endpoint and the wire
// contract details agreed with it.
type AnalysisConfig struct {
	BaseURL string `yaml:"baseUrl,omitempty"`

	// VideoField is the multipart field name carrying the media payload.
	// The deployed service expects "video_file"; older deployments used
	// "video". A mismatch silently drops the attachment server-side, so
	// this is pinned in config rather than guessed.
	VideoField string `yaml:"videoField,omitempty"`

	// AuthToken is an optional bearer token, expandable from ${ENV_VAR}.
	AuthToken string `yaml:"authToken,omitempty"`

	SubmitTimeoutSeconds int `yaml:"submitTimeoutSeconds,omitempty"`
	HealthTimeoutSeconds int `yaml:"healthTimeoutSeconds,omitempty"`
}

// MediaConfig is the upload acceptance policy.
type MediaConfig struct {
	MaxUploadBytes int64 `yaml:"maxUploadBytes,omitempty"`

	// AllowImages additionally accepts image/* MIME types for single-frame
	// analysis.
	AllowImages bool `yaml:"allowImages,omitempty"`

	// ExtraExtensions extends the built-in video extension allow-list.
	ExtraExtensions []string `yaml:"extraExtensions,omitempty"`
}

// GatewayConfig controls the local HTTP/WebSocket surface for presentation
// clients.
type GatewayConfig struct {
	Port int    `yaml:"port,omitempty"`
	Bind string `yaml:"bind,omitempty"` // "loopback" | "lan"

	// Token guards the gateway endpoints when set; expandable from ${ENV_VAR}.
	Token string `yaml:"token,omitempty"`

	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// ArchiveConfig controls transcript persistence.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"` // SQLite file; empty means <data>/transcripts.db
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}
