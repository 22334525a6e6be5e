package config

import "fmt"

// Policy defaults agreed with the deployed analysis service.
const (
	DefaultBaseURL        = "https://streamsightai.onrender.com"
	DefaultVideoField     = "video_file"
	DefaultMaxUploadBytes = 100 << 20 // 100 MiB
	DefaultSubmitTimeout  = 60
	DefaultHealthTimeout  = 5
	DefaultGatewayPort    = 18490
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Analysis: AnalysisConfig{
			BaseURL:              DefaultBaseURL,
			VideoField:           DefaultVideoField,
			SubmitTimeoutSeconds: DefaultSubmitTimeout,
			HealthTimeoutSeconds: DefaultHealthTimeout,
		},
		Media: MediaConfig{
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		Gateway: GatewayConfig{
			Port: DefaultGatewayPort,
			Bind: "loopback",
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
