package config

import "time"

// Defaults applied to optional settings left empty by all sources.
const (
	defaultHTTPAddress            = "localhost:8080"
	defaultRequestTimeout         = 30 * time.Second
	defaultReapInterval           = 5 * time.Minute
	defaultBatchVisibilityTimeout = 24 * time.Hour
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Workers.ReapInterval == 0 {
		cfg.Workers.ReapInterval = defaultReapInterval
	}
	if cfg.Workers.BatchVisibilityTimeout == 0 {
		cfg.Workers.BatchVisibilityTimeout = defaultBatchVisibilityTimeout
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
