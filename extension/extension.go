// Package extension provides the Forge extension adapter for Messbill.
//
// It implements the forge.Extension interface to integrate Messbill
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.messbill" or "messbill" keys.
package extension

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	messbill "github.com/xraph/messbill"
	"github.com/xraph/messbill/store"
	"github.com/xraph/messbill/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "messbill"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Hostel mess meal and billing engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Messbill as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *messbill.Engine
	store      store.Store
	engineOpts []messbill.Option
}

// New creates a new Messbill Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Messbill instance.
// This is nil until Register is called.
func (e *Extension) Engine() *messbill.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the billing engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	opts, err := e.buildEngineOpts()
	if err != nil {
		return err
	}

	e.engine = messbill.New(e.store, opts...)

	return vessel.Provide(fapp.Container(), func() (*messbill.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("messbill: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("messbill: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs messbill.Option values from the resolved config.
func (e *Extension) buildEngineOpts() ([]messbill.Option, error) {
	opts := make([]messbill.Option, 0, len(e.engineOpts)+1)

	if e.config.Timezone != "" {
		loc, err := time.LoadLocation(e.config.Timezone)
		if err != nil {
			return nil, fmt.Errorf("messbill: invalid timezone %q: %w", e.config.Timezone, err)
		}
		opts = append(opts, messbill.WithLocation(loc))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts, nil
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("messbill: configuration is required but not found in config files; " +
				"ensure 'extensions.messbill' or 'messbill' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("messbill: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("base_path", e.config.BasePath),
		forge.F("timezone", e.config.Timezone),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.messbill" first (namespaced pattern).
	if cm.IsSet("extensions.messbill") {
		if err := cm.Bind("extensions.messbill", &cfg); err == nil {
			e.Logger().Debug("messbill: loaded config from file",
				forge.F("key", "extensions.messbill"),
			)
			return cfg, true
		}
		e.Logger().Warn("messbill: failed to bind extensions.messbill config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "messbill" key.
	if cm.IsSet("messbill") {
		if err := cm.Bind("messbill", &cfg); err == nil {
			e.Logger().Debug("messbill: loaded config from file",
				forge.F("key", "messbill"),
			)
			return cfg, true
		}
		e.Logger().Warn("messbill: failed to bind messbill config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.BasePath == "" {
		cfg.BasePath = defaults.BasePath
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.BasePath == "" && programmaticConfig.BasePath != "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}
	if yamlConfig.Timezone == "" && programmaticConfig.Timezone != "" {
		yamlConfig.Timezone = programmaticConfig.Timezone
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
