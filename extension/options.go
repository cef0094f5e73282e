package extension

import (
	"time"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/plugin"
	"github.com/xraph/mint/store"
)

// Option configures the Mint Forge extension.
type Option func(*Extension)

// WithStore sets the store for the mint engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithMintOption passes a mint.Option through to the underlying engine.
func WithMintOption(opt mint.Option) Option {
	return func(e *Extension) {
		e.mintOpts = append(e.mintOpts, opt)
	}
}

// WithPlugin registers a mint plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.mintOpts = append(e.mintOpts, mint.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithTickInterval sets the recurring transfer scheduler interval.
func WithTickInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.TickInterval = d }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
