// Package execution implements the per-node dispatch that turns a
// TransformNode and the Intermediate Storage into stored output columns: the
// default (per-asset) path and the cross-sectional (all-assets-at-once)
// path. These are the bodies the dag package's Nodes run, grounded on the
// original engine's ApplyDefaultTransform/ApplyCrossSectionTransform pair.
package execution

import (
	"github.com/ajitpratap0/epochflow/internal/config"
	"github.com/ajitpratap0/epochflow/internal/enginelog"
	"github.com/ajitpratap0/epochflow/internal/storage"
	"github.com/rs/zerolog"
)

// Context bundles the collaborators a running pipeline's node bodies need:
// the shared cache, the aggregated failure log, and a structured logger for
// non-fatal warnings (intraday skips, unresolved session ranges).
type Context struct {
	Cache               *storage.Storage
	Logger              *enginelog.Logger
	Warnings            zerolog.Logger
	AllowNullInputs     bool
	MaxConcurrentAssets int
}

// NewContext wires a fresh execution Context around the given cache.
// AllowNullInputs is copied from Execution config but is not read by the
// dispatch functions, which use each node's own Metadata().AllowNullInputs.
// MaxConcurrentAssets of zero means unbounded fan-out.
func NewContext(cache *storage.Storage, cfg config.ExecutionConfig) *Context {
	return &Context{
		Cache:               cache,
		Logger:              enginelog.New(),
		Warnings:            config.NewTransformLogger("execution"),
		AllowNullInputs:     cfg.AllowNullInputs,
		MaxConcurrentAssets: cfg.MaxConcurrentAssets,
	}
}
