package deckreader

import (
	"log/slog"

	"github.com/tsawler/deckreader/config"
	"github.com/tsawler/deckreader/extract"
)

// ExtractOptions holds configuration for extraction.
type ExtractOptions struct {
	settings config.Config

	// byName locates slides by frame name only, ignoring sections
	byName bool

	logger  *slog.Logger
	sink    extract.Sink
	prompts extract.PromptLoader
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		settings: config.Default(),
	}
}

// clone creates a copy of ExtractOptions. Settings hold no shared slices.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}

// extractConfig returns the run configuration for these options
func (o ExtractOptions) extractConfig() extract.Config {
	cfg := o.settings.Extract()
	cfg.Logger = o.logger
	cfg.Sink = o.sink
	cfg.Prompts = o.prompts
	return cfg
}
