package shortcodes

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Parser.
type Option func(*parserConfig)

// parserConfig holds the internal configuration for a Parser.
type parserConfig struct {
	start    string
	end      string
	esc      string
	registry *Registry
	noGlobal bool
	logger   *zap.Logger
}

// defaultParserConfig returns the default parser configuration.
func defaultParserConfig() *parserConfig {
	return &parserConfig{
		start:    DefaultStart,
		end:      DefaultEnd,
		esc:      DefaultEsc,
		registry: nil,
		noGlobal: false,
		logger:   nil,
	}
}

// WithDelimiters sets custom tag delimiters and escape marker.
// Empty arguments keep the current value.
// Default: "{%", "%}" and "\"
func WithDelimiters(start, end, esc string) Option {
	return func(c *parserConfig) {
		if start != "" {
			c.start = start
		}
		if end != "" {
			c.end = end
		}
		if esc != "" {
			c.esc = esc
		}
	}
}

// WithRegistry makes the parser use reg for handler lookups instead of a
// fresh local registry. reg keeps whatever parent it was created with.
func WithRegistry(reg *Registry) Option {
	return func(c *parserConfig) {
		c.registry = reg
	}
}

// WithoutGlobal disables the fallback to the process-wide registry for the
// local registry created by New. It has no effect together with WithRegistry.
func WithoutGlobal() Option {
	return func(c *parserConfig) {
		c.noGlobal = true
	}
}

// WithLogger sets the logger for the parser.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *parserConfig) {
		c.logger = logger
	}
}
