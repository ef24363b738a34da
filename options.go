package xlgen

import (
	"github.com/rs/zerolog"
)

// Options holds configuration for the generators.
type Options struct {
	engine     Engine
	dataFormat DataFormatStrategy
	chunkSize  int
	sheet      *Sheet
	stylers    *StylerRegistry
	logger     zerolog.Logger
}

func defaultOptions() *Options {
	return &Options{
		engine:     EngineStream,
		dataFormat: DefaultDataFormat(),
		logger:     zerolog.Nop(),
	}
}

func buildOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.stylers == nil {
		o.stylers = NewStylerRegistry()
	}
	if o.dataFormat == nil {
		o.dataFormat = EmptyDataFormat()
	}
	return o
}

// Option configures a generator.
type Option func(*Options)

// WithEngine selects the workbook engine (default: EngineStream).
func WithEngine(e Engine) Option {
	return func(o *Options) { o.engine = e }
}

// WithDataFormatStrategy sets the policy that picks number formats for
// columns without an explicit one (default: DefaultDataFormat()).
func WithDataFormatStrategy(s DataFormatStrategy) Option {
	return func(o *Options) { o.dataFormat = s }
}

// WithChunkSize sets the maximum number of body rows per sheet for the
// multi-sheet generator. Values <= 0 mean the engine maximum.
func WithChunkSize(n int) Option {
	return func(o *Options) { o.chunkSize = n }
}

// WithSheet overrides the sheet declaration of the record type.
func WithSheet(s Sheet) Option {
	return func(o *Options) { o.sheet = &s }
}

// WithStylerRegistry shares a styler registry between generators.
func WithStylerRegistry(r *StylerRegistry) Option {
	return func(o *Options) { o.stylers = r }
}

// WithLogger sets the logger. Nothing is logged by default.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}
