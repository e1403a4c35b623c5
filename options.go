package block

import (
	"html/template"
	"io/fs"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger     *zerolog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	executor   Executor
	funcs      template.FuncMap
	ext        optionVal[string]
	namespaces map[string]fs.FS
}

type optionVal[T any] struct {
	val T
	set bool
}

func newVal[T any](val T) optionVal[T] {
	return optionVal[T]{val: val, set: true}
}

// WithLogger sets the logger render activity is reported to.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &logger
	}
}

// WithMetrics records render statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracer sets the tracer render spans are started with. The global
// OpenTelemetry tracer provider is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithExecutor replaces the html/template executor.
func WithExecutor(x Executor) Option {
	return func(c *config) {
		c.executor = x
	}
}

// WithFuncs adds template functions to the default executor.
func WithFuncs(funcs template.FuncMap) Option {
	return func(c *config) {
		if c.funcs == nil {
			c.funcs = template.FuncMap{}
		}
		for k, f := range funcs {
			c.funcs[k] = f
		}
	}
}

// WithExtension sets the view file extension of the default resolver.
func WithExtension(ext string) Option {
	return func(c *config) {
		c.ext = newVal(ext)
	}
}

// WithNamespace adds a view namespace to the default resolver.
func WithNamespace(namespace string, fsys fs.FS) Option {
	return func(c *config) {
		if c.namespaces == nil {
			c.namespaces = map[string]fs.FS{}
		}
		c.namespaces[namespace] = fsys
	}
}
