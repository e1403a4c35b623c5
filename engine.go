package block

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// ComposerFunc contributes data to a view every time it is rendered or
// inserted. It receives the context built so far and the view name; the
// returned entries are merged on top.
type ComposerFunc func(data map[string]any, view string) map[string]any

// Engine holds what every render shares: the view resolver, the executor,
// shared data and view composers. It is safe for concurrent use; per-render
// state lives in a Session.
type Engine struct {
	resolver Resolver
	executor Executor
	logger   zerolog.Logger
	metrics  *Metrics
	tracer   trace.Tracer

	mu        sync.RWMutex
	shared    map[string]any
	composers map[string][]ComposerFunc
}

// NewEngine creates a new engine pointing to a directory with views.
func NewEngine(dir string, opts ...Option) *Engine {
	r := NewFSResolver(nil)
	r.SetDirectory(dir)
	return New(r, opts...)
}

// NewEngineFS creates a new engine pointing to a filesystem.
func NewEngineFS(fsys fs.FS, opts ...Option) *Engine {
	return New(NewFSResolver(fsys), opts...)
}

// New creates an engine on top of any resolver.
func New(resolver Resolver, opts ...Option) *Engine {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}

	if r, ok := resolver.(*FSResolver); ok {
		if c.ext.set {
			r.SetViewExtension(c.ext.val)
		}
		for ns, fsys := range c.namespaces {
			r.SetFS(fsys, ns)
		}
	}

	e := &Engine{
		resolver:  resolver,
		executor:  c.executor,
		logger:    zerolog.Nop(),
		metrics:   c.metrics,
		tracer:    c.tracer,
		shared:    map[string]any{},
		composers: map[string][]ComposerFunc{},
	}
	if c.logger != nil {
		e.logger = *c.logger
	}
	if e.executor == nil {
		e.executor = &HTMLExecutor{Funcs: c.funcs}
	}
	if e.tracer == nil {
		e.tracer = defaultTracer()
	}
	return e
}

// Resolver returns the resolver views are looked up with.
func (e *Engine) Resolver() Resolver {
	return e.resolver
}

// Has reports whether view resolves to a template.
func (e *Engine) Has(view string) bool {
	return e.resolver.Exists(view)
}

// Share makes a value visible to every view rendered by the engine.
func (e *Engine) Share(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shared[key] = value
}

// Composer registers fn for each of the given views. Composers of a view
// run in registration order.
func (e *Engine) Composer(fn ComposerFunc, views ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, view := range views {
		e.composers[view] = append(e.composers[view], fn)
	}
}

func (e *Engine) sharedData() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.shared)
}

func (e *Engine) composersFor(view string) []ComposerFunc {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.composers[view]
}

// NewSession starts an empty render session.
func (e *Engine) NewSession() *Session {
	return &Session{
		engine: e,
		logger: e.logger.With().Str("component", "block").Logger(),
		shared: map[string]any{},
		blocks: blockStore{},
		out:    newOutputStack(),
	}
}

// Render renders view with data in a fresh session and writes the result to w.
func (e *Engine) Render(w io.Writer, view string, data any) error {
	return e.RenderContext(context.Background(), w, view, data)
}

// RenderContext is Render with a context used for tracing.
func (e *Engine) RenderContext(ctx context.Context, w io.Writer, view string, data any) error {
	m, err := toMap(data)
	if err != nil {
		return viewError("render", view, err)
	}
	out, err := e.NewSession().RenderContext(ctx, view, m)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// toMap accepts nil or any map keyed by strings, such as gin.H.
func toMap(data any) (map[string]any, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return d, nil
	case Getter:
		return d, nil
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("unsupported view data %T, want a map keyed by strings", data)
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, nil
}
