package block

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/rs/zerolog"
)

type extendRequest struct {
	view string
	data map[string]any
}

// renderFrame is one in-flight Render call. Its data is the ambient data
// nested inserts inherit, and extend holds the pending layout request.
type renderFrame struct {
	ctx    context.Context
	view   string
	data   map[string]any
	extend *extendRequest
}

// Session holds the mutable state of one render tree: open sections,
// accumulated blocks, open components and the output capture stack.
// A Session is not safe for concurrent use; give every request its own.
type Session struct {
	engine *Engine
	logger zerolog.Logger
	shared map[string]any

	sections   []sectionFrame
	blocks     blockStore
	components []*componentFrame
	out        *outputStack
	frames     []*renderFrame

	broken error
}

// Share makes a value visible to every view rendered by this session. It
// takes precedence over data shared on the engine.
func (s *Session) Share(key string, value any) {
	s.shared[key] = value
}

// Render renders view with data, following extend requests until a view
// renders without one.
func (s *Session) Render(view string, data map[string]any) (string, error) {
	return s.RenderContext(context.Background(), view, data)
}

// RenderContext is Render with a context used for tracing.
func (s *Session) RenderContext(ctx context.Context, view string, data map[string]any) (result string, err error) {
	if s.broken != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionBroken, s.broken)
	}
	topLevel := len(s.frames) == 0
	if topLevel {
		if err := s.checkBalanced(); err != nil {
			return "", err
		}
	}

	start := time.Now()
	origin := view
	hops := 0
	ctx, span := s.startSpan(ctx, "render", view)
	defer func() {
		if topLevel {
			err = s.settle(err)
		}
		s.engine.metrics.observeRender(origin, hops, time.Since(start), err)
		endSpan(span, err)
	}()

	for {
		frame := &renderFrame{ctx: ctx, view: view, data: data}
		s.frames = append(s.frames, frame)
		resolved := s.resolveData(view, data)
		result, err = s.execute(ctx, "render", view, resolved, true)
		s.frames = s.frames[:len(s.frames)-1]
		if err != nil {
			return "", err
		}
		if frame.extend == nil {
			break
		}

		hops++
		s.logger.Debug().
			Str("view", view).
			Str("extends", frame.extend.view).
			Int("hop", hops).
			Msg("Following extend")
		view = frame.extend.view
		data = merge(resolved, frame.extend.data)
	}

	s.logger.Debug().
		Str("view", origin).
		Int("hops", hops).
		Dur("duration", time.Since(start)).
		Msg("Rendered view")
	return result, nil
}

// Insert renders view inline: its output goes into whatever the caller is
// currently capturing. Extend requests made by the view apply to the
// enclosing render.
func (s *Session) Insert(view string, data map[string]any) (err error) {
	if s.broken != nil {
		return fmt.Errorf("%w: %v", ErrSessionBroken, s.broken)
	}
	ctx, span := s.startSpan(s.context(), "insert", view)
	defer func() {
		s.engine.metrics.observeInsert(view, err)
		endSpan(span, err)
	}()

	resolved := s.resolveData(view, data)
	_, err = s.execute(ctx, "insert", view, resolved, false)
	return err
}

// Put is an alias of Insert.
func (s *Session) Put(view string, data map[string]any) error {
	return s.Insert(view, data)
}

// Extend asks the innermost active render to render view in place of the
// current one once it finishes, with data merged over the current context.
// Called outside a render it does nothing.
func (s *Session) Extend(view string, data map[string]any) {
	f := s.currentFrame()
	if f == nil {
		s.logger.Debug().Str("view", view).Msg("Extend outside of a render ignored")
		return
	}
	f.extend = &extendRequest{view: view, data: maps.Clone(data)}
}

// Output returns and clears text written outside of any render, for example
// by Show or Insert called directly on the session.
func (s *Session) Output() string {
	return s.out.drain()
}

// Reset discards all session state, including a recorded failure. Shared
// data survives.
func (s *Session) Reset() {
	s.sections = nil
	s.blocks = blockStore{}
	s.components = nil
	s.frames = nil
	s.out.reset()
	s.broken = nil
}

func (s *Session) currentFrame() *renderFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *Session) context() context.Context {
	if f := s.currentFrame(); f != nil {
		return f.ctx
	}
	return context.Background()
}

// execute runs a view with a resolved context. With capture set the output
// is collected and returned, otherwise it is written to the current capture.
func (s *Session) execute(ctx context.Context, op, view string, data map[string]any, capture bool) (string, error) {
	if !s.engine.resolver.Exists(view) {
		return "", viewError(op, view, ErrViewNotFound)
	}
	src, err := s.engine.resolver.Open(view)
	if err != nil {
		return "", viewError(op, view, err)
	}

	scope := &Scope{Session: s, View: view, Data: data, Context: ctx}
	if !capture {
		return "", viewError(op, view, s.engine.executor.Execute(s.out, view, src, scope))
	}

	depth := s.out.depth()
	buf := s.out.push()
	if err := s.engine.executor.Execute(s.out, view, src, scope); err != nil {
		s.out.truncate(depth)
		return "", viewError(op, view, err)
	}
	text, err := s.out.popTo(buf)
	if err != nil {
		s.out.truncate(depth)
		return "", viewError(op, view, err)
	}
	return text, nil
}

func (s *Session) checkBalanced() error {
	var errs []error
	if n := len(s.sections); n > 0 {
		errs = append(errs, fmt.Errorf("%w: %d section(s) left open, innermost %q", ErrUnbalanced, n, s.sections[n-1].name))
	}
	if n := len(s.components); n > 0 {
		errs = append(errs, fmt.Errorf("%w: %d component(s) left open, innermost %q", ErrUnbalanced, n, s.components[n-1].view))
	}
	if n := s.out.depth(); n > 0 && len(s.sections) == 0 && len(s.components) == 0 {
		errs = append(errs, fmt.Errorf("%w: %d output capture(s) left open", ErrUnbalanced, n))
	}
	return errors.Join(errs...)
}

// settle verifies the stacks once a top-level render returns. Residue is
// reported alongside err and leaves the session unusable until Reset.
func (s *Session) settle(err error) error {
	residue := s.checkBalanced()
	if residue == nil {
		return err
	}
	s.logger.Warn().Err(residue).Msg("Render left unbalanced stacks")
	err = errors.Join(err, residue)
	s.broken = err
	return err
}
