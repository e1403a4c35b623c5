package block

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Executor runs template source with a scope and writes the produced text to w.
type Executor interface {
	Execute(w io.Writer, view string, src []byte, scope *Scope) error
}

// Scope is what a view body gets to work with while it executes: the
// session it can call back into and its resolved data.
type Scope struct {
	Session *Session
	View    string
	Data    map[string]any
	Context context.Context
}

// Getter returns a path getter over the scope data.
func (sc *Scope) Getter() Getter {
	return Getter(sc.Data)
}

// FuncMap exposes the session operations to template code. Functions that
// only act on the session return an empty template.HTML so they print nothing.
func (sc *Scope) FuncMap() template.FuncMap {
	s := sc.Session
	return template.FuncMap{
		"section": func(name string, mode ...string) (template.HTML, error) {
			m, err := parseMode(mode...)
			if err != nil {
				return "", err
			}
			s.Section(name, m)
			return "", nil
		},
		"append": func(name string) template.HTML {
			s.Append(name)
			return ""
		},
		"prepend": func(name string) template.HTML {
			s.Prepend(name)
			return ""
		},
		"stop": func() (template.HTML, error) {
			return "", s.Stop()
		},
		"show": func() (template.HTML, error) {
			return "", s.Show()
		},
		"get":      s.Get,
		"hasblock": s.HasBlock,
		"parent":   s.Parent,
		"extend": func(view string, data ...map[string]any) template.HTML {
			s.Extend(view, mergeArgs(data))
			return ""
		},
		"insert": func(view string, data ...map[string]any) (template.HTML, error) {
			return "", s.Insert(view, mergeArgs(data))
		},
		"put": func(view string, data ...map[string]any) (template.HTML, error) {
			return "", s.Put(view, mergeArgs(data))
		},
		"render": func(view string, data ...map[string]any) (template.HTML, error) {
			out, err := s.RenderContext(sc.Context, view, mergeArgs(data))
			return template.HTML(out), err
		},
		"component": func(view string, data ...map[string]any) template.HTML {
			s.Component(view, mergeArgs(data))
			return ""
		},
		"slot": func(name string) (template.HTML, error) {
			return "", s.Slot(name)
		},
		"endslot": func() (template.HTML, error) {
			return "", s.EndSlot()
		},
		"endcomponent": func() (template.HTML, error) {
			return "", s.EndComponent()
		},
		"value":  sc.Getter().Get,
		"escape": Escape,
		"e":      Escape,
		"dict":   dict,
	}
}

func parseMode(mode ...string) (Mode, error) {
	if len(mode) == 0 {
		return Normal, nil
	}
	switch strings.ToLower(mode[0]) {
	case "", "normal":
		return Normal, nil
	case "append":
		return Append, nil
	case "prepend":
		return Prepend, nil
	}
	return Normal, fmt.Errorf("unknown section mode %q", mode[0])
}

func mergeArgs(data []map[string]any) map[string]any {
	switch len(data) {
	case 0:
		return nil
	case 1:
		return data[0]
	}
	return merge(data...)
}

func dict(v ...any) map[string]any {
	d := map[string]any{}
	n := len(v)
	for i := 0; i < n; i += 2 {
		key := fmt.Sprint(v[i])
		if i+1 >= n {
			d[key] = ""
			continue
		}
		d[key] = v[i+1]
	}
	return d
}

// HTMLExecutor executes views as html/template sources. Views are parsed
// on every execution so the session functions bind to the current scope.
type HTMLExecutor struct {
	// Funcs are extra template functions. The session functions take
	// precedence on name clashes.
	Funcs template.FuncMap
}

// Execute implements Executor.
func (x *HTMLExecutor) Execute(w io.Writer, view string, src []byte, scope *Scope) error {
	tmpl, err := template.New(view).Funcs(x.Funcs).Funcs(scope.FuncMap()).Parse(string(src))
	if err != nil {
		return fmt.Errorf("error parsing view '%s': %w", view, err)
	}
	if err := tmpl.Execute(w, scope.Data); err != nil {
		return fmt.Errorf("error executing view '%s': %w", view, err)
	}
	return nil
}
