package block

import (
	"maps"
	"reflect"
	"strings"
)

// Getter reads values out of a resolved view context by dotted key path.
type Getter map[string]any

// Get returns the value stored under key. An exact top-level key wins;
// otherwise key is split on "." and walked segment by segment. A missing
// segment or a non-map intermediate yields def (nil when omitted).
func (g Getter) Get(key string, def ...any) any {
	var fallback any
	if len(def) > 0 {
		fallback = def[0]
	}
	if v, ok := g[key]; ok {
		return v
	}

	var current any = map[string]any(g)
	for _, segment := range strings.Split(key, ".") {
		v, ok := lookup(current, segment)
		if !ok {
			return fallback
		}
		current = v
	}
	return current
}

func lookup(m any, key string) (any, bool) {
	switch m := m.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case Getter:
		v, ok := m[key]
		return v, ok
	case map[string]string:
		v, ok := m[key]
		return v, ok
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// merge copies the given maps left to right into a new map, later keys win.
func merge(sources ...map[string]any) map[string]any {
	size := 0
	for _, src := range sources {
		size += len(src)
	}
	out := make(map[string]any, size)
	for _, src := range sources {
		maps.Copy(out, src)
	}
	return out
}

// resolveData builds the context a view executes with: engine shared data,
// session shared data, the ambient data of the innermost render, the data
// given to this call, and finally every composer registered for the view.
func (s *Session) resolveData(view string, data map[string]any) map[string]any {
	var ambient map[string]any
	if f := s.currentFrame(); f != nil {
		ambient = f.data
	}
	ctx := merge(s.engine.sharedData(), s.shared, ambient, data)

	composers := s.engine.composersFor(view)
	for _, composer := range composers {
		ctx = merge(ctx, composer(ctx, view))
	}
	if len(composers) > 0 {
		s.logger.Debug().Str("view", view).Int("composers", len(composers)).Msg("Applied view composers")
	}
	return ctx
}
