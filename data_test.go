package block

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetter(t *testing.T) {
	g := Getter{
		"user": map[string]any{
			"name": "John Doe",
			"city": map[string]any{
				"name": "Jakarta",
			},
			"tags": map[string]string{"role": "admin"},
		},
		"site.name": "flat key",
		"count":     3,
		"nothing":   nil,
	}

	assert.Equal(t, "Jakarta", g.Get("user.city.name"))
	assert.Equal(t, "John Doe", g.Get("user.name"))
	assert.Equal(t, "Unknown", g.Get("user.province", "Unknown"))
	assert.Nil(t, g.Get("user.province"))
	assert.Equal(t, "admin", g.Get("user.tags.role"))
	assert.Equal(t, "flat key", g.Get("site.name"))
	assert.Equal(t, "fallback", g.Get("count.value", "fallback"))
	assert.Nil(t, g.Get("nothing", "fallback"))
	assert.Equal(t, "fallback", g.Get("nothing.deeper", "fallback"))
}

type labels map[string]int

func TestGetterWalksNamedMapTypes(t *testing.T) {
	g := Getter{"stats": labels{"visits": 10}}

	assert.Equal(t, 10, g.Get("stats.visits"))
	assert.Equal(t, 0, g.Get("stats.missing", 0))
}

func TestMerge(t *testing.T) {
	a := map[string]any{"a": 1, "b": 1}
	b := map[string]any{"b": 2}
	out := merge(a, nil, b)

	assert.Equal(t, map[string]any{"a": 1, "b": 2}, out)
	assert.Equal(t, map[string]any{"a": 1, "b": 1}, a)
}

func TestResolveDataOrder(t *testing.T) {
	e := NewEngineFS(fstest.MapFS{})
	e.Share("from", "engine")
	e.Share("engine", true)
	s := e.NewSession()
	s.Share("from", "session")
	s.Share("session", true)

	data := s.resolveData("page", nil)
	assert.Equal(t, "session", data["from"])

	s.frames = append(s.frames, &renderFrame{data: map[string]any{"from": "render", "render": true}})
	data = s.resolveData("page", nil)
	assert.Equal(t, "render", data["from"])

	data = s.resolveData("page", map[string]any{"from": "call"})
	assert.Equal(t, "call", data["from"])
	assert.Equal(t, true, data["engine"])
	assert.Equal(t, true, data["session"])
	assert.Equal(t, true, data["render"])
}

func TestComposerOrdering(t *testing.T) {
	e := NewEngineFS(fstest.MapFS{})
	e.Composer(func(data map[string]any, view string) map[string]any {
		return map[string]any{"first": view, "winner": "first"}
	}, "page", "other")
	e.Composer(func(data map[string]any, view string) map[string]any {
		assert.Equal(t, "page", data["first"], "second composer sees the first one's data")
		return map[string]any{"winner": "second", "seen": data["from"]}
	}, "page")

	data := e.NewSession().resolveData("page", map[string]any{"from": "call", "winner": "call"})
	assert.Equal(t, map[string]any{
		"from":   "call",
		"first":  "page",
		"winner": "second",
		"seen":   "call",
	}, data)

	other := e.NewSession().resolveData("other", nil)
	assert.Equal(t, "first", other["winner"])
}

func TestToMap(t *testing.T) {
	type h map[string]any

	m, err := toMap(h{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, m)

	m, err = toMap(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = toMap(struct{ A int }{1})
	assert.Error(t, err)
}
