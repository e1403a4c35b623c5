package bench_test

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	block "github.com/dangdungcntt/go-block"
)

// makeLargePage tạo một view đủ lớn để chi phí parse/execute rõ rệt:
// nhiều section, một layout và một component trong vòng lặp.
func makeLargePage() string {
	var b strings.Builder
	b.WriteString(`{{ extend "layout" (dict "title" "Bench") }}`)
	b.WriteString(`{{ section "content" }}<ul>{{ range $i, $it := .Items }}<li>{{ insert "row" (dict "Index" $i "Text" $it) }}</li>{{ end }}</ul>{{ stop }}`)
	for i := 0; i < 20; i++ {
		n := strconv.Itoa(i)
		b.WriteString(`{{ append "js" }}<script src="` + n + `.js"></script>{{ stop }}`)
	}
	b.WriteString(`{{ component "card" }}{{ slot "title" }}Card{{ endslot }}body{{ endcomponent }}`)
	return b.String()
}

var (
	views = fstest.MapFS{
		"page.html":   {Data: []byte(makeLargePage())},
		"row.html":    {Data: []byte(`<div class="row">{{ .Index }}: {{ .Text }}</div>`)},
		"card.html":   {Data: []byte(`<div class="card"><h3>{{ .title }}</h3>{{ .slot }}</div>`)},
		"layout.html": {Data: []byte(`<html><head><title>{{ .title }}</title></head><body>{{ get "content" }}{{ section "js" }}<script src="app.js"></script>{{ show }}</body></html>`)},
	}
	rowSource = string(views["row.html"].Data)
)

func benchData() map[string]any {
	items := make([]string, 100)
	for i := range items {
		items[i] = "Item number " + strconv.Itoa(i)
	}
	return map[string]any{"Items": items}
}

// Baseline: parsing a small view on every execution, as the engine does per insert.
func Benchmark_Template_ParseEachTime(b *testing.B) {
	data := map[string]any{"Index": 1, "Text": "row"}

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		var buf bytes.Buffer
		for pb.Next() {
			buf.Reset()
			t, err := template.New("row").Parse(rowSource)
			if err != nil {
				b.Fatalf("parse failed: %v", err)
			}
			if err := t.Execute(&buf, data); err != nil {
				b.Fatalf("execute failed: %v", err)
			}
		}
	})
}

// Full render: extend, 100 inserts, appended sections and a component.
// Sessions are per goroutine, the engine is shared.
func Benchmark_Engine_Render(b *testing.B) {
	e := block.NewEngineFS(views)
	data := benchData()

	out, err := e.NewSession().Render("page", data)
	require.NoError(b, err, "render failed")
	require.Contains(b, out, `<script src="19.js"></script>`)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := e.NewSession().Render("page", data); err != nil {
				b.Fatalf("render failed: %v", err)
			}
		}
	})
}

// Reusing one session per goroutine keeps accumulating blocks, so it is
// reset between renders.
func Benchmark_Engine_RenderReuseSession(b *testing.B) {
	e := block.NewEngineFS(views)
	data := benchData()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		s := e.NewSession()
		for pb.Next() {
			s.Reset()
			if _, err := s.Render("page", data); err != nil {
				b.Fatalf("render failed: %v", err)
			}
		}
	})
}

func Benchmark_Engine_Insert(b *testing.B) {
	e := block.NewEngineFS(views)
	data := map[string]any{"Index": 1, "Text": "row"}

	b.ReportAllocs()
	b.ResetTimer()

	s := e.NewSession()
	for i := 0; i < b.N; i++ {
		if err := s.Insert("row", data); err != nil {
			b.Fatalf("insert failed: %v", err)
		}
		s.Output()
	}
}
