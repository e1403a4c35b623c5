package block

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   any
		want template.HTML
	}{
		{"<h1>Foo</h1>", "&lt;h1&gt;Foo&lt;/h1&gt;"},
		{"<script>Bar</script>", "&lt;script&gt;Bar&lt;/script&gt;"},
		{`say "hi" & 'bye'`, "say &quot;hi&quot; &amp; &#039;bye&#039;"},
		{"already &amp; &#39; &#x27; kept", "already &amp; &#39; &#x27; kept"},
		{"a && b", "a &amp;&amp; b"},
		{"&nbsp", "&amp;nbsp"},
		{template.HTML("<b>"), "&lt;b&gt;"},
		{42, "42"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.in), "Escape(%v)", tt.in)
	}
}
