package block

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetDirectory(t *testing.T) {
	r := NewFSResolver(nil)
	views := filepath.Join("testdata", "views")
	r.SetDirectory(views)
	assert.Equal(t, views, r.Directory(""))

	namespaces := map[string]string{
		"foo": filepath.Join("somepath", "foo"),
		"bar": filepath.Join("..", "somepath", "bar"),
	}
	for ns, dir := range namespaces {
		r.SetDirectory(dir, ns)
		assert.Equal(t, dir, r.Directory(ns))
	}
	assert.Equal(t, "", r.Directory("unknown"))
}

func TestResolverPath(t *testing.T) {
	r := NewFSResolver(fstest.MapFS{})

	tests := []struct {
		view, ns, file string
	}{
		{"base", "", "base.html"},
		{"foo.bar.baz", "", "foo/bar/baz.html"},
		{"another::widget", "another", "widget.html"},
		{"mail::layouts.base", "mail", "layouts/base.html"},
		{" admin :: pages.home ", "admin", "pages/home.html"},
	}
	for _, tt := range tests {
		ns, file := r.Path(tt.view)
		assert.Equal(t, tt.ns, ns, tt.view)
		assert.Equal(t, tt.file, file, tt.view)
	}

	r.SetViewExtension(".tmpl")
	assert.Equal(t, "tmpl", r.ViewExtension())
	_, file := r.Path("base")
	assert.Equal(t, "base.tmpl", file)
}

func TestResolverExistsAndOpen(t *testing.T) {
	r := NewFSResolver(fstest.MapFS{
		"base.html":        {Data: []byte("base")},
		"pages/home.html":  {Data: []byte("home")},
		"pages/inner.html": {Data: []byte("inner")},
	})
	r.SetFS(fstest.MapFS{"widget.html": {Data: []byte("widget")}}, "another")

	assert.True(t, r.Exists("base"))
	assert.True(t, r.Exists("pages.home"))
	assert.True(t, r.Exists("another::widget"))
	assert.False(t, r.Exists("pages"))
	assert.False(t, r.Exists("widget"))
	assert.False(t, r.Exists("missing::widget"))
	assert.False(t, r.Exists("../outside"))

	b, err := r.Open("pages.home")
	require.NoError(t, err)
	assert.Equal(t, "home", string(b))

	_, err = r.Open("nope")
	assert.ErrorIs(t, err, ErrViewNotFound)
	_, err = r.Open("missing::widget")
	assert.ErrorIs(t, err, ErrViewNotFound)
}
