package block

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// NamespaceSeparator splits a view name into namespace and path,
// as in "admin::pages.home".
const NamespaceSeparator = "::"

// DefaultExtension is the file extension views are looked up with.
const DefaultExtension = "html"

// Resolver turns view names into template source.
type Resolver interface {
	Exists(view string) bool
	Open(view string) ([]byte, error)
}

var _ Resolver = (*FSResolver)(nil)

// FSResolver resolves views from file systems, one per namespace. Dots in
// the view path are directory separators and the view extension is
// appended, so "mail::layouts.base" is "layouts/base.html" in the "mail"
// namespace. The empty namespace is the default one.
type FSResolver struct {
	mu         sync.RWMutex
	namespaces map[string]fs.FS
	dirs       map[string]string
	ext        string
}

// NewFSResolver creates a resolver with fsys as the default namespace.
func NewFSResolver(fsys fs.FS) *FSResolver {
	r := &FSResolver{
		namespaces: map[string]fs.FS{},
		dirs:       map[string]string{},
		ext:        DefaultExtension,
	}
	if fsys != nil {
		r.namespaces[""] = fsys
	}
	return r
}

// SetDirectory maps a namespace to a directory on disk. Without a
// namespace the default one is set.
func (r *FSResolver) SetDirectory(dir string, namespace ...string) {
	ns := namespaceOf(namespace)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[ns] = os.DirFS(dir)
	r.dirs[ns] = dir
}

// SetFS maps a namespace to a file system.
func (r *FSResolver) SetFS(fsys fs.FS, namespace ...string) {
	ns := namespaceOf(namespace)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[ns] = fsys
	delete(r.dirs, ns)
}

// Directory returns the directory set for namespace with SetDirectory,
// or "" when there is none.
func (r *FSResolver) Directory(namespace string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dirs[strings.TrimSpace(namespace)]
}

// SetViewExtension changes the extension views are looked up with.
func (r *FSResolver) SetViewExtension(ext string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
}

// ViewExtension returns the extension views are looked up with.
func (r *FSResolver) ViewExtension() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ext
}

// Path splits a view name into its namespace and its file path inside
// that namespace.
func (r *FSResolver) Path(view string) (namespace, file string) {
	namespace, name, found := strings.Cut(strings.TrimSpace(view), NamespaceSeparator)
	if !found {
		namespace, name = "", namespace
	}
	name = strings.ReplaceAll(strings.Trim(name, `"' `), ".", "/")
	file = path.Clean(strings.TrimPrefix(name, "/"))
	if ext := r.ViewExtension(); ext != "" {
		file += "." + ext
	}
	return strings.TrimSpace(namespace), file
}

func (r *FSResolver) lookup(view string) (fs.FS, string, error) {
	ns, file := r.Path(view)
	r.mu.RLock()
	fsys, ok := r.namespaces[ns]
	r.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("%w: unknown namespace '%s'", ErrViewNotFound, ns)
	}
	if !fs.ValidPath(file) {
		return nil, "", fmt.Errorf("%w: invalid path '%s'", ErrViewNotFound, file)
	}
	return fsys, file, nil
}

// Exists implements Resolver.
func (r *FSResolver) Exists(view string) bool {
	fsys, file, err := r.lookup(view)
	if err != nil {
		return false
	}
	info, err := fs.Stat(fsys, file)
	return err == nil && !info.IsDir()
}

// Open implements Resolver.
func (r *FSResolver) Open(view string) ([]byte, error) {
	fsys, file, err := r.lookup(view)
	if err != nil {
		return nil, err
	}
	b, err := fs.ReadFile(fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, file)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return b, nil
}

func namespaceOf(namespace []string) string {
	if len(namespace) == 0 {
		return ""
	}
	return strings.TrimSpace(namespace[0])
}
