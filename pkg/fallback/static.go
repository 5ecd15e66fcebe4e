// Package fallback provides the last-resort resolvers tried for GET and
// HEAD requests that matched no endpoint: a static resource resolver and
// a single-page-app shell resolver. Each reports whether it fully
// satisfied the request; a declined request falls through to the next
// resolver or to the routing failure.
package fallback

import (
	"errors"
	"io/fs"
	"mime"
	"path"
	"strings"

	"github.com/mkoppen/glaive/pkg/debug"
	"github.com/mkoppen/glaive/pkg/glaive"
)

// Static serves files from an fs.FS root. A request path maps directly
// onto the filesystem; directories resolve to their index.html.
type Static struct {
	fsys fs.FS
}

// NewStatic creates a static resolver over fsys.
func NewStatic(fsys fs.FS) *Static {
	return &Static{fsys: fsys}
}

// Resolve serves the file at the request path, if one exists. It
// declines (false, nil) on missing files and on paths escaping the
// root.
func (s *Static) Resolve(c *glaive.Context) (bool, error) {
	name := strings.TrimPrefix(path.Clean(c.Path()), "/")
	if name == "" || name == "." {
		name = "index.html"
	}
	if !fs.ValidPath(name) {
		return false, nil
	}

	info, err := fs.Stat(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		name = path.Join(name, "index.html")
		if _, err := fs.Stat(s.fsys, name); err != nil {
			return false, nil
		}
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		return false, err
	}

	debug.Log("static", "serving file", "path", c.Path(), "file", name)
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		c.ContentType(ct)
	}
	c.Result(f)
	return true, nil
}
