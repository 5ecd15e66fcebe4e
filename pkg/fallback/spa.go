package fallback

import (
	"io/fs"
	"strings"

	"github.com/mkoppen/glaive/pkg/debug"
	"github.com/mkoppen/glaive/pkg/glaive"
)

// SinglePage serves one shell document for every unmatched path under a
// prefix, so client-side routers receive the application shell instead
// of a 404. Register it after the static resolver: real assets win.
type SinglePage struct {
	fsys   fs.FS
	shell  string
	prefix string
}

// NewSinglePage creates a resolver serving shell (for example
// "index.html") from fsys for unmatched paths under prefix. An empty
// prefix covers every path.
func NewSinglePage(fsys fs.FS, shell, prefix string) *SinglePage {
	return &SinglePage{fsys: fsys, shell: shell, prefix: prefix}
}

// Resolve serves the shell document when the path falls under the
// prefix.
func (s *SinglePage) Resolve(c *glaive.Context) (bool, error) {
	if s.prefix != "" && !strings.HasPrefix(c.Path(), s.prefix) {
		return false, nil
	}

	f, err := s.fsys.Open(s.shell)
	if err != nil {
		return false, err
	}

	debug.Log("static", "serving spa shell", "path", c.Path(), "shell", s.shell)
	c.ContentType("text/html")
	c.Result(f)
	return true, nil
}
