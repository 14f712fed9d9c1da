package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
)

//go:embed templates
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"qty": func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	},
	"date": func(d sdk.Date) string {
		if d.IsZero() {
			return "-"
		}
		return d.String()
	},
}

// renderer holds one template set per page, each parsed with the layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *renderer) execute(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// page is what every template receives.
type page struct {
	Title   string
	User    *sdk.User
	Flashes []sdk.Notice
	Error   string
	Data    any
}

// render executes the named page into a buffer first, so cookies set while
// rendering still reach the browser and a template error never leaves a
// half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	st := stateFrom(r)
	p.User = st.client.Session().User
	p.Flashes = st.consumeFlashes()

	var buf bytes.Buffer
	if err := s.pages.execute(&buf, name, p); err != nil {
		s.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows err on the error page.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.render(w, r, status, "error", page{Title: http.StatusText(status), Error: sdk.UserMessage(err)})
}
