package demoserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/webcheck/internal/logging"
)

// DemoServer serves a small shop whose pages can be switched between
// versions at runtime, so checks have something to detect.
type DemoServer struct {
	cfg      Config
	logger   logging.Logger
	pages    map[string]PageDefinition
	versions map[string]int // path -> current version
	mu       sync.RWMutex
	router   chi.Router
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	if cfg.InitialVersion < 1 {
		cfg.InitialVersion = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &DemoServer{
		cfg:      cfg,
		logger:   logger.With(logging.Field{Key: "component", Value: "demoserver"}),
		pages:    make(map[string]PageDefinition),
		versions: make(map[string]int),
	}
	for _, p := range GetAllPages() {
		s.pages[p.Path] = p
		s.versions[p.Path] = cfg.InitialVersion
	}

	r := chi.NewRouter()
	for path := range s.pages {
		r.Get(path, s.pageHandler(path))
	}
	r.Get("/demo/control", s.controlPanelHandler)
	r.Post("/demo/set-version", s.setVersionHandler)
	r.Get("/demo/get-versions", s.getVersionsHandler)
	r.Post("/demo/bump-all", s.bumpAllVersionsHandler)
	r.Post("/demo/reset", s.resetVersionsHandler)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *DemoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on the configured port until the server fails.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("demo server starting",
		logging.Field{Key: "url", Value: "http://localhost" + addr},
		logging.Field{Key: "control_panel", Value: "http://localhost" + addr + "/demo/control"})
	return http.ListenAndServe(addr, s)
}

// Version returns the current version of the page at path, or 0 if there is
// no such page.
func (s *DemoServer) Version(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[path]
}

// SetVersion switches the page at path, clamping to its defined versions.
func (s *DemoServer) SetVersion(path string, version int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages[path]
	if !ok {
		return 0, fmt.Errorf("unknown page %q", path)
	}
	version = max(1, min(version, p.MaxVersion()))
	s.versions[path] = version
	s.logger.Info("page version set",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "version", Value: version})
	return version, nil
}

func (s *DemoServer) pageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		pageVersion := s.pages[path].version(s.versions[path])
		s.mu.RUnlock()

		for k, v := range pageVersion.Headers {
			w.Header().Set(k, v)
		}
		contentType := pageVersion.ContentType
		if contentType == "" {
			contentType = "text/html; charset=utf-8"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(pageVersion.HTML))
	}
}

func (s *DemoServer) controlPanelHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, controlPanelHTML)
}

func (s *DemoServer) setVersionHandler(w http.ResponseWriter, r *http.Request) {
	path := r.FormValue("path")
	version, err := strconv.Atoi(r.FormValue("version"))
	if err != nil {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return
	}

	version, err = s.SetVersion(path, version)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"success": true,
		"path":    path,
		"version": version,
	})
}

// PageInfo describes a page and its versions.
type PageInfo struct {
	Path              string `json:"path"`
	Description       string `json:"description"`
	CurrentVersion    int    `json:"current_version"`
	AvailableVersions []int  `json:"available_versions"`
}

func (s *DemoServer) getVersionsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	pages := make([]PageInfo, 0, len(s.pages))
	for path, pageDef := range s.pages {
		versions := make([]int, 0, len(pageDef.Versions))
		for v := range pageDef.Versions {
			versions = append(versions, v)
		}
		sort.Ints(versions)
		pages = append(pages, PageInfo{
			Path:              path,
			Description:       pageDef.Description,
			CurrentVersion:    s.versions[path],
			AvailableVersions: versions,
		})
	}
	s.mu.RUnlock()

	sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })
	writeJSON(w, pages)
}

// bumpAllVersionsHandler advances every page, stopping at its last version.
func (s *DemoServer) bumpAllVersionsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	for path := range s.versions {
		s.versions[path] = min(s.versions[path]+1, s.pages[path].MaxVersion())
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"success": true,
		"message": "All versions bumped",
	})
}

func (s *DemoServer) resetVersionsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	for path := range s.versions {
		s.versions[path] = 1
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{
		"success": true,
		"message": "All versions reset to 1",
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// controlPanelHTML lists the shop pages from /demo/get-versions and switches
// them through /demo/set-version, showing the version the server settled on.
const controlPanelHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Demo Shop Versions</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { padding: 4px 12px; border-bottom: 1px solid #ddd; text-align: left; }
button.current { font-weight: bold; }
</style>
</head>
<body>
<h1>Demo Shop Versions</h1>
<p>Switch a page, then run webcheck against it.</p>
<p>
  <button onclick="post('/demo/bump-all')">Next version everywhere</button>
  <button onclick="post('/demo/reset')">Back to v1</button>
</p>
<p id="status"></p>
<table>
  <thead><tr><th>Page</th><th>What changes</th><th>Version</th></tr></thead>
  <tbody id="pages"></tbody>
</table>
<script>
async function load() {
  const pages = await (await fetch('/demo/get-versions')).json();
  const rows = document.getElementById('pages');
  rows.replaceChildren();
  for (const p of pages) {
    const tr = rows.insertRow();
    const link = document.createElement('a');
    link.href = p.path;
    link.textContent = p.path;
    tr.insertCell().appendChild(link);
    tr.insertCell().textContent = p.description;
    const cell = tr.insertCell();
    for (const v of p.available_versions) {
      const b = document.createElement('button');
      b.textContent = 'v' + v;
      if (v === p.current_version) b.className = 'current';
      b.onclick = () => setVersion(p.path, v);
      cell.appendChild(b);
    }
  }
}

async function setVersion(path, version) {
  const body = new URLSearchParams({path: path, version: String(version)});
  const res = await fetch('/demo/set-version', {method: 'POST', body: body});
  if (res.ok) {
    const data = await res.json();
    document.getElementById('status').textContent = path + ' now at v' + data.version;
  }
  load();
}

async function post(url) {
  await fetch(url, {method: 'POST'});
  load();
}

load();
</script>
</body>
</html>`
