package fakerepo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/waterjuice/hexmirror/pkg/catalog"
)

// Server fakes both hex.pm surfaces the mirror talks to: the
// paginated catalog API and the static file host.
type Server struct {
	HS *httptest.Server

	mu         sync.Mutex
	packages   []catalog.Package
	pageSize   int
	rateLimits map[int]int
	pageHits   map[int]int
	files      map[string][]byte
	statuses   map[string]int
	truncated  map[string]bool
}

func New() *Server {
	s := &Server{
		pageSize:   100,
		rateLimits: make(map[int]int),
		pageHits:   make(map[int]int),
		files:      make(map[string][]byte),
		statuses:   make(map[string]int),
		truncated:  make(map[string]bool),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/packages", s.handlePackages)
	mux.HandleFunc("/", s.handleFile)
	s.HS = httptest.NewServer(mux)
	return s
}

func (s *Server) Close() {
	s.HS.Close()
}

func (s *Server) APIURL() string {
	return s.HS.URL + "/api"
}

func (s *Server) RepoURL() string {
	return s.HS.URL
}

func (s *Server) SetPackages(
	pkgs []catalog.Package, pageSize int,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages = pkgs
	if pageSize > 0 {
		s.pageSize = pageSize
	}
}

func (s *Server) SetFile(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
}

func (s *Server) SetStatus(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[path] = code
}

// RateLimitPage makes the next n requests for page answer
// with 429 before serving normally.
func (s *Server) RateLimitPage(page, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimits[page] = n
}

// Truncate makes path advertise more bytes than it sends,
// so clients see the connection die mid body.
func (s *Server) Truncate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.truncated[path] = true
}

func (s *Server) PageHits(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageHits[page]
}

func (s *Server) handlePackages(
	w http.ResponseWriter, r *http.Request,
) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		http.Error(w, "bad page", 400)
		return
	}

	s.mu.Lock()
	s.pageHits[page]++
	if s.rateLimits[page] > 0 {
		s.rateLimits[page]--
		s.mu.Unlock()
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	if code, ok := s.statuses["/api/packages"]; ok {
		s.mu.Unlock()
		w.WriteHeader(code)
		return
	}
	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if start > len(s.packages) {
		start = len(s.packages)
	}
	if end > len(s.packages) {
		end = len(s.packages)
	}
	out := s.packages[start:end]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if len(out) == 0 {
		fmt.Fprint(w, "[]")
		return
	}
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleFile(
	w http.ResponseWriter, r *http.Request,
) {
	path := r.URL.Path

	s.mu.Lock()
	code, hasCode := s.statuses[path]
	content, hasFile := s.files[path]
	truncate := s.truncated[path]
	s.mu.Unlock()

	if hasCode {
		w.WriteHeader(code)
		return
	}
	if !hasFile {
		http.NotFound(w, r)
		return
	}
	if truncate {
		w.Header().Set(
			"Content-Length",
			strconv.Itoa(len(content)+1024),
		)
		w.WriteHeader(200)
		w.Write(content[:len(content)/2])
		return
	}
	w.WriteHeader(200)
	w.Write(content)
}
