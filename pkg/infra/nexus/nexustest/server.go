// Package nexustest provides an in-process fake of the staging REST API for tests.
package nexustest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/lbc-release/pkg/domain/model"
	"github.com/m-mizutani/lbc-release/pkg/infra/nexus"
)

// StagingPath is the route prefix of the staging API
const StagingPath = "/service/local/staging"

// Call records one request received by the fake
type Call struct {
	Request      string // Logical request name (nexus.Request* constants)
	Method       string
	ProfileID    string
	RepositoryID string
	Body         []byte
	Header       http.Header
}

// Server is a scripted staging service
type Server struct {
	*httptest.Server

	username string
	password string

	mu           sync.Mutex
	repositories []*model.StagingRepository
	states       map[string][]model.RepositoryState
	failures     map[string]int
	calls        []Call
}

// NewServer starts a fake accepting only the given basic auth credentials.
// Call Close when done.
func NewServer(username, password string) *Server {
	s := &Server{
		username: username,
		password: password,
		states:   make(map[string][]model.RepositoryState),
		failures: make(map[string]int),
	}

	router := chi.NewRouter()
	router.Route(StagingPath, func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/profile_repositories", s.handleList)
		r.Get("/repository/{repositoryID}", s.handleRepository)
		r.Post("/profiles/{profileID}/{action}", s.handleProfileAction)
	})

	s.Server = httptest.NewServer(router)
	return s
}

// BaseURL returns the staging root to pass to nexus.NewClient
func (s *Server) BaseURL() string {
	return s.URL + StagingPath + "/"
}

// SetRepositories sets the profile_repositories listing, in listing order
func (s *Server) SetRepositories(repos ...*model.StagingRepository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repositories = repos
}

// QueueStates appends states returned by successive repository polls. The
// last queued state is repeated once the queue is drained.
func (s *Server) QueueStates(repositoryID string, states ...model.RepositoryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[repositoryID] = append(s.states[repositoryID], states...)
}

// FailRequest makes every request with the logical name answer with status
func (s *Server) FailRequest(name string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[name] = status
}

// Calls returns recorded calls, optionally filtered by logical request names
func (s *Server) Calls(names ...string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(names) == 0 {
		return append([]Call(nil), s.calls...)
	}
	var filtered []Call
	for _, call := range s.calls {
		for _, name := range names {
			if call.Request == name {
				filtered = append(filtered, call)
				break
			}
		}
	}
	return filtered
}

// CallCount returns the number of calls with the logical name
func (s *Server) CallCount(name string) int {
	return len(s.Calls(name))
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.username || pass != s.password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// record stores the call and reports the scripted failure status, if any
func (s *Server) record(r *http.Request, call Call) int {
	body, _ := io.ReadAll(r.Body)
	call.Method = r.Method
	call.Body = body
	call.Header = r.Header.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return s.failures[call.Request]
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if status := s.record(r, Call{Request: nexus.RequestProfileRepositories}); status != 0 {
		w.WriteHeader(status)
		return
	}

	s.mu.Lock()
	list := model.StagingRepositoryList{Data: s.repositories}
	s.mu.Unlock()
	if list.Data == nil {
		list.Data = []*model.StagingRepository{}
	}

	writeJSON(w, list)
}

func (s *Server) handleRepository(w http.ResponseWriter, r *http.Request) {
	repositoryID := chi.URLParam(r, "repositoryID")
	if status := s.record(r, Call{Request: nexus.RequestRepository, RepositoryID: repositoryID}); status != 0 {
		w.WriteHeader(status)
		return
	}

	s.mu.Lock()
	queue := s.states[repositoryID]
	if len(queue) == 0 {
		s.mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
		return
	}
	state := queue[0]
	if len(queue) > 1 {
		s.states[repositoryID] = queue[1:]
	}
	s.mu.Unlock()

	writeJSON(w, &model.StagingRepository{
		RepositoryID: repositoryID,
		Type:         state,
	})
}

func (s *Server) handleProfileAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	switch action {
	case nexus.RequestFinish, nexus.RequestPromote, nexus.RequestDrop:
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	call := Call{Request: action, ProfileID: chi.URLParam(r, "profileID")}
	if status := s.record(r, call); status != 0 {
		w.WriteHeader(status)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
