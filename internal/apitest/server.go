package apitest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roach88/checkin/internal/store"
)

// Route names used for fault injection and call recording.
const (
	RouteFindUser             = "find_user"
	RouteCreateUser           = "create_user"
	RouteUpdateUser           = "update_user"
	RouteCreateAttendance     = "create_attendance"
	RouteListAttendance       = "list_attendance"
	RouteCampuses             = "campuses"
	RouteAcademicPrograms     = "academic_programs"
	RouteServiceTypes         = "service_types"
	RouteAccompanimentCourses = "accompaniment_courses"
)

// Routes lists every route name.
func Routes() []string {
	return []string{
		RouteFindUser, RouteCreateUser, RouteUpdateUser,
		RouteCreateAttendance, RouteListAttendance,
		RouteCampuses, RouteAcademicPrograms, RouteServiceTypes, RouteAccompanimentCourses,
	}
}

// Fault replaces a route's response.
type Fault struct {
	// Status is the HTTP status to answer with.
	Status int `yaml:"status"`

	// Body is written verbatim. Empty means a JSON error body.
	Body string `yaml:"body,omitempty"`

	// ContentType defaults to application/json.
	ContentType string `yaml:"content_type,omitempty"`

	// Times limits how many requests the fault applies to. Zero means all.
	Times int `yaml:"times,omitempty"`
}

// Call records one request the double received.
type Call struct {
	Route  string
	Method string
	Path   string
	Body   string
}

// Server is the backend double.
//
// Thread-safety: Server is safe for concurrent use.
type Server struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu     sync.Mutex
	faults map[string]*Fault
	calls  []Call
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithClock sets the clock used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithIDGenerator sets the generator for attendance ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Server) {
		s.newID = newID
	}
}

// New creates a backend double over st.
func New(st *store.Store, opts ...Option) *Server {
	s := &Server{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
		faults: make(map[string]*Fault),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.With(s.intercept(RouteFindUser)).Get("/api/users/find/{id}", s.handleFindUser)
	r.With(s.intercept(RouteCreateUser)).Post("/api/users", s.handleCreateUser)
	r.With(s.intercept(RouteUpdateUser)).Patch("/api/users/{id}", s.handleUpdateUser)
	r.With(s.intercept(RouteCreateAttendance)).Post("/api/attendance", s.handleCreateAttendance)
	r.With(s.intercept(RouteListAttendance)).Get("/api/attendance", s.handleListAttendance)
	r.With(s.intercept(RouteCampuses)).Get("/api/campuses", s.handleReference(RouteCampuses))
	r.With(s.intercept(RouteAcademicPrograms)).Get("/api/academic-programs", s.handleReference(RouteAcademicPrograms))
	r.With(s.intercept(RouteServiceTypes)).Get("/api/service-types", s.handleReference(RouteServiceTypes))
	r.With(s.intercept(RouteAccompanimentCourses)).Get("/api/accompaniment-courses", s.handleReference(RouteAccompanimentCourses))

	return r
}

// Inject makes route answer with f until cleared or exhausted.
func (s *Server) Inject(route string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[route] = &f
}

// ClearFaults removes every injected fault.
func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]*Fault)
}

// Calls returns a copy of the recorded requests, in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many requests route received.
func (s *Server) CallCount(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Route == route {
			n++
		}
	}
	return n
}

// intercept records the call and serves an injected fault if one is armed.
func (s *Server) intercept(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable body")
				return
			}
			r.Body = io.NopCloser(strings.NewReader(string(body)))

			fault := s.record(route, Call{Route: route, Method: r.Method, Path: r.URL.Path, Body: string(body)})
			if fault == nil {
				next.ServeHTTP(w, r)
				return
			}

			s.logger.Debug("serving injected fault", "route", route, "status", fault.Status)
			if fault.Body == "" {
				writeError(w, fault.Status, http.StatusText(fault.Status))
				return
			}
			contentType := fault.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(fault.Status)
			_, _ = io.WriteString(w, fault.Body)
		})
	}
}

// record appends the call and consumes one use of the route's fault.
func (s *Server) record(route string, c Call) *Fault {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)

	f, ok := s.faults[route]
	if !ok {
		return nil
	}
	out := *f
	if f.Times > 0 {
		f.Times--
		if f.Times == 0 {
			delete(s.faults, route)
		}
	}
	return &out
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message":     "Validation failed",
		"fieldErrors": fields,
	})
}

// writeStoreError maps store sentinels onto HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "Registro duplicado")
	case errors.Is(err, store.ErrReference):
		writeError(w, http.StatusBadRequest, "Referencia inválida")
	default:
		s.logger.Error("store failure", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
