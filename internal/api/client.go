package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/roach88/checkin/internal/domain"
)

// Client talks to the check-in backend over HTTP.
//
// Thread-safety: Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration
}

var _ DataAccess = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBreaker replaces the circuit breaker.
func WithBreaker(cb *gobreaker.CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = cb
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithClock sets the clock used for timestamps the backend omits.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// WithRequestTimeout bounds every request. Zero means no bound beyond the
// caller's context.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		c.breaker = NewBreaker("checkin-api", DefaultBreakerSettings, c.logger)
	}
	return c
}

// response is a fully read HTTP response.
type response struct {
	status      int
	contentType string
	body        []byte
	url         string
}

// do performs one request through the circuit breaker.
// Non-2xx responses other than those listed in pass are returned as errors.
func (c *Client) do(ctx context.Context, method, path string, payload any, pass ...int) (*response, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		res, err := c.roundTrip(ctx, method, path, payload)
		if err != nil {
			return nil, err
		}
		for _, status := range pass {
			if res.status == status {
				return res, nil
			}
		}
		if res.status < 200 || res.status > 299 {
			return nil, c.decodeError(res)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*response), nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload any) (*response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	return &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
		url:         req.URL.String(),
	}, nil
}

// decodeError turns a non-2xx response into *ValidationError or *APIError.
func (c *Client) decodeError(res *response) error {
	c.logger.Error("backend error response",
		"status", res.status,
		"url", res.url,
		"content_type", res.contentType,
		"body", string(res.body),
	)

	var parsed struct {
		Message     string         `json:"message"`
		Error       string         `json:"error"`
		Msg         string         `json:"msg"`
		FieldErrors map[string]any `json:"fieldErrors"`
	}
	if err := json.Unmarshal(res.body, &parsed); err != nil {
		return &APIError{Status: res.status, Message: strings.TrimSpace(string(res.body))}
	}

	msg := firstNonEmpty(parsed.Message, parsed.Error, parsed.Msg)
	if msg == "" {
		msg = strings.TrimSpace(string(res.body))
	}

	if len(parsed.FieldErrors) > 0 {
		fields := make(map[string]string, len(parsed.FieldErrors))
		for name, v := range parsed.FieldErrors {
			fields[name] = asString(v)
		}
		return &ValidationError{Status: res.status, Message: msg, Fields: fields}
	}
	return &APIError{Status: res.status, Message: msg}
}

// decodeJSON unmarshals a successful body.
func (c *Client) decodeJSON(res *response, out any) error {
	if !strings.Contains(res.contentType, "application/json") {
		c.logger.Warn("expected JSON response", "url", res.url, "content_type", res.contentType)
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		c.logger.Error("failed parsing JSON", "url", res.url, "body", string(res.body))
		return fmt.Errorf("%s: %w", res.url, ErrMalformedResponse)
	}
	return nil
}

// FindUserByIdentity implements DataAccess.
func (c *Client) FindUserByIdentity(ctx context.Context, cedula string) (*domain.User, bool, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/users/find/"+url.PathEscape(cedula), nil, http.StatusNotFound)
	if err != nil {
		return nil, false, fmt.Errorf("find user: %w", err)
	}
	if res.status == http.StatusNotFound {
		return nil, false, nil
	}

	var raw map[string]any
	if err := c.decodeJSON(res, &raw); err != nil {
		return nil, false, fmt.Errorf("find user: %w", err)
	}
	user := decodeUser(raw, userFallback{Cedula: cedula, Role: domain.RoleGuest}, c.now)
	return &user, true, nil
}

// CreateUser implements DataAccess.
func (c *Client) CreateUser(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	res, err := c.do(ctx, http.MethodPost, "/api/users", encodeRegistration(reg))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	var raw map[string]any
	if err := c.decodeJSON(res, &raw); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	contact := reg.ContactDetails()
	fallback := userFallback{
		Cedula:    contact.Cedula,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Role:      reg.Role(),
	}
	if semester, ok := reg.WireFields()[domain.FieldSemester].(int); ok {
		fallback.Semester = semester
	}
	user := decodeUser(raw, fallback, c.now)
	return &user, nil
}

// UpdateUser implements DataAccess.
func (c *Client) UpdateUser(ctx context.Context, cedula string, update domain.UserUpdate) (*domain.User, bool, error) {
	res, err := c.do(ctx, http.MethodPatch, "/api/users/"+url.PathEscape(cedula), update, http.StatusNotFound)
	if err != nil {
		return nil, false, fmt.Errorf("update user: %w", err)
	}
	if res.status == http.StatusNotFound {
		return nil, false, nil
	}

	var raw map[string]any
	if err := c.decodeJSON(res, &raw); err != nil {
		return nil, false, fmt.Errorf("update user: %w", err)
	}
	user := decodeUser(raw, userFallback{Cedula: cedula, Role: domain.RoleGuest}, c.now)
	return &user, true, nil
}

// CreateAttendance implements DataAccess.
func (c *Client) CreateAttendance(ctx context.Context, req domain.AttendanceRequest) (*domain.SessionResponse, error) {
	res, err := c.do(ctx, http.MethodPost, "/api/attendance", encodeAttendance(req))
	if err != nil {
		return nil, fmt.Errorf("create attendance: %w", err)
	}

	var raw map[string]any
	if err := c.decodeJSON(res, &raw); err != nil {
		return nil, fmt.Errorf("create attendance: %w", err)
	}
	out := decodeSessionResponse(raw)
	return &out, nil
}

// ListReference implements DataAccess.
func (c *Client) ListReference(ctx context.Context, kind domain.RefKind) (domain.RefList, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/"+string(kind), nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	var items domain.RefList
	if err := c.decodeJSON(res, &items); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return items, nil
}

// ListCampuses returns the campus options.
func (c *Client) ListCampuses(ctx context.Context) (domain.RefList, error) {
	return c.ListReference(ctx, domain.RefCampuses)
}

// ListAcademicPrograms returns the academic program options.
func (c *Client) ListAcademicPrograms(ctx context.Context) (domain.RefList, error) {
	return c.ListReference(ctx, domain.RefAcademicPrograms)
}

// ListServiceTypes returns the service type options.
func (c *Client) ListServiceTypes(ctx context.Context) (domain.RefList, error) {
	return c.ListReference(ctx, domain.RefServiceTypes)
}

// ListAccompanimentCourses returns the accompaniment course options.
func (c *Client) ListAccompanimentCourses(ctx context.Context) (domain.RefList, error) {
	return c.ListReference(ctx, domain.RefAccompanimentCourses)
}

// ListAttendance implements DataAccess.
func (c *Client) ListAttendance(ctx context.Context) ([]domain.AttendanceRecord, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/attendance", nil)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	var raw []map[string]any
	if err := c.decodeJSON(res, &raw); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	records := make([]domain.AttendanceRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, decodeAttendanceRecord(r))
	}
	return records, nil
}

// SessionsByIdentity returns the sessions recorded for cedula.
// A failed listing is logged and reported as no sessions.
func (c *Client) SessionsByIdentity(ctx context.Context, cedula string) []domain.AttendanceRecord {
	all, err := c.ListAttendance(ctx)
	if err != nil {
		c.logger.Error("sessions by identity", "cedula", cedula, "error", err)
		return []domain.AttendanceRecord{}
	}
	out := []domain.AttendanceRecord{}
	for _, rec := range all {
		if rec.Cedula == cedula {
			out = append(out, rec)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
