package api

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/checkin/internal/domain"
)

// userFallback carries the values the caller already knows, used when the
// backend omits them.
type userFallback struct {
	Cedula    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      domain.Role
	Semester  int
}

// decodeUser normalizes a backend user payload.
//
// A non-empty fullName wins over firstName/lastName: its first word is the
// first name and the rest the last name.
func decodeUser(raw map[string]any, fb userFallback, now func() time.Time) domain.User {
	nationalID := firstNonEmpty(str(raw, "nationalId"), str(raw, "cedula"))

	fullName := strings.TrimSpace(str(raw, "fullName"))
	first, last := domain.SplitFullName(fullName)
	if first == "" {
		first = firstNonEmpty(str(raw, "firstName"), fb.FirstName)
	}
	if last == "" {
		last = firstNonEmpty(str(raw, "lastName"), fb.LastName)
	}
	if fullName == "" {
		fullName = strings.TrimSpace(first + " " + last)
	}

	role := fb.Role
	if r, err := domain.ParseRole(str(raw, "role")); err == nil {
		role = r
	}
	if role == "" {
		role = domain.RoleGuest
	}

	semester := num(raw, "semester")
	if semester == 0 {
		semester = fb.Semester
	}

	createdAt, ok := parseTime(str(raw, "createdAt"))
	if !ok {
		createdAt = now()
	}

	return domain.User{
		Cedula:          firstNonEmpty(nationalID, fb.Cedula),
		NationalID:      nationalID,
		FirstName:       first,
		LastName:        last,
		FullName:        fullName,
		Email:           firstNonEmpty(str(raw, "email"), fb.Email),
		Phone:           firstNonEmpty(str(raw, "phone"), fb.Phone),
		Role:            role,
		Career:          str(raw, "career"),
		Department:      str(raw, "department"),
		Campus:          firstNonEmpty(str(raw, "campus"), str(raw, "sede")),
		AcademicProgram: str(raw, "academicProgram"),
		Semester:        semester,
		CreatedAt:       createdAt,
	}
}

// encodeRegistration builds the POST /api/users body.
func encodeRegistration(reg domain.Registration) map[string]any {
	c := reg.ContactDetails()
	body := map[string]any{
		"nationalId": c.Cedula,
		"firstName":  c.FirstName,
		"lastName":   c.LastName,
		"email":      c.Email,
		"phone":      c.Phone,
		"role":       string(reg.Role()),
	}
	if c.CampusID != 0 {
		body["campusId"] = c.CampusID
	}
	for name, v := range reg.WireFields() {
		body[domain.BackendField(name)] = v
	}
	return body
}

// attendanceBody is the POST /api/attendance body.
type attendanceBody struct {
	NationalID            string  `json:"nationalId"`
	ServiceTypeID         int     `json:"serviceTypeId"`
	AccompanimentCourseID *int    `json:"accompanimentCourseId,omitempty"`
	EstimatedHours        float64 `json:"estimatedHours"`
	Authorization         bool    `json:"authorization"`
	Comments              *string `json:"comments,omitempty"`
}

func encodeAttendance(req domain.AttendanceRequest) attendanceBody {
	return attendanceBody{
		NationalID:            req.NationalID,
		ServiceTypeID:         req.ServiceTypeID,
		AccompanimentCourseID: req.AccompanimentCourseID,
		EstimatedHours:        req.EstimatedHours,
		Authorization:         req.Authorization,
		Comments:              req.Comments,
	}
}

// decodeSessionResponse reads whatever the backend reported for a created
// session. Missing fields stay zero.
func decodeSessionResponse(raw map[string]any) domain.SessionResponse {
	return domain.SessionResponse{
		ID:                  str(raw, "id"),
		ServiceType:         str(raw, "serviceType"),
		AccompanimentCourse: str(raw, "accompanimentCourse"),
		Timestamp:           timestamp(raw),
	}
}

func decodeAttendanceRecord(raw map[string]any) domain.AttendanceRecord {
	var hours float64
	switch v := raw["estimatedHours"].(type) {
	case float64:
		hours = v
	case string:
		hours, _ = strconv.ParseFloat(v, 64)
	}
	auth, _ := raw["authorization"].(bool)

	return domain.AttendanceRecord{
		ID:                  str(raw, "id"),
		Cedula:              firstNonEmpty(str(raw, "nationalId"), str(raw, "cedula")),
		UserName:            firstNonEmpty(str(raw, "userName"), str(raw, "fullName")),
		ServiceType:         str(raw, "serviceType"),
		AccompanimentCourse: str(raw, "accompanimentCourse"),
		EstimatedHours:      hours,
		Comments:            str(raw, "comments"),
		Authorization:       auth,
		Timestamp:           timestamp(raw),
	}
}

func timestamp(raw map[string]any) time.Time {
	for _, key := range []string{"timestamp", "createdAt"} {
		if t, ok := parseTime(str(raw, key)); ok {
			return t
		}
	}
	return time.Time{}
}

// localLayout is an ISO-8601 timestamp without a zone designator, as some
// backend builds serialize it. Such values are read as UTC.
const localLayout = "2006-01-02T15:04:05.999999999"

// parseTime reads an RFC 3339 timestamp, or a zone-less one as UTC.
func parseTime(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(localLayout, v, time.UTC); err == nil {
		return t, true
	}
	slog.Debug("unparseable backend timestamp", "value", v)
	return time.Time{}, false
}

// str reads key as a string. Numbers are formatted without a fraction
// when integral, so numeric ids read the same as string ids.
func str(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	return asString(v)
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// num reads key as an integer, accepting numbers and numeric strings.
func num(raw map[string]any, key string) int {
	switch v := raw[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
