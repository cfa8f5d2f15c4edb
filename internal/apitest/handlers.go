package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/store"
)

type userResponse struct {
	NationalID      string      `json:"nationalId"`
	FullName        string      `json:"fullName"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Role            domain.Role `json:"role"`
	Campus          string      `json:"campus,omitempty"`
	AcademicProgram string      `json:"academicProgram,omitempty"`
	Semester        *int        `json:"semester,omitempty"`
	CreatedAt       string      `json:"createdAt"`
}

func toUserResponse(u store.UserRow) userResponse {
	return userResponse{
		NationalID:      u.NationalID,
		FullName:        strings.TrimSpace(u.FirstName + " " + u.LastName),
		Email:           u.Email,
		Phone:           u.Phone,
		Role:            u.Role,
		Campus:          u.CampusName,
		AcademicProgram: u.AcademicProgramName,
		Semester:        u.Semester,
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type createUserRequest struct {
	NationalID        string `json:"nationalId"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Role              string `json:"role"`
	CampusID          *int   `json:"campusId"`
	AcademicProgramID *int   `json:"academicProgramId"`
	Semester          *int   `json:"semester"`
	RoleAccessCode    string `json:"roleAccessCode"`
}

type updateUserRequest struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type attendanceRequest struct {
	NationalID            string  `json:"nationalId"`
	ServiceTypeID         int     `json:"serviceTypeId"`
	AccompanimentCourseID *int    `json:"accompanimentCourseId"`
	EstimatedHours        float64 `json:"estimatedHours"`
	Authorization         bool    `json:"authorization"`
	Comments              *string `json:"comments"`
}

type attendanceResponse struct {
	ID                  string  `json:"id"`
	NationalID          string  `json:"nationalId"`
	UserName            string  `json:"userName,omitempty"`
	ServiceType         string  `json:"serviceType,omitempty"`
	AccompanimentCourse string  `json:"accompanimentCourse,omitempty"`
	EstimatedHours      float64 `json:"estimatedHours"`
	Authorization       bool    `json:"authorization"`
	Comments            *string `json:"comments,omitempty"`
	Timestamp           string  `json:"timestamp"`
}

func toAttendanceResponse(a store.AttendanceRow) attendanceResponse {
	return attendanceResponse{
		ID:                  a.ID,
		NationalID:          a.NationalID,
		UserName:            a.UserName,
		ServiceType:         a.ServiceTypeName,
		AccompanimentCourse: a.AccompanimentCourseName,
		EstimatedHours:      a.EstimatedHours,
		Authorization:       a.Authorized,
		Comments:            a.Comments,
		Timestamp:           a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleFindUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, found, err := s.store.FindUser(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()

	role := domain.RoleGuest
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Rol no válido")
			return
		}
		role = parsed
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.NationalID) == "" {
		fields["nationalId"] = "La cédula es obligatoria"
	} else if _, exists, err := s.store.FindUser(ctx, req.NationalID); err != nil {
		s.writeStoreError(w, err)
		return
	} else if exists {
		fields["nationalId"] = "La cédula ya está registrada"
	}

	if taken, err := s.store.EmailTaken(ctx, req.Email, req.NationalID); err != nil {
		s.writeStoreError(w, err)
		return
	} else if taken {
		fields["email"] = "El correo ya está registrado"
	}

	if req.CampusID != nil {
		if ok, err := s.refExists(r, domain.RefCampuses, *req.CampusID); err != nil {
			s.writeStoreError(w, err)
			return
		} else if !ok {
			fields["campusId"] = "Sede no válida"
		}
	}
	if req.AcademicProgramID != nil {
		if ok, err := s.refExists(r, domain.RefAcademicPrograms, *req.AcademicProgramID); err != nil {
			s.writeStoreError(w, err)
			return
		} else if !ok {
			fields["academicProgramId"] = "Programa académico no válido"
		}
	}

	code, required, err := s.store.AccessCode(ctx, role)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if required && req.RoleAccessCode != code {
		fields["roleAccessCode"] = "Código de acceso inválido para el rol " + string(role)
	}

	if len(fields) > 0 {
		s.logger.Debug("rejecting registration", "national_id", req.NationalID, "fields", len(fields))
		writeFieldErrors(w, fields)
		return
	}

	row := store.UserRow{
		NationalID:        req.NationalID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Role:              role,
		CampusID:          req.CampusID,
		AcademicProgramID: req.AcademicProgramID,
		Semester:          req.Semester,
		AccessCode:        req.RoleAccessCode,
		CreatedAt:         s.now(),
	}
	if err := s.store.InsertUser(ctx, row); err != nil {
		s.writeStoreError(w, err)
		return
	}

	created, _, err := s.store.FindUser(ctx, req.NationalID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()

	if req.Email != nil {
		taken, err := s.store.EmailTaken(ctx, *req.Email, id)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		if taken {
			writeFieldErrors(w, map[string]string{"email": "El correo ya está registrado"})
			return
		}
	}

	found, err := s.store.UpdateContact(ctx, id, req.Email, req.Phone)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	u, _, err := s.store.FindUser(ctx, id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleCreateAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ctx := r.Context()

	if _, found, err := s.store.FindUser(ctx, req.NationalID); err != nil {
		s.writeStoreError(w, err)
		return
	} else if !found {
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	fields := map[string]string{}
	if ok, err := s.refExists(r, domain.RefServiceTypes, req.ServiceTypeID); err != nil {
		s.writeStoreError(w, err)
		return
	} else if !ok {
		fields["serviceTypeId"] = "Tipo de servicio no válido"
	}
	if req.AccompanimentCourseID != nil {
		if ok, err := s.refExists(r, domain.RefAccompanimentCourses, *req.AccompanimentCourseID); err != nil {
			s.writeStoreError(w, err)
			return
		} else if !ok {
			fields["accompanimentCourseId"] = "Curso de acompañamiento no válido"
		}
	}
	if req.EstimatedHours <= 0 || req.EstimatedHours > 24 {
		fields["estimatedHours"] = "Las horas deben estar entre 0 y 24"
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	row := store.AttendanceRow{
		ID:                    s.newID(),
		NationalID:            req.NationalID,
		ServiceTypeID:         req.ServiceTypeID,
		AccompanimentCourseID: req.AccompanimentCourseID,
		EstimatedHours:        req.EstimatedHours,
		Authorized:            req.Authorization,
		Comments:              req.Comments,
		CreatedAt:             s.now(),
	}
	if err := s.store.InsertAttendance(ctx, row); err != nil {
		s.writeStoreError(w, err)
		return
	}

	rows, err := s.store.ListAttendance(ctx)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	for _, a := range rows {
		if a.ID == row.ID {
			writeJSON(w, http.StatusCreated, toAttendanceResponse(a))
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListAttendance(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	out := make([]attendanceResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, toAttendanceResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

var routeKinds = map[string]domain.RefKind{
	RouteCampuses:             domain.RefCampuses,
	RouteAcademicPrograms:     domain.RefAcademicPrograms,
	RouteServiceTypes:         domain.RefServiceTypes,
	RouteAccompanimentCourses: domain.RefAccompanimentCourses,
}

func (s *Server) handleReference(route string) http.HandlerFunc {
	kind := routeKinds[route]
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.store.ListReference(r.Context(), kind)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *Server) refExists(r *http.Request, kind domain.RefKind, id int) (bool, error) {
	items, err := s.store.ListReference(r.Context(), kind)
	if err != nil {
		return false, err
	}
	_, ok := items.Label(id)
	return ok, nil
}
