package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/roach88/checkin/internal/domain"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		FirstName:         " Jane ",
		LastName:          "Doe",
		Email:             "jane@example.edu.co",
		Phone:             "+57 300 123 4567",
		CampusID:          "1",
		AcademicProgramID: "2",
		Semester:          "3",
		RoleAccessCode:    "MON-1",
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "123456", Digits("12a3-45 6"))
	assert.Equal(t, "", Digits("abc"))
}

func TestNationalID(t *testing.T) {
	v := New(language.Spanish)

	tests := []struct {
		input string
		valid bool
	}{
		{"123456", true},
		{"999999999999", true},
		{"12345", false},
		{"1234567890123", false},
		{"12345a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			errs := v.NationalID(tt.input)
			assert.Equal(t, tt.valid, errs.Valid())
			assert.Equal(t, tt.valid, IsNationalID(tt.input))
			if !tt.valid {
				assert.Equal(t, "Por favor ingrese un número de cédula válido (6-12 dígitos)", errs[domain.FieldCedula])
			}
		})
	}
}

func TestRegistration_AlwaysRequiredFields(t *testing.T) {
	v := New(language.Spanish)

	errs := v.Registration(domain.RoleGuest, RegistrationForm{FirstName: "  ", Email: "no-at-sign", Phone: "123"})

	assert.Equal(t, "El nombre es requerido", errs[domain.FieldFirstName])
	assert.Equal(t, "El apellido es requerido", errs[domain.FieldLastName])
	assert.Equal(t, "Formato de correo inválido", errs[domain.FieldEmail])
	assert.Equal(t, "Número de teléfono inválido (10-15 dígitos)", errs[domain.FieldPhone])
	assert.Equal(t, "La sede es requerida", errs[domain.FieldCampusID])
	assert.NotContains(t, errs, domain.FieldAcademicProgramID)
	assert.NotContains(t, errs, domain.FieldSemester)
	assert.NotContains(t, errs, domain.FieldRoleAccessCode)
}

func TestRegistration_RoleTable(t *testing.T) {
	v := New(language.Spanish)
	empty := RegistrationForm{}

	tests := []struct {
		role     domain.Role
		program  bool
		semester bool
		code     bool
	}{
		{domain.RoleProfessor, true, false, true},
		{domain.RoleMonitor, true, true, true},
		{domain.RoleStudent, true, true, false},
		{domain.RoleGuest, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			errs := v.Registration(tt.role, empty)
			assert.Equal(t, tt.program, hasField(errs, domain.FieldAcademicProgramID))
			assert.Equal(t, tt.semester, hasField(errs, domain.FieldSemester))
			assert.Equal(t, tt.code, hasField(errs, domain.FieldRoleAccessCode))
		})
	}
}

func TestRegistration_Semester(t *testing.T) {
	v := New(language.Spanish)

	tests := []struct {
		value string
		want  string
	}{
		{"0", "El semestre debe estar entre 1 y 10"},
		{"11", "El semestre debe estar entre 1 y 10"},
		{"abc", "El semestre debe ser un número entero"},
		{"2.5", "El semestre debe ser un número entero"},
		{"", "El semestre es requerido"},
		{"5", ""},
		{" 10 ", ""},
		{"1", ""},
	}

	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleMonitor} {
		for _, tt := range tests {
			t.Run(string(role)+"/"+tt.value, func(t *testing.T) {
				form := validForm()
				form.Semester = tt.value
				errs := v.Registration(role, form)
				if tt.want == "" {
					assert.True(t, errs.Valid(), "unexpected errors: %v", errs)
					return
				}
				assert.Equal(t, tt.want, errs[domain.FieldSemester])
			})
		}
	}
}

func TestBuildRegistration_GuestGetsDefaultCode(t *testing.T) {
	v := New(language.Spanish)
	form := validForm()
	form.RoleAccessCode = ""
	form.AcademicProgramID = ""

	reg, errs := v.BuildRegistration("123456", domain.RoleGuest, form)
	require.True(t, errs.Valid())

	guest, ok := reg.(domain.GuestRegistration)
	require.True(t, ok)
	assert.Equal(t, domain.DefaultGuestAccessCode, guest.AccessCode)
	assert.Equal(t, "Jane", guest.FirstName)
	assert.Equal(t, 1, guest.CampusID)
}

func TestBuildRegistration_ConfiguredGuestCode(t *testing.T) {
	v := New(language.Spanish, WithGuestAccessCode("INV-2027"))

	reg, errs := v.BuildRegistration("123456", domain.RoleGuest, validForm())
	require.True(t, errs.Valid())
	assert.Equal(t, "INV-2027", reg.(domain.GuestRegistration).AccessCode)
}

func TestBuildRegistration_MonitorWithoutCodeIsBlocked(t *testing.T) {
	v := New(language.Spanish)
	form := validForm()
	form.RoleAccessCode = "  "

	reg, errs := v.BuildRegistration("123456", domain.RoleMonitor, form)
	assert.Nil(t, reg)
	assert.Equal(t, "El código de acceso es requerido", errs[domain.FieldRoleAccessCode])
	assert.Len(t, errs, 1)
}

func TestBuildRegistration_StudentVariant(t *testing.T) {
	v := New(language.Spanish)

	reg, errs := v.BuildRegistration("123456", domain.RoleStudent, validForm())
	require.True(t, errs.Valid())

	student, ok := reg.(domain.StudentRegistration)
	require.True(t, ok)
	assert.Equal(t, domain.StudentRegistration{
		Contact: domain.Contact{
			Cedula:    "123456",
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.edu.co",
			Phone:     "+57 300 123 4567",
			CampusID:  1,
		},
		AcademicProgramID: 2,
		Semester:          3,
	}, student)
}

func TestBuildRegistration_NormalizesNames(t *testing.T) {
	v := New(language.Spanish)
	form := validForm()
	form.FirstName = "José" // decomposed accent

	reg, errs := v.BuildRegistration("123456", domain.RoleProfessor, form)
	require.True(t, errs.Valid())
	assert.Equal(t, "José", reg.ContactDetails().FirstName)
}

func TestSession_Hours(t *testing.T) {
	v := New(language.Spanish)

	tests := []struct {
		hours string
		valid bool
	}{
		{"0", false},
		{"-1", false},
		{"25", false},
		{"24.01", false},
		{"NaN", false},
		{"abc", false},
		{"0.5", true},
		{"1", true},
		{"24", true},
	}

	for _, tt := range tests {
		t.Run(tt.hours, func(t *testing.T) {
			form := NewSessionForm()
			form.ServiceTypeID = "1"
			form.EstimatedHours = tt.hours
			errs := v.Session(form)
			assert.Equal(t, tt.valid, errs.Valid())
			if !tt.valid {
				assert.Equal(t, "Ingrese un número válido entre 0.5 y 24", errs[domain.FieldEstimatedHours])
			}
		})
	}
}

func TestSession_RequiredFields(t *testing.T) {
	v := New(language.English)

	errs := v.Session(NewSessionForm())
	assert.Equal(t, "Service type is required", errs[domain.FieldServiceTypeID])
	assert.Equal(t, "Estimated hours are required", errs[domain.FieldEstimatedHours])
	assert.NotContains(t, errs, domain.FieldAccompanimentCourseID)
}

func TestBuildAttendance(t *testing.T) {
	v := New(language.Spanish)
	user := domain.User{Cedula: "123456", NationalID: "0123456"}

	form := NewSessionForm()
	form.ServiceTypeID = "1"
	form.EstimatedHours = "2"
	form.Comments = "   "

	req, errs := v.BuildAttendance(user, form)
	require.True(t, errs.Valid())
	assert.Equal(t, "0123456", req.NationalID)
	assert.Equal(t, 1, req.ServiceTypeID)
	assert.Equal(t, 2.0, req.EstimatedHours)
	assert.True(t, req.Authorization)
	assert.Nil(t, req.AccompanimentCourseID)
	assert.Nil(t, req.Comments)

	form.AccompanimentCourseID = "7"
	form.Comments = " repaso de cálculo "
	form.Authorization = false
	req, errs = v.BuildAttendance(user, form)
	require.True(t, errs.Valid())
	require.NotNil(t, req.AccompanimentCourseID)
	assert.Equal(t, 7, *req.AccompanimentCourseID)
	require.NotNil(t, req.Comments)
	assert.Equal(t, "repaso de cálculo", *req.Comments)
	assert.False(t, req.Authorization)
}

func hasField(errs domain.FieldErrors, field string) bool {
	_, ok := errs[field]
	return ok
}
