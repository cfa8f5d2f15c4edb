package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalField(t *testing.T) {
	assert.Equal(t, FieldCedula, CanonicalField("nationalId"))
	assert.Equal(t, "email", CanonicalField("email"))
	assert.Equal(t, "somethingElse", CanonicalField("somethingElse"))
}

func TestBackendField(t *testing.T) {
	assert.Equal(t, "nationalId", BackendField(FieldCedula))
	assert.Equal(t, FieldPhone, BackendField(FieldPhone))
}

func TestCanonicalize(t *testing.T) {
	got := Canonicalize(map[string]string{
		"nationalId": "ya registrada",
		"email":      "inválido",
	})

	assert.Equal(t, FieldErrors{
		FieldCedula: "ya registrada",
		FieldEmail:  "inválido",
	}, got)
	_, hasBackendName := got["nationalId"]
	assert.False(t, hasBackendName)
}

func TestFieldErrors_AddKeepsFirst(t *testing.T) {
	errs := FieldErrors{}
	errs.Add(FieldSemester, "requerido")
	errs.Add(FieldSemester, "fuera de rango")

	assert.Equal(t, "requerido", errs[FieldSemester])
	assert.False(t, errs.Valid())
	assert.True(t, FieldErrors{}.Valid())
	assert.True(t, FieldErrors(nil).Valid())
}

func TestFieldErrors_WithoutDoesNotMutate(t *testing.T) {
	errs := FieldErrors{FieldEmail: "x", FieldPhone: "y"}
	trimmed := errs.Without(FieldEmail)

	assert.Len(t, errs, 2)
	assert.Equal(t, FieldErrors{FieldPhone: "y"}, trimmed)
	assert.Equal(t, []string{FieldEmail, FieldPhone}, errs.Fields())
}
