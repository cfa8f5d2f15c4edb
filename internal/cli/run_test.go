package cli

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/checkin/internal/api"
	"github.com/roach88/checkin/internal/apitest"
	"github.com/roach88/checkin/internal/domain"
	"github.com/roach88/checkin/internal/wizard"
)

// runKiosk feeds lines to the run command against url.
func runKiosk(t *testing.T, url string, lines ...string) cmdResult {
	t.Helper()
	opts := &RootOptions{Format: "text", APIURL: url}
	cmd := NewRunCommand(opts, wizard.WithNow(func() time.Time { return testNow }))
	stdin := ""
	if len(lines) > 0 {
		stdin = strings.Join(lines, "\n") + "\n"
	}
	return execute(cmd, stdin)
}

func TestRun_ReturningUser(t *testing.T) {
	srv, url := newBackend(t)

	res := runKiosk(t, url,
		"1.234.567", // lookup
		"",          // continue
		"2",         // service type
		"",          // course
		"3",         // hours
		"Repaso",    // comments
		"maybe",     // rejected
		"no",        // authorization
		"q",
	)
	require.NoError(t, res.err)

	out := res.stdout
	assert.Contains(t, out, "== Cédula Nacional ==")
	assert.Contains(t, out, "Consultando base de datos...")
	assert.Contains(t, out, "== Bienvenido de nuevo, Ana María Pérez ==")
	assert.Contains(t, out, "Sede: Sede Central")
	assert.Contains(t, out, "== Detalles de la sesión ==")
	assert.Contains(t, out, "  [2] Asesoría")
	assert.Contains(t, out, "Comentarios (opcional): ")
	assert.Contains(t, out, `  ! invalid yes/no value "maybe"`)
	assert.Contains(t, out, "== Asistencia registrada ==")
	assert.Contains(t, out, "ID de sesión: att-0001")
	assert.Contains(t, out, "Tipo de servicio: Asesoría")
	assert.Contains(t, out, "Horas estimadas: 3 horas")
	assert.Contains(t, out, "Autoriza tratamiento de datos: no")
	assert.Contains(t, out, "Fecha: lunes, 19 de octubre de 2026")
	assert.Contains(t, out, "Hora: 15:04")

	assert.Equal(t, 1, srv.CallCount(apitest.RouteFindUser))
	assert.Equal(t, 1, srv.CallCount(apitest.RouteCreateAttendance))

	records, err := api.NewClient(url).ListAttendance(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1234567", records[0].Cedula)
	assert.Equal(t, "Asesoría", records[0].ServiceType)
	assert.Equal(t, 3.0, records[0].EstimatedHours)
	assert.Equal(t, "Repaso", records[0].Comments)
	assert.False(t, records[0].Authorization)
}

func TestRun_RegistersGuestThenRecordsSession(t *testing.T) {
	srv, url := newBackend(t)

	res := runKiosk(t, url,
		"98765432",
		"4", // Invitado
		"Carlos",
		"Mejía",
		"carlos@example.edu",
		"3109876543",
		"2", // Sede Norte
		"1", // Tutoría
		"",
		"2",
		"",
		"",
	)
	require.NoError(t, res.err, "end of input quits cleanly")

	out := res.stdout
	assert.Contains(t, out, "== Nuevo usuario - Cédula: 98765432. Vamos a crear tu perfil ==")
	assert.Contains(t, out, "  [4] Invitado")
	assert.Contains(t, out, "== Completa tu perfil - Rol: Invitado ==")
	assert.Contains(t, out, "  [2] Sede Norte")
	assert.Contains(t, out, "Nombre completo: Carlos Mejía")
	assert.Contains(t, out, "Rol: Invitado")
	assert.Contains(t, out, "Autoriza tratamiento de datos: sí")
	assert.NotContains(t, out, "Carrera/Programa:")

	assert.Equal(t, 1, srv.CallCount(apitest.RouteCreateUser))
	assert.Equal(t, 1, srv.CallCount(apitest.RouteCreateAttendance))

	user, found, err := api.NewClient(url).FindUserByIdentity(context.Background(), "98765432")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.RoleGuest, user.Role)
	assert.Equal(t, "Sede Norte", user.Campus)
}

func TestRun_ClientErrorsStayOnForm(t *testing.T) {
	srv, url := newBackend(t)

	res := runKiosk(t, url,
		"98765432",
		"Estudiante",
		"", "", "", "", "", "", "", // every detail left blank
		"<",
	)
	require.NoError(t, res.err)

	out := res.stdout
	assert.Contains(t, out, "  ! El nombre es requerido")
	assert.Contains(t, out, "  ! Semestre: El semestre es requerido", "every error is listed under the form header")
	assert.Equal(t, 2, strings.Count(out, "== Nuevo usuario - Cédula: 98765432"), "< returns to the role menu")
	assert.Zero(t, srv.CallCount(apitest.RouteCreateUser))
}

func TestRun_BackendFailureRaisesAlert(t *testing.T) {
	srv, url := newBackend(t)
	srv.Inject(apitest.RouteFindUser, apitest.Fault{Status: http.StatusInternalServerError, Times: 1})

	res := runKiosk(t, url,
		"1234567",
		"", // dismiss
		"1234567",
	)
	require.NoError(t, res.err)

	out := res.stdout
	assert.Contains(t, out, "!! Error: Error al comunicarse con el servidor. Por favor contactar al administrador.")
	assert.Contains(t, out, "== Bienvenido de nuevo, Ana María Pérez ==")
	assert.Equal(t, 2, srv.CallCount(apitest.RouteFindUser))
	assert.Contains(t, res.stderr, "request failed")
}

func TestRun_InvalidIdentityIsShownInline(t *testing.T) {
	srv, url := newBackend(t)

	res := runKiosk(t, url, "12-34", "q")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "  ! Por favor ingrese un número de cédula válido (6-12 dígitos)")
	assert.Zero(t, srv.CallCount(apitest.RouteFindUser))
}

func TestRun_EndOfInputQuits(t *testing.T) {
	_, url := newBackend(t)

	res := runKiosk(t, url)
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "== Cédula Nacional ==\nEscriba q para salir\n"))
	assert.True(t, strings.HasSuffix(res.stdout, "Cédula Nacional: "))
}

func TestRun_RejectsArguments(t *testing.T) {
	res := execute(NewRootCommand(), "", "run", "extra")
	require.Error(t, res.err)
}

func TestPickRole(t *testing.T) {
	tests := []struct {
		input string
		want  domain.Role
		ok    bool
	}{
		{"1", domain.RoleProfessor, true},
		{"4", domain.RoleGuest, true},
		{"5", "", false},
		{"0", "", false},
		{"monitor", domain.RoleMonitor, true},
		{"Estudiante", domain.RoleStudent, true},
		{"admin", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := pickRole(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
