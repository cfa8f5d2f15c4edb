package locale

// Message keys. The key text is the English rendering.
const (
	MsgCedulaInvalid         = "Please enter a valid national ID (6-12 digits)"
	MsgFirstNameRequired     = "First name is required"
	MsgLastNameRequired      = "Last name is required"
	MsgEmailRequired         = "Email is required"
	MsgEmailInvalid          = "Invalid email format"
	MsgPhoneRequired         = "Phone is required"
	MsgPhoneInvalid          = "Invalid phone number (10-15 digits)"
	MsgCampusRequired        = "Campus is required"
	MsgProgramRequired       = "Academic program is required"
	MsgSemesterRequired      = "Semester is required"
	MsgSemesterNotInteger    = "Semester must be a whole number"
	MsgSemesterOutOfRange    = "Semester must be between 1 and 10"
	MsgAccessCodeRequired    = "Access code is required"
	MsgServiceTypeRequired   = "Service type is required"
	MsgServiceTypeInvalid    = "Invalid service type"
	MsgCourseInvalid         = "Invalid accompaniment course"
	MsgHoursRequired         = "Estimated hours are required"
	MsgHoursInvalid          = "Enter a valid number between 0.5 and 24"
	MsgCorrectFields         = "Please correct the highlighted fields"
	MsgLookupFailed          = "Error communicating with the server. Please contact the administrator."
	MsgRegistrationFailed    = "Error registering the user. Please contact the administrator."
	MsgAttendanceFailed      = "Error registering attendance. Please contact the administrator."
	MsgErrorTitle            = "Error"
	MsgHours                 = "%s hours"
	MsgLoading               = "Querying the database..."
	MsgIDPrompt              = "National ID"
	MsgWelcomeBack           = "Welcome back, %s"
	MsgNewUser               = "New user - ID: %s. Let's create your profile"
	MsgSelectRole            = "Select your role"
	MsgCompleteProfile       = "Complete your profile - Role: %s"
	MsgSessionDetails        = "Session details"
	MsgSessionRegistered     = "Attendance registered"
	MsgNoOptions             = "(no options available)"
	MsgOptional              = "optional"
	MsgContinuePrompt        = "Press Enter to continue"
	MsgNewEntryPrompt        = "Press Enter for a new entry, or q to quit"
	MsgAuthorizationQuestion = "Authorize data processing? (Y/n)"

	// Labels and prompts of the terminal front-end.
	MsgLabelFirstName     = "First name"
	MsgLabelLastName      = "Last name"
	MsgLabelEmail         = "Email"
	MsgLabelPhone         = "Phone"
	MsgLabelCampus        = "Campus"
	MsgLabelProgram       = "Academic program"
	MsgLabelSemester      = "Semester"
	MsgLabelAccessCode    = "Access code"
	MsgLabelServiceType   = "Service type"
	MsgLabelCourse        = "Accompaniment course"
	MsgLabelHours         = "Estimated hours"
	MsgLabelComments      = "Comments"
	MsgLabelAuthorization = "Data processing authorized"
	MsgLabelName          = "Name"
	MsgLabelRole          = "Role"
	MsgLabelDate          = "Date"
	MsgLabelTime          = "Time"
	MsgLabelSessionID     = "Session ID"
	MsgYes                = "yes"
	MsgNo                 = "no"
	MsgQuitHint           = "Type q to quit"
	MsgChoosePrompt       = "Choose a number"
	MsgFormHint           = "Leave blank to keep the current value. Type < to go back to role selection."
	MsgNoSessions         = "No sessions recorded"
	MsgUserNotFound       = "User not found"
	MsgSessionCount       = "Sessions recorded: %d"
)

var spanish = map[string]string{
	MsgCedulaInvalid:         "Por favor ingrese un número de cédula válido (6-12 dígitos)",
	MsgFirstNameRequired:     "El nombre es requerido",
	MsgLastNameRequired:      "El apellido es requerido",
	MsgEmailRequired:         "El correo es requerido",
	MsgEmailInvalid:          "Formato de correo inválido",
	MsgPhoneRequired:         "El teléfono es requerido",
	MsgPhoneInvalid:          "Número de teléfono inválido (10-15 dígitos)",
	MsgCampusRequired:        "La sede es requerida",
	MsgProgramRequired:       "La carrera/programa es requerida",
	MsgSemesterRequired:      "El semestre es requerido",
	MsgSemesterNotInteger:    "El semestre debe ser un número entero",
	MsgSemesterOutOfRange:    "El semestre debe estar entre 1 y 10",
	MsgAccessCodeRequired:    "El código de acceso es requerido",
	MsgServiceTypeRequired:   "El tipo de servicio es requerido",
	MsgServiceTypeInvalid:    "Tipo de servicio inválido",
	MsgCourseInvalid:         "Asignatura de acompañamiento inválida",
	MsgHoursRequired:         "Las horas estimadas son requeridas",
	MsgHoursInvalid:          "Ingrese un número válido entre 0.5 y 24",
	MsgCorrectFields:         "Por favor corrige los errores en el formulario",
	MsgLookupFailed:          "Error al comunicarse con el servidor. Por favor contactar al administrador.",
	MsgRegistrationFailed:    "Error al registrar usuario. Contactar al administrador.",
	MsgAttendanceFailed:      "Error al registrar la asistencia. Por favor contactar al administrador.",
	MsgErrorTitle:            "Error",
	MsgHours:                 "%s horas",
	MsgLoading:               "Consultando base de datos...",
	MsgIDPrompt:              "Cédula Nacional",
	MsgWelcomeBack:           "Bienvenido de nuevo, %s",
	MsgNewUser:               "Nuevo usuario - Cédula: %s. Vamos a crear tu perfil",
	MsgSelectRole:            "Selecciona tu rol",
	MsgCompleteProfile:       "Completa tu perfil - Rol: %s",
	MsgSessionDetails:        "Detalles de la sesión",
	MsgSessionRegistered:     "Asistencia registrada",
	MsgNoOptions:             "(no hay opciones disponibles)",
	MsgOptional:              "opcional",
	MsgContinuePrompt:        "Presione Enter para continuar",
	MsgNewEntryPrompt:        "Presione Enter para un nuevo registro, o q para salir",
	MsgAuthorizationQuestion: "¿Autoriza el tratamiento de datos? (S/n)",

	MsgLabelFirstName:     "Nombre",
	MsgLabelLastName:      "Apellido",
	MsgLabelEmail:         "Correo electrónico",
	MsgLabelPhone:         "Teléfono",
	MsgLabelCampus:        "Sede",
	MsgLabelProgram:       "Carrera/Programa",
	MsgLabelSemester:      "Semestre",
	MsgLabelAccessCode:    "Código de acceso",
	MsgLabelServiceType:   "Tipo de servicio",
	MsgLabelCourse:        "Asignatura de acompañamiento",
	MsgLabelHours:         "Horas estimadas",
	MsgLabelComments:      "Comentarios",
	MsgLabelAuthorization: "Autoriza tratamiento de datos",
	MsgLabelName:          "Nombre completo",
	MsgLabelRole:          "Rol",
	MsgLabelDate:          "Fecha",
	MsgLabelTime:          "Hora",
	MsgLabelSessionID:     "ID de sesión",
	MsgYes:                "sí",
	MsgNo:                 "no",
	MsgQuitHint:           "Escriba q para salir",
	MsgChoosePrompt:       "Elija un número",
	MsgFormHint:           "Deje en blanco para conservar el valor actual. Escriba < para volver a la selección de rol.",
	MsgNoSessions:         "No hay sesiones registradas",
	MsgUserNotFound:       "Usuario no encontrado",
	MsgSessionCount:       "Sesiones registradas: %d",
}
