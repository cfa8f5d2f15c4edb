// Package validate holds the client-side form rules of the wizard.
//
// Every rule is a pure function of the form values: it returns a
// domain.FieldErrors map, and an empty map means the form may be submitted.
// Builders turn a valid form into the typed payload the data-access layer
// sends, so a payload can only be built from input that passed the rules.
package validate
