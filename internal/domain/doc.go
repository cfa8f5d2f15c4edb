// Package domain defines the records exchanged by the check-in wizard.
//
// Records here are plain values. Anything that talks to the network lives in
// package api; anything that decides whether a form is acceptable lives in
// package validate.
//
// INVARIANTS:
//   - A User is keyed by its identity key (cedula): 6-12 ASCII digits.
//   - Field names used in FieldErrors are always canonical client names.
//     Backend names are translated exactly once, through CanonicalField.
//   - A Registration is one of four role variants; the variant decides which
//     role-dependent fields exist, so a payload cannot carry a field its
//     role does not own.
package domain
