// Package store provides SQLite-backed storage for the check-in backend
// test double.
//
// Tables:
//   - campuses, academic_programs, service_types, accompaniment_courses:
//     read-only reference lists
//   - role_access_codes: the code each role must present at registration
//   - users: registered participants keyed by national id
//   - attendance: recorded sessions
//
// All listings are ordered by seq ASC, id COLLATE BINARY ASC so results are
// identical across runs regardless of wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
