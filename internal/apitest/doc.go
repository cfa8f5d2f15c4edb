// Package apitest provides an in-process double of the check-in backend.
//
// The double serves the same REST surface as the real backend over a
// SQLite store, applies the backend-side rules the client cannot check
// (duplicate identities, taken emails, role access codes, unknown
// references), and supports per-route fault injection so tests can drive
// every failure path of the client and the wizard.
//
// Typical use:
//
//	st, _ := store.Open(":memory:")
//	_ = apitest.Seed(ctx, st, apitest.DefaultFixtures())
//	srv := httptest.NewServer(apitest.New(st).Router())
//	client := api.NewClient(srv.URL)
package apitest
