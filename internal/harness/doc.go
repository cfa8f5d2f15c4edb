// Package harness runs check-in scenarios end to end.
//
// A scenario drives a real wizard.Controller through the HTTP client
// against the apitest backend double, then checks the transition trace,
// the backend's final tables and the requests it received.
//
// # Scenario Format
//
//	name: returning_user
//	description: "A known identity records a session"
//	faults:
//	  - route: create_attendance
//	    status: 500
//	    times: 1
//	flow:
//	  - action: lookup
//	    args: { cedula: "1234567" }
//	    expect: { step: profile-loaded, outcome: found }
//	  - action: continue
//	  - action: fill_session
//	    args: { serviceTypeId: "1", estimatedHours: "2" }
//	  - action: submit_session
//	    expect: { step: confirmation }
//	assertions:
//	  - type: trace_order
//	    actions: [lookup, continue, submit_session]
//	  - type: final_state
//	    table: attendance
//	    where: { national_id: "1234567" }
//	    expect: { estimated_hours: 2 }
//	  - type: request_count
//	    route: create_user
//	    count: 0
//
// Fixtures default to apitest.DefaultFixtures.
//
// # Assertion Types
//
//   - trace_contains: a transition with the action and the given from/to/outcome
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: one backend row matches the expected columns
//   - request_count: a backend route received exactly N requests
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory store, a fixed wall clock, a
// deterministic logical clock and fixed ids, so traces can be compared
// against golden files.
package harness
