package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/checkin/internal/apitest"
	"github.com/roach88/checkin/internal/store"
)

// testNow is a Monday.
var testNow = time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)

// newBackend starts the backend double over the default fixtures.
func newBackend(t *testing.T) (*apitest.Server, string) {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, apitest.Seed(context.Background(), st, apitest.DefaultFixtures()))

	var seq atomic.Int64
	srv := apitest.New(st,
		apitest.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		apitest.WithClock(func() time.Time { return testNow }),
		apitest.WithIDGenerator(func() string {
			return fmt.Sprintf("att-%04d", seq.Add(1))
		}),
	)
	hs := httptest.NewServer(srv.Router())
	t.Cleanup(hs.Close)
	return srv, hs.URL
}

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs cmd with args and stdin, capturing both streams.
func execute(cmd *cobra.Command, stdin string, args ...string) cmdResult {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return cmdResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

// executeRoot runs the full command tree.
func executeRoot(args ...string) cmdResult {
	return execute(NewRootCommand(), "", args...)
}
