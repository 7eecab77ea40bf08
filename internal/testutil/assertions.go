package testutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/nanopost/internal/cli"
	"github.com/stretchr/testify/require"
)

// AssertLogged checks that a log record with the given message was emitted.
// Messages are matched the way the text handler quotes them.
func AssertLogged(t *testing.T, result *HarnessResult, msg string) {
	t.Helper()
	quoted := `msg="` + msg + `"`
	plain := "msg=" + msg + " "
	require.True(t,
		strings.Contains(result.Output, quoted) || strings.Contains(result.Output, plain),
		"expected log message %q was not found in output:\n%s", msg, result.Output,
	)
}

// AssertExitCode checks that the run failed with a usage error carrying code.
func AssertExitCode(t *testing.T, result *HarnessResult, code int) {
	t.Helper()
	var exitErr *cli.ExitError
	require.True(t, errors.As(result.Err, &exitErr), "expected *cli.ExitError, got %T: %v", result.Err, result.Err)
	require.Equal(t, code, exitErr.Code)
}
