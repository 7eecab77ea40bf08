package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/nanopost/internal/cli"
	"github.com/specialistvlad/nanopost/internal/hcl"
	"github.com/stretchr/testify/require"
)

// DirPlaceholder in an argument is replaced by the harness working directory.
const DirPlaceholder = "$DIR"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Output is everything the command tree printed, logs included.
	Output string
	Err    error
	// Dir is the temporary directory the files were written to.
	Dir string
}

// Path returns the absolute path of a file relative to the harness directory.
func (r *HarnessResult) Path(rel string) string {
	return filepath.Join(r.Dir, filepath.FromSlash(rel))
}

// RunIntegrationTest writes files into a fresh temporary directory and runs
// the nanopost command tree with args. Files under bin/ are executable. Every occurrence of DirPlaceholder in
// args is replaced by that directory. Logs are at debug level.
func RunIntegrationTest(t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		mode := os.FileMode(0o644)
		if strings.HasPrefix(name, "bin/") {
			mode = 0o755
		}
		require.NoError(t, os.WriteFile(p, []byte(content), mode))
	}

	full := []string{"--log-level", "debug"}
	for _, a := range args {
		full = append(full, strings.ReplaceAll(a, DirPlaceholder, dir))
	}

	out := &SafeBuffer{}
	err := cli.Execute(context.Background(), out, hcl.NewLoader(), full)

	t.Cleanup(func() {
		if os.Getenv("NANOPOST_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out.String())
		}
	})

	return &HarnessResult{Output: out.String(), Err: err, Dir: dir}
}
