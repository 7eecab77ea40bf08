package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/nanopost/internal/hcl"
	"github.com/specialistvlad/nanopost/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance with debug logging and the HCL
// loader. With no modules, the core modules are registered.
func SetupAppTest(t *testing.T, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	cfg, err := NewConfig(Config{LogLevel: "debug", LogFormat: "text"})
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	testApp := NewApp(logBuffer, cfg, hcl.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("NANOPOST_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
