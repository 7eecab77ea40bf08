package crab

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/registry"
	"github.com/specialistvlad/nanopost/internal/submission"
)

// DefaultCommand is the CRAB client executable looked up on PATH.
const DefaultCommand = "crab"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Submitter submits requests through the CRAB command-line client.
type Submitter struct {
	command  string
	workArea string
}

// New returns a submitter that writes configs under workArea and runs command.
func New(command, workArea string) (*Submitter, error) {
	if workArea == "" {
		return nil, fmt.Errorf("work area is required")
	}
	if command == "" {
		command = DefaultCommand
	}
	return &Submitter{command: command, workArea: workArea}, nil
}

// ConfigPath is where the python configuration for requestName is written.
func (s *Submitter) ConfigPath(requestName string) string {
	return filepath.Join(s.workArea, "crabConfig_"+requestName+".py")
}

// Submit renders req into the work area and runs `crab submit -c <file>`.
func (s *Submitter) Submit(ctx context.Context, req *submission.Request) error {
	logger := ctxlog.FromContext(ctx)

	cfg, err := RenderConfig(req)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.workArea, 0o755); err != nil {
		return fmt.Errorf("failed to create work area '%s': %w", s.workArea, err)
	}
	path := s.ConfigPath(req.General.RequestName)
	if err := os.WriteFile(path, cfg, 0o644); err != nil {
		return fmt.Errorf("failed to write CRAB config '%s': %w", path, err)
	}
	logger.Debug("Wrote CRAB config.", "path", path)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, s.command, "submit", "-c", path)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return fmt.Errorf("%s submit failed: %w", s.command, err)
		}
		return fmt.Errorf("%s submit failed: %w: %s", s.command, err, msg)
	}
	logger.Debug("CRAB client output.", "output", strings.TrimSpace(out.String()))
	return nil
}

// Register registers the submitter with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSubmitter("crab", &registry.RegisteredSubmitter{
		Description: "render a CRAB config and run the crab client",
		New: func(ctx context.Context, opts registry.Options) (submission.Submitter, error) {
			return New(opts.Command, opts.WorkArea)
		},
	})
}
