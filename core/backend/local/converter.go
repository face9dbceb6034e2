package local

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"
)

// Job is one conversion handed to a Converter.
type Job struct {
	Kind       backend.OperationKind
	Descriptor descriptor.Descriptor
	// DataDir is the game data folder.
	DataDir string
	// Input is the export file for Generate; empty for Export.
	Input string
	// Output is the file to write.
	Output string
}

// Converter performs the actual DAT conversions.
type Converter interface {
	// Convert runs job and returns once Output is written.
	Convert(ctx context.Context, job Job) error
	// Check reports whether the game data holds a DAT for d.
	Check(ctx context.Context, dataDir string, d descriptor.Descriptor) error
}

// ExecConverter shells out to an external converter:
//
//	<command> export   <data_dir> <descriptor> <out>
//	<command> generate <data_dir> <in> <out>
//	<command> check    <data_dir> <descriptor>
type ExecConverter struct {
	Command string
}

// Convert implements Converter.
func (c ExecConverter) Convert(ctx context.Context, job Job) error {
	switch job.Kind {
	case backend.OperationExport:
		return c.run(ctx, "export", job.DataDir, job.Descriptor.String(), job.Output)
	case backend.OperationGenerate:
		return c.run(ctx, "generate", job.DataDir, job.Input, job.Output)
	default:
		return fmt.Errorf("unknown operation %q", job.Kind)
	}
}

// Check implements Converter.
func (c ExecConverter) Check(ctx context.Context, dataDir string, d descriptor.Descriptor) error {
	return c.run(ctx, "check", dataDir, d.String())
}

func (c ExecConverter) run(ctx context.Context, args ...string) error {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("%s %s: %s", c.Command, args[0], msg)
		}
		return fmt.Errorf("%s %s: %w", c.Command, args[0], err)
	}
	return nil
}
