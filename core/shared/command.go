package shared

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// RunCommand runs argv and returns its stdout. Stderr is forwarded to
// stderr when non-nil and included in the error on failure.
func RunCommand(ctx context.Context, dir string, argv []string, stderr io.Writer) ([]byte, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("empty command provided")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, errBuf bytes.Buffer
	cmd.Stdout = &stdout
	if stderr != nil {
		cmd.Stderr = io.MultiWriter(&errBuf, stderr)
	} else {
		cmd.Stderr = &errBuf
	}

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s failed: %w", argv[0], err)
	}
	return stdout.Bytes(), nil
}
