package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"planets-mapgen/internal/galaxy"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// GalaxyBuilder places star systems in memory without storing them.
type GalaxyBuilder interface {
	Build(ctx context.Context, req galaxy.GenerateRequest) (*galaxy.Galaxy, error)
}

// Dependencies wires runtime services.
type Dependencies struct {
	Galaxies  GalaxyBuilder
	JWTSecret string
	TokenTTL  time.Duration
	Version   string
}

var errVersionShown = fmt.Errorf("version shown")

// Execute runs the CLI with injected dependencies and returns the exit code.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil || errors.Is(err, errVersionShown) {
		return 0
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return 2
	}

	_, _ = fmt.Fprintln(stderr, err.Error())
	return 1
}
