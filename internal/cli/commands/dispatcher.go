package commands

import (
	"Wishwall/internal/config"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Exit codes returned by Dispatch.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Dispatch runs the command named by args[0] and returns a process exit code.
// args are the positional arguments left after global flags were parsed.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	if isHelp(name) {
		return dispatchHelp(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	// "--" только отделяет аргументы команды, сам он аргументом не является
	rest := args[1:]
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}

	err := c.Run(ctx, cfg, rest)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return ExitUsage
	default:
		fmt.Fprintf(Out, "%s error: %v\n", name, err)
		return ExitError
	}
}

// wishctl help [command]
func dispatchHelp(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	if c, ok := Get(args[0]); ok {
		fmt.Fprintf(Out, "Usage: %s\n  %s\n", c.Usage(), c.Description())
		return ExitOK
	}
	fmt.Fprintf(Out, "Unknown command: %s\n\n", args[0])
	fmt.Fprint(Out, FormatGlobalUsage())
	return ExitUsage
}

func isHelp(name string) bool {
	return name == "help" || name == "-h" || name == "--help"
}
