package commands

import (
	"Wishwall/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when its arguments are invalid.
var ErrUsage = errors.New("usage")

// Command is a wishctl subcommand.
type Command interface {
	// Name as typed by the user, e.g. "wishes".
	Name() string
	Description() string
	// Usage line, e.g. "reply <id> <text>".
	Usage() string
	// Run gets the arguments after the command name.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// adminOnly marks commands that need the admin password; help lists them separately.
type adminOnly interface {
	AdminOnly() bool
}

var registry = map[string]Command{}

// Out — куда CLI пишет вывод. В тестах подменяется буфером.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Called from init() of each command file.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get looks a command up by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

func isAdmin(c Command) bool {
	a, ok := c.(adminOnly)
	return ok && a.AdminOnly()
}

// FormatGlobalUsage builds the help text: public commands first, then admin ones.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("Wishwall CLI\n\n")
	b.WriteString("Usage:\n  wishctl [--base-url <host:port>] [--https] <command> [args]\n")

	var public, admin []Command
	for _, c := range List() {
		if isAdmin(c) {
			admin = append(admin, c)
		} else {
			public = append(public, c)
		}
	}
	writeSection(&b, "Commands:", public)
	writeSection(&b, "Admin commands (ADMIN_PASSWORD or admin-login):", admin)
	return b.String()
}

func writeSection(b *strings.Builder, title string, cmds []Command) {
	if len(cmds) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, c := range cmds {
		fmt.Fprintf(b, "  %-40s %s\n", c.Usage(), c.Description())
	}
}
