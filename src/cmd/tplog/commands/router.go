// FILE: tplog/src/cmd/tplog/commands/router.go
package commands

import (
	"fmt"
	"os"
	"sort"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// CommandRouter routes CLI arguments to the matching subcommand handler.
type CommandRouter struct {
	commands map[string]Handler
}

// NewCommandRouter creates the router with all available commands registered.
func NewCommandRouter() *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
	}

	router.commands["capture"] = NewCaptureCommand()
	router.commands["init"] = NewInitCommand()
	router.commands["token"] = NewTokenCommand()
	router.commands["version"] = NewVersionCommand()
	router.commands["help"] = NewHelpCommand(router)

	return router
}

// Route executes a subcommand when args name one. It reports false when the daemon should run instead.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}

	cmdName := args[1]

	for _, arg := range args[1:] {
		if arg == "-h" || arg == "--help" {
			if handler, exists := r.commands[cmdName]; exists && cmdName != "help" {
				fmt.Print(handler.Help())
				return true, nil
			}
			return true, r.commands["help"].Execute(nil)
		}
	}

	handler, exists := r.commands[cmdName]
	if !exists {
		if cmdName != "" && cmdName[0] != '-' {
			return false, fmt.Errorf("unknown command: %s\n\nRun 'tplog help' for usage", cmdName)
		}
		// A flag, the daemon handles it
		return false, nil
	}

	return true, handler.Execute(args[2:])
}

// GetCommand returns a command handler by name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommands returns all registered commands.
func (r *CommandRouter) GetCommands() map[string]Handler {
	return r.commands
}

// ShowCommands lists the subcommands on stderr.
func (r *CommandRouter) ShowCommands() {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", name, r.commands[name].Description())
	}
	fmt.Fprintln(os.Stderr, "\nUse 'tplog <command> --help' for command-specific help")
}

// coalesceString returns the first non-empty string.
func coalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
