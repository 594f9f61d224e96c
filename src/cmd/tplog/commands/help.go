// FILE: tplog/src/cmd/tplog/commands/help.go
package commands

import (
	"fmt"
	"sort"
	"strings"
)

const generalHelpTemplate = `tplog: asynchronous log delivery daemon.

Usage:
  tplog [command] [options]
  tplog [options]

Commands:
%s

Application Options:
  -config <path>           Path to configuration file (default: ~/.config/tplog.toml)
  -version                 Display version information and exit
  -quiet                   Suppress all console output, including errors
  -log-level <level>       Diagnostics level: debug, info, warn, error (overrides config)
  -log-output <mode>       Diagnostics output: file, stdout, stderr, both, none (overrides config)

Signals:
  SIGUSR1                  Reopen every log file in append mode (log rotation)
  SIGINT, SIGTERM          Flush and stop all loggers, then exit

Environment:
  TPLOG_CONFIG_FILE                Config file path
  TPLOG_CONFIG_DIR                 Config directory
  TPLOG_DISABLE_STATUS_REPORTER    Disable periodic status reports (set to 1)

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - CLI flags override all other settings
  - Environment variables (TPLOG_*) override file settings
  - TOML configuration file is the primary method

Examples:
  # Start with a custom config
  tplog -config /etc/tplog/tplog.toml

  # Rotate externally moved files
  kill -USR1 $(pidof tplog)
`

// HelpCommand displays general or command-specific help.
type HelpCommand struct {
	router *CommandRouter
}

// NewHelpCommand creates a help command bound to router.
func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Execute(args []string) error {
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Print(handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Printf(generalHelpTemplate, c.formatCommandList())
	return nil
}

func (c *HelpCommand) Description() string {
	return "Display help information"
}

func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  tplog help              Show general help
  tplog help <command>    Show help for a specific command
`
}

// formatCommandList creates an aligned list of all available commands.
func (c *HelpCommand) formatCommandList() string {
	commands := c.router.GetCommands()

	names := make([]string, 0, len(commands))
	maxLen := 0
	for name := range commands {
		names = append(names, name)
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, commands[name].Description()))
	}

	return strings.Join(lines, "\n")
}
