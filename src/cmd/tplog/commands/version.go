// FILE: tplog/src/cmd/tplog/commands/version.go
package commands

import (
	"fmt"

	"tplog/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct{}

func NewVersionCommand() *VersionCommand {
	return &VersionCommand{}
}

func (c *VersionCommand) Execute(args []string) error {
	fmt.Println(version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show tplog version information

Usage:
  tplog version
  tplog -version
`
}
