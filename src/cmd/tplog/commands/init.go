// FILE: tplog/src/cmd/tplog/commands/init.go
package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"tplog/src/internal/config"
)

// InitCommand writes a default configuration file
type InitCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		output: os.Stdout,
		errOut: os.Stderr,
	}
}

func (ic *InitCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("init", flag.ContinueOnError)
	cmd.SetOutput(ic.errOut)

	var (
		path     = cmd.String("o", "tplog.toml", "Output path")
		pathLong = cmd.String("output", "", "Output path")
		force    = cmd.Bool("force", false, "Overwrite an existing file")
	)

	cmd.Usage = func() {
		fmt.Fprint(ic.errOut, ic.Help())
		fmt.Fprintln(ic.errOut, "\nOptions:")
		cmd.PrintDefaults()
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}

	target := coalesceString(*pathLong, *path)
	if err := config.Defaults().SaveToFile(target, *force); err != nil {
		return err
	}

	fmt.Fprintf(ic.output, "Default configuration written to %s\n", target)
	return nil
}

func (ic *InitCommand) Description() string {
	return "Write a default configuration file"
}

func (ic *InitCommand) Help() string {
	return `Init Command - Write a default configuration file

Usage:
  tplog init [-o path] [-force]

The file holds one stderr logger named 'default' and the
fs-task-processor; edit it and start with 'tplog -config <path>'.
`
}
