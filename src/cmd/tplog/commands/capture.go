// FILE: tplog/src/cmd/tplog/commands/capture.go
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tplog/src/internal/capture"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

// CaptureCommand runs a testsuite capture server and prints what it receives
type CaptureCommand struct {
	output io.Writer
	errOut io.Writer
}

func NewCaptureCommand() *CaptureCommand {
	return &CaptureCommand{
		output: os.Stdout,
		errOut: os.Stderr,
	}
}

func (cc *CaptureCommand) Execute(args []string) error {
	cmd := flag.NewFlagSet("capture", flag.ContinueOnError)
	cmd.SetOutput(cc.errOut)

	addr := cmd.String("addr", "127.0.0.1:9999", "Listen address matching the default logger's testsuite_capture")
	timestamps := cmd.Bool("timestamps", false, "Prefix lines with receive time (default on a terminal)")

	cmd.Usage = func() {
		fmt.Fprint(cc.errOut, cc.Help())
		fmt.Fprintln(cc.errOut, "\nOptions:")
		cmd.PrintDefaults()
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}

	stamp := *timestamps
	if f, ok := cc.output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		stamp = true
	}

	var mu sync.Mutex
	srv := capture.NewServer(*addr, log.NewLogger())
	srv.OnLine(func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if stamp {
			fmt.Fprintf(cc.output, "%s %s\n", time.Now().Format("15:04:05.000"), line)
			return
		}
		fmt.Fprintln(cc.output, line)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start capture server: %w", err)
	}
	fmt.Fprintf(cc.errOut, "Capturing on %s, enable with POST /debug-capture?enabled=true\n", srv.Addr())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func (cc *CaptureCommand) Description() string {
	return "Listen for testsuite capture records"
}

func (cc *CaptureCommand) Help() string {
	return `Capture Command - Receive records from the default logger's testsuite capture sink

Usage:
  tplog capture [-addr host:port]

The daemon connects to this address when the default logger has
testsuite_capture configured and debug capture is enabled.
`
}
