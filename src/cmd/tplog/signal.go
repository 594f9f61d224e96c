// FILE: tplog/src/cmd/tplog/signal.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/log"
)

// SignalHandler turns SIGUSR1 into rotation requests and reports termination signals
type SignalHandler struct {
	logger   *log.Logger
	sigChan  chan os.Signal
	rotation chan struct{}
}

func NewSignalHandler(logger *log.Logger) *SignalHandler {
	sh := &SignalHandler{
		logger:   logger,
		sigChan:  make(chan os.Signal, 1),
		rotation: make(chan struct{}, 1),
	}

	signal.Notify(sh.sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGUSR1, // log rotation
	)

	return sh
}

// RotationTrigger receives one message per SIGUSR1, coalescing requests that arrive mid-rotation
func (sh *SignalHandler) RotationTrigger() <-chan struct{} {
	return sh.rotation
}

// Handle blocks until a termination signal arrives or ctx ends
func (sh *SignalHandler) Handle(ctx context.Context) os.Signal {
	for {
		select {
		case sig := <-sh.sigChan:
			if sig == syscall.SIGUSR1 {
				sh.logger.Info("msg", "Rotation signal received", "signal", sig.String())
				select {
				case sh.rotation <- struct{}{}:
				default:
					sh.logger.Debug("msg", "Rotation already pending, signal coalesced")
				}
				continue
			}
			return sig
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop unregisters the signal channel
func (sh *SignalHandler) Stop() {
	signal.Stop(sh.sigChan)
}
