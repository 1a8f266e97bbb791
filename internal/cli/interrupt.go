// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a running analysis on SIGINT/SIGTERM and tells
// the user what happened.
type InterruptHandler struct {
	writer      io.Writer
	mu          sync.Mutex
	interrupted bool
}

// NewInterruptHandler creates a handler writing its message to writer.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{writer: writer}
}

// HandleInterrupts returns a child context canceled on the first interrupt
// signal. The message is printed at most once.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		h.mu.Lock()
		first := !h.interrupted
		h.interrupted = true
		h.mu.Unlock()

		if first {
			fmt.Fprint(h.writer, "\n\n"+
				FormatWarning("Analysis interrupted!")+"\n"+
				FormatInfo("Partial results have not been saved. Re-run the command to analyze again.")+"\n")
		}
		cancel()
	}()

	return ctx
}

// WasInterrupted reports whether an interrupt signal was received.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
