package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a single status line on w until stopped or until its
// context ends. The label can change while it runs.
type spinner struct {
	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	exited chan struct{}

	mu    sync.Mutex
	label string
	width int
}

func startSpinner(parent context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	s := &spinner{w: w, parent: parent, ctx: ctx, cancel: cancel, exited: make(chan struct{}), label: label}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.exited)
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.mu.Lock()
			line := fmt.Sprintf("%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.label))
			s.width = max(s.width, len(s.label)+2)
			fmt.Fprintf(s.w, "\r%s", line)
			s.mu.Unlock()
		}
	}
}

// SetLabel replaces the text next to the animation.
func (s *spinner) SetLabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// Stop ends the animation and erases the line. It is safe to call more
// than once.
func (s *spinner) Stop() {
	s.once.Do(s.cancel)
	<-s.exited
}

// Interrupted reports whether the parent context ended before Stop.
func (s *spinner) Interrupted() bool {
	return s.parent.Err() != nil
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}
