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

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w while a slow step runs, such as
// Graphviz layout. The animation ends on stop or when ctx is done.
type spinner struct {
	w      io.Writer
	label  string
	quit   chan struct{}
	exited chan struct{}
	once   sync.Once
	mu     sync.Mutex
}

// startSpinner begins animating label on w.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	s := &spinner{
		w:      w,
		label:  label,
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go s.loop(ctx)
	return s
}

func (s *spinner) loop(ctx context.Context) {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-s.quit:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.label+"..."))
			s.mu.Unlock()
		}
	}
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.label)+6))
}

// stop ends the animation and clears the line. A non-nil err leaves a
// failure mark naming the step. Only the first call has any effect.
func (s *spinner) stop(err error) {
	s.once.Do(func() {
		close(s.quit)
		<-s.exited
		s.clear()
		if err != nil {
			printError(s.w, "%s failed", s.label)
		}
	})
}
