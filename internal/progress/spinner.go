package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var frames = []string{"⡿", "⣟", "⣯", "⣷", "⣾", "⣽", "⣻", "⢿"}

var frameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

// Spinner animates a braille wheel on a single console line while a slow
// operation runs. It is not safe for concurrent Start calls.
type Spinner struct {
	Out      io.Writer
	Interval time.Duration

	label  string
	stopCh chan struct{}
	doneCh chan struct{}
}

func New() *Spinner {
	return &Spinner{
		Out:      os.Stderr,
		Interval: 100 * time.Millisecond,
	}
}

func (s *Spinner) Start(label string) {
	if s.stopCh != nil {
		return
	}
	s.label = label
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run()
}

// Stop halts the animation and erases the spinner line.
func (s *Spinner) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.stopCh = nil
	s.doneCh = nil
}

func (s *Spinner) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.stopCh:
			width := len([]rune(s.label)) + 2
			fmt.Fprintf(s.Out, "\r%s\r", strings.Repeat(" ", width))
			return
		case <-ticker.C:
			frame := frameStyle.Render(frames[i%len(frames)])
			fmt.Fprintf(s.Out, "\r%s %s", frame, s.label)
			i++
		}
	}
}
