package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Braille dot spinner frames.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\033[K"

// Spinner animates a progress line on w. The message can change while it
// runs, so long operations can report which stage they are in.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	message string
	frame   int
	started bool
	stopped bool
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner returns a stopped spinner writing to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start animates until Stop. Calling it twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stage replaces the message shown next to the spinner.
func (s *Spinner) Stage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. When final is not empty it
// is written in place of the spinner.
func (s *Spinner) Stop(final string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	started := s.started
	close(s.stop)
	s.mu.Unlock()

	if started {
		<-s.done
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, clearLine)
	if final != "" {
		fmt.Fprintln(s.w, final)
	}
}

func (s *Spinner) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.w, spinnerLine(s.frame, s.message))
	s.frame++
}

func spinnerLine(frame int, message string) string {
	glyph := spinnerFrames[frame%len(spinnerFrames)]
	return fmt.Sprintf("\r  %s %s", StylePurple.Render(glyph), Dim(message))
}

// BackupProgress drives a spinner through the stages of a backup import or
// restore and reports the outcome.
type BackupProgress struct {
	spin *Spinner
	verb string
}

// StartBackupProgress starts a spinner on w while source is being read.
func StartBackupProgress(w io.Writer, verb, source string) *BackupProgress {
	s := NewSpinner(w, fmt.Sprintf("%s %s...", verb, source))
	s.Start()
	return &BackupProgress{spin: s, verb: verb}
}

// Replacing reports that the store is being rewritten. Methods on a nil
// *BackupProgress do nothing, for non-interactive runs.
func (p *BackupProgress) Replacing() {
	if p == nil {
		return
	}
	p.spin.Stage("Replacing schedules...")
}

// Done stops the spinner. A failure leaves a red marker line behind; the
// error itself is reported by the command.
func (p *BackupProgress) Done(err error) {
	if p == nil {
		return
	}
	if err != nil {
		p.spin.Stop(StyleRed.Render("✖ " + p.verb + " failed"))
		return
	}
	p.spin.Stop("")
}
