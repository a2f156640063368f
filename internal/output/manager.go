package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusSuccess = "success"
	StatusError   = "error"
	StatusWarning = "warning"
)

type SessionOutput struct {
	ID          int
	Label       string
	Status      string
	Message     string
	Progress    int
	ShowBar     bool
	Complete    bool
	StartTime   time.Time
	LastUpdated time.Time
	Error       error
}

type ErrorReport struct {
	Label string
	Error error
	Time  time.Time
}

type Manager struct {
	out         io.Writer
	interactive bool
	sessions    map[int]*SessionOutput
	mutex       sync.RWMutex
	numLines    int
	errors      []ErrorReport
	doneCh      chan struct{}
	displayTick time.Duration
	count       int
	displayWg   sync.WaitGroup
	stopOnce    sync.Once
}

func NewManager() *Manager {
	return NewManagerWithWriter(os.Stdout, isTerminal())
}

// NewManagerWithWriter skips live redraws when interactive is false and only
// prints the final summary.
func NewManagerWithWriter(out io.Writer, interactive bool) *Manager {
	return &Manager{
		out:         out,
		interactive: interactive,
		sessions:    make(map[int]*SessionOutput),
		doneCh:      make(chan struct{}),
		displayTick: 200 * time.Millisecond,
	}
}

func (m *Manager) Register(label string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.count++
	m.sessions[m.count] = &SessionOutput{
		ID:          m.count,
		Label:       label,
		Status:      StatusPending,
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
	}
	return m.count
}

func (m *Manager) update(id int, fn func(s *SessionOutput)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if s, exists := m.sessions[id]; exists {
		fn(s)
		s.LastUpdated = time.Now()
	}
}

func (m *Manager) SetMessage(id int, message string) {
	m.update(id, func(s *SessionOutput) {
		s.Message = message
		if s.Status == StatusPending {
			s.Status = StatusActive
		}
	})
}

func (m *Manager) SetProgress(id int, percent int) {
	m.update(id, func(s *SessionOutput) {
		s.Progress = max(0, min(percent, 100))
		s.ShowBar = true
		s.Status = StatusActive
	})
}

func (m *Manager) Complete(id int, message string) {
	m.update(id, func(s *SessionOutput) {
		if message == "" {
			message = fmt.Sprintf("Completed %s", s.Label)
		}
		s.Message = message
		s.Progress = 100
		s.ShowBar = false
		s.Complete = true
		s.Status = StatusSuccess
	})
}

// Warn finishes a session without counting it as a failure (e.g. cancelled).
func (m *Manager) Warn(id int, message string) {
	m.update(id, func(s *SessionOutput) {
		s.Message = message
		s.ShowBar = false
		s.Complete = true
		s.Status = StatusWarning
	})
}

func (m *Manager) ReportError(id int, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if s, exists := m.sessions[id]; exists {
		s.Complete = true
		s.ShowBar = false
		s.Status = StatusError
		s.Message = err.Error()
		s.Error = err
		s.LastUpdated = time.Now()
		m.errors = append(m.errors, ErrorReport{Label: s.Label, Error: err, Time: time.Now()})
	}
}

func (m *Manager) GetStatus(id int) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if s, exists := m.sessions[id]; exists {
		return s.Status
	}
	return "unknown"
}

func (m *Manager) Counts() (success, warnings, failures int) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for _, s := range m.sessions {
		switch s.Status {
		case StatusSuccess:
			success++
		case StatusWarning:
			warnings++
		case StatusError:
			failures++
		}
	}
	return success, warnings, failures
}

func statusIndicator(status string) string {
	switch status {
	case StatusSuccess:
		return successStyle.Render(StyleSymbols["pass"])
	case StatusError:
		return errorStyle.Render(StyleSymbols["fail"])
	case StatusWarning:
		return warningStyle.Render(StyleSymbols["warning"])
	case StatusPending:
		return pendingStyle.Render(StyleSymbols["pending"])
	default:
		return infoStyle.Render(StyleSymbols["bullet"])
	}
}

func styleMessage(status, message string) string {
	switch status {
	case StatusSuccess:
		return successStyle.Render(message)
	case StatusError:
		return errorStyle.Render(message)
	case StatusWarning:
		return warningStyle.Render(message)
	default:
		return pendingStyle.Render(message)
	}
}

func (m *Manager) ordered() []*SessionOutput {
	all := make([]*SessionOutput, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func (m *Manager) render() []string {
	var lines []string
	for _, s := range m.ordered() {
		elapsed := time.Since(s.StartTime).Round(time.Second)
		if s.Complete {
			elapsed = s.LastUpdated.Sub(s.StartTime).Round(time.Second)
		}
		message := s.Message
		if message == "" {
			message = "Waiting..."
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %s", strings.Repeat(" ", 2), statusIndicator(s.Status),
			debugStyle.Render(elapsed.String()), styleMessage(s.Status, message)))
		if s.ShowBar {
			lines = append(lines, strings.Repeat(" ", 2+4)+ProgressBar(s.Progress, 30)+streamStyle.Render(s.Label))
		}
	}
	return lines
}

func (m *Manager) updateDisplay() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	lines := m.render()
	available := getTerminalHeight() - 3
	if len(lines) > available && available > 0 {
		lines = lines[len(lines)-available:]
	}
	if m.numLines > 0 {
		fmt.Fprintf(m.out, "\033[%dA\033[J", m.numLines)
	}
	for _, line := range lines {
		fmt.Fprintln(m.out, line)
	}
	m.numLines = len(lines)
}

func (m *Manager) StartDisplay() {
	if !m.interactive {
		return
	}
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.updateDisplay()
			case <-m.doneCh:
				m.updateDisplay()
				return
			}
		}
	}()
}

func (m *Manager) StopDisplay() {
	m.stopOnce.Do(func() {
		close(m.doneCh)
		m.displayWg.Wait()
		if !m.interactive {
			m.mutex.RLock()
			for _, line := range m.render() {
				fmt.Fprintln(m.out, line)
			}
			m.mutex.RUnlock()
		}
		m.ShowSummary()
	})
}

func (m *Manager) displayErrors() {
	if len(m.errors) == 0 {
		return
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+errorStyle.Bold(true).Render("Errors:"))
	for i, err := range m.errors {
		fmt.Fprintf(m.out, "%s%s %s %s\n",
			strings.Repeat(" ", 2+2),
			errorStyle.Render(fmt.Sprintf("%d.", i+1)),
			debugStyle.Render(fmt.Sprintf("[%s]", err.Time.Format("15:04:05"))),
			errorStyle.Render(err.Label))
		fmt.Fprintf(m.out, "%s%s\n", strings.Repeat(" ", 2+4), errorStyle.Render(fmt.Sprintf("Error: %v", err.Error)))
	}
}

func (m *Manager) ShowSummary() {
	success, warnings, failures := m.Counts()
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	total := len(m.sessions)
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+success2Style.Render(fmt.Sprintf("Completed %d of %d", success, total)))
	if warnings > 0 {
		fmt.Fprintln(m.out, strings.Repeat(" ", 2)+warningStyle.Render(fmt.Sprintf("Cancelled %d of %d", warnings, total)))
	}
	if failures > 0 {
		fmt.Fprintln(m.out, strings.Repeat(" ", 2)+errorStyle.Render(fmt.Sprintf("Failed %d of %d", failures, total)))
	}
	m.displayErrors()
	fmt.Fprintln(m.out)
}
