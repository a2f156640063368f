package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Platform string

const (
	PlatformLichess  Platform = "lichess"
	PlatformChessCom Platform = "chess.com"
)

// Platforms lists every supported platform; the scheduler registry must cover all of them.
var Platforms = []Platform{PlatformLichess, PlatformChessCom}

type TimeControl string

const (
	TimeControlBlitz     TimeControl = "blitz"
	TimeControlRapid     TimeControl = "rapid"
	TimeControlClassical TimeControl = "classical"
)

// Fetcher is implemented once per platform. It turns a validated session into
// the concatenated text payload for that platform.
type Fetcher interface {
	Fetch(ctx context.Context, session *Session) (string, error)
}

type ProgressFunc func(percent int)

type DownloadRequest struct {
	Platform     Platform
	Username     string
	StartDate    *time.Time
	EndDate      *time.Time
	TimeControls []TimeControl
	Format       string // lichess only: "pgn" or "ndjson"
}

type MonthUnit struct {
	Year  int
	Month time.Month
}

func (m MonthUnit) String() string {
	return fmt.Sprintf("%04d/%02d", m.Year, int(m.Month))
}

type DownloadResult struct {
	Payload      string
	FileName     string
	Units        int
	SkippedUnits []MonthUnit
}

// Session is everything a Fetcher needs for one download. It lives exactly as
// long as one orchestrator invocation.
type Session struct {
	ID       string
	Request  DownloadRequest
	Client   HTTPDoer
	Progress ProgressFunc
	Limiter  *rate.Limiter // shared by every session of one orchestrator
	Delay    time.Duration // fixed pause between paginated units
	Logger   zerolog.Logger
	Now      time.Time
	Skipped  []MonthUnit
	Units    int
}

func (s *Session) ReportProgress(percent int) {
	if s.Progress != nil {
		s.Progress(percent)
	}
}

// Wait blocks on the request rate cap; it returns early with the context error on cancellation.
func (s *Session) Wait(ctx context.Context) error {
	if s.Limiter == nil {
		return ctx.Err()
	}
	if err := s.Limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// limiter refuses waits that would overrun the deadline
		return context.DeadlineExceeded
	}
	return nil
}

// Pause sleeps the fixed inter-unit delay, counted from the end of the previous
// response. Cancellation ends it early with the context error.
func (s *Session) Pause(ctx context.Context) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type DownloadEntry struct {
	Platform     string   `yaml:"platform"`
	Username     string   `yaml:"username"`
	Since        string   `yaml:"since,omitempty"`
	Until        string   `yaml:"until,omitempty"`
	TimeControls []string `yaml:"time-controls,omitempty"`
	Format       string   `yaml:"format,omitempty"`
	OutputPath   string   `yaml:"op,omitempty"`
}

// SuggestedFileName is the archive name handed to the emitter.
func (r DownloadRequest) SuggestedFileName() string {
	return fmt.Sprintf("%s_%s_games.pgn", r.Username, r.Platform)
}

func (r DownloadRequest) timeControlStrings() []string {
	out := make([]string, 0, len(r.TimeControls))
	for _, tc := range r.TimeControls {
		out = append(out, string(tc))
	}
	return out
}

// JoinedTimeControls returns the comma separated filter, empty meaning all.
func (r DownloadRequest) JoinedTimeControls() string {
	return strings.Join(r.timeControlStrings(), ",")
}
