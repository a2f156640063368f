package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/chessdl/internal/downloaders/chesscom"
	"github.com/tanq16/chessdl/internal/downloaders/lichess"
	"github.com/tanq16/chessdl/internal/utils"
	"golang.org/x/time/rate"
)

type Config struct {
	HTTPClientConfig utils.HTTPClientConfig
	Client           utils.HTTPDoer // overrides HTTPClientConfig when set
	Delay            time.Duration
	LichessBaseURL   string
	ChessComBaseURL  string
	Now              func() time.Time
}

type Orchestrator struct {
	client   utils.HTTPDoer
	delay    time.Duration
	limiter  *rate.Limiter
	now      func() time.Time
	registry map[utils.Platform]utils.Fetcher
}

func New(cfg Config) *Orchestrator {
	client := cfg.Client
	if client == nil {
		client = utils.NewChessHTTPClient(cfg.HTTPClientConfig)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	delay := cfg.Delay
	if delay < 0 {
		delay = 0
	}
	return &Orchestrator{
		client:  client,
		delay:   delay,
		limiter: newLimiter(delay),
		now:     now,
		registry: map[utils.Platform]utils.Fetcher{
			utils.PlatformLichess:  lichess.New(cfg.LichessBaseURL),
			utils.PlatformChessCom: chesscom.New(cfg.ChessComBaseURL),
		},
	}
}

// Run performs one download session. ctx is the session's cancellation token;
// onProgress receives non-decreasing percentages and 100 on success.
func (o *Orchestrator) Run(ctx context.Context, req utils.DownloadRequest, onProgress utils.ProgressFunc) (utils.DownloadResult, error) {
	now := o.now()
	req = req.Normalize(now)
	if err := req.Validate(); err != nil {
		return utils.DownloadResult{}, err
	}
	fetcher, ok := o.registry[req.Platform]
	if !ok {
		return utils.DownloadResult{}, utils.NewInvalidInputError(fmt.Sprintf("Unsupported platform: %q", req.Platform))
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	tracker := &progressTracker{forward: onProgress}
	session := &utils.Session{
		ID:       uuid.NewString(),
		Request:  req,
		Client:   o.client,
		Progress: tracker.report,
		Limiter:  o.limiter,
		Delay:    o.delay,
		Now:      now,
	}
	session.Logger = log.With().Str("session", session.ID).Str("platform", string(req.Platform)).Logger()
	session.Logger.Info().Str("op", "scheduler/run").Msgf("starting download for %s", req.Username)

	payload, err := fetcher.Fetch(sessionCtx, session)
	if err != nil {
		err = normalizeError(req.Platform, err)
		if utils.IsCancelled(err) {
			session.Logger.Warn().Str("op", "scheduler/run").Msg("download cancelled")
		} else {
			session.Logger.Error().Str("op", "scheduler/run").Err(err).Msg("download failed")
		}
		return utils.DownloadResult{}, err
	}
	if strings.TrimSpace(payload) == "" {
		session.Logger.Warn().Str("op", "scheduler/run").Int("skipped", len(session.Skipped)).Msg("no games in payload")
		return utils.DownloadResult{}, utils.NewNoDataError(req.Platform)
	}
	tracker.finish()
	session.Logger.Info().Str("op", "scheduler/run").Int("skipped", len(session.Skipped)).Msgf("download complete (%s)", utils.FormatBytes(uint64(len(payload))))
	return utils.DownloadResult{
		Payload:      payload,
		FileName:     req.SuggestedFileName(),
		Units:        session.Units,
		SkippedUnits: session.Skipped,
	}, nil
}

// newLimiter caps request starts across all sessions, so back-to-back batch
// jobs cannot hit a platform faster than the delay.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// normalizeError folds every failure into a *utils.DownloadError.
func normalizeError(platform utils.Platform, err error) error {
	var de *utils.DownloadError
	if errors.As(err, &de) {
		if de.Platform == "" {
			de.Platform = platform
		}
		return de
	}
	if utils.IsContextError(err) {
		return utils.NewCancelledError(platform, err)
	}
	message := err.Error()
	if message == "" {
		message = utils.MsgGenericFailure
	}
	return &utils.DownloadError{Kind: utils.KindUnknown, Message: message, Platform: platform, Err: err}
}

type progressTracker struct {
	mu      sync.Mutex
	last    int
	emitted bool
	forward utils.ProgressFunc
}

// report forwards values verbatim except regressions, which are dropped.
func (p *progressTracker) report(percent int) {
	percent = max(0, min(percent, 100))
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.emitted && percent < p.last {
		return
	}
	p.last = percent
	p.emitted = true
	if p.forward != nil {
		p.forward(percent)
	}
}

// finish emits 100 unless the fetcher already got there.
func (p *progressTracker) finish() {
	p.mu.Lock()
	done := p.emitted && p.last == 100
	p.mu.Unlock()
	if !done {
		p.report(100)
	}
}
