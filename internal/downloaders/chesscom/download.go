package chesscom

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tanq16/chessdl/internal/utils"
)

// Fetch walks the monthly archives oldest first. A month that fails is logged
// and skipped; cancellation aborts the whole walk and drops what was gathered.
func (d *ChessComDownloader) Fetch(ctx context.Context, session *utils.Session) (string, error) {
	units := archiveUnits(session.Request, session.Now)
	session.Units = len(units)
	session.Logger.Info().Str("op", "chesscom/download").Msgf("fetching %d monthly archives for %s", len(units), session.Request.Username)

	var payload strings.Builder
	for i, unit := range units {
		if i > 0 {
			if err := session.Pause(ctx); err != nil {
				return "", utils.NewCancelledError(utils.PlatformChessCom, err)
			}
		}
		if err := session.Wait(ctx); err != nil {
			return "", utils.NewCancelledError(utils.PlatformChessCom, err)
		}
		if err := ctx.Err(); err != nil {
			return "", utils.NewCancelledError(utils.PlatformChessCom, err)
		}
		body, err := d.fetchMonth(ctx, session, unit)
		if err != nil {
			if ctx.Err() != nil {
				return "", utils.NewCancelledError(utils.PlatformChessCom, ctx.Err())
			}
			session.Logger.Warn().Str("op", "chesscom/download").Err(err).Msgf("skipping %s", unit)
			session.Skipped = append(session.Skipped, unit)
		} else {
			payload.WriteString(body)
			payload.WriteString("\n")
		}
		session.ReportProgress(unitProgress(i+1, len(units)))
	}
	return payload.String(), nil
}

func (d *ChessComDownloader) fetchMonth(ctx context.Context, session *utils.Session, unit utils.MonthUnit) (string, error) {
	req, err := d.buildRequest(ctx, session.Request.Username, unit)
	if err != nil {
		return "", err
	}
	session.Logger.Debug().Str("op", "chesscom/download").Msgf("requesting %s", req.URL)
	resp, err := session.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error executing archive request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("archive %s returned %s", unit, utils.StatusText(resp.StatusCode, resp.Status))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading archive %s: %w", unit, err)
	}
	return string(body), nil
}

func unitProgress(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
