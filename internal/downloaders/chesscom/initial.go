package chesscom

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tanq16/chessdl/internal/utils"
)

type ChessComDownloader struct {
	BaseURL string
}

func New(baseURL string) *ChessComDownloader {
	if baseURL == "" {
		baseURL = utils.ChessComBaseURL
	}
	return &ChessComDownloader{BaseURL: baseURL}
}

// archiveUnits spans the request window, falling back to the chess.com epoch
// and to now when either end is open.
func archiveUnits(req utils.DownloadRequest, now time.Time) []utils.MonthUnit {
	start := utils.ChessComEpoch
	if req.StartDate != nil {
		start = *req.StartDate
	}
	end := now
	if req.EndDate != nil {
		end = *req.EndDate
	}
	return utils.MonthsBetween(start, end)
}

func (d *ChessComDownloader) monthURL(username string, unit utils.MonthUnit) string {
	return fmt.Sprintf("%s/pub/player/%s/games/%d/%02d/pgn", d.BaseURL, url.PathEscape(username), unit.Year, int(unit.Month))
}

func (d *ChessComDownloader) buildRequest(ctx context.Context, username string, unit utils.MonthUnit) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.monthURL(username, unit), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating archive request: %v", err)
	}
	return req, nil
}
