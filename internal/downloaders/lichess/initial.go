package lichess

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tanq16/chessdl/internal/utils"
)

type LichessDownloader struct {
	BaseURL string
}

var acceptHeaders = map[string]string{
	"pgn":    "application/x-chess-pgn",
	"ndjson": "application/x-ndjson",
}

func New(baseURL string) *LichessDownloader {
	if baseURL == "" {
		baseURL = utils.LichessBaseURL
	}
	return &LichessDownloader{BaseURL: baseURL}
}

// exportQuery encodes the filter for the user games export. since is left out
// entirely without a start date; until is the first instant of the end day,
// so games played on that day are not included.
func exportQuery(req utils.DownloadRequest) url.Values {
	params := url.Values{}
	if req.EndDate != nil {
		params.Set("until", strconv.FormatInt(req.EndDate.UnixMilli(), 10))
	}
	if tcs := req.JoinedTimeControls(); tcs != "" {
		params.Set("perfType", tcs)
	}
	params.Set("clocks", "true")
	params.Set("evals", "true")
	params.Set("opening", "true")
	if req.StartDate != nil {
		params.Set("since", strconv.FormatInt(req.StartDate.UnixMilli(), 10))
	}
	return params
}

func (d *LichessDownloader) buildRequest(ctx context.Context, req utils.DownloadRequest) (*http.Request, error) {
	exportURL := fmt.Sprintf("%s/api/games/user/%s?%s", d.BaseURL, url.PathEscape(req.Username), exportQuery(req).Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating export request: %v", err)
	}
	accept, ok := acceptHeaders[req.Format]
	if !ok {
		accept = acceptHeaders["pgn"]
	}
	httpReq.Header.Set("Accept", accept)
	return httpReq, nil
}
