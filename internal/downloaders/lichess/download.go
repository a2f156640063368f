package lichess

import (
	"context"
	"fmt"
	"io"

	"github.com/tanq16/chessdl/internal/utils"
)

// Fetch issues the single export request. Any non-success answer is fatal.
func (d *LichessDownloader) Fetch(ctx context.Context, session *utils.Session) (string, error) {
	if err := session.Wait(ctx); err != nil {
		return "", utils.NewCancelledError(utils.PlatformLichess, err)
	}
	req, err := d.buildRequest(ctx, session.Request)
	if err != nil {
		return "", err
	}
	session.Logger.Debug().Str("op", "lichess/download").Msgf("requesting %s", req.URL.Redacted())
	resp, err := session.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", utils.NewCancelledError(utils.PlatformLichess, ctx.Err())
		}
		return "", utils.NewNetworkError(utils.PlatformLichess,
			fmt.Sprintf("Failed to fetch Lichess games: %v", err), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		session.Logger.Error().Str("op", "lichess/download").Int("status", resp.StatusCode).Msg("export request rejected")
		return "", utils.NewStatusError(utils.PlatformLichess, "Lichess", resp.StatusCode, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return "", utils.NewCancelledError(utils.PlatformLichess, ctx.Err())
		}
		return "", utils.NewNetworkError(utils.PlatformLichess,
			fmt.Sprintf("Failed to read Lichess games: %v", err), err)
	}
	session.Logger.Info().Str("op", "lichess/download").Msgf("received %s for %s", utils.FormatBytes(uint64(len(body))), session.Request.Username)
	return string(body), nil
}
