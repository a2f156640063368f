package utils

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var platformAliases = map[string]Platform{
	"lichess":   PlatformLichess,
	"li":        PlatformLichess,
	"chess.com": PlatformChessCom,
	"chesscom":  PlatformChessCom,
	"cc":        PlatformChessCom,
}

// allowedTimeControls mirrors what each platform offers; chess.com has no classical pool.
var allowedTimeControls = map[Platform][]TimeControl{
	PlatformLichess:  {TimeControlBlitz, TimeControlRapid, TimeControlClassical},
	PlatformChessCom: {TimeControlBlitz, TimeControlRapid},
}

func ParsePlatform(s string) (Platform, error) {
	if p, ok := platformAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown platform: %q", s)
}

// ParseTimeControls accepts values that may themselves be comma separated.
// Order of first appearance is kept and duplicates are dropped.
func ParseTimeControls(values []string) ([]TimeControl, error) {
	var out []TimeControl
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			tc := TimeControl(part)
			switch tc {
			case TimeControlBlitz, TimeControlRapid, TimeControlClassical:
			default:
				return nil, fmt.Errorf("unknown time control: %q", part)
			}
			if !slices.Contains(out, tc) {
				out = append(out, tc)
			}
		}
	}
	return out, nil
}

// ParseDate parses YYYY-MM-DD as a UTC calendar day. Empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return &t, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize trims the username, reduces dates to UTC days and defaults the
// end date to the day of now.
func (r DownloadRequest) Normalize(now time.Time) DownloadRequest {
	out := r
	out.Username = strings.TrimSpace(r.Username)
	if r.StartDate != nil {
		start := truncateDay(*r.StartDate)
		out.StartDate = &start
	}
	end := truncateDay(now)
	if r.EndDate != nil {
		end = truncateDay(*r.EndDate)
	}
	out.EndDate = &end
	out.TimeControls = slices.Clone(r.TimeControls)
	if out.Platform == PlatformLichess && out.Format == "" {
		out.Format = "pgn"
	}
	return out
}

func (r DownloadRequest) Validate() error {
	if r.Username == "" {
		return &DownloadError{Kind: KindInvalidInput, Message: MsgMissingUsername, Platform: r.Platform, Err: ErrMissingUsername}
	}
	allowed, ok := allowedTimeControls[r.Platform]
	if !ok {
		return NewInvalidInputError(fmt.Sprintf("Unsupported platform: %q", r.Platform))
	}
	for _, tc := range r.TimeControls {
		if !slices.Contains(allowed, tc) {
			return NewInvalidInputError(fmt.Sprintf("Time control %q is not available on %s", tc, r.Platform))
		}
	}
	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return NewInvalidInputError(fmt.Sprintf("Start date %s is after end date %s",
			r.StartDate.Format(DateLayout), r.EndDate.Format(DateLayout)))
	}
	if r.Format != "" && r.Format != "pgn" && r.Format != "ndjson" {
		return NewInvalidInputError(fmt.Sprintf("Unsupported format: %q", r.Format))
	}
	if r.Platform == PlatformChessCom && r.Format == "ndjson" {
		return NewInvalidInputError("chess.com archives are only available as PGN")
	}
	return nil
}

// MonthsBetween returns every calendar month from start's month to end's
// month inclusive, ascending. The day of month is ignored.
func MonthsBetween(start, end time.Time) []MonthUnit {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	var months []MonthUnit
	for !cur.After(last) {
		months = append(months, MonthUnit{Year: cur.Year(), Month: cur.Month()})
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// RequestFromEntry converts a batch file entry into a download request.
func RequestFromEntry(entry DownloadEntry) (DownloadRequest, error) {
	platform, err := ParsePlatform(entry.Platform)
	if err != nil {
		return DownloadRequest{}, err
	}
	start, err := ParseDate(entry.Since)
	if err != nil {
		return DownloadRequest{}, err
	}
	end, err := ParseDate(entry.Until)
	if err != nil {
		return DownloadRequest{}, err
	}
	tcs, err := ParseTimeControls(entry.TimeControls)
	if err != nil {
		return DownloadRequest{}, err
	}
	return DownloadRequest{
		Platform:     platform,
		Username:     entry.Username,
		StartDate:    start,
		EndDate:      end,
		TimeControls: tcs,
		Format:       entry.Format,
	}, nil
}
