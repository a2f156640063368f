package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  []MonthUnit
	}{
		{
			name:  "partial months at both ends",
			start: "2024-01-15",
			end:   "2024-03-10",
			want:  []MonthUnit{{2024, time.January}, {2024, time.February}, {2024, time.March}},
		},
		{
			name:  "same month",
			start: "2024-05-01",
			end:   "2024-05-31",
			want:  []MonthUnit{{2024, time.May}},
		},
		{
			name:  "across year boundary",
			start: "2023-11-30",
			end:   "2024-01-01",
			want:  []MonthUnit{{2023, time.November}, {2023, time.December}, {2024, time.January}},
		},
		{
			name:  "start day after end day in later month",
			start: "2024-01-31",
			end:   "2024-02-01",
			want:  []MonthUnit{{2024, time.January}, {2024, time.February}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthsBetween(*day(t, tt.start), *day(t, tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthsBetweenEmptyWhenReversed(t *testing.T) {
	assert.Empty(t, MonthsBetween(*day(t, "2024-03-01"), *day(t, "2024-01-01")))
}

func TestMonthUnitString(t *testing.T) {
	assert.Equal(t, "2024/03", MonthUnit{Year: 2024, Month: time.March}.String())
}

func TestParseTimeControls(t *testing.T) {
	tcs, err := ParseTimeControls([]string{"Blitz, rapid", "blitz", ""})
	require.NoError(t, err)
	assert.Equal(t, []TimeControl{TimeControlBlitz, TimeControlRapid}, tcs)

	_, err = ParseTimeControls([]string{"bullet"})
	assert.Error(t, err)
}

func TestParsePlatform(t *testing.T) {
	for in, want := range map[string]Platform{"lichess": PlatformLichess, "CC": PlatformChessCom, " chess.com ": PlatformChessCom} {
		got, err := ParsePlatform(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePlatform("fics")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
}

func TestNormalizeDefaultsEndDate(t *testing.T) {
	now := time.Date(2024, time.June, 9, 17, 45, 0, 0, time.UTC)
	req := DownloadRequest{Platform: PlatformLichess, Username: "  magnus "}.Normalize(now)
	assert.Equal(t, "magnus", req.Username)
	require.NotNil(t, req.EndDate)
	assert.Equal(t, time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC), *req.EndDate)
	assert.Nil(t, req.StartDate)
	assert.Equal(t, "pgn", req.Format)
}

func TestValidate(t *testing.T) {
	now := time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		req  DownloadRequest
		ok   bool
	}{
		{"valid lichess", DownloadRequest{Platform: PlatformLichess, Username: "a", TimeControls: []TimeControl{TimeControlClassical}}, true},
		{"missing username", DownloadRequest{Platform: PlatformLichess, Username: "   "}, false},
		{"classical on chess.com", DownloadRequest{Platform: PlatformChessCom, Username: "a", TimeControls: []TimeControl{TimeControlClassical}}, false},
		{"start after end", DownloadRequest{Platform: PlatformChessCom, Username: "a", StartDate: day(t, "2024-05-02"), EndDate: day(t, "2024-05-01")}, false},
		{"unknown platform", DownloadRequest{Platform: "fics", Username: "a"}, false},
		{"ndjson on chess.com", DownloadRequest{Platform: PlatformChessCom, Username: "a", Format: "ndjson"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Normalize(now).Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, KindInvalidInput, KindOf(err))
		})
	}
}

func TestMissingUsernameMessage(t *testing.T) {
	err := DownloadRequest{Platform: PlatformLichess}.Validate()
	require.Error(t, err)
	assert.Equal(t, MsgMissingUsername, err.Error())
	assert.True(t, errors.Is(err, ErrMissingUsername))
}

func TestSuggestedFileName(t *testing.T) {
	assert.Equal(t, "hikaru_chess.com_games.pgn", DownloadRequest{Platform: PlatformChessCom, Username: "hikaru"}.SuggestedFileName())
}

func TestRequestFromEntry(t *testing.T) {
	req, err := RequestFromEntry(DownloadEntry{
		Platform:     "chesscom",
		Username:     "hikaru",
		Since:        "2024-01-01",
		TimeControls: []string{"blitz"},
	})
	require.NoError(t, err)
	assert.Equal(t, PlatformChessCom, req.Platform)
	assert.Equal(t, *day(t, "2024-01-01"), *req.StartDate)
	assert.Nil(t, req.EndDate)
	assert.Equal(t, []TimeControl{TimeControlBlitz}, req.TimeControls)

	_, err = RequestFromEntry(DownloadEntry{Platform: "lichess", Username: "x", Until: "yesterday"})
	assert.Error(t, err)
}
