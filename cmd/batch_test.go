package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/chessdl/internal/utils"
)

func TestBuildJobsFromBatch(t *testing.T) {
	data := []byte(`
downloads:
  - platform: lichess
    username: DrNykterstein
    since: 2024-01-01
    time-controls: [blitz, classical]
    format: ndjson
  - platform: chess.com
    username: hikaru
    until: 2023-12-31
    op: archives/hikaru.pgn
  - platform: fics
    username: nobody
  - platform: cc
    username: broken
    since: 01/01/2024
`)
	jobs, err := buildJobsFromBatch(data, "s3://bucket/pgn/")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, utils.PlatformLichess, jobs[0].Request.Platform)
	assert.Equal(t, "DrNykterstein", jobs[0].Request.Username)
	assert.Equal(t, []utils.TimeControl{utils.TimeControlBlitz, utils.TimeControlClassical}, jobs[0].Request.TimeControls)
	assert.Equal(t, "ndjson", jobs[0].Request.Format)
	assert.Equal(t, "s3://bucket/pgn/", jobs[0].OutputPath)
	require.NotNil(t, jobs[0].Request.StartDate)
	assert.Nil(t, jobs[0].Request.EndDate)

	assert.Equal(t, utils.PlatformChessCom, jobs[1].Request.Platform)
	assert.Equal(t, "archives/hikaru.pgn", jobs[1].OutputPath)
	require.NotNil(t, jobs[1].Request.EndDate)
}

func TestBuildJobsFromBatchInvalidYAML(t *testing.T) {
	_, err := buildJobsFromBatch([]byte("downloads: [unclosed"), "")
	assert.Error(t, err)
}

func TestGameFlagsRequest(t *testing.T) {
	flags := gameFlags{since: "2024-02-01", timeControls: []string{"rapid,blitz"}}
	req, err := flags.request(utils.PlatformChessCom, "hikaru")
	require.NoError(t, err)
	assert.Equal(t, []utils.TimeControl{utils.TimeControlRapid, utils.TimeControlBlitz}, req.TimeControls)
	require.NotNil(t, req.StartDate)
	assert.Nil(t, req.EndDate)

	flags.until = "soon"
	_, err = flags.request(utils.PlatformChessCom, "hikaru")
	assert.Error(t, err)
}
