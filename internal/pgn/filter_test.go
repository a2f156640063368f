package pgn

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/chessdl/internal/utils"
)

const twoMonths = `[Event "Live Chess"]
[White "a"]
[TimeControl "60"]

1. e4 e5 2. Nf3 1-0

[Event "Live Chess"]
[TimeControl "300"]

1. d4 d5 1/2-1/2
[Event "Live Chess"]
[TimeControl "600+5"]

1. c4 0-1

[Event "Daily"]
[TimeControl "1/259200"]

1. f4 *
`

func TestSplit(t *testing.T) {
	games, err := Split(twoMonths)
	require.NoError(t, err)
	require.Len(t, games, 4)
	assert.Equal(t, "a", games[0].Tags["White"])
	assert.Equal(t, "300", games[1].Tags["TimeControl"])
	assert.Contains(t, games[2].Text, "1. c4 0-1")
	assert.Equal(t, "Daily", games[3].Tags["Event"])
}

func TestSplitEmpty(t *testing.T) {
	games, err := Split("\n\n")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestSplitReportsOverlongLine(t *testing.T) {
	stream := twoMonths + "\n" + strings.Repeat("x", 17<<20) + "\n" + twoMonths
	games, err := Split(stream)
	require.Error(t, err)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Len(t, games, 4)

	out, _, _, err := FilterTimeClasses(stream, []utils.TimeControl{utils.TimeControlBlitz})
	require.Error(t, err)
	assert.Equal(t, stream, out)
}

func TestTimeClass(t *testing.T) {
	tests := map[string]string{
		"60":       ClassBullet,
		"120+1":    ClassBullet,
		"180":      ClassBlitz,
		"180+2":    ClassBlitz,
		"300+5":    ClassBlitz,
		"600":      ClassRapid,
		"1800":     ClassRapid,
		"1/86400":  ClassDaily,
		"-":        ClassOther,
		"300+fast": ClassOther,
	}
	for tc, want := range tests {
		assert.Equal(t, want, TimeClass(tc), tc)
	}
}

func TestFilterTimeClasses(t *testing.T) {
	out, kept, total, err := FilterTimeClasses(twoMonths, []utils.TimeControl{utils.TimeControlBlitz, utils.TimeControlRapid})
	require.NoError(t, err)
	assert.Equal(t, 2, kept)
	assert.Equal(t, 4, total)
	assert.Contains(t, out, `[TimeControl "300"]`)
	assert.Contains(t, out, `[TimeControl "600+5"]`)
	assert.NotContains(t, out, `[TimeControl "60"]`)
	assert.NotContains(t, out, "Daily")
}

func TestFilterWithoutSelectionKeepsStream(t *testing.T) {
	out, kept, total, err := FilterTimeClasses(twoMonths, nil)
	require.NoError(t, err)
	assert.Equal(t, twoMonths, out)
	assert.Equal(t, 4, kept)
	assert.Equal(t, 4, total)
}
