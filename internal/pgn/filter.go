package pgn

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tanq16/chessdl/internal/utils"
)

const (
	ClassBullet = "bullet"
	ClassBlitz  = "blitz"
	ClassRapid  = "rapid"
	ClassDaily  = "daily"
	ClassOther  = "unknown"
)

// TimeClass classifies a chess.com TimeControl tag ("180+2", "600", "1/86400")
// by the estimated duration base + 40*increment seconds.
func TimeClass(timeControl string) string {
	timeControl = strings.TrimSpace(timeControl)
	if strings.Contains(timeControl, "/") {
		return ClassDaily
	}
	baseStr, incStr, _ := strings.Cut(timeControl, "+")
	base, err := strconv.Atoi(baseStr)
	if err != nil {
		return ClassOther
	}
	inc := 0
	if incStr != "" {
		if inc, err = strconv.Atoi(incStr); err != nil {
			return ClassOther
		}
	}
	estimate := base + 40*inc
	switch {
	case estimate < 180:
		return ClassBullet
	case estimate < 600:
		return ClassBlitz
	default:
		return ClassRapid
	}
}

// FilterTimeClasses keeps the games whose time class is requested. An empty
// request keeps the stream untouched. It returns the filtered stream, the
// number of games kept and the number seen. On a split error the stream is
// returned untouched.
func FilterTimeClasses(stream string, wanted []utils.TimeControl) (string, int, int, error) {
	games, err := Split(stream)
	if err != nil {
		return stream, len(games), len(games), err
	}
	if len(wanted) == 0 {
		return stream, len(games), len(games), nil
	}
	var out strings.Builder
	kept := 0
	for _, game := range games {
		class := TimeClass(game.Tags["TimeControl"])
		if !slices.Contains(wanted, utils.TimeControl(class)) {
			continue
		}
		out.WriteString(game.Text)
		out.WriteString("\n\n")
		kept++
	}
	return out.String(), kept, len(games), nil
}
