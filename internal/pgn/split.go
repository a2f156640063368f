package pgn

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]\s*$`)

type Game struct {
	Tags map[string]string
	Text string
}

// Split breaks a PGN stream into games. A tag line that follows movetext
// starts a new game. A read error (such as a line past the 16MB limit) is
// returned with the games gathered so far.
func Split(stream string) ([]Game, error) {
	var games []Game
	var current strings.Builder
	tags := map[string]string{}
	seenMoves := false
	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" {
			games = append(games, Game{Tags: tags, Text: text})
		}
		current.Reset()
		tags = map[string]string{}
		seenMoves = false
	}

	scanner := bufio.NewScanner(strings.NewReader(stream))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if m := tagPattern.FindStringSubmatch(trimmed); m != nil {
			if seenMoves {
				flush()
			}
			tags[m[1]] = m[2]
		} else if trimmed != "" {
			seenMoves = true
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()
	if err := scanner.Err(); err != nil {
		return games, fmt.Errorf("error reading pgn stream: %w", err)
	}
	return games, nil
}
