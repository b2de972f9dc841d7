// Package output saves resolved games to disk.
package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/pgnfetch/pkg/models"
)

// SavePGN writes the resolved games of games to path, separated by a
// blank line. Failed games are skipped. With appendMode the games are
// added after the existing content of path. Returns the number of games
// written.
func SavePGN(games []*models.GameData, path, lineEnding string, appendMode bool) (int, error) {
	if lineEnding == "" {
		lineEnding = "\n"
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var b strings.Builder
	written := 0
	for _, g := range games {
		if !g.OK() {
			continue
		}
		b.WriteString(g.PGN)
		b.WriteString(lineEnding)
		b.WriteString(lineEnding)
		written++
	}
	if _, err := file.WriteString(b.String()); err != nil {
		return 0, err
	}
	return written, file.Close()
}

// Save picks the export format from the extension of path: .json, .csv,
// anything else is PGN.
func Save(games []*models.GameData, path, lineEnding string, appendMode bool) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SaveJSON(games, path)
	case ".csv":
		return SaveCSV(games, path)
	default:
		_, err := SavePGN(games, path, lineEnding, appendMode)
		return err
	}
}
