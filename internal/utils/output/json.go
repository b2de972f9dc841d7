package output

import (
	"encoding/json"
	"os"

	"github.com/law-makers/pgnfetch/pkg/models"
)

// SaveJSON writes an indented JSON export of games to filepath. A single
// game is written as an object, several as an array.
func SaveJSON(games []*models.GameData, filepath string) error {
	var v any = games
	if len(games) == 1 {
		v = games[0]
	}
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, append(content, '\n'), 0644)
}
