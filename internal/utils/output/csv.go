package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/law-makers/pgnfetch/pkg/models"
)

// SaveCSV writes one report row per game to filepath. The PGN text itself
// is left out.
func SaveCSV(games []*models.GameData, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"url", "provider", "status", "error", "response_time_ms"}); err != nil {
		return err
	}
	for _, g := range games {
		status := "ok"
		if !g.OK() {
			status = "failed"
		}
		row := []string{g.URL, g.Provider, status, g.Error, strconv.FormatInt(g.ResponseTime, 10)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
