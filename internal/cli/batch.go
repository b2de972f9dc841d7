package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/pgnfetch/internal/ui"
	"github.com/law-makers/pgnfetch/internal/utils/output"
	urlutil "github.com/law-makers/pgnfetch/internal/utils/url"
	"github.com/law-makers/pgnfetch/pkg/models"
)

var (
	batchFile        string
	batchOutput      string
	batchAppend      bool
	batchConcurrency int
)

// batchCmd resolves many URLs concurrently
var batchCmd = &cobra.Command{
	Use:   "batch [url...]",
	Short: "Download many games concurrently",
	Long: `Resolves every URL given as argument or listed in --file, one per line.
Blank lines and lines starting with # are ignored.

Each site is rate limited on its own. Failed URLs are reported at the end.`,
	Example: `  # Resolve a list into one PGN file
  pgnfetch batch --file games.txt --output games.pgn

  # Add two games to an existing database
  pgnfetch batch https://lichess.org/CA4bR2b8 https://lichess.org/study/XtFCFYlM -o db.pgn --append

  # Write a report of the resolution
  pgnfetch batch --file games.txt --output report.csv`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "File with one URL per line")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "File path to save output (supports .pgn, .json, .csv)")
	batchCmd.Flags().BoolVar(&batchAppend, "append", false, "Append games to an existing PGN file")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Parallel resolutions (0 uses the configured value)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	urls := append([]string(nil), args...)
	if batchFile != "" {
		listed, err := readURLList(batchFile)
		if err != nil {
			return err
		}
		urls = append(urls, listed...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URL given (pass URLs as arguments or use --file)")
	}

	position := make(map[string]int, len(urls))
	requests := make([]models.ResolveOptions, 0, len(urls))
	for i, u := range urls {
		u = urlutil.Normalize(u)
		if _, seen := position[u]; !seen {
			position[u] = i
		}
		requests = append(requests, models.ResolveOptions{URL: u})
	}

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = a.Config.BatchConcurrency
	}

	quiet := a.Config.JSONLog || a.Config.LogLevel == "error"
	bar := progressbar.NewOptions(len(requests),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Resolving"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(!quiet),
	)

	var games []*models.GameData
	for res := range a.Resolver.ResolveBatch(cmd.Context(), requests, concurrency) {
		if res.Error != nil {
			log.Debug().Err(res.Error).Str("url", res.Data.URL).Msg("Resolution failed")
		}
		games = append(games, res.Data)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	sort.SliceStable(games, func(i, j int) bool {
		return position[games[i].URL] < position[games[j].URL]
	})

	var failed []*models.GameData
	for _, g := range games {
		if !g.OK() {
			failed = append(failed, g)
		}
	}

	if batchOutput != "" {
		if err := output.Save(games, batchOutput, lineEnding(a), batchAppend); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		log.Info().Str("file", batchOutput).Msg("Output saved")
	} else {
		le := lineEnding(a)
		for _, g := range games {
			if g.OK() {
				fmt.Fprint(cmd.OutOrStdout(), g.PGN+le+le)
			}
		}
	}

	stderr := cmd.ErrOrStderr()
	for _, g := range failed {
		fmt.Fprintf(stderr, "%s %s: %s\n", ui.Error("✗"), g.URL, g.Error)
	}
	fmt.Fprintf(stderr, "%s %d of %d games resolved\n", ui.Success("✓"), len(games)-len(failed), len(requests))

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d URLs failed", len(failed), len(requests))
	}
	return nil
}

// readURLList reads one URL per line, skipping blank lines and comments
func readURLList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return urls, nil
}
