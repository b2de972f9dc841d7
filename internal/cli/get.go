package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/pgnfetch/internal/app"
	"github.com/law-makers/pgnfetch/internal/resolver"
	"github.com/law-makers/pgnfetch/internal/ui"
	"github.com/law-makers/pgnfetch/internal/utils/output"
	urlutil "github.com/law-makers/pgnfetch/internal/utils/url"
	"github.com/law-makers/pgnfetch/pkg/models"
)

var getOutput string

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Download one game as PGN",
	Long: `Resolves the URL with the first provider that recognizes it and prints
the game as canonical PGN text.

Only the first game is kept when the page holds several.`,
	Example: `  # Print a lichess game
  pgnfetch get https://lichess.org/CA4bR2b8

  # Save a chess.com game
  pgnfetch get https://www.chess.com/live/game/123456789 --output=game.pgn

  # Export the result with timing details
  pgnfetch get https://lichess.org/training/daily --output=puzzle.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "File path to save output (supports .pgn, .json, .csv)")
}

func runGet(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	rawURL := urlutil.Normalize(args[0])

	log.Info().Str("url", rawURL).Msg("Resolving game")
	data, err := a.Resolver.Fetch(cmd.Context(), models.ResolveOptions{URL: rawURL})
	if err != nil {
		return err
	}

	if getOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), data.PGN)
		return nil
	}
	if err := output.Save([]*models.GameData{data}, getOutput, lineEnding(a), false); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	log.Info().Str("file", getOutput).Msg("Output saved")
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Saved %s game to %s\n", ui.Success("✓"), data.Provider, getOutput)
	return nil
}

// lineEnding returns the terminator the resolver writes
func lineEnding(a *app.Application) string {
	if le := a.Config.Terminator(); le != "" {
		return le
	}
	return resolver.HostLineEnding()
}
