package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresAll   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [board]",
	Short: "Show high scores",
	Long: `Without a board, summarize every board that has recorded rounds.
With a board, display its top 10 results (or every result with --all).

Examples:
  t2048 scores
  t2048 scores 2048
  t2048 scores 2048_large --all
  t2048 scores 2048_mini --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "List every recorded round")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all rounds of the board")
}

func runScores(cmd *cobra.Command, args []string) {
	if len(args) == 1 && !registry.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown board %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 't2048 list' to see available boards.")
		os.Exit(1)
	}
	if flagScoresClear && len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --clear needs a board")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		err = printSummary(store)
	} else if flagScoresClear {
		err = store.ClearScores(args[0])
		if err == nil {
			fmt.Printf("Cleared all rounds of %s.\n", registry.Title(args[0]))
		}
	} else {
		err = printBoardScores(store, args[0])
	}

	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}

	fmt.Println("Results by board")
	fmt.Println()
	fmt.Printf("  %-18s  %-6s  %-4s  %-8s  %s\n", "Board", "Rounds", "Wins", "Best", "Best tile")
	fmt.Printf("  %-18s  %-6s  %-4s  %-8s  %s\n", "-----", "------", "----", "----", "---------")

	for _, g := range registry.List() {
		gs, ok := stats[g.ID]
		if !ok {
			fmt.Printf("  %-18s  %-6d  %-4s  %-8s  %s\n", g.Title, 0, "-", "-", "-")
			continue
		}
		fmt.Printf("  %-18s  %-6d  %-4d  %-8d  %d\n", g.Title, gs.GamesCount, gs.Wins, gs.HighScore, gs.BestTile)
	}
	return nil
}

func printBoardScores(store *storage.Store, gameID string) error {
	var (
		results []storage.Result
		err     error
	)
	if flagScoresAll {
		results, err = store.AllScores(gameID)
	} else {
		results, err = store.TopScores(gameID, 10)
	}
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", registry.Title(gameID))
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Printf("Play 't2048 play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-9s  %s\n", "Rank", "Score", "Tile", "Result", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-9s  %s\n", "----", "-----", "----", "------", "----")

	for i, r := range results {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-6d  %-9s  %s\n", i+1, r.Score, r.MaxTile, r.Outcome, dateStr)
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Best tile: %d  Rounds: %d  Wins: %d\n",
			stats.HighScore, stats.BestTile, stats.GamesCount, stats.Wins)
	}
	return nil
}
