// Command analyze plays seeded random games against configuration files and
// prints quick heuristics about them: how often a uniformly random player
// wins, the highest tile it reaches, and how many turns a game lasts.
//
// Usage:
//
//	analyze --games 200 --seed 7 --config-dir configs classic small
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var log = logrus.WithField("component", "analyze")

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Score int
	Turns int
	Won   bool
}

// Report aggregates the simulated games for one configuration file.
type Report struct {
	File      string
	Name      string
	GridSize  int
	WinTarget int
	Seed      int64
	Games     int
	Wins      int
	MaxScore  int
	// highest tile -> number of games that ended on it
	ScoreCounts map[int]int

	totalScore int
	totalTurns int
}

// WinRate returns the fraction of games that reached the win target.
func (r *Report) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// MeanScore returns the average highest tile.
func (r *Report) MeanScore() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.totalScore) / float64(r.Games)
}

// MeanTurns returns the average number of successful moves per game.
func (r *Report) MeanTurns() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.totalTurns) / float64(r.Games)
}

func (r *Report) add(g GameResult) {
	r.Games++
	if g.Won {
		r.Wins++
	}
	if g.Score > r.MaxScore {
		r.MaxScore = g.Score
	}
	r.ScoreCounts[g.Score]++
	r.totalScore += g.Score
	r.totalTurns += g.Turns
}

// playGame runs one game with a random legal-move policy until it is won or
// no move is left. Spawns and move choices both derive from seed.
func playGame(config *engine.GameConfig, seed int64) (GameResult, error) {
	eng, err := engine.NewEngineWithSource(config, engine.NewRandomSource(seed))
	if err != nil {
		return GameResult{}, err
	}
	policy := rand.New(rand.NewPCG(uint64(seed), 0x2048))

	turns := 0
	for !eng.IsGameOver() && !eng.IsVictory() {
		moves := eng.GetPossibleMoves()
		if len(moves) == 0 {
			break
		}
		if _, err := eng.Move(moves[policy.IntN(len(moves))]); err != nil {
			return GameResult{}, fmt.Errorf("turn %d: %w", turns+1, err)
		}
		turns++
	}

	return GameResult{Score: eng.GetScore(), Turns: turns, Won: eng.IsVictory()}, nil
}

// analyzeConfig loads the configuration at path and plays games against it.
// Game i uses seed+i, so the same arguments always give the same report.
func analyzeConfig(path string, games int, seed int64) (*Report, error) {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	report := &Report{
		File:        filepath.Base(path),
		Name:        config.Name,
		GridSize:    config.GridSize,
		WinTarget:   config.WinTarget,
		Seed:        seed,
		ScoreCounts: make(map[int]int),
	}

	for i := 0; i < games; i++ {
		result, err := playGame(config, seed+int64(i))
		if err != nil {
			return nil, fmt.Errorf("game %d of %s: %w", i+1, report.File, err)
		}
		report.add(result)
	}

	return report, nil
}

// resolveConfigs turns config names into paths under dir. With no names it
// returns every *.json file in dir, sorted.
func resolveConfigs(dir string, names []string) ([]string, error) {
	if len(names) == 0 {
		files, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no configuration files in %s", dir)
		}
		sort.Strings(files)
		return files, nil
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			name += ".json"
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

func printReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", r.File)
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", r.GridSize, r.GridSize)
	fmt.Fprintf(w, "Win Target: %d\n", r.WinTarget)
	fmt.Fprintf(w, "Games: %d (seeds %d..%d)\n", r.Games, r.Seed, r.Seed+int64(r.Games)-1)
	fmt.Fprintf(w, "Win Rate: %.1f%% (%d/%d)\n", r.WinRate()*100, r.Wins, r.Games)
	fmt.Fprintf(w, "Highest Tile: mean %.1f, max %d\n", r.MeanScore(), r.MaxScore)
	fmt.Fprintf(w, "Turns: mean %.1f\n", r.MeanTurns())

	tiles := make([]int, 0, len(r.ScoreCounts))
	for tile := range r.ScoreCounts {
		tiles = append(tiles, tile)
	}
	slices.Sort(tiles)

	fmt.Fprintln(w, "Final tile distribution:")
	for _, tile := range tiles {
		fmt.Fprintf(w, "  %6d: %d\n", tile, r.ScoreCounts[tile])
	}

	if r.Wins == 0 {
		fmt.Fprintf(w, "⚠️  A random player never reached %d\n", r.WinTarget)
	} else if r.WinRate() > 0.5 {
		fmt.Fprintf(w, "⚠️  A random player wins most games, the target may be too low\n")
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "play seeded random games and summarize each configuration",
		ArgsUsage: "[config names...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "games",
				Usage: "games to play per configuration",
				Value: 100,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "base seed, game i uses seed+i (0 picks one from the clock)",
				Value: 1,
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory containing game configurations",
				Value:   "configs",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			games := cmd.Int("games")
			if games <= 0 {
				return fmt.Errorf("--games must be positive, got %d", games)
			}

			seed := cmd.Int64("seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
				log.WithField("seed", seed).Info("using clock seed")
			}

			paths, err := resolveConfigs(cmd.String("config-dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			failed := 0
			for _, path := range paths {
				if err := ctx.Err(); err != nil {
					return err
				}

				report, err := analyzeConfig(path, games, seed)
				if err != nil {
					log.WithError(err).WithField("file", filepath.Base(path)).Error("analysis failed")
					failed++
					continue
				}
				printReport(w, report)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d configurations could not be analyzed", failed, len(paths))
			}
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
