// Command autoplay plays 2048 against a running game server through its REST
// API. It keeps the session id in a file so repeated runs continue the same
// session, and resets the game before every attempt.
//
// Usage:
//
//	autoplay --url http://localhost:8080 --config quick --attempts 10
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
)

var log = logrus.WithField("component", "autoplay")

var errNoVictory = errors.New("no victory")

// Client drives a single session through the REST API.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client is playing, empty before
// CreateSession or Resume.
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (%d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a new session from configID, or the server default when empty.
func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	var body any
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

// Resume attaches the client to an existing session.
func (c *Client) Resume(ctx context.Context, sessionID string) (*engine.GameState, error) {
	c.sessionID = sessionID

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodGet, c.sessionPath(""), nil, &session); err != nil {
		c.sessionID = ""
		return nil, fmt.Errorf("resume session: %w", err)
	}
	return session.GameState, nil
}

func (c *Client) Move(ctx context.Context, direction engine.Direction) (*service.MoveResult, error) {
	var result service.MoveResult
	body := map[string]string{"direction": direction.String()}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/move"), body, &result); err != nil {
		return nil, fmt.Errorf("move %s: %w", direction, err)
	}
	return &result, nil
}

func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return resp.State, nil
}

// Options bound a single attempt.
type Options struct {
	MaxMoves int
	Delay    time.Duration
	Verbose  bool
}

// Outcome summarizes one attempt.
type Outcome struct {
	Moves    int
	Score    int
	Victory  bool
	GameOver bool
}

// play asks strategy for moves until the game ends, the strategy gives up or
// opts.MaxMoves moves were sent.
func play(ctx context.Context, client *Client, strategy Strategy, state *engine.GameState, opts Options) (*Outcome, error) {
	moves := 0
	for !state.Victory && !state.GameOver && moves < opts.MaxMoves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		direction, ok := strategy.NextMove(state)
		if !ok {
			log.Warn("strategy found no move")
			break
		}

		result, err := client.Move(ctx, direction)
		if err != nil {
			return nil, err
		}
		state = result.GameState
		moves++

		if opts.Verbose && moves%50 == 0 {
			log.WithFields(logrus.Fields{"moves": moves, "score": state.Score}).Info("progress")
		}

		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}

	return &Outcome{
		Moves:    moves,
		Score:    state.Score,
		Victory:  state.Victory,
		GameOver: state.GameOver,
	}, nil
}

// openSession resumes the session named in sessionFile when possible and
// otherwise creates a new one and records its id there.
func openSession(ctx context.Context, client *Client, sessionFile, resumeID, configID string) error {
	if resumeID == "" && sessionFile != "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resumeID = string(bytes.TrimSpace(data))
		}
	}

	if resumeID != "" {
		_, err := client.Resume(ctx, resumeID)
		if err == nil {
			log.WithField("session", resumeID).Info("resumed session")
			return nil
		}
		log.WithError(err).Warn("failed to resume session, creating a new one")
	}

	state, err := client.CreateSession(ctx, configID)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"session": client.SessionID(),
		"grid":    len(state.Grid),
		"target":  state.WinTarget,
	}).Info("session created")

	if sessionFile != "" {
		if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0644); err != nil {
			log.WithError(err).Warn("failed to save session id")
		}
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "play 2048 on a game server until the win target is reached",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "game server URL", Value: "http://localhost:8080"},
			&cli.StringFlag{Name: "config", Usage: "configuration id for new sessions"},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by id"},
			&cli.StringFlag{Name: "session-file", Usage: "file holding the session id between runs", Value: ".session"},
			&cli.IntFlag{Name: "max-moves", Usage: "maximum moves per attempt", Value: 5000},
			&cli.IntFlag{Name: "attempts", Usage: "attempts before giving up", Value: 10},
			&cli.DurationFlag{Name: "delay", Usage: "pause between moves"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log progress every 50 moves"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := NewClient(cmd.String("url"))
			if err := openSession(ctx, client, cmd.String("session-file"), cmd.String("continue"), cmd.String("config")); err != nil {
				return err
			}

			opts := Options{
				MaxMoves: cmd.Int("max-moves"),
				Delay:    cmd.Duration("delay"),
				Verbose:  cmd.Bool("verbose"),
			}
			strategy := NewCornerStrategy()
			attempts := cmd.Int("attempts")
			w := cmd.Root().Writer

			for attempt := 1; attempt <= attempts; attempt++ {
				state, err := client.Reset(ctx)
				if err != nil {
					return err
				}

				outcome, err := play(ctx, client, strategy, state, opts)
				if err != nil {
					return err
				}

				fmt.Fprintf(w, "Attempt %d/%d: moves=%d highest tile=%d\n", attempt, attempts, outcome.Moves, outcome.Score)
				if outcome.Victory {
					fmt.Fprintf(w, "🎉 VICTORY in attempt %d with %d moves (session %s)\n", attempt, outcome.Moves, client.SessionID())
					return nil
				}
			}

			return fmt.Errorf("%w after %d attempts (session %s)", errNoVictory, attempts, client.SessionID())
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
