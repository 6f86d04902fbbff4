package e2e

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/handrps/internal/app"
	"github.com/ayusman/handrps/internal/capture"
	"github.com/ayusman/handrps/internal/detector"
	"github.com/ayusman/handrps/internal/game"
	"github.com/ayusman/handrps/internal/gesture"
	"github.com/ayusman/handrps/internal/server"
	"github.com/ayusman/handrps/internal/store"
)

type env struct {
	store    *store.Store
	app      *app.App
	detector *detector.MockDetector
	ts       *httptest.Server
	ws       *websocket.Conn
}

func setup(t *testing.T, opponent game.Opponent) *env {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	det := detector.NewMockDetector()

	a := app.New(app.Config{
		Game:      game.Config{Rounds: 3, Countdown: 80 * time.Millisecond, ResultPause: 20 * time.Millisecond},
		CameraFPS: 200,
		Store:     s,
	})
	a.SetLogger(log.New(io.Discard, "", 0))
	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))
	a.SetDetector(det)
	a.SetOpponent(opponent)

	hub := server.NewHub()
	a.AddObserver(hub)

	srv := server.New(server.Config{Store: s, Matches: a, Feed: a.Preview(), Hub: hub})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/game", nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("websocket client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	return &env{store: s, app: a, detector: det, ts: ts, ws: conn}
}

// awaitMatch reads the game feed until a match summary arrives.
func (e *env) awaitMatch(t *testing.T) game.MatchSummary {
	t.Helper()

	e.ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		_, data, err := e.ws.ReadMessage()
		if err != nil {
			t.Fatalf("read game feed: %v", err)
		}

		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.Type != "match" {
			continue
		}

		var summary game.MatchSummary
		if err := json.Unmarshal(msg.Data, &summary); err != nil {
			t.Fatalf("decode summary: %v", err)
		}
		return summary
	}
}

func (e *env) getJSON(t *testing.T, path string, v any) int {
	t.Helper()

	resp, err := e.ts.Client().Get(e.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s error = %v", path, err)
	}
	defer resp.Body.Close()

	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func (e *env) waitStored(t *testing.T, n int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		stats, err := e.store.Matches().Stats()
		if err == nil && stats.Matches >= n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d stored matches, stats = %+v, err = %v", n, stats, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestE2E_MatchWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	e := setup(t, game.NewSequenceOpponent(gesture.Scissors))
	e.detector.SetHands([]detector.HandLandmarks{detector.RockLandmarks()})

	if err := e.app.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.app.Stop()

	var first game.MatchSummary
	t.Run("PlayMatch", func(t *testing.T) {
		first = e.awaitMatch(t)
		if first.Outcome != game.UserWin || first.UserScore != 3 || first.ComputerScore != 0 {
			t.Errorf("rock against scissors should sweep, got %+v", first)
		}
		if len(first.Rounds) != 3 {
			t.Errorf("expected 3 rounds, got %d", len(first.Rounds))
		}
	})

	e.waitStored(t, 1)

	t.Run("HistoryAPI", func(t *testing.T) {
		var listed struct {
			Matches []game.MatchSummary `json:"matches"`
		}
		if code := e.getJSON(t, "/api/matches", &listed); code != http.StatusOK {
			t.Fatalf("GET /api/matches status = %d", code)
		}
		if len(listed.Matches) != 1 || listed.Matches[0].ID != first.ID {
			t.Fatalf("unexpected history: %+v", listed.Matches)
		}

		var got game.MatchSummary
		if code := e.getJSON(t, "/api/matches/"+first.ID, &got); code != http.StatusOK {
			t.Fatalf("GET /api/matches/%s status = %d", first.ID, code)
		}
		if len(got.Rounds) != 3 {
			t.Errorf("stored match has %d rounds, want 3", len(got.Rounds))
		}
	})

	t.Run("PlayAgain", func(t *testing.T) {
		e.detector.SetHands(nil)

		resp, err := e.ts.Client().Post(e.ts.URL+"/api/matches", "application/json", nil)
		if err != nil {
			t.Fatalf("POST /api/matches error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusAccepted)
		}

		resp, err = e.ts.Client().Post(e.ts.URL+"/api/matches", "application/json", nil)
		if err != nil {
			t.Fatalf("POST /api/matches error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("second POST status = %d, want %d", resp.StatusCode, http.StatusConflict)
		}

		second := e.awaitMatch(t)
		if second.ID == first.ID {
			t.Error("play again should start a fresh match")
		}
		if second.Outcome != game.Draw {
			t.Errorf("no hand in view should draw, got %s", second.Outcome)
		}
		for _, r := range second.Rounds {
			if r.Result != game.InvalidSelection {
				t.Errorf("round %d result = %s, want invalid-selection", r.Round, r.Result)
			}
		}
	})

	e.waitStored(t, 2)

	t.Run("Stats", func(t *testing.T) {
		var stats store.Stats
		if code := e.getJSON(t, "/api/stats", &stats); code != http.StatusOK {
			t.Fatalf("GET /api/stats status = %d", code)
		}
		want := store.Stats{Matches: 2, UserWins: 1, Draws: 1, RoundsPlayed: 6, InvalidRounds: 3}
		if stats != want {
			t.Errorf("stats = %+v, want %+v", stats, want)
		}
	})

	t.Run("Health", func(t *testing.T) {
		deadline := time.Now().Add(2 * time.Second)
		for e.app.Running() && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}

		var health struct {
			Status       string `json:"status"`
			MatchRunning *bool  `json:"match_running"`
		}
		if code := e.getJSON(t, "/api/health", &health); code != http.StatusOK {
			t.Fatalf("GET /api/health status = %d", code)
		}
		if health.MatchRunning == nil || *health.MatchRunning {
			t.Errorf("expected idle session, got %v", health.MatchRunning)
		}
	})
}

func TestE2E_QuitMidMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	e := setup(t, game.NewRandomOpponent(7))
	e.detector.SetHands([]detector.HandLandmarks{detector.PaperLandmarks()})

	ctx, cancel := context.WithCancel(context.Background())
	if err := e.app.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer e.app.Stop()

	// Quit as soon as the first round is scored.
	e.ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := e.ws.ReadMessage()
		if err != nil {
			t.Fatalf("read game feed: %v", err)
		}
		if strings.Contains(string(data), `"type":"round"`) {
			break
		}
	}
	cancel()

	select {
	case err := <-e.app.Done():
		if err != nil {
			t.Errorf("session ended with %v, want nil on quit", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop after quit")
	}

	stats, err := e.store.Matches().Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Matches != 0 {
		t.Errorf("an abandoned match must not be stored, have %d", stats.Matches)
	}
}
