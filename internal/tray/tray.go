// Package tray provides a system tray menu for starting matches and
// following the score.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handrps/internal/game"
	"github.com/ayusman/handrps/internal/gesture"
)

// Tray represents the system tray application. It also follows the game as
// a game.Observer and mirrors the live state in its menu.
type Tray struct {
	onNewMatch func() error
	onOpen     func()
	onQuit     func()
	mu         sync.RWMutex

	lastGesture gesture.Gesture
	score       string
	result      string

	// Menu items stored for later updates
	menuNewMatch    *systray.MenuItem
	menuLastGesture *systray.MenuItem
	menuScore       *systray.MenuItem
	menuResult      *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{
		score:  "Score: -",
		result: "No match finished",
	}
}

// OnNewMatch sets the callback for the New Match menu item.
func (t *Tray) OnNewMatch(fn func() error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onNewMatch = fn
}

// OnOpen sets the callback for the Open Game menu item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("RPS")
	systray.SetTooltip("Hand Rock Paper Scissors")

	t.mu.Lock()
	t.menuNewMatch = systray.AddMenuItem("New Match", "Start another match")
	t.menuNewMatch.Disable()
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem(gestureLabel(t.lastGesture), "Gesture currently read from your hand")
	t.menuLastGesture.Disable()
	t.menuScore = systray.AddMenuItem(t.score, "Score of the current match")
	t.menuScore.Disable()
	t.menuResult = systray.AddMenuItem(t.result, "Result of the last match")
	t.menuResult.Disable()
	systray.AddSeparator()
	t.mu.Unlock()

	menuOpen := systray.AddMenuItem("Open Game...", "Open the game in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit the game")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuNewMatch.ClickedCh:
				t.handleNewMatch()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleNewMatch handles the New Match menu item click.
func (t *Tray) handleNewMatch() {
	t.mu.RLock()
	callback := t.onNewMatch
	t.mu.RUnlock()

	if callback == nil {
		return
	}
	if err := callback(); err != nil {
		t.setResult("Cannot start: " + err.Error())
		return
	}
	t.setNewMatchEnabled(false)
}

// handleOpen handles the Open Game menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// OnFrame shows the gesture currently read from the hand.
func (t *Tray) OnFrame(view game.FrameView) {
	t.mu.Lock()
	defer t.mu.Unlock()

	score := scoreLabel(view.UserScore, view.ComputerScore, view.Round, view.Rounds)
	if score != t.score {
		t.score = score
		if t.menuScore != nil {
			t.menuScore.SetTitle(score)
		}
	}

	if view.Candidate == t.lastGesture {
		return
	}
	t.lastGesture = view.Candidate
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(gestureLabel(view.Candidate))
	}
}

// OnRound shows the round result.
func (t *Tray) OnRound(outcome game.RoundOutcome, state game.MatchState) {
	t.setResult(fmt.Sprintf("Round %d: %s vs %s, %s", outcome.Round, outcome.UserChoice, outcome.ComputerChoice, outcome.Result.Message()))
}

// OnMatch shows the final result and enables New Match.
func (t *Tray) OnMatch(summary game.MatchSummary) {
	t.setResult(matchLabel(summary))
	t.setNewMatchEnabled(true)
}

// LastGesture returns the gesture shown in the menu.
func (t *Tray) LastGesture() gesture.Gesture {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastGesture
}

// Score returns the score line shown in the menu.
func (t *Tray) Score() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.score
}

// Result returns the result line shown in the menu.
func (t *Tray) Result() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.result
}

func (t *Tray) setResult(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.result = s
	if t.menuResult != nil {
		t.menuResult.SetTitle(s)
	}
}

func (t *Tray) setNewMatchEnabled(enabled bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuNewMatch == nil {
		return
	}
	if enabled {
		t.menuNewMatch.Enable()
	} else {
		t.menuNewMatch.Disable()
	}
}

func gestureLabel(g gesture.Gesture) string {
	if g == "" {
		return "Last: none"
	}
	return "Last: " + string(g)
}

func scoreLabel(user, computer, round, rounds int) string {
	return fmt.Sprintf("Score: %d-%d (round %d/%d)", user, computer, round, rounds)
}

func matchLabel(s game.MatchSummary) string {
	return fmt.Sprintf("Match: %s %d-%d", s.Outcome.Message(), s.UserScore, s.ComputerScore)
}
