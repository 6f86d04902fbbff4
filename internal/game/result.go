// Package game runs timed rock-paper-scissors rounds against a computer
// opponent and aggregates them into a match.
package game

import "github.com/ayusman/handrps/internal/gesture"

// Result is the outcome of a round, or of a whole match.
type Result string

const (
	UserWin          Result = "user-win"
	ComputerWin      Result = "computer-win"
	Draw             Result = "draw"
	InvalidSelection Result = "invalid-selection"
)

// Message is the line shown to the player for r.
func (r Result) Message() string {
	switch r {
	case UserWin:
		return "User win"
	case ComputerWin:
		return "Computer win"
	case Draw:
		return "Draw"
	case InvalidSelection:
		return "Selection is invalid"
	default:
		return string(r)
	}
}

// beats maps each playable gesture to the one it defeats.
var beats = map[gesture.Gesture]gesture.Gesture{
	gesture.Rock:     gesture.Scissors,
	gesture.Scissors: gesture.Paper,
	gesture.Paper:    gesture.Rock,
}

// Judge scores one throw. An invalid user choice is never scored, whatever
// the computer drew.
func Judge(user, computer gesture.Gesture) Result {
	if _, ok := beats[user]; !ok {
		return InvalidSelection
	}
	switch {
	case user == computer:
		return Draw
	case beats[user] == computer:
		return UserWin
	default:
		return ComputerWin
	}
}

// compareScores decides a match from the final tally.
func compareScores(user, computer int) Result {
	switch {
	case user > computer:
		return UserWin
	case user < computer:
		return ComputerWin
	default:
		return Draw
	}
}
