// internal/game/types.go
//
// Core type definitions for the puzzle game engine.
// Defines:
//   - Difficulty: scoring difficulty tier (easy/medium/hard).
//   - Round: the single in-flight puzzle stored on a player.
//   - Player: per-account game progression record.
//   - CheckInput / CheckResult / Breakdown: answer-check payloads.

package game

import "errors"

// Sentinel errors surfaced by the engine. Handlers translate these into
// structured JSON error responses.
var (
	ErrNoActiveRound = errors.New("no active round")
	ErrMissingAnswer = errors.New("missing answer")
	ErrNoHints       = errors.New("no hints available")
	ErrBadSolution   = errors.New("invalid puzzle solution")
)

// Difficulty selects the base-points multiplier. Unknown values fall back
// to the medium multiplier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Valid reports whether d is one of the three known tiers.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Multiplier returns the scoring multiplier for the tier.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case Easy:
		return 0.7
	case Hard:
		return 1.5
	default:
		return 1.0
	}
}

// Round is the single in-flight puzzle for a player. The solution never
// leaves the server; fetch responses carry only the question.
type Round struct {
	Question string `json:"question"`
	Solution string `json:"solution"`
}

// historyCap bounds the puzzle history kept on a player (oldest evicted).
const historyCap = 50

// Player holds the full game-progression state for one account.
// Level is derived from XP (xp/100 + 1) and is recomputed whenever XP
// changes, never incremented independently.
type Player struct {
	UserID        string
	Coins         int
	Hints         int
	XP            int
	Level         int
	Difficulty    Difficulty
	ComboCount    int
	MaxCombo      int
	PuzzlesSolved int
	PerfectSolves int
	HighScore     int

	LastDailyChallenge   string // "YYYY-MM-DD", empty if never claimed
	DailyChallengeStreak int

	PuzzleHistory []string // most recent 50 puzzle ids, deduped
	Round         *Round   // nil when no round is in flight
}

// NewPlayer returns a fresh progression record with starting resources.
func NewPlayer(userID string) *Player {
	return &Player{
		UserID:     userID,
		Coins:      10,
		Level:      1,
		Difficulty: Medium,
	}
}

// StartRound overwrites any in-flight round. Abandoning a previous
// unanswered puzzle is implicit and silent.
func (p *Player) StartRound(question, solution string) {
	p.Round = &Round{Question: question, Solution: solution}
}

// ClearRound drops the in-flight round unconditionally.
func (p *Player) ClearRound() { p.Round = nil }

// recordHistory appends a puzzle id, suppressing duplicates and evicting
// the oldest entries beyond the cap.
func (p *Player) recordHistory(id string) {
	if id == "" {
		return
	}
	for _, h := range p.PuzzleHistory {
		if h == id {
			return
		}
	}
	p.PuzzleHistory = append(p.PuzzleHistory, id)
	if n := len(p.PuzzleHistory); n > historyCap {
		p.PuzzleHistory = p.PuzzleHistory[n-historyCap:]
	}
}

// CheckInput is an answer submission for the in-flight round.
type CheckInput struct {
	Answer    string
	TimeTaken float64 // seconds; 0 means "not measured"
	HintsUsed int     // hints used during this round, not the resource counter
}

// Breakdown itemizes how a winning score was computed.
type Breakdown struct {
	BasePoints      int     `json:"base_points"`
	TimeBonus       int     `json:"time_bonus"`
	ComboBonus      int     `json:"combo_bonus"`
	PerfectBonus    int     `json:"perfect_bonus"`
	LuckyMultiplier float64 `json:"lucky_multiplier"`
}

// CheckResult is the outcome of an answer check.
type CheckResult struct {
	Correct       bool       `json:"correct"`
	CorrectAnswer string     `json:"correct_answer,omitempty"`
	Points        int        `json:"points,omitempty"`
	XPGained      int        `json:"xp_gained,omitempty"`
	Combo         int        `json:"combo,omitempty"`
	LeveledUp     bool       `json:"leveled_up,omitempty"`
	NewLevel      int        `json:"new_level,omitempty"`
	PerfectSolve  bool       `json:"perfect_solve,omitempty"`
	LuckyStreak   bool       `json:"lucky_streak,omitempty"`
	Breakdown     *Breakdown `json:"breakdown,omitempty"`
}

// HintResult is returned by the hint engine.
type HintResult struct {
	Hint           string `json:"hint"`
	HintType       string `json:"hint_type"`
	HintsRemaining int    `json:"hints_remaining"`
}
