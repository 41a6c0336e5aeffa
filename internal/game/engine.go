// internal/game/engine.go
//
// Scoring engine for a single puzzle round.
// Responsibilities:
//   - Compare a submitted answer against the solution stored on the player.
//   - Compute points: difficulty base, time bonus, combo bonus, perfect
//     bonus, and the rare lucky multiplier.
//   - Apply XP/level bookkeeping (level is always derived from XP).
//   - Track combo, solve counters, and the bounded puzzle history.
//   - Clear the round on every check, correct or incorrect.
//
// Notes:
//   - Random draws (lucky multiplier, hint strategy) go through the Rand
//     interface so tests can script them.
//   - Answer comparison is exact after whitespace trimming: no case folding,
//     no numeric coercion.
package game

import "strings"

const (
	basePoints         = 10
	timeBonusCap       = 15
	perfectBonusPoints = 10
	perfectXPBonus     = 5
	xpPerLevel         = 100
	luckyChance        = 0.05
	luckyFactor        = 2.0
)

// Rand is the subset of math/rand's API the engine draws from.
// *rand.Rand satisfies it; tests substitute scripted implementations.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Engine evaluates answers and hints against player state.
type Engine struct {
	rnd Rand
}

// New constructs an Engine drawing randomness from rnd.
func New(rnd Rand) *Engine {
	return &Engine{rnd: rnd}
}

// Check scores an answer submission for the player's in-flight round and
// mutates the player's progression state accordingly. The round is cleared
// whether the answer was right or wrong.
func (e *Engine) Check(p *Player, in CheckInput) (CheckResult, error) {
	answer := strings.TrimSpace(in.Answer)
	if answer == "" {
		return CheckResult{}, ErrMissingAnswer
	}
	if p.Round == nil {
		return CheckResult{}, ErrNoActiveRound
	}
	solution := strings.TrimSpace(p.Round.Solution)
	if solution == "" {
		return CheckResult{}, ErrNoActiveRound
	}
	puzzleID := p.Round.Question

	if answer != solution {
		p.ComboCount = 0
		p.ClearRound()
		return CheckResult{Correct: false, CorrectAnswer: solution}, nil
	}

	base := basePoints * p.Difficulty.Multiplier()

	// Faster answers earn more, down to a 5s-equivalent floor; zero means
	// the client did not measure time and earns no bonus.
	var timeBonus float64
	if in.TimeTaken > 0 {
		timeBonus = (40 - in.TimeTaken) / 2
		if timeBonus < 0 {
			timeBonus = 0
		}
		if timeBonus > timeBonusCap {
			timeBonus = timeBonusCap
		}
	}

	// Combo bonus uses the streak value before this solve extends it.
	comboBonus := p.ComboCount * 2
	p.ComboCount++
	if p.ComboCount > p.MaxCombo {
		p.MaxCombo = p.ComboCount
	}

	perfect := in.HintsUsed == 0
	perfectBonus := 0
	if perfect {
		perfectBonus = perfectBonusPoints
		p.PerfectSolves++
	}

	lucky := 1.0
	if e.rnd.Float64() < luckyChance {
		lucky = luckyFactor
	}

	total := int((base + timeBonus + float64(comboBonus+perfectBonus)) * lucky)

	xpGained := total
	if perfect {
		xpGained += perfectXPBonus
	}
	oldLevel := p.Level
	p.XP += xpGained
	newLevel := p.XP/xpPerLevel + 1
	leveledUp := newLevel > oldLevel
	p.Level = newLevel

	p.PuzzlesSolved++
	p.recordHistory(puzzleID)
	p.ClearRound()

	res := CheckResult{
		Correct:      true,
		Points:       total,
		XPGained:     xpGained,
		Combo:        p.ComboCount,
		LeveledUp:    leveledUp,
		PerfectSolve: perfect,
		LuckyStreak:  lucky > 1.0,
		Breakdown: &Breakdown{
			BasePoints:      int(base),
			TimeBonus:       int(timeBonus),
			ComboBonus:      comboBonus,
			PerfectBonus:    perfectBonus,
			LuckyMultiplier: lucky,
		},
	}
	if leveledUp {
		res.NewLevel = newLevel
	}
	return res, nil
}
