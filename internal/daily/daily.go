// internal/daily/daily.go
//
// Daily challenge streak bookkeeping. State transitions are keyed on
// calendar-date comparison (UTC) against the player's last claim:
//   - claimed today        → reject, idempotent per day
//   - claimed yesterday    → streak continues
//   - older gap or never   → streak restarts at 1
package daily

import (
	"errors"
	"time"

	"github.com/bananablitz/go-server/internal/game"
)

// ErrAlreadyClaimed rejects a second claim within the same calendar day.
var ErrAlreadyClaimed = errors.New("daily challenge already claimed today")

const (
	// Target is how many puzzles the client is asked to solve for the day.
	Target = 5

	baseReward     = 50
	perStreakBonus = 10
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Reward is the coin payout for a claim at the given streak length.
func Reward(streak int) int {
	return baseReward + streak*perStreakBonus
}

// Status describes today's challenge for the player without mutating state.
type Status struct {
	Completed bool `json:"completed"`
	Target    int  `json:"target"`
	Reward    int  `json:"reward"`
	Streak    int  `json:"streak"`
}

// ClaimResult reports a successful claim.
type ClaimResult struct {
	Reward int `json:"reward"`
	Coins  int `json:"new_balance"`
	Streak int `json:"streak"`
}

// Preview reports the challenge status for now's calendar day. A streak that
// lapsed (last claim older than yesterday) is shown as 0; the persisted reset
// happens on the next claim.
func Preview(p *game.Player, now time.Time) Status {
	today := DateKey(now)
	if p.LastDailyChallenge == today {
		return Status{Completed: true, Target: Target, Streak: p.DailyChallengeStreak}
	}
	streak := 0
	if p.LastDailyChallenge == DateKey(now.AddDate(0, 0, -1)) {
		streak = p.DailyChallengeStreak
	}
	return Status{Target: Target, Reward: Reward(streak), Streak: streak}
}

// Claim credits today's reward and advances or restarts the streak.
// Idempotent per calendar day: a second claim fails with ErrAlreadyClaimed
// and leaves the player untouched.
func Claim(p *game.Player, now time.Time) (ClaimResult, error) {
	today := DateKey(now)
	if p.LastDailyChallenge == today {
		return ClaimResult{}, ErrAlreadyClaimed
	}

	if p.LastDailyChallenge == DateKey(now.AddDate(0, 0, -1)) {
		p.DailyChallengeStreak++
	} else {
		p.DailyChallengeStreak = 1
	}

	reward := Reward(p.DailyChallengeStreak)
	p.Coins += reward
	p.LastDailyChallenge = today

	return ClaimResult{Reward: reward, Coins: p.Coins, Streak: p.DailyChallengeStreak}, nil
}
