package game

import (
	"fmt"
	"testing"
)

// scriptedRand feeds predetermined draws to the engine. Float64 defaults to
// 0.99 (never lucky) and Intn to 0 when the script runs out.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {}

func newTestEngine() *Engine { return New(&scriptedRand{}) }

func playerWithRound(solution string) *Player {
	p := NewPlayer("u1")
	p.StartRound("https://example.com/q.png", solution)
	return p
}

func TestCheckScoring(t *testing.T) {
	cases := []struct {
		name       string
		difficulty Difficulty
		combo      int
		in         CheckInput
		wantPoints int
		wantXP     int
		wantBase   int
		wantTime   int
		wantCombo  int
		wantPerf   int
	}{
		{
			name:       "medium no bonuses perfect",
			difficulty: Medium,
			in:         CheckInput{Answer: "4", TimeTaken: 40},
			wantPoints: 20, wantXP: 25, wantBase: 10, wantPerf: 10,
		},
		{
			name:       "hard combo hinted",
			difficulty: Hard,
			combo:      3,
			in:         CheckInput{Answer: "4", HintsUsed: 1},
			wantPoints: 21, wantXP: 21, wantBase: 15, wantCombo: 6,
		},
		{
			name:       "easy fast answer",
			difficulty: Easy,
			in:         CheckInput{Answer: "4", TimeTaken: 5},
			wantPoints: 32, wantXP: 37, wantBase: 7, wantTime: 15, wantPerf: 10,
		},
		{
			name:       "time bonus capped below five seconds",
			difficulty: Medium,
			in:         CheckInput{Answer: "4", TimeTaken: 1},
			wantPoints: 35, wantXP: 40, wantBase: 10, wantTime: 15, wantPerf: 10,
		},
		{
			name:       "slow answer earns no time bonus",
			difficulty: Medium,
			in:         CheckInput{Answer: "4", TimeTaken: 120, HintsUsed: 2},
			wantPoints: 10, wantXP: 10, wantBase: 10,
		},
		{
			name:       "unmeasured time earns no bonus",
			difficulty: Medium,
			in:         CheckInput{Answer: "4", HintsUsed: 1},
			wantPoints: 10, wantXP: 10, wantBase: 10,
		},
		{
			name:       "unknown difficulty falls back to medium",
			difficulty: Difficulty("brutal"),
			in:         CheckInput{Answer: "4", HintsUsed: 1},
			wantPoints: 10, wantXP: 10, wantBase: 10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine()
			p := playerWithRound("4")
			p.Difficulty = tc.difficulty
			p.ComboCount = tc.combo

			res, err := e.Check(p, tc.in)
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}
			if !res.Correct {
				t.Fatal("expected correct result")
			}
			if res.Points != tc.wantPoints {
				t.Errorf("points = %d, want %d", res.Points, tc.wantPoints)
			}
			if res.XPGained != tc.wantXP {
				t.Errorf("xp_gained = %d, want %d", res.XPGained, tc.wantXP)
			}
			b := res.Breakdown
			if b == nil {
				t.Fatal("missing breakdown")
			}
			if b.BasePoints != tc.wantBase || b.TimeBonus != tc.wantTime ||
				b.ComboBonus != tc.wantCombo || b.PerfectBonus != tc.wantPerf {
				t.Errorf("breakdown = %+v, want base=%d time=%d combo=%d perfect=%d",
					*b, tc.wantBase, tc.wantTime, tc.wantCombo, tc.wantPerf)
			}
			if b.LuckyMultiplier != 1.0 || res.LuckyStreak {
				t.Errorf("lucky draw should be pinned off, got %v", b.LuckyMultiplier)
			}
			if p.Round != nil {
				t.Error("round not cleared after check")
			}
		})
	}
}

func TestCheckLuckyMultiplier(t *testing.T) {
	e := New(&scriptedRand{floats: []float64{0.01}})
	p := playerWithRound("7")

	res, err := e.Check(p, CheckInput{Answer: "7", TimeTaken: 40})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	// (10 + 0 + 0 + 10) * 2 = 40 points, +5 perfect XP.
	if res.Points != 40 || res.XPGained != 45 {
		t.Fatalf("points/xp = %d/%d, want 40/45", res.Points, res.XPGained)
	}
	if !res.LuckyStreak || res.Breakdown.LuckyMultiplier != 2.0 {
		t.Fatal("lucky streak not reported")
	}
}

func TestCheckLevelUp(t *testing.T) {
	cases := []struct {
		name      string
		xp        int
		gain      int // XP the round will yield
		wantLevel int
		wantUp    bool
	}{
		// 25 XP per perfect medium solve at t=40 (see scoring table).
		{"crosses boundary", 80, 25, 2, true},
		{"stays below boundary", 70, 25, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine()
			p := playerWithRound("4")
			p.XP = tc.xp
			p.Level = p.XP/100 + 1

			res, err := e.Check(p, CheckInput{Answer: "4", TimeTaken: 40})
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}
			if res.XPGained != tc.gain {
				t.Fatalf("xp_gained = %d, want %d", res.XPGained, tc.gain)
			}
			if p.Level != tc.wantLevel || res.LeveledUp != tc.wantUp {
				t.Errorf("level = %d leveledUp = %v, want %d/%v", p.Level, res.LeveledUp, tc.wantLevel, tc.wantUp)
			}
			if tc.wantUp && res.NewLevel != tc.wantLevel {
				t.Errorf("new_level = %d, want %d", res.NewLevel, tc.wantLevel)
			}
			if !tc.wantUp && res.NewLevel != 0 {
				t.Errorf("new_level should be omitted, got %d", res.NewLevel)
			}
		})
	}
}

func TestCheckWrongAnswer(t *testing.T) {
	e := newTestEngine()
	p := playerWithRound("4")
	p.ComboCount = 9
	p.MaxCombo = 9
	p.XP = 120
	p.Level = 2
	p.Coins = 30

	res, err := e.Check(p, CheckInput{Answer: "5", TimeTaken: 3})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.Correct {
		t.Fatal("expected incorrect result")
	}
	if res.CorrectAnswer != "4" {
		t.Errorf("correct_answer = %q, want %q", res.CorrectAnswer, "4")
	}
	if p.ComboCount != 0 {
		t.Errorf("combo not reset, got %d", p.ComboCount)
	}
	if p.XP != 120 || p.Level != 2 || p.Coins != 30 {
		t.Errorf("wrong answer changed xp/level/coins: %d/%d/%d", p.XP, p.Level, p.Coins)
	}
	if p.Round != nil {
		t.Error("round not cleared after wrong answer")
	}
}

func TestCheckAnswerTrimming(t *testing.T) {
	e := newTestEngine()
	p := playerWithRound("  4  ")

	res, err := e.Check(p, CheckInput{Answer: " 4 "})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !res.Correct {
		t.Fatal("trimmed answers should compare equal")
	}
}

func TestCheckErrors(t *testing.T) {
	e := newTestEngine()

	t.Run("missing answer", func(t *testing.T) {
		p := playerWithRound("4")
		if _, err := e.Check(p, CheckInput{Answer: "   "}); err != ErrMissingAnswer {
			t.Fatalf("err = %v, want ErrMissingAnswer", err)
		}
		if p.Round == nil {
			t.Error("round should survive a rejected submission")
		}
	})

	t.Run("no round", func(t *testing.T) {
		p := NewPlayer("u1")
		if _, err := e.Check(p, CheckInput{Answer: "4"}); err != ErrNoActiveRound {
			t.Fatalf("err = %v, want ErrNoActiveRound", err)
		}
	})

	t.Run("blank stored solution", func(t *testing.T) {
		p := playerWithRound("   ")
		if _, err := e.Check(p, CheckInput{Answer: "4"}); err != ErrNoActiveRound {
			t.Fatalf("err = %v, want ErrNoActiveRound", err)
		}
	})
}

func TestComboHighWaterMark(t *testing.T) {
	e := newTestEngine()
	p := NewPlayer("u1")

	for i := 0; i < 4; i++ {
		p.StartRound(fmt.Sprintf("q%d", i), "4")
		if _, err := e.Check(p, CheckInput{Answer: "4"}); err != nil {
			t.Fatalf("solve %d failed: %v", i, err)
		}
	}
	if p.ComboCount != 4 || p.MaxCombo != 4 {
		t.Fatalf("combo/max = %d/%d, want 4/4", p.ComboCount, p.MaxCombo)
	}

	p.StartRound("q-miss", "4")
	if _, err := e.Check(p, CheckInput{Answer: "9"}); err != nil {
		t.Fatalf("miss failed: %v", err)
	}
	if p.ComboCount != 0 || p.MaxCombo != 4 {
		t.Fatalf("after miss combo/max = %d/%d, want 0/4", p.ComboCount, p.MaxCombo)
	}
}

func TestPuzzleHistoryBoundedAndDeduped(t *testing.T) {
	e := newTestEngine()
	p := NewPlayer("u1")

	// Repeated inserts of the same id never duplicate.
	for i := 0; i < 3; i++ {
		p.StartRound("same-question", "4")
		if _, err := e.Check(p, CheckInput{Answer: "4"}); err != nil {
			t.Fatalf("solve failed: %v", err)
		}
	}
	if len(p.PuzzleHistory) != 1 {
		t.Fatalf("history = %d entries, want 1", len(p.PuzzleHistory))
	}

	// Cap at 50, oldest evicted first.
	for i := 0; i < 60; i++ {
		p.StartRound(fmt.Sprintf("q%03d", i), "4")
		if _, err := e.Check(p, CheckInput{Answer: "4"}); err != nil {
			t.Fatalf("solve %d failed: %v", i, err)
		}
	}
	if len(p.PuzzleHistory) != 50 {
		t.Fatalf("history = %d entries, want 50", len(p.PuzzleHistory))
	}
	if p.PuzzleHistory[0] != "q010" || p.PuzzleHistory[49] != "q059" {
		t.Fatalf("history window = [%s..%s], want [q010..q059]",
			p.PuzzleHistory[0], p.PuzzleHistory[49])
	}
	seen := map[string]bool{}
	for _, id := range p.PuzzleHistory {
		if seen[id] {
			t.Fatalf("duplicate history entry %q", id)
		}
		seen[id] = true
	}
}
