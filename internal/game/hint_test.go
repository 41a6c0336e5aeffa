package game

import (
	"strings"
	"testing"
)

func hintPlayer(solution string, hints int) *Player {
	p := NewPlayer("u1")
	p.Hints = hints
	p.StartRound("q1", solution)
	return p
}

func TestHintRejectsWithoutHints(t *testing.T) {
	e := newTestEngine()
	p := hintPlayer("4", 0)

	if _, err := e.Hint(p); err != ErrNoHints {
		t.Fatalf("err = %v, want ErrNoHints", err)
	}
	if p.Hints != 0 || p.Round == nil {
		t.Error("rejected hint must not mutate player state")
	}
}

func TestHintRejectsWithoutRound(t *testing.T) {
	e := newTestEngine()
	p := NewPlayer("u1")
	p.Hints = 3

	if _, err := e.Hint(p); err != ErrNoActiveRound {
		t.Fatalf("err = %v, want ErrNoActiveRound", err)
	}
	if p.Hints != 3 {
		t.Error("hint count changed on rejection")
	}
}

func TestHintRejectsBadSolution(t *testing.T) {
	for _, solution := range []string{"banana", "0", "12", "-3"} {
		t.Run(solution, func(t *testing.T) {
			e := newTestEngine()
			p := hintPlayer(solution, 2)
			if _, err := e.Hint(p); err != ErrBadSolution {
				t.Fatalf("err = %v, want ErrBadSolution", err)
			}
			if p.Hints != 2 {
				t.Error("hint count changed on rejection")
			}
		})
	}
}

func TestHintStrategies(t *testing.T) {
	cases := []struct {
		name     string
		solution string
		pick     int // index into the strategy table
		wantType string
		wantMsg  string
	}{
		{"range low", "2", 1, HintRange, "The answer is between 1 and 3"},
		{"range mid", "5", 1, HintRange, "The answer is between 4 and 6"},
		{"range high", "8", 1, HintRange, "The answer is between 7 and 9"},
		{"parity even", "6", 2, HintParity, "The answer is an EVEN number"},
		{"parity odd", "7", 2, HintParity, "The answer is an ODD number"},
		{"comparison low", "3", 3, HintComparison, "The answer is LESS than 5"},
		{"comparison high", "5", 3, HintComparison, "The answer is GREATER than or equal to 5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(&scriptedRand{ints: []int{tc.pick}})
			p := hintPlayer(tc.solution, 3)

			res, err := e.Hint(p)
			if err != nil {
				t.Fatalf("Hint failed: %v", err)
			}
			if res.HintType != tc.wantType {
				t.Errorf("hint_type = %q, want %q", res.HintType, tc.wantType)
			}
			if res.Hint != tc.wantMsg {
				t.Errorf("hint = %q, want %q", res.Hint, tc.wantMsg)
			}
			if res.HintsRemaining != 2 || p.Hints != 2 {
				t.Errorf("hints remaining = %d/%d, want 2", res.HintsRemaining, p.Hints)
			}
			if p.Round == nil {
				t.Error("hint must not clear the round")
			}
		})
	}
}

func TestHintWrongAnswerNeverRevealsSolution(t *testing.T) {
	// Drive every candidate index; none may equal the solution.
	for i := 0; i < 8; i++ {
		e := New(&scriptedRand{ints: []int{0, i}})
		p := hintPlayer("4", 1)

		res, err := e.Hint(p)
		if err != nil {
			t.Fatalf("Hint failed: %v", err)
		}
		if res.HintType != HintWrongAnswer {
			t.Fatalf("hint_type = %q, want %q", res.HintType, HintWrongAnswer)
		}
		if strings.HasPrefix(res.Hint, "4 ") {
			t.Fatalf("wrong-answer hint revealed the solution: %q", res.Hint)
		}
		if !strings.HasSuffix(res.Hint, "is NOT the answer") {
			t.Fatalf("unexpected message: %q", res.Hint)
		}
	}
}

func TestHintMultipleChoiceContainsSolution(t *testing.T) {
	// Decoy draws 0,1,2,... map to candidates 1,2,3,...; duplicates of the
	// solution are skipped by the engine.
	e := New(&scriptedRand{ints: []int{4, 0, 1, 2}})
	p := hintPlayer("7", 1)

	res, err := e.Hint(p)
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if res.HintType != HintMultipleChoice {
		t.Fatalf("hint_type = %q, want %q", res.HintType, HintMultipleChoice)
	}
	if !strings.HasPrefix(res.Hint, "The answer is one of: ") {
		t.Fatalf("unexpected message: %q", res.Hint)
	}
	if !strings.Contains(res.Hint, "7") {
		t.Fatalf("choices must include the solution: %q", res.Hint)
	}
	options := strings.Split(strings.TrimPrefix(res.Hint, "The answer is one of: "), ", ")
	if len(options) != 3 {
		t.Fatalf("want 3 options, got %v", options)
	}
	seen := map[string]bool{}
	for _, o := range options {
		if seen[o] {
			t.Fatalf("duplicate option %q in %q", o, res.Hint)
		}
		seen[o] = true
	}
}
