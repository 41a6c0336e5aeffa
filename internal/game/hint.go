// internal/game/hint.go
//
// Hint engine. Spends one hint from the player's resource pool and returns
// a randomly chosen hint message computed against the stored solution.
// The round itself is never altered by a hint.

package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Hint strategy names, also returned to the client as hint_type.
const (
	HintWrongAnswer    = "wrong_answer"
	HintRange          = "range"
	HintParity         = "parity"
	HintComparison     = "comparison"
	HintMultipleChoice = "multiple_choice"
)

var hintTypes = []string{HintWrongAnswer, HintRange, HintParity, HintComparison, HintMultipleChoice}

// Hint consumes one hint and produces a message for the in-flight round.
// The cost is fixed and charged once all preconditions pass; which hint
// variant the player gets is random.
//
// Preconditions, checked in order:
//   - the player has hints left (ErrNoHints),
//   - a round is in flight (ErrNoActiveRound),
//   - the stored solution parses as an integer 1..9 (ErrBadSolution).
func (e *Engine) Hint(p *Player) (HintResult, error) {
	if p.Hints <= 0 {
		return HintResult{}, ErrNoHints
	}
	if p.Round == nil {
		return HintResult{}, ErrNoActiveRound
	}
	solution := strings.TrimSpace(p.Round.Solution)
	if solution == "" {
		return HintResult{}, ErrNoActiveRound
	}
	n, err := strconv.Atoi(solution)
	if err != nil || n < 1 || n > 9 {
		return HintResult{}, ErrBadSolution
	}

	p.Hints--

	hintType := hintTypes[e.rnd.Intn(len(hintTypes))]
	var msg string
	switch hintType {
	case HintWrongAnswer:
		msg = fmt.Sprintf("%d is NOT the answer", e.wrongCandidate(n))
	case HintRange:
		switch {
		case n <= 3:
			msg = "The answer is between 1 and 3"
		case n <= 6:
			msg = "The answer is between 4 and 6"
		default:
			msg = "The answer is between 7 and 9"
		}
	case HintParity:
		if n%2 == 0 {
			msg = "The answer is an EVEN number"
		} else {
			msg = "The answer is an ODD number"
		}
	case HintComparison:
		if n < 5 {
			msg = "The answer is LESS than 5"
		} else {
			msg = "The answer is GREATER than or equal to 5"
		}
	case HintMultipleChoice:
		choices := e.multipleChoice(n)
		parts := make([]string, len(choices))
		for i, c := range choices {
			parts[i] = strconv.Itoa(c)
		}
		msg = "The answer is one of: " + strings.Join(parts, ", ")
	}

	return HintResult{Hint: msg, HintType: hintType, HintsRemaining: p.Hints}, nil
}

// wrongCandidate picks a uniform incorrect digit from 1..9.
func (e *Engine) wrongCandidate(solution int) int {
	wrong := make([]int, 0, 8)
	for i := 1; i <= 9; i++ {
		if i != solution {
			wrong = append(wrong, i)
		}
	}
	return wrong[e.rnd.Intn(len(wrong))]
}

// multipleChoice returns the solution plus two distinct decoys, shuffled.
func (e *Engine) multipleChoice(solution int) []int {
	choices := []int{solution}
	for len(choices) < 3 {
		candidate := e.rnd.Intn(9) + 1
		dup := false
		for _, c := range choices {
			if c == candidate {
				dup = true
				break
			}
		}
		if !dup {
			choices = append(choices, candidate)
		}
	}
	e.rnd.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
