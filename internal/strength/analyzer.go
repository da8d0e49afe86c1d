// Package strength scores passwords with an additive rule set and returns
// improvement suggestions.
package strength

import (
	"strings"
	"unicode/utf8"
)

// Feedback messages, emitted in check order.
const (
	FeedbackLength     = "use at least 8 characters"
	FeedbackLowercase  = "add lowercase letters"
	FeedbackUppercase  = "add uppercase letters"
	FeedbackDigits     = "add digits"
	FeedbackSymbols    = "add symbols"
	FeedbackRepetitive = "avoid repetitive characters"
	FeedbackSequences  = "avoid common sequences"
)

// DefaultEstimateMaxRunes bounds the input size handed to the estimator.
const DefaultEstimateMaxRunes = 128

var commonSequences = []string{"123", "abc", "qwe"}

// Report is the outcome of a single analysis.
type Report struct {
	Score    int       `json:"score"`
	Level    Level     `json:"level"`
	Label    string    `json:"label"`
	Color    string    `json:"color"`
	Feedback []string  `json:"feedback"`
	Estimate *Estimate `json:"estimate,omitempty"`
}

// Analyzer scores passwords. The zero value skips the estimate.
type Analyzer struct {
	// EstimateMaxRunes enables the estimate for passwords up to this many
	// runes. Zero or negative disables it.
	EstimateMaxRunes int
}

// NewAnalyzer returns an analyzer that estimates passwords up to maxRunes long.
func NewAnalyzer(maxRunes int) Analyzer {
	return Analyzer{EstimateMaxRunes: maxRunes}
}

// Analyze scores password with the default estimate bound.
func Analyze(password string, hints ...string) Report {
	return NewAnalyzer(DefaultEstimateMaxRunes).Analyze(password, hints...)
}

// Analyze scores password. Hints only feed the estimate.
func (a Analyzer) Analyze(password string, hints ...string) Report {
	score, feedback := Score(password)
	level := LevelFor(score)
	report := Report{
		Score:    score,
		Level:    level,
		Label:    level.String(),
		Color:    level.Color(),
		Feedback: feedback,
	}
	if password != "" && a.EstimateMaxRunes > 0 && utf8.RuneCountInString(password) <= a.EstimateMaxRunes {
		report.Estimate = estimate(password, hints)
	}
	return report
}

// Score applies the rule set and returns a value in [0,100] plus feedback.
func Score(password string) (int, []string) {
	length := utf8.RuneCountInString(password)
	feedback := make([]string, 0, 7)
	score := 0

	switch {
	case length >= 12:
		score += 25
	case length >= 8:
		score += 15
	default:
		feedback = append(feedback, FeedbackLength)
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case isLower(r):
			hasLower = true
		case isUpper(r):
			hasUpper = true
		case isDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if hasLower {
		score += 15
	} else {
		feedback = append(feedback, FeedbackLowercase)
	}
	if hasUpper {
		score += 15
	} else {
		feedback = append(feedback, FeedbackUppercase)
	}
	if hasDigit {
		score += 15
	} else {
		feedback = append(feedback, FeedbackDigits)
	}
	if hasSymbol {
		score += 20
	} else {
		feedback = append(feedback, FeedbackSymbols)
	}

	if length >= 16 {
		score += 10
	}

	if hasRun(password, 3) {
		score -= 10
		feedback = append(feedback, FeedbackRepetitive)
	}
	if hasCommonSequence(password) {
		score -= 15
		feedback = append(feedback, FeedbackSequences)
	}

	return clamp(score, 0, 100), feedback
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// hasRun reports whether some character occurs n or more times in a row.
// Characters are compared by their encoded bytes, so distinct invalid
// bytes (all decoded as utf8.RuneError) do not form a run.
func hasRun(s string, n int) bool {
	var prev string
	count := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		unit := s[i : i+size]
		if unit == prev {
			count++
		} else {
			count = 1
		}
		if count >= n {
			return true
		}
		prev = unit
		i += size
	}
	return false
}

func hasCommonSequence(s string) bool {
	lower := strings.ToLower(s)
	for _, seq := range commonSequences {
		if strings.Contains(lower, seq) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
