package strength

import (
	"strings"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

// Estimate complements the rule score with guessability figures. It never
// affects Report.Score.
type Estimate struct {
	EntropyBits float64 `json:"entropy_bits"`
	GuessScore  int     `json:"guess_score"`
	CrackTime   string  `json:"crack_time"`
}

func estimate(password string, hints []string) *Estimate {
	inputs := make([]string, 0, len(hints))
	for _, h := range hints {
		h = strings.TrimSpace(h)
		if h != "" {
			inputs = append(inputs, strings.ToLower(h))
		}
	}

	match := zxcvbn.PasswordStrength(password, inputs)
	return &Estimate{
		EntropyBits: passwordvalidator.GetEntropy(password),
		GuessScore:  match.Score,
		CrackTime:   match.CrackTimeDisplay,
	}
}
