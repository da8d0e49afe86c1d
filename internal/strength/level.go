package strength

// Level is an ordered strength tier. Higher is stronger.
type Level int

const (
	VeryWeak Level = iota
	Weak
	Medium
	Strong
	VeryStrong
)

var levelThresholds = []struct {
	min   int
	level Level
}{
	{80, VeryStrong},
	{60, Strong},
	{40, Medium},
	{20, Weak},
}

// LevelFor maps a score to its tier; the first threshold reached wins.
func LevelFor(score int) Level {
	for _, t := range levelThresholds {
		if score >= t.min {
			return t.level
		}
	}
	return VeryWeak
}

func (l Level) String() string {
	switch l {
	case VeryStrong:
		return "very strong"
	case Strong:
		return "strong"
	case Medium:
		return "medium"
	case Weak:
		return "weak"
	default:
		return "very weak"
	}
}

// Color is the severity tag the presentation layer renders.
func (l Level) Color() string {
	switch l {
	case VeryStrong:
		return "green"
	case Strong:
		return "blue"
	case Medium:
		return "yellow"
	case Weak:
		return "orange"
	default:
		return "red"
	}
}
