package credentials

import (
	"primepass/internal/passgen"
	"primepass/internal/security"
)

// AlgorithmInfo describes one hash profile to the presentation layer.
type AlgorithmInfo struct {
	Name     security.Algorithm `json:"name"`
	Adaptive bool               `json:"adaptive"`
	Insecure bool               `json:"insecure"`
}

// Range is an inclusive bound with a default.
type Range struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Options lists what the service accepts.
type Options struct {
	Algorithms       []AlgorithmInfo    `json:"algorithms"`
	DefaultAlgorithm security.Algorithm `json:"default_algorithm"`
	Cost             Range              `json:"cost"`
	Length           Range              `json:"length"`
	MaxBatch         int                `json:"max_batch"`
	Generation       passgen.Config     `json:"generation"`
	SimilarChars     string             `json:"similar_chars"`
	AmbiguousChars   string             `json:"ambiguous_chars"`
}

// DefaultAlgorithm is used when a hash request names none.
const DefaultAlgorithm = security.Bcrypt

// Options reports algorithms, bounds and defaults.
func (s *Service) Options() Options {
	algs := security.Algorithms()
	infos := make([]AlgorithmInfo, 0, len(algs))
	for _, alg := range algs {
		infos = append(infos, AlgorithmInfo{Name: alg, Adaptive: alg.Adaptive(), Insecure: alg.Insecure()})
	}
	lo, hi, def := s.engine.CostBounds()
	return Options{
		Algorithms:       infos,
		DefaultAlgorithm: DefaultAlgorithm,
		Cost:             Range{Min: lo, Max: hi, Default: def},
		Length:           Range{Min: s.cfg.MinLength, Max: s.cfg.MaxLength, Default: s.cfg.DefaultLength},
		MaxBatch:         s.cfg.MaxBatch,
		Generation:       s.DefaultGenerateRequest().Config,
		SimilarChars:     passgen.SimilarChars,
		AmbiguousChars:   passgen.AmbiguousChars,
	}
}
