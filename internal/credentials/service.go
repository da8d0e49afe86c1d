// Package credentials exposes password generation, strength analysis and
// hashing with service-level defaults, bounds and metrics.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"primepass/internal/config"
	"primepass/internal/observability"
	"primepass/internal/passgen"
	"primepass/internal/security"
	"primepass/internal/strength"
)

var (
	// ErrInvalidRequest signals input outside service bounds.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", passgen.ErrConfiguration)
	// ErrEmptyPassword is returned when hashing or verifying empty text.
	ErrEmptyPassword = fmt.Errorf("%w: password is required", ErrInvalidRequest)
	// ErrBusy signals that no hashing slot freed up before the deadline.
	ErrBusy = errors.New("hashing capacity exhausted")
)

// Operation names used in metrics.
const (
	opGenerate = "generate"
	opAnalyze  = "analyze"
	opHash     = "hash"
	opVerify   = "verify"
)

// GenerateRequest asks for Count passwords built from Config.
type GenerateRequest struct {
	passgen.Config
	Count int `json:"count"`
}

// GeneratedPassword pairs a password with its strength report.
type GeneratedPassword struct {
	Value    string          `json:"value"`
	Strength strength.Report `json:"strength"`
}

// GenerateResult is the outcome of Generate.
type GenerateResult struct {
	CharsetSize int                 `json:"charset_size"`
	Passwords   []GeneratedPassword `json:"passwords"`
}

// Service wires the generator, analyzer and hash engine together.
type Service struct {
	cfg       config.CredentialsConfig
	engine    *security.Engine
	analyzer  strength.Analyzer
	generator passgen.Generator
	hashSlots *semaphore.Weighted
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// NewService validates cfg and builds a service.
func NewService(cfg config.CredentialsConfig, metrics *observability.Metrics, logger zerolog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	engine, err := security.NewEngine(cfg.MinCost, cfg.MaxCost, cfg.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash engine: %w", err)
	}
	return &Service{
		cfg:       cfg,
		engine:    engine,
		analyzer:  strength.NewAnalyzer(cfg.EstimateMaxRunes),
		hashSlots: semaphore.NewWeighted(cfg.MaxConcurrentHashes),
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// DefaultGenerateRequest returns one password with every class enabled.
func (s *Service) DefaultGenerateRequest() GenerateRequest {
	cfg := passgen.DefaultConfig()
	cfg.Length = s.cfg.DefaultLength
	return GenerateRequest{Config: cfg, Count: 1}
}

// Generate draws req.Count passwords and scores each of them.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if req.Length < s.cfg.MinLength || req.Length > s.cfg.MaxLength {
		s.metrics.Observe(opGenerate, observability.OutcomeRejected)
		return GenerateResult{}, fmt.Errorf("%w: length must be between %d and %d", ErrInvalidRequest, s.cfg.MinLength, s.cfg.MaxLength)
	}
	if req.Count < 1 || req.Count > s.cfg.MaxBatch {
		s.metrics.Observe(opGenerate, observability.OutcomeRejected)
		return GenerateResult{}, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, s.cfg.MaxBatch)
	}

	pool, err := passgen.BuildCharset(req.Config)
	if err != nil {
		s.metrics.Observe(opGenerate, observability.OutcomeRejected)
		return GenerateResult{}, err
	}

	result := GenerateResult{
		CharsetSize: pool.Len(),
		Passwords:   make([]GeneratedPassword, 0, req.Count),
	}
	for i := 0; i < req.Count; i++ {
		if err := ctx.Err(); err != nil {
			s.metrics.Observe(opGenerate, observability.OutcomeCanceled)
			return GenerateResult{}, err
		}
		value, err := s.generator.Generate(pool, req.Length)
		if err != nil {
			s.metrics.Observe(opGenerate, observability.OutcomeError)
			return GenerateResult{}, fmt.Errorf("generate password: %w", err)
		}
		result.Passwords = append(result.Passwords, GeneratedPassword{
			Value:    value,
			Strength: s.analyzer.Analyze(value),
		})
	}

	s.metrics.Generated.Add(float64(req.Count))
	s.metrics.Observe(opGenerate, observability.OutcomeOK)
	s.logger.Debug().
		Int("length", req.Length).
		Int("count", req.Count).
		Int("charset_size", pool.Len()).
		Msg("passwords generated")
	return result, nil
}

// Analyze scores password; hints feed the guessability estimate only.
func (s *Service) Analyze(password string, hints []string) strength.Report {
	report := s.analyzer.Analyze(password, hints...)
	s.metrics.StrengthScore.Observe(float64(report.Score))
	s.metrics.Observe(opAnalyze, observability.OutcomeOK)
	return report
}

// Hash hashes req.Password. bcrypt requests wait for a free slot until ctx ends.
func (s *Service) Hash(ctx context.Context, req security.Request) (security.Result, error) {
	if req.Password == "" {
		s.metrics.Observe(opHash, observability.OutcomeRejected)
		return security.Result{}, ErrEmptyPassword
	}

	release, err := s.acquire(ctx, req.Algorithm)
	if err != nil {
		s.metrics.Observe(opHash, observability.OutcomeRejected)
		return security.Result{}, err
	}
	defer release()

	start := time.Now()
	res, err := s.engine.Hash(req)
	took := time.Since(start)
	if err != nil {
		s.metrics.Observe(opHash, outcomeFor(err))
		return security.Result{}, err
	}

	s.metrics.ObserveHash(string(res.Algorithm), took)
	s.metrics.Observe(opHash, observability.OutcomeOK)
	event := s.logger.Debug().Str("algorithm", string(res.Algorithm)).Dur("took", took)
	if res.Algorithm.Adaptive() {
		event = event.Int("cost", res.Cost)
	}
	event.Msg("password hashed")
	return res, nil
}

// Verify checks password against encoded. An empty alg is identified from encoded.
func (s *Service) Verify(ctx context.Context, alg security.Algorithm, password, encoded string) (security.Algorithm, bool, error) {
	if password == "" || encoded == "" {
		s.metrics.Observe(opVerify, observability.OutcomeRejected)
		return "", false, fmt.Errorf("%w: password and hash are required", ErrInvalidRequest)
	}
	if alg == "" {
		identified, err := security.Identify(encoded)
		if err != nil {
			s.metrics.Observe(opVerify, observability.OutcomeRejected)
			return "", false, err
		}
		alg = identified
	}

	release, err := s.acquire(ctx, alg)
	if err != nil {
		s.metrics.Observe(opVerify, observability.OutcomeRejected)
		return "", false, err
	}
	defer release()

	ok, err := s.engine.Verify(alg, password, encoded)
	if err != nil {
		s.metrics.Observe(opVerify, outcomeFor(err))
		return "", false, err
	}
	s.metrics.Observe(opVerify, observability.OutcomeOK)
	return alg, ok, nil
}

// acquire takes a hashing slot for adaptive algorithms; direct digests skip it.
func (s *Service) acquire(ctx context.Context, alg security.Algorithm) (func(), error) {
	if !alg.Adaptive() {
		return func() {}, nil
	}
	if err := s.hashSlots.Acquire(ctx, 1); err != nil {
		s.logger.Warn().Err(err).Msg("no hashing slot available")
		return nil, fmt.Errorf("%w: %w", ErrBusy, err)
	}
	s.metrics.HashesInFlight.Inc()
	return func() {
		s.metrics.HashesInFlight.Dec()
		s.hashSlots.Release(1)
	}, nil
}

func outcomeFor(err error) string {
	if IsCallerError(err) {
		return observability.OutcomeRejected
	}
	return observability.OutcomeError
}

// IsCallerError reports whether err stems from request input rather than an
// internal failure.
func IsCallerError(err error) bool {
	for _, target := range []error{
		passgen.ErrConfiguration,
		security.ErrUnsupportedAlgorithm,
		security.ErrInvalidCost,
		security.ErrPasswordTooLong,
		security.ErrMalformedHash,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
