package credentials

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"primepass/internal/config"
	"primepass/internal/observability"
	"primepass/internal/passgen"
	"primepass/internal/security"
	"primepass/internal/strength"
)

func testConfig() config.CredentialsConfig {
	return config.CredentialsConfig{
		DefaultLength:       16,
		MinLength:           4,
		MaxLength:           128,
		MaxBatch:            5,
		DefaultCost:         security.MinCost,
		MinCost:             security.MinCost,
		MaxCost:             security.MaxCost,
		MaxConcurrentHashes: 2,
		EstimateMaxRunes:    64,
	}
}

func newTestService(t *testing.T, cfg config.CredentialsConfig) (*Service, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	svc, err := NewService(cfg, metrics, zerolog.New(zerolog.NewTestWriter(t)))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, metrics
}

func TestGenerateDefaults(t *testing.T) {
	svc, metrics := newTestService(t, testConfig())

	res, err := svc.Generate(context.Background(), svc.DefaultGenerateRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.CharsetSize != 88 {
		t.Fatalf("expected full charset of 88, got %d", res.CharsetSize)
	}
	if len(res.Passwords) != 1 {
		t.Fatalf("expected one password, got %d", len(res.Passwords))
	}
	pw := res.Passwords[0]
	if utf8.RuneCountInString(pw.Value) != 16 {
		t.Fatalf("expected 16 characters, got %q", pw.Value)
	}
	if want := strength.NewAnalyzer(64).Analyze(pw.Value); pw.Strength.Score != want.Score {
		t.Fatalf("strength mismatch: %d vs %d", pw.Strength.Score, want.Score)
	}
	if got := testutil.ToFloat64(metrics.Generated); got != 1 {
		t.Fatalf("expected generated counter 1, got %v", got)
	}
}

func TestGenerateBatchWithExclusions(t *testing.T) {
	svc, metrics := newTestService(t, testConfig())

	req := GenerateRequest{
		Config: passgen.Config{Length: 10, Digits: true, ExcludeSimilar: true},
		Count:  3,
	}
	res, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.CharsetSize != 8 || len(res.Passwords) != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	for _, pw := range res.Passwords {
		if len(pw.Value) != 10 || strings.ContainsAny(pw.Value, "01") {
			t.Fatalf("unexpected password %q", pw.Value)
		}
	}
	if got := testutil.ToFloat64(metrics.Generated); got != 3 {
		t.Fatalf("expected generated counter 3, got %v", got)
	}
}

func TestGenerateRejectsInvalidRequests(t *testing.T) {
	svc, metrics := newTestService(t, testConfig())
	base := svc.DefaultGenerateRequest()

	tests := []struct {
		name string
		mut  func(*GenerateRequest)
		want error
	}{
		{name: "too_short", mut: func(r *GenerateRequest) { r.Length = 3 }, want: ErrInvalidRequest},
		{name: "too_long", mut: func(r *GenerateRequest) { r.Length = 129 }, want: ErrInvalidRequest},
		{name: "zero_count", mut: func(r *GenerateRequest) { r.Count = 0 }, want: ErrInvalidRequest},
		{name: "batch_too_big", mut: func(r *GenerateRequest) { r.Count = 6 }, want: ErrInvalidRequest},
		{name: "no_classes", mut: func(r *GenerateRequest) {
			r.Uppercase, r.Lowercase, r.Digits, r.Symbols = false, false, false, false
		}, want: passgen.ErrEmptyCharset},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mut(&req)
			_, err := svc.Generate(context.Background(), req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
			if !errors.Is(err, passgen.ErrConfiguration) || !IsCallerError(err) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
	if got := testutil.ToFloat64(metrics.Operations.WithLabelValues(opGenerate, observability.OutcomeRejected)); got != 5 {
		t.Fatalf("expected 5 rejected generations, got %v", got)
	}
}

func TestGenerateCanceled(t *testing.T) {
	svc, metrics := newTestService(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Generate(ctx, svc.DefaultGenerateRequest()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.Operations.WithLabelValues(opGenerate, observability.OutcomeCanceled)); got != 1 {
		t.Fatalf("expected 1 canceled generation, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.Generated); got != 0 {
		t.Fatalf("expected nothing generated, got %v", got)
	}
}

func TestAnalyzeRecordsScore(t *testing.T) {
	svc, metrics := newTestService(t, testConfig())
	report := svc.Analyze("Tr0ub4dor&3Zy", nil)
	if report.Score != 90 || report.Label != "very strong" {
		t.Fatalf("unexpected report %+v", report)
	}
	if n := testutil.CollectAndCount(metrics.StrengthScore); n != 1 {
		t.Fatalf("expected strength histogram, got %d series", n)
	}
}

func TestHash(t *testing.T) {
	svc, metrics := newTestService(t, testConfig())
	ctx := context.Background()

	if _, err := svc.Hash(ctx, security.Request{Algorithm: security.SHA256}); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}

	res, err := svc.Hash(ctx, security.Request{Password: "password", Algorithm: security.SHA256})
	if err != nil {
		t.Fatal(err)
	}
	if res.Encoded != "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8" {
		t.Fatalf("unexpected sha256 %s", res.Encoded)
	}

	res, err = svc.Hash(ctx, security.Request{Password: "password", Algorithm: security.Bcrypt})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cost != security.MinCost || !strings.HasPrefix(res.Encoded, "$2a$04$") {
		t.Fatalf("unexpected bcrypt result %+v", res)
	}
	alg, ok, err := svc.Verify(ctx, "", "password", res.Encoded)
	if err != nil || !ok || alg != security.Bcrypt {
		t.Fatalf("verify: alg=%s ok=%v err=%v", alg, ok, err)
	}

	if _, err := svc.Hash(ctx, security.Request{Password: "x", Algorithm: security.Bcrypt, Cost: 20}); !errors.Is(err, security.ErrInvalidCost) {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.Operations.WithLabelValues(opHash, observability.OutcomeOK)); got != 2 {
		t.Fatalf("expected 2 ok hashes, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.Operations.WithLabelValues(opHash, observability.OutcomeRejected)); got != 2 {
		t.Fatalf("expected 2 rejected hashes, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.HashesInFlight); got != 0 {
		t.Fatalf("expected no bcrypt in flight, got %v", got)
	}
}

func TestHashBusy(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConcurrentHashes = 1
	svc, _ := newTestService(t, cfg)

	if err := svc.hashSlots.Acquire(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	defer svc.hashSlots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.Hash(ctx, security.Request{Password: "pw", Algorithm: security.Bcrypt})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	// direct digests never wait for a bcrypt slot
	if _, err := svc.Hash(ctx, security.Request{Password: "pw", Algorithm: security.MD5}); err != nil {
		t.Fatalf("md5 should not need a slot: %v", err)
	}
}

func TestVerifyRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()

	if _, _, err := svc.Verify(ctx, "", "", "abc"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, _, err := svc.Verify(ctx, "", "pw", "not-a-hash"); !errors.Is(err, security.ErrMalformedHash) {
		t.Fatalf("expected ErrMalformedHash, got %v", err)
	}
	if _, _, err := svc.Verify(ctx, "", "pw", "$2a$20$"+strings.Repeat("a", 53)); !errors.Is(err, security.ErrInvalidCost) || !IsCallerError(err) {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}
	alg, ok, err := svc.Verify(ctx, "", "password", "5f4dcc3b5aa765d61d8327deb882cf99")
	if err != nil || !ok || alg != security.MD5 {
		t.Fatalf("md5 verify: alg=%s ok=%v err=%v", alg, ok, err)
	}
}

func TestNewServiceRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MaxCost = 40
	if _, err := NewService(cfg, observability.NewMetrics(prometheus.NewRegistry()), zerolog.Nop()); err == nil {
		t.Fatal("expected error for cost above bcrypt maximum")
	}
	cfg = testConfig()
	cfg.MaxBatch = 0
	if _, err := NewService(cfg, observability.NewMetrics(prometheus.NewRegistry()), zerolog.Nop()); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestOptions(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	opts := svc.Options()
	if len(opts.Algorithms) != 4 || opts.DefaultAlgorithm != security.Bcrypt {
		t.Fatalf("unexpected algorithms %+v", opts.Algorithms)
	}
	for _, info := range opts.Algorithms {
		if info.Insecure != (info.Name == security.MD5) {
			t.Fatalf("unexpected insecure flag for %s", info.Name)
		}
	}
	if opts.Cost.Min != 4 || opts.Cost.Max != 15 || opts.Length.Default != 16 {
		t.Fatalf("unexpected bounds %+v %+v", opts.Cost, opts.Length)
	}
}
