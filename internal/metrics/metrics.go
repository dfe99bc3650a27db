package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/telemetry"
)

var (
	// Login counters
	LoginsSucceeded *telemetry.Counter
	LoginsFailed    *telemetry.Counter

	// Abuse-control counters
	RateLimitBlocks     *telemetry.Counter
	HijacksDetected     *telemetry.Counter
	TokensRefreshed     *telemetry.Counter
	SessionsInvalidated *telemetry.Counter

	// Gauges
	ActiveSessions *telemetry.UpDownCounter

	// Histograms
	LoginDuration *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init initializes all authentication metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	LoginsSucceeded, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "auth_logins_succeeded_total",
		Description: "Total number of successful logins",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	LoginsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "auth_logins_failed_total",
		Description: "Total number of failed login attempts",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RateLimitBlocks, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "auth_rate_limit_blocks_total",
		Description: "Total number of requests denied by the login rate limiter",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	HijacksDetected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "auth_session_hijacks_total",
		Description: "Total number of sessions terminated on hijack evidence",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TokensRefreshed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "auth_tokens_refreshed_total",
		Description: "Total number of access tokens renewed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SessionsInvalidated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "auth_sessions_invalidated_total",
		Description: "Total number of sessions deactivated",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ActiveSessions, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "auth_active_sessions",
		Description: "Current number of active sessions",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	LoginDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "auth_login_duration_seconds",
		Description: "Login request duration in seconds",
		Unit:        "s",
	}, []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5})
	if err != nil {
		return err
	}

	return nil
}

// RecordLoginSuccess records a successful login
func RecordLoginSuccess(ctx context.Context, role string) {
	if LoginsSucceeded != nil {
		LoginsSucceeded.Inc(ctx, attribute.String("role", role))
	}
	if ActiveSessions != nil {
		ActiveSessions.Inc(ctx)
	}
}

// RecordLoginFailure records a failed login attempt
func RecordLoginFailure(ctx context.Context, reason string) {
	if LoginsFailed != nil {
		LoginsFailed.Inc(ctx, attribute.String("reason", reason))
	}
}

// RecordRateLimitBlock records a request denied by the limiter
func RecordRateLimitBlock(ctx context.Context, keyKind string) {
	if RateLimitBlocks != nil {
		RateLimitBlocks.Inc(ctx, attribute.String("key_kind", keyKind))
	}
}

// RecordHijackDetected records a session terminated on hijack evidence
func RecordHijackDetected(ctx context.Context) {
	if HijacksDetected != nil {
		HijacksDetected.Inc(ctx)
	}
	if ActiveSessions != nil {
		ActiveSessions.Dec(ctx)
	}
}

// RecordTokenRefresh records an access token renewal
func RecordTokenRefresh(ctx context.Context) {
	if TokensRefreshed != nil {
		TokensRefreshed.Inc(ctx)
	}
}

// RecordSessionInvalidated records sessions deactivated by logout
func RecordSessionInvalidated(ctx context.Context, count int64) {
	if SessionsInvalidated != nil {
		SessionsInvalidated.Add(ctx, count)
	}
	if ActiveSessions != nil {
		for i := int64(0); i < count; i++ {
			ActiveSessions.Dec(ctx)
		}
	}
}

// RecordLoginDuration records how long a login request took
func RecordLoginDuration(ctx context.Context, seconds float64, success bool) {
	if LoginDuration != nil {
		LoginDuration.Record(ctx, seconds, attribute.Bool("success", success))
	}
}
