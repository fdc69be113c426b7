package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business
// metric matching the given name, partial label pattern, and value.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider, "test_app")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("test_app_op")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider, "test_app_op")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "secrets", "create_secret", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "secrets", "create_secret", "error")
	})

	t.Run("Success_RecordMultipleOperations", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "secrets", "create_secret", "success")
		bm.RecordOperation(context.Background(), "secrets", "get_secret_value", "success")
		bm.RecordOperation(context.Background(), "secrets", "delete_secret", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("test_app_dur")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider, "test_app_dur")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "secrets", "create_secret", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "secrets", "create_secret", 456*time.Millisecond, "error")
	})

	t.Run("Success_RecordMultipleOperations", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "secrets", "create_secret", 100*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "secrets", "get_secret_value", 200*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "secrets", "delete_secret", 300*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		noOpMetrics.RecordOperation(context.Background(), "secrets", "create_secret", "success")
		noOpMetrics.RecordOperation(context.Background(), "secrets", "get_secret_value", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		noOpMetrics.RecordDuration(
			context.Background(),
			"secrets",
			"create_secret",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "secrets", "get_secret_value", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider, "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "secrets", "create_secret", "success")
	bm.RecordOperation(ctx, "secrets", "create_secret", "success")
	bm.RecordOperation(ctx, "secrets", "create_secret", "error")
	bm.RecordOperation(ctx, "secrets", "get_secret_value", "success")
	bm.RecordOperation(ctx, "secrets", "put_secret_value", "success")
	bm.RecordOperation(ctx, "secrets", "delete_secret", "success")

	bm.RecordDuration(ctx, "secrets", "create_secret", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "secrets", "create_secret", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "secrets", "create_secret", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "secrets", "get_secret_value", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "secrets", "put_secret_value", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "secrets", "delete_secret", 150*time.Millisecond, "success")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="secrets".*operation="create_secret".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="secrets".*operation="create_secret".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="secrets".*operation="get_secret_value".*status="success"`,
		`1`,
	)

	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="secrets".*operation="create_secret".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="secrets".*operation="create_secret".*status="success"`,
		``,
	)
}
