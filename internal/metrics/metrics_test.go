package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ExpensesAdmitted.Inc()
	m.AdmissionsRejected.WithLabelValues("ShareSumMismatch").Inc()
	m.AdmissionsRejected.WithLabelValues("ShareSumMismatch").Inc()
	m.PlanSize.Observe(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExpensesAdmitted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AdmissionsRejected.WithLabelValues("ShareSumMismatch")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PaymentsRecorded))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PlanSize))
}

func TestHandler(t *testing.T) {
	m := New()
	m.PaymentsRecorded.Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "splitledger_payments_recorded_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
