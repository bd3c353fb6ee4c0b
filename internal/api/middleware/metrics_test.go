package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julis-sh/mitgliederinfo/internal/testutil"
)

func TestMetrics_RoundTrip(t *testing.T) {
	reg := prometheus.NewRegistry()
	fail := false
	m, err := NewMetrics(testutil.RoundTripFunc(func(*http.Request) (*http.Response, error) {
		if fail {
			return nil, errors.New("dial tcp: timeout")
		}
		return okResponse(http.StatusCreated), nil
	}), reg)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "https://api.example.org/users", nil)
	require.NoError(t, err)

	_, err = m.RoundTrip(req)
	require.NoError(t, err)
	fail = true
	_, err = m.RoundTrip(req)
	require.Error(t, err)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.requests.WithLabelValues("api.example.org", "POST", "201")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.requests.WithLabelValues("api.example.org", "POST", "error")))
	assert.Equal(t, 1, promtest.CollectAndCount(m.duration))
}

func TestMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewMetrics(nil, reg)
	require.NoError(t, err)
	second, err := NewMetrics(nil, reg)
	require.NoError(t, err)

	assert.Same(t, first.requests, second.requests)
	assert.Same(t, first.duration, second.duration)
}
