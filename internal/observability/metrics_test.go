package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/users/login", "POST", 200, 5*time.Millisecond)
	m.RecordRequest("/users/login", "POST", 200, 7*time.Millisecond)
	m.RecordRequest("/users/login", "POST", 401, 2*time.Millisecond)

	assert.Equal(t, int64(2), m.RequestCount("/users/login", "POST", 200))
	assert.Equal(t, int64(1), m.RequestCount("/users/login", "POST", 401))
	assert.Equal(t, int64(0), m.RequestCount("/users/me", "GET", 200))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "INTERNAL_ERROR")
	})
	assert.Equal(t, int64(0), m.RequestCount("/", "GET", 200))
}
