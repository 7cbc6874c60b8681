package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewRegistersCountersAtZero(t *testing.T) {
	e := New()

	assert.Equal(t, 0.0, testutil.ToFloat64(e.TicksRun))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.InputsIngested))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.PlayersConnected))

	e.TicksRun.Inc()
	e.PlayersConnected.Set(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.TicksRun))
	assert.Equal(t, 3.0, testutil.ToFloat64(e.PlayersConnected))
}
