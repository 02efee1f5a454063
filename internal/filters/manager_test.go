package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRegistersAvgrow(t *testing.T) {
	m := NewManager()

	names := m.ListFilters()
	require.Contains(t, names, "Adaptive Row Averaging")
	assert.Equal(t, "Adaptive Row Averaging", m.GetCurrentFilter())

	f, err := m.GetFilter("Adaptive Row Averaging")
	require.NoError(t, err)
	assert.Equal(t, "Adaptive Row Averaging", f.GetName())
}

func TestManagerUnknownFilter(t *testing.T) {
	m := NewManager()

	_, err := m.GetFilter("Gaussian Blur")
	assert.Error(t, err)
	assert.Error(t, m.SetCurrentFilter("Gaussian Blur"))
}

func TestManagerParameters(t *testing.T) {
	m := NewManager()

	params := m.GetParameters("Adaptive Row Averaging")
	assert.Equal(t, 16, params["threshold_x"])

	// Returned map is a copy; mutating it must not leak back.
	params["threshold_x"] = 999
	assert.Equal(t, 16, m.GetParameters("Adaptive Row Averaging")["threshold_x"])

	require.NoError(t, m.SetParameter("Adaptive Row Averaging", "threshold_x", 32))
	assert.Equal(t, 32, m.GetParameters("Adaptive Row Averaging")["threshold_x"])

	assert.Error(t, m.SetParameter("Adaptive Row Averaging", "threshold_x", -1))
	assert.Error(t, m.SetParameter("No Such Filter", "threshold_x", 1))
}
