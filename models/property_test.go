package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyRecordRetained(t *testing.T) {
	base := PropertyRecord{Price: 1, Latitude: 38.9, Longitude: -77.4}
	assert.True(t, base.Retained())

	noPrice := base
	noPrice.Price = 0
	assert.False(t, noPrice.Retained())

	noLat := base
	noLat.Latitude = math.NaN()
	assert.False(t, noLat.Retained())

	infLon := base
	infLon.Longitude = math.Inf(-1)
	assert.False(t, infLon.Retained())
}

func TestDefaultHeaders(t *testing.T) {
	h := DefaultHeaders()
	assert.Equal(t, "Drive Dist (mi)", h.DriveMiles)
	assert.Equal(t, "LLM Score", h.Score)
	assert.Equal(t, "Property URL Link", h.URL)
}

func TestHeaderContractWithDefaults(t *testing.T) {
	h := HeaderContract{Price: "Asking Price"}.WithDefaults()
	assert.Equal(t, "Asking Price", h.Price)
	assert.Equal(t, "Acres", h.Acres)
	assert.Equal(t, DefaultHeaders(), HeaderContract{}.WithDefaults())
}

func TestUnitPrice(t *testing.T) {
	assert.Equal(t, "$12,345/ac", UnitPrice{Value: 12345, Available: true}.String())
	assert.Equal(t, "$0/ac", UnitPrice{Value: 0, Available: true}.String())
	assert.Equal(t, "n/a", UnitPrice{}.String())

	b, err := json.Marshal(struct {
		A UnitPrice `json:"a"`
		B UnitPrice `json:"b"`
	}{A: UnitPrice{Value: 900, Available: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":900,"b":null}`, string(b))
}
