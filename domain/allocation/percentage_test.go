package allocation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		filled   int
		required int
		expected string
	}{
		{"partial", 7, 10, "70.0%"},
		{"complete", 5, 5, "100.0%"},
		{"weighted region", 12, 15, "80.0%"},
		{"rounds to one decimal", 1, 3, "33.3%"},
		{"rounds half up", 2, 3, "66.7%"},
		{"zero denominator", 0, 0, NotAvailable},
		{"negative denominator", 1, -1, NotAvailable},
		{"overfilled is clamped", 4, 2, "100.0%"},
		{"empty", 0, 4, "0.0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Ratio(tt.filled, tt.required).String())
		})
	}
}

func TestPercentageValueAndFraction(t *testing.T) {
	p := Ratio(7, 10)
	v, ok := p.Value()
	assert.True(t, ok)
	assert.InDelta(t, 70.0, v, 1e-9)
	assert.InDelta(t, 0.7, p.Fraction(), 1e-9)
	assert.False(t, p.IsNA())

	na := Ratio(0, 0)
	_, ok = na.Value()
	assert.False(t, ok)
	assert.True(t, na.IsNA())
	assert.Zero(t, na.Fraction())
	assert.True(t, NA().IsNA(), "zero value must be N/A")
}

func TestPercentageLess(t *testing.T) {
	assert.True(t, Ratio(1, 2).Less(Ratio(3, 4)))
	assert.False(t, Ratio(3, 4).Less(Ratio(1, 2)))
	assert.True(t, NA().Less(Ratio(0, 1)), "N/A sorts below 0%")
	assert.False(t, Ratio(0, 1).Less(NA()))
	assert.False(t, NA().Less(NA()))
}

func TestPercentageJSON(t *testing.T) {
	payload := struct {
		A Percentage `json:"a"`
		B Percentage `json:"b"`
	}{A: Ratio(7, 10), B: NA()}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":70,"b":null}`, string(data))
}
