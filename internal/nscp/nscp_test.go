package nscp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcreteModulus(t *testing.T) {
	assert.InDelta(t, 4700*math.Sqrt(28), ConcreteModulus(28), 1e-9)
	assert.InDelta(t, 25742.96, ConcreteModulus(30), 0.01)
	assert.Zero(t, ConcreteModulus(0))
	assert.Zero(t, ConcreteModulus(-4))
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{"DEAD1", DeadTokens, true},
		{"1.2dead+1.6live", DeadTokens, true},
		{"1.2dead+1.6live", LiveTokens, true},
		{"WIND", DeadTokens, false},
		{"WIND", LiveTokens, false},
		{"Live2", LiveTokens, true},
		{"DEAD", []string{""}, false},
		{"D + L", []string{"D "}, true},
		{"1.2D + 1.6L + W", DeadTokens, true},
		{"1.2D + 1.6L + W", LiveTokens, true},
		{"0.9D+1.0E", LiveTokens, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesAny(tt.name, tt.tokens), "%s %v", tt.name, tt.tokens)
	}
}
