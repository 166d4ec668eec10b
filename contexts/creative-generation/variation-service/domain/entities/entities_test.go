package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStrategy(t *testing.T) {
	strategy, ok := ParseStrategy(" Text_Only ")
	assert.True(t, ok)
	assert.False(t, strategy.ProducesImage())
	assert.True(t, StrategyImageOnly.ProducesImage())

	_, ok = ParseStrategy("viral")
	assert.False(t, ok)
}

func TestCreativeOptionsValidation(t *testing.T) {
	assert.True(t, CreativeOptions{}.IsZero())
	assert.True(t, CreativeOptions{Angle: "side", AspectRatio: "9:16"}.Valid())
	assert.False(t, CreativeOptions{Lighting: "candle"}.Valid())
	assert.False(t, CreativeOptions{AspectRatio: "2:1"}.Valid())
}

func TestBatchSummary(t *testing.T) {
	result := BatchResult{Results: []UnitResult{
		{Strategy: StrategyCuriosity, Success: true},
		{Strategy: StrategyPainPoint, Success: false, Error: "boom"},
	}}
	assert.Equal(t, 2, result.Requested())
	assert.Equal(t, 1, result.Succeeded())
	assert.Equal(t, "1 of 2 succeeded", result.Summary())
}
