package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityFromLibraryID(t *testing.T) {
	assert.Equal(t, ExternalAdIdentity{LibraryID: "123"}, IdentityFromLibraryID(" 123 "))
	assert.Equal(t, LocalAdIdentity{}, IdentityFromLibraryID(""))
}

func TestNormalizeClampsScore(t *testing.T) {
	assert.Equal(t, float64(10), InsightData{PerformanceScore: 14}.Normalize().PerformanceScore)
	normalized := InsightData{}.Normalize()
	assert.Equal(t, float64(1), normalized.PerformanceScore)
	assert.NotNil(t, normalized.Strengths)
	assert.True(t, InsightData{}.Empty())
}
