package members

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/models"
)

func TestStatusDistribution(t *testing.T) {
	dist := StatusDistribution([]models.MemberAnalytics{
		{Status: models.StatusNew},
		{Status: models.StatusNew},
		{Status: models.StatusEstablished},
	})
	assert.Equal(t, 2, dist[models.StatusNew])
	assert.Equal(t, 1, dist[models.StatusEstablished])

	empty := StatusDistribution(nil)
	assert.Equal(t, 0, empty[models.StatusNew])
	assert.Contains(t, empty, models.StatusEstablished)
}

func TestBands(t *testing.T) {
	var analytics []models.MemberAnalytics
	for _, s := range []float64{6, 1, 4, 2, 5, 3} {
		analytics = append(analytics, models.MemberAnalytics{MaturityScore: s})
	}

	bands, ok := Bands(analytics)
	require.True(t, ok)
	assert.Equal(t, 2.0, bands.P33)
	assert.Equal(t, 5.0, bands.P67)
	assert.Equal(t, 1, bands.Low)
	assert.Equal(t, 3, bands.Medium)
	assert.Equal(t, 2, bands.High)
	assert.Equal(t, len(analytics), bands.Low+bands.Medium+bands.High)
}

func TestBands_Empty(t *testing.T) {
	_, ok := Bands(nil)
	assert.False(t, ok)
}

func TestBands_SingleMember(t *testing.T) {
	bands, ok := Bands([]models.MemberAnalytics{{MaturityScore: 12}})
	require.True(t, ok)
	assert.Equal(t, 1, bands.High)
}
