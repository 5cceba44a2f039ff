package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/models"
)

func TestWriteCSV_ContributionMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csv", "contribution_metrics.csv")
	rows := []models.ContributionMetrics{
		{User: "alice", TotalContributions: 3, Commits: 2, PRsAuthored: 1, HasContributed: true},
		{User: "bob"},
	}
	require.NoError(t, WriteCSV(path, &rows))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "user,total_contributions,commits,prs_authored,issues_created,has_contributed", lines[0])
	assert.Equal(t, "alice,3,2,1,0,true", lines[1])

	var back []models.ContributionMetrics
	require.NoError(t, ReadCSV(path, &back))
	assert.Equal(t, rows, back)
}

func TestWriteCSV_Edges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	edges := []models.CollaborationEdge{{Source: "a", Target: "b", Weight: 2}}
	require.NoError(t, WriteCSV(path, &edges))

	var back []models.CollaborationEdge
	require.NoError(t, ReadCSV(path, &back))
	assert.Equal(t, edges, back)
}

func TestReadCSV_Missing(t *testing.T) {
	var back []models.CollaborationEdge
	assert.Error(t, ReadCSV(filepath.Join(t.TempDir(), "absent.csv"), &back))
}
