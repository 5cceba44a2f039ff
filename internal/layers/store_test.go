package layers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/orgpulse/internal/errors"
	"github.com/rohankatakam/orgpulse/internal/models"
)

func writeRaw(t *testing.T, s *Store, layer Layer, name, body string) {
	t.Helper()
	path := s.Path(layer, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestStore_WriteEnvelope(t *testing.T) {
	s := NewStore(t.TempDir())
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	edges := []models.CollaborationEdge{{Source: "a", Target: "b", Weight: 2}}
	require.NoError(t, s.Write(Silver, CollaborationEdges, edges, TemporalEvents))

	raw, err := os.ReadFile(s.Path(Silver, CollaborationEdges))
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, s.RunID(), env.Metadata.RunID)
	assert.Equal(t, fixed, env.Metadata.GeneratedAt)
	assert.Equal(t, Silver, env.Metadata.Layer)
	assert.Equal(t, 1, env.Metadata.RecordCount)
	assert.Equal(t, []string{TemporalEvents}, env.Metadata.Sources)
	assert.JSONEq(t, `[{"source":"a","target":"b","weight":2}]`, string(env.Data))

	got, report, err := ReadRecords[models.CollaborationEdge](s, Silver, CollaborationEdges)
	require.NoError(t, err)
	assert.Equal(t, edges, got)
	assert.Equal(t, "envelope", report.Format)
}

func TestReadRecords_PlainArray(t *testing.T) {
	s := NewStore(t.TempDir())
	writeRaw(t, s, Bronze, CommitsAll, `[{"sha":"1","author":"a","repo_name":"api","timestamp":"2024-03-01T00:00:00Z"}]`)

	got, report, err := ReadRecords[models.RawCommit](s, Bronze, CommitsAll)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "api", got[0].Repo)
	assert.Equal(t, "array", report.Format)
}

func TestReadRecords_LegacySentinelsAnywhere(t *testing.T) {
	s := NewStore(t.TempDir())
	writeRaw(t, s, Bronze, IssuesAll, `[
		{"_metadata": {"generated": "2024-01-01"}},
		{"number": 1, "author": "a", "repo_name": "api", "created_at": "2024-03-01T00:00:00Z"},
		{"_metadata": {"note": "trailing"}}
	]`)

	got, report, err := ReadRecords[models.RawIssue](s, Bronze, IssuesAll)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, 2, report.SentinelsDropped)
	assert.Equal(t, "legacy", report.Format)
}

func TestReadRecords_Errors(t *testing.T) {
	s := NewStore(t.TempDir())

	_, _, err := ReadRecords[models.RawCommit](s, Bronze, CommitsAll)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeDataset, errors.GetType(err))

	writeRaw(t, s, Bronze, CommitsAll, `{"not": "an array"}`)
	_, _, err = ReadRecords[models.RawCommit](s, Bronze, CommitsAll)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeDataset, errors.GetType(err))
}

func TestStore_ReadObject(t *testing.T) {
	s := NewStore(t.TempDir())
	dist := map[string]int{"new": 2, "established": 3}
	require.NoError(t, s.Write(Silver, MemberStatusDistribution, dist))

	var got map[string]int
	require.NoError(t, s.ReadObject(Silver, MemberStatusDistribution, &got))
	assert.Equal(t, dist, got)

	meta, err := s.ReadMetadata(Silver, MemberStatusDistribution)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 1, meta.RecordCount)
}

func TestLoadBronze_DerivesMemberAge(t *testing.T) {
	s := NewStore(t.TempDir())
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	writeRaw(t, s, Bronze, MembersDetailed, `[
		{"login": "Alice", "public_repos": 12, "followers": 40, "created_at": "2023-03-02T00:00:00Z"},
		{"login": "bob", "account_age_days": -4}
	]`)
	require.NoError(t, s.Write(Bronze, CommitsAll, []models.RawCommit{}))
	require.NoError(t, s.Write(Bronze, IssuesAll, []models.RawIssue{}))
	require.NoError(t, s.Write(Bronze, PRsAll, []models.RawPullRequest{}))

	set, err := LoadBronze(s, now)
	require.NoError(t, err)
	require.Len(t, set.Members, 2)
	assert.Equal(t, 365, set.Members[0].AccountAgeDays)
	assert.Equal(t, 0, set.Members[1].AccountAgeDays)
	assert.Empty(t, set.Commits)
}
