package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorapi/internal/ingest"
	"donorapi/internal/service"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "donors.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIngestDryRun(t *testing.T) {
	path := writeCSV(t, "Full Name,Mobile,City\nAsha,0991,Pune\nRavi,0992,Delhi\nMeena,,Goa\n")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"ingest", "--file", path, "--distributor", "mgr-1", "--candidates", "c1,c2", "--policy", "equal"})
	require.NoError(t, cmd.Execute())

	var plan service.PlanResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan))
	assert.Equal(t, "donors.csv", plan.FileName)
	assert.Equal(t, 3, plan.TotalRows)
	assert.Equal(t, 3, plan.TotalColumns)
	assert.Equal(t, "equal", plan.Policy)
	assert.Equal(t, map[string]string{"full_name": "Full Name", "phone": "Mobile"}, plan.HeaderMap)
	assert.Equal(t, []service.PlannedGroup{{CandidateID: "c1", Records: 2}, {CandidateID: "c2", Records: 1}}, plan.Groups)
}

func TestIngestDryRunRejects(t *testing.T) {
	path := writeCSV(t, "city,zip\nPune,411001\n")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ingest", "--file", path, "--distributor", "mgr-1", "--candidates", "c1"})
	err := cmd.Execute()
	assert.ErrorIs(t, err, ingest.ErrNoRecognizableColumns)
}

func TestIngestRequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"ingest", "--distributor", "mgr-1"})
	assert.Error(t, cmd.Execute())
}

func TestIngestMissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"ingest", "--file", filepath.Join(t.TempDir(), "nope.csv"), "--distributor", "mgr-1", "--candidates", "c1"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read --file")
}
