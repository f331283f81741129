package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCmd_Use(t *testing.T) {
	assert.Equal(t, "plan [corpus-root]", planCmd.Use)
}

func TestPlanCmd_HasFlags(t *testing.T) {
	for _, name := range []string{"descriptions", "threshold", "parallel", "ephemeral", "mappings", "json", "out", "watch"} {
		assert.NotNil(t, planCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}

func TestPlanCmd_PrintsSummary(t *testing.T) {
	planner, cleanup := setupTestRuntime(testPlan(), nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"plan", "/tmp/corpus"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 1, planner.calls)
	assert.Contains(t, buf.String(), "Planned reorganisation of /tmp/corpus")
	assert.Contains(t, buf.String(), "3 planned moves")
	assert.Contains(t, buf.String(), "study:")
	assert.Contains(t, buf.String(), "3 decided, 1 escalated")
	assert.Contains(t, buf.String(), "4 (2 answered from cache)")
	assert.NotContains(t, buf.String(), "hw/hw1.pdf", "mappings withheld without --mappings")
}

func TestPlanCmd_ShowsMappings(t *testing.T) {
	_, cleanup := setupTestRuntime(testPlan(), nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"plan", "/tmp/corpus", "--mappings"})
	defer func() {
		rootCmd.SetArgs(nil)
		planShowMappings = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "hw/hw1.pdf -> practice/hw/hw1.pdf")
}

func TestPlanCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestRuntime(testPlan(), nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"plan", "/tmp/corpus", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		planJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"Mappings\"")
	assert.Contains(t, buf.String(), "\"DestPath\"")
}

func TestPlanCmd_WritesPlanFile(t *testing.T) {
	_, cleanup := setupTestRuntime(testPlan(), nil)
	defer cleanup()

	out := filepath.Join(t.TempDir(), "plan.json")
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"plan", "/tmp/corpus", "--out", out})
	defer func() {
		rootCmd.SetArgs(nil)
		planOut = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "practice/hw/hw1.pdf")
}

func TestPlanCmd_PlannerError(t *testing.T) {
	wantErr := errors.New("no API key")
	_, cleanup := setupTestRuntime(nil, wantErr)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"plan", "/tmp/corpus"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, wantErr)
}
