package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV_FILE", t.TempDir()+"/missing.env")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		for _, sub := range c.Commands() {
			names = append(names, c.Name()+" "+sub.Name())
		}
	}
	assert.Subset(t, names, []string{"migrate up", "migrate down", "migrate version", "jobs trigger", "jobs stats"})
}

func TestTriggerRejectsUnknownTask(t *testing.T) {
	_, err := execute(t, "jobs", "trigger", "mail:send")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task type")
}

func TestMigrateDownNeedsSteps(t *testing.T) {
	_, err := execute(t, "migrate", "down", "--steps", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps")
}
