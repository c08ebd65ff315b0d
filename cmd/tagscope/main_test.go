package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yairfalse/tagscope/config"
)

func TestFormatCounts_SortedByEnvironment(t *testing.T) {
	got := formatCounts(map[string]int{"prod": 40, "dev": 12, "staging": 7})
	assert.Equal(t, "dev=12, prod=40, staging=7", got)
}

func TestFormatCounts_Empty(t *testing.T) {
	assert.Equal(t, "", formatCounts(nil))
}

func TestApplyScanOverrides(t *testing.T) {
	scanInputDir = "/tmp/creds"
	scanOutputDir = ""
	scanFocusFile = "rules.yaml"
	defer func() {
		scanInputDir, scanOutputDir, scanFocusFile = "", "", ""
	}()

	cfg := &config.Config{InputDir: "in", OutputDir: "out", FocusFile: "old.yaml"}
	applyScanOverrides(cfg)

	assert.Equal(t, "/tmp/creds", cfg.InputDir)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "rules.yaml", cfg.FocusFile)
}
