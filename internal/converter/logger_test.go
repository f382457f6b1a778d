package converter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var quiet bytes.Buffer
	NewLogger(&quiet, false).Debug("opened workbook %s", "out.xlsx")
	assert.Empty(t, quiet.String())

	NewLogger(&quiet, false).Warn("slow disk")
	assert.Contains(t, quiet.String(), "slow disk")

	var verbose bytes.Buffer
	NewLogger(&verbose, true).Debug("opened workbook %s", "out.xlsx")
	assert.Contains(t, verbose.String(), "opened workbook out.xlsx")
	assert.Contains(t, verbose.String(), "level=DEBUG")
}

func TestLoggerErrorsAlwaysShown(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, false)
	logger.Info("saved workbook %s", "out.xlsx")
	assert.Empty(t, buf.String())

	logger.Error("failed to process file %s: %v", "a.csv", "boom")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "a.csv")
}
