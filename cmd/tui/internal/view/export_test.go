package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "statement_20240101_20240131.csv", exportFileName(date(2024, 1, 1), date(2024, 1, 31)))
}
