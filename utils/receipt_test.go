package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReceiptNumber(t *testing.T) {
	receipt := GenerateReceiptNumber()

	parts := strings.Split(receipt, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, "RR", parts[0])
	assert.Len(t, parts[2], 9)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		number := GenerateReceiptNumber()
		assert.False(t, seen[number], "receipt numbers must not repeat")
		seen[number] = true
	}
}
