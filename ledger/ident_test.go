package ledger_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianbank/bankcore/ledger"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := ledger.NewID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGenerateAccountNumber_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^BOA-\d{10}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, ledger.GenerateAccountNumber())
	}
}

func TestGenerateTempPassword_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^TEMP\d{6}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, ledger.GenerateTempPassword())
	}
}
