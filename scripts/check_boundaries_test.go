package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryRespectsBoundaries(t *testing.T) {
	violations, err := collectViolations(filepath.Join("..", "contexts"))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func writeSource(t *testing.T, root string, rel string, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestViolationsAreReported(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "billing/credit-ledger/domain/entities/a.go", `package entities

import (
	"strings"

	"gorm.io/gorm"
)

var _ = strings.TrimSpace
var _ gorm.DB
`)
	writeSource(t, root, "billing/credit-ledger/application/b.go", `package application

import (
	"voltic/contexts/creative-generation/variation-service/ports"
	"voltic/contracts/events/v1"
	"voltic/contexts/billing/credit-ledger/adapters/memory"
)
`)
	writeSource(t, root, "billing/credit-ledger/adapters/memory/c.go", `package memory

import "github.com/google/uuid"
`)

	violations, err := collectViolations(root)
	require.NoError(t, err)

	rules := make(map[string]string, len(violations))
	for _, v := range violations {
		rules[v.Import] = v.Rule
	}
	assert.Len(t, violations, 3)
	assert.Equal(t, "domain import is outside explicit allowlist", rules["gorm.io/gorm"])
	assert.Contains(t, rules["voltic/contexts/creative-generation/variation-service/ports"], "cross-context")
	assert.Equal(t, "application import is outside explicit allowlist", rules["voltic/contexts/billing/credit-ledger/adapters/memory"])
}
