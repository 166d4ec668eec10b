package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	creditledger "voltic/contexts/billing/credit-ledger"
	ledgerapp "voltic/contexts/billing/credit-ledger/application"
)

type memoryBackend struct {
	module   creditledger.Module
	migrated int
	closed   int
}

func (b *memoryBackend) Service() ledgerapp.Service { return b.module.Service }

func (b *memoryBackend) Migrate(context.Context) error {
	b.migrated++
	return nil
}

func (b *memoryBackend) Close() error {
	b.closed++
	return nil
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{module: creditledger.NewInMemoryModule(slog.Default())}
}

func run(t *testing.T, backend *memoryBackend, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(func() (ledgerBackend, error) { return backend, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestProvisionGrantAndReconcile(t *testing.T) {
	backend := newMemoryBackend()

	out, err := run(t, backend, "provision", "ws-1", "--name", "Glow")
	require.NoError(t, err)
	assert.Contains(t, out, "Provisioned ws-1 with 100 credits")

	out, err = run(t, backend, "grant", "ws-1", "--package", "pro", "--reference", "pay-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Granted 500 credits (pro), balance 600")

	out, err = run(t, backend, "grant", "ws-1", "--amount", "25", "--type", "welcome_bonus")
	require.NoError(t, err)
	assert.Contains(t, out, "balance 625")

	out, err = run(t, backend, "balance", "ws-1")
	require.NoError(t, err)
	assert.Contains(t, out, "ws-1: 625 credits")

	out, err = run(t, backend, "transactions", "ws-1", "--type", "purchase")
	require.NoError(t, err)
	assert.Contains(t, out, "pay-1")
	assert.NotContains(t, out, "welcome_bonus")

	out, err = run(t, backend, "reconcile", "ws-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Balanced")

	assert.Equal(t, 6, backend.closed)
}

func TestGrantFlagValidation(t *testing.T) {
	backend := newMemoryBackend()
	_, err := run(t, backend, "provision", "ws-1")
	require.NoError(t, err)

	_, err = run(t, backend, "grant", "ws-1")
	require.ErrorContains(t, err, "one of --package or --amount")

	_, err = run(t, backend, "grant", "ws-1", "--package", "pro", "--amount", "5")
	require.ErrorContains(t, err, "mutually exclusive")

	_, err = run(t, backend, "grant", "ws-1", "--amount", "5", "--type", "variation")
	require.ErrorContains(t, err, "grant type")

	_, err = run(t, backend, "grant", "ws-1", "--package", "platinum")
	require.Error(t, err)
}

func TestMigrateDelegatesToBackend(t *testing.T) {
	backend := newMemoryBackend()
	out, err := run(t, backend, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema up to date")
	assert.Equal(t, 1, backend.migrated)
	assert.Equal(t, 1, backend.closed)
}

func TestBalanceOfUnknownWorkspaceFails(t *testing.T) {
	backend := newMemoryBackend()
	_, err := run(t, backend, "balance", "ws-missing")
	require.Error(t, err)
}
