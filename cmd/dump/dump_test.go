package main

import (
	"bytes"
	"encoding/json"
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/trustflow-contract/config"
	"github.com/nspcc-dev/trustflow-contract/deploy"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDump(t *testing.T) {
	dir := t.TempDir()
	admin, seller := hash.Hash160([]byte("admin")), hash.Hash160([]byte("seller"))

	cfg := config.Default()
	cfg.Storage = dbconfig.DBConfiguration{
		Type:           dbconfig.LevelDB,
		LevelDBOptions: dbconfig.LevelDBOptions{DataDirectoryPath: filepath.Join(dir, "chain")},
	}
	cfg.EventLog.Path = filepath.Join(dir, "events.jsonl")
	cfg.Contracts.Admin = address.Uint160ToString(admin)
	cfg.Contracts.Members.Sellers = []string{address.Uint160ToString(seller)}

	l := zaptest.NewLogger(t)

	ch, err := deploy.NewChain(cfg, l)
	require.NoError(t, err)

	prm, err := deploy.PrmFromConfig(cfg, ch, l)
	require.NoError(t, err)

	b, err := deploy.Deploy(prm)
	require.NoError(t, err)
	require.NoError(t, b.Reputation.SetScore(admin, seller, big.NewInt(42)))
	require.NoError(t, ch.Close())

	var buf bytes.Buffer
	require.NoError(t, _dump(cfg, true, json.NewEncoder(&buf)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 3 roles, 1 ledger record, 2 events
	require.Len(t, lines, 6)

	var role roleDump
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &role))
	require.Equal(t, "SELLER_ROLE", role.Role)
	require.Equal(t, []string{address.Uint160ToString(seller)}, role.Members)

	var change changeDump
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &change))
	require.Equal(t, "42", change.Delta)
	require.Equal(t, "42", change.Score)
	require.Empty(t, change.Request)
}
