package backend

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/emika-opensource/marketing-manager/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Store.Backend = "memory"
	b, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.IsType(t, &Memory{}, b)

	dir := t.TempDir()
	cfg.Store.Backend = "file"
	cfg.Store.DataDir = dir
	b, err = Open(ctx, cfg)
	require.NoError(t, err)
	require.Equal(t, dir, b.(*File).Dir())

	cfg.Store.Backend = "sqlite"
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "x.db")
	b, err = Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, b.Ping(ctx))
	require.NoError(t, b.Close())

	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	host, port, err := net.SplitHostPort(m.Addr())
	require.NoError(t, err)
	cfg.Store.Backend = "redis"
	cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Prefix = host, port, "c:"
	b, err = Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, b.Write(ctx, "brand", []byte(`{}`)))
	require.True(t, m.Exists("c:brand"))
	require.NoError(t, b.Close())

	cfg.Store.Backend = "cassandra"
	_, err = Open(ctx, cfg)
	require.Error(t, err)
}
