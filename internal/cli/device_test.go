package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/potatofarm/internal/storage"
	redisstorage "github.com/mcoot/potatofarm/internal/storage/redis"
	"github.com/mcoot/potatofarm/internal/storage/sqlite"
	"github.com/mcoot/potatofarm/internal/testutil"
)

func TestOpenLocalDefaultsToSQLite(t *testing.T) {
	c := DefaultConfig()
	c.DataDir = filepath.Join(t.TempDir(), "nested")

	local, err := openLocal(c)
	require.NoError(t, err)
	defer func() { _ = local.(io.Closer).Close() }()

	assert.IsType(t, &sqlite.Local{}, local)
	assert.FileExists(t, c.DevicePath())
}

func TestOpenLocalUsesRedisWhenConfigured(t *testing.T) {
	mr := miniredis.RunT(t)

	c := DefaultConfig()
	c.LocalRedisURL = "redis://" + mr.Addr()
	c.DeviceID = "laptop"

	local, err := openLocal(c)
	require.NoError(t, err)
	defer func() { _ = local.(io.Closer).Close() }()

	assert.IsType(t, &redisstorage.Local{}, local)
	require.NoError(t, local.Set(context.Background(), storage.CredentialKey, "tok"))

	value, ok, err := local.Get(context.Background(), storage.CredentialKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", value)
}

func TestOpenLocalRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := DefaultConfig()
	c.LocalRedisURL = "redis://" + addr

	_, err := openLocal(c)
	assert.ErrorContains(t, err, "failed to open redis device store")
}

func TestOpenDeviceKeepsCredential(t *testing.T) {
	c := DefaultConfig()
	c.DataDir = t.TempDir()

	dev, err := openDevice(c, testutil.NopLogger())
	require.NoError(t, err)
	dev.Gate.Set(context.Background(), "tok")
	require.NoError(t, dev.Close())

	// A second process on the same device sees the credential
	dev, err = openDevice(c, testutil.NopLogger())
	require.NoError(t, err)
	defer func() { _ = dev.Close() }()
	assert.True(t, dev.Gate.Present(context.Background()))
}
