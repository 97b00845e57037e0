package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	idjson "github.com/reoring/idjson"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(newFlags(t))
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestLoad_JSONCFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appsettings.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
	// comments are allowed
	"server": {"addr": ":9090", "framework": "gin",},
	"codec": {"engine": "jsoniter", "max_bytes": 4096},
	"log": {"level": "debug"}, /* and block comments */
}`), 0o600))

	c, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)
	require.Equal(t, ":9090", c.Server.Addr)
	require.Equal(t, "gin", c.Server.Framework)
	require.Equal(t, "jsoniter", c.Codec.Engine)
	require.EqualValues(t, 4096, c.Codec.MaxBytes)
	require.Equal(t, "debug", c.Log.Level)
	require.Equal(t, "json", c.Codec.Driver)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  shutdown_timeout: 3s\ncodec:\n  unknown_fields: reject\n"), 0o600))

	c, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, c.Server.ShutdownTimeout)
	require.Equal(t, idjson.UnknownReject, c.Codec.DecodeOpt().Unknown)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"addr":":1"},"log":{"format":"json"}}`), 0o600))
	t.Setenv("IDJSON_SERVER_ADDR", ":2")
	t.Setenv("IDJSON_ERRORS_LANG", "ja")

	c, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)
	require.Equal(t, ":2", c.Server.Addr, "env beats file")
	require.Equal(t, "json", c.Log.Format)
	require.Equal(t, "ja", c.Errors.Lang)

	c, err = Load(newFlags(t, "--config", path, "--server.addr", ":3"))
	require.NoError(t, err)
	require.Equal(t, ":3", c.Server.Addr, "flag beats env")
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(newFlags(t, "--server.framework", "chi"))
	require.ErrorContains(t, err, "server.framework")

	_, err = Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "missing.json")))
	require.Error(t, err)
}

func TestCodecConfig_SerializerOptions(t *testing.T) {
	c := Default().Codec
	c.Driver = "xml"
	_, err := c.SerializerOptions()
	require.Error(t, err)

	c.Driver = "json"
	c.Indent = true
	opts, err := c.SerializerOptions()
	require.NoError(t, err)
	require.Len(t, opts, 3)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := Default()
	c.Log.Format = "json"
	c.Log.Level = "warn"
	log := c.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown", "path", "ParentId")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"path":"ParentId"`)
}
