package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/idjson/internal/version"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	root.AddCommand(NewServeCmd(), NewRenderCmd(), NewVersionCmd())
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	for _, engine := range []string{"native", "jsoniter"} {
		out, err := run(t, "render", "--codec.engine", engine)
		require.NoError(t, err, engine)
		require.JSONEq(t, `{"ParentId":"143563463467","Name":"Name","Child":{"ChildId":"423534645674","Description":"Desc"}}`, out, engine)
	}
}

func TestRender_Indent(t *testing.T) {
	out, err := run(t, "render", "--codec.indent")
	require.NoError(t, err)
	require.Contains(t, out, "\n  \"ParentId\": \"143563463467\"")
}

func TestRender_InvalidConfig(t *testing.T) {
	_, err := run(t, "render", "--codec.engine", "sonic")
	require.ErrorContains(t, err, "codec.engine")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, version.String()+"\n", out)
}
