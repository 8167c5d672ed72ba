package capability

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cueup-dev/cueup/internal/venv"
)

func fakeEnv(t *testing.T, script string) venv.Handle {
	t.Helper()
	root := filepath.Join(t.TempDir(), ".venv")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	interpreter := filepath.Join(root, "bin", "python")
	require.NoError(t, os.WriteFile(interpreter, []byte(script), 0o755))
	return venv.Handle{Root: root, Interpreter: interpreter}
}

func TestDetectReportsAvailability(t *testing.T) {
	env := fakeEnv(t, `#!/bin/sh
case "$2" in
  "import pyngrok") exit 0 ;;
  *) exit 1 ;;
esac
`)

	caps := []Capability{
		{Name: "tunneling", Module: "pyngrok", Hint: "pip install pyngrok"},
		{Name: "telemetry", Module: "opentel_shim", Hint: "pip install opentel-shim"},
	}

	flags := Detect(context.Background(), env, caps, nil)

	require.True(t, flags.Available("tunneling"))
	require.False(t, flags.Available("telemetry"))
}

func TestDetectNeverFails(t *testing.T) {
	// Even a missing interpreter only yields unavailable flags.
	env := venv.Handle{Root: "nowhere", Interpreter: filepath.Join("nowhere", "python")}

	flags := Detect(context.Background(), env, []Capability{{Name: "tunneling", Module: "pyngrok"}}, nil)

	require.False(t, flags.Available("tunneling"))
}

func TestDetectWithNoCapabilities(t *testing.T) {
	env := fakeEnv(t, "#!/bin/sh\nexit 0\n")
	flags := Detect(context.Background(), env, nil, nil)
	require.Empty(t, flags)
}
