package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fire/internal/commands"
)

const sampleStatement = "../../testdata/camt053_sample.xml"

func runFire(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// newProject initializes a project without git in a temp dir.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runFire(t, "init", dir, "--name", "The Does", "--no-git")
	require.NoError(t, err)
	return dir
}

func dropStatement(t *testing.T, dir, name string) {
	t.Helper()
	data, err := os.ReadFile(sampleStatement)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", name), data, 0o644))
}
