package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// result captures one CLI invocation.
type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs a fresh root command with args. A fresh command per call keeps
// flag values from leaking between invocations.
func execute(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()
	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// testDB returns a fresh database path in a temp dir.
func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

const npcJSON = `{"name":"Willy the Goblin","health":67.8,"gold":999}`
