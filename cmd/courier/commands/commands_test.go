package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/courier/cmd/courier/commands"
	"go.trai.ch/courier/internal/adapters/codec"
	"go.trai.ch/courier/internal/adapters/config"
	"go.trai.ch/courier/internal/adapters/localid"
	"go.trai.ch/courier/internal/adapters/logger"
	"go.trai.ch/courier/internal/adapters/queuefile"
	"go.trai.ch/courier/internal/app"
	"go.trai.ch/courier/internal/build"
	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/engine/resolver"
)

const queueJSON = `[
  {"httpPath": "classes/Post", "httpMethod": "POST", "parameters": {"title": "hi"}, "localId": "local_post"},
  {
    "httpPath": "classes/Comment",
    "httpMethod": "POST",
    "parameters": {"post": {"__type": "Pointer", "className": "Post", "localId": "local_post"}},
    "localId": "local_comment"
  }
]`

type env struct {
	dir    string
	config string
	queue  string
}

func newEnv(t *testing.T, backend string) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		dir:    dir,
		config: filepath.Join(dir, "courier.yaml"),
		queue:  filepath.Join(dir, "queue.json"),
	}
	cfg := "version: \"1\"\nstore:\n  backend: " + backend + "\n  path: state/ids\nqueue:\n  parallelism: 2\n"
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0o600))
	require.NoError(t, os.WriteFile(e.queue, []byte(queueJSON), 0o600))
	return e
}

func newCLI(out io.Writer) *commands.CLI {
	log := logger.NewWithWriter(io.Discard)
	c := codec.New()
	a := app.New(config.NewLoader(log), localid.NewOpener(), queuefile.New(), resolver.NewFactory(c, c, log), log)
	cli := commands.New(a)
	cli.SetOutput(out)
	return cli
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := newCLI(&out)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestKey(t *testing.T) {
	e := newEnv(t, "json")

	out, err := execute(t, "key", e.queue)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, domain.CacheKeyNamespace+".1.POST."), line)
	}
	assert.NotEqual(t, lines[0], lines[1])
}

func TestKey_RequiresArgument(t *testing.T) {
	_, err := execute(t, "key")
	assert.Error(t, err)
}

func TestMapThenResolve(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			e := newEnv(t, backend)
			outPath := filepath.Join(e.dir, "resolved.json")

			_, err := execute(t, "-c", e.config, "map", "local_post", "srvPost")
			require.NoError(t, err)

			out, err := execute(t, "--config", e.config, "resolve", e.queue, "-o", outPath)
			require.NoError(t, err)
			assert.Equal(t, "2 resolved, 0 failed, 0 rejected, 0 duplicate\n", out)

			cmds, err := queuefile.New().Load(outPath)
			require.NoError(t, err)
			require.Len(t, cmds, 2)

			assert.Equal(t, "classes/Post/srvPost", cmds[0].Path)
			assert.Equal(t, domain.MethodPut, cmds[0].Method)
			assert.Empty(t, cmds[0].LocalID)

			assert.Equal(t, "classes/Comment", cmds[1].Path)
			assert.Equal(t, "local_comment", cmds[1].LocalID)
			assert.Equal(t, map[string]any{"__type": "Pointer", "className": "Post", "objectId": "srvPost"}, cmds[1].Parameters["post"])
		})
	}
}

func TestResolve_FailureExitsWithCommandFailed(t *testing.T) {
	e := newEnv(t, "json")

	out, err := execute(t, "-c", e.config, "resolve", e.queue)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCommandFailed))
	assert.True(t, errors.Is(err, domain.ErrLocalIDNotFound))
	assert.Equal(t, "1 resolved, 1 failed, 0 rejected, 0 duplicate\n", out)

	// Rewritten in place; nothing was resolvable so the queue keeps its meaning.
	cmds, err := queuefile.New().Load(e.queue)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "local_post", cmds[0].LocalID)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, build.Info()+"\n", out)

	out, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, build.Version+"\n", out)
}
