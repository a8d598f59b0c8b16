package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/rostermatch/pkg/errors"
	"github.com/agentstation/rostermatch/pkg/logging"
)

type testEnv struct {
	app    *App
	config *Config
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ctf.json":
			_, _ = w.Write([]byte(`[{"_id":"1","name":"foo bar","rating":10}]`))
		case "/tdm.json":
			_, _ = w.Write([]byte(`[{"_id":"1","name":"foo bar","rating":12.5},{"_id":"9","name":"foo barrel","rating":1}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	players := filepath.Join(dir, "players")
	require.NoError(t, os.MkdirAll(players, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(players, "foo.yaml"), []byte("name: \"Foo Bar\"\n"), 0o644))

	config := DefaultConfig()
	config.CTFURL = srv.URL + "/ctf.json"
	config.TDMURL = srv.URL + "/tdm.json"
	config.PlayersDir = players
	config.OutputPath = filepath.Join(dir, "report.md")
	config.LogOutput = "discard"

	env := &testEnv{config: config, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	app, err := New("1.2.3", "abc123", "2026-01-01", "test",
		WithConfig(config),
		WithLogger(logging.NewNopLogger()),
		WithOutput(env.stdout, env.stderr),
	)
	require.NoError(t, err)
	env.app = app
	return env
}

func TestApp_New(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, "1.2.3", env.app.Version())
	assert.Equal(t, "abc123", env.app.Commit())
	assert.Equal(t, "2026-01-01", env.app.Date())
	assert.Equal(t, "test", env.app.BuiltBy())
	assert.Same(t, env.config, env.app.Config())
	assert.NotNil(t, env.app.Logger())

	_, err := New("dev", "", "", "", WithConfig(nil))
	assert.Error(t, err)
}

func TestExecuteRootWritesReport(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.app.Execute(context.Background(), nil))

	assert.Contains(t, env.stdout.String(), "Combined: 2 unique players")
	assert.Contains(t, env.stdout.String(), "Report written to: "+env.config.OutputPath)
	assert.Contains(t, env.stdout.String(), "Exact matches: 1")

	data, err := os.ReadFile(env.config.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- ✅ **EXACT:** \"foo bar\" → `1` (CTF: 10.0, TDM: 12.5)")
	assert.Contains(t, string(data), "- ⚠️ PARTIAL: \"foo barrel\" → `9` (TDM: 1.0)")
	assert.Contains(t, string(data), "**Recommended:** `1`")
}

func TestExecuteReportCommand(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.app.Execute(context.Background(), []string{"report", "-q"}))
	assert.FileExists(t, env.config.OutputPath)
	assert.True(t, env.app.Config().Quiet)
}

func TestExecuteReportMissingPlayers(t *testing.T) {
	env := newTestEnv(t)
	env.config.PlayersDir = filepath.Join(t.TempDir(), "nope")

	err := env.app.Execute(context.Background(), []string{"report"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.NoFileExists(t, env.config.OutputPath)
}

func TestExecuteMatchJSON(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.app.Execute(context.Background(), []string{"match", "Foo", "Bar", "--format", "json"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &got))
	assert.Equal(t, "Foo Bar", got["query"])
	assert.Equal(t, "recommended", got["verdict"])
	assert.Equal(t, "1", got["suggested_id"])
	assert.Len(t, got["partial"], 1)

	// progress lines stay off stdout
	assert.Contains(t, env.stderr.String(), "Fetching CTF data...")
	assert.NoFileExists(t, env.config.OutputPath)
}

func TestExecuteMatchTable(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.app.Execute(context.Background(), []string{"match", "foo", "-o", "table"}))
	assert.Contains(t, env.stdout.String(), "foo barrel")
}

func TestExecuteInvalidFormat(t *testing.T) {
	env := newTestEnv(t)

	err := env.app.Execute(context.Background(), []string{"match", "foo", "--format", "xml"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteMatchRequiresName(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.app.Execute(context.Background(), []string{"match"}))
}

func TestExecuteVersion(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.app.Execute(context.Background(), []string{"version"}))
	assert.Equal(t, "rostermatch 1.2.3\n", env.stdout.String())

	env.stdout.Reset()
	require.NoError(t, env.app.Execute(context.Background(), []string{"version", "-v"}))
	assert.Contains(t, env.stdout.String(), "commit:   abc123")
}

func TestExecuteConfigFlag(t *testing.T) {
	env := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "rm.yaml")
	content := "ctf_url: " + env.config.CTFURL + "\n" +
		"tdm_url: " + env.config.TDMURL + "\n" +
		"players_dir: " + env.config.PlayersDir + "\n" +
		"output_path: " + filepath.Join(filepath.Dir(path), "other.md") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, env.app.Execute(context.Background(), []string{"--config", path}))
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "other.md"))
	assert.Equal(t, path, env.app.Config().ConfigFile)
}
