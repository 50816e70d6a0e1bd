package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/bpk-stats/internal/db"
	"github.com/stretchr/testify/require"
)

var (
	siteDir    = filepath.Join("..", "..", "testdata", "site")
	invalidDir = filepath.Join("..", "..", "testdata", "invalid")
)

// resetFlags restores every flag variable, since rootCmd is shared between tests.
func resetFlags() {
	configPath, verbose, baseURL, dataDir, documentSet = "", false, "", "", ""
	loadJSON, loadArchive = false, false
	validateKind = ""
	servePort, serveWatch = 0, false
	historyLimit, historyJSON, historyID = db.DefaultListLimit, false, ""
	tokenSubject = "admin"
}

// isolateEnv blanks the variables the config layer reads.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BPK_BASE_URL", "BPK_DATA_DIR", "DATABASE_URL", "BPK_ADMIN_SECRET", "BPK_LOG_LEVEL", "PORT"} {
		t.Setenv(key, "")
	}
}

// execute runs the root command in-process and returns what it wrote.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	isolateEnv(t)
	resetFlags()
	t.Cleanup(resetFlags)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// writeConfig writes a YAML config file into a temp dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bpk_stats.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
