package batch_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/reframe-client/cmd/batch"
	"fjacquet/reframe-client/cmd/root"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	root.Init()
	if batch.Cmd.Parent() == nil {
		root.Cmd.AddCommand(batch.Cmd)
	}
	resetFlags(batch.Cmd.Flags())
	resetFlags(root.Cmd.PersistentFlags())

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(io.Discard)
	root.Cmd.SetArgs(append([]string{"batch", "--log-level", "error"}, args...))
	err := root.Cmd.Execute()
	return out.String(), err
}

func TestBatchCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "batch", batch.Cmd.Use)
	assert.Contains(t, batch.Cmd.Short, "Batch transform")
	assert.Contains(t, batch.Cmd.Long, "Example")
	assert.NotNil(t, batch.Cmd.RunE)
}

func TestBatchCommand_TransformsDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if strings.Contains(string(b), "FAIL") {
			_, _ = w.Write([]byte(`{"status":"error","error":{"message":"Invalid field 32A"}}`))
			return
		}
		_, _ = w.Write([]byte(`<Doc><A>1</A></Doc>`))
	}))
	defer srv.Close()

	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "ok.txt"), []byte("{4:\n:20:OK\n-}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "ko.mt"), []byte("{4:\n:20:FAIL\n-}"), 0o600))
	reportPath := filepath.Join(out, "report.csv")

	stdout, err := execute(t, "--endpoint", srv.URL, "-i", in, "-o", out, "--report", reportPath, "--concurrency", "2", "--rps", "100")
	require.NoError(t, err)
	assert.Equal(t, "Transformed 1 of 2 files.\n", stdout)

	xml, err := os.ReadFile(filepath.Join(out, "ok.txt.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<Doc>\n  <A>1</A>\n</Doc>\n", string(xml))

	csv, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(csv), "ko.mt")
	assert.Contains(t, string(csv), "Invalid field 32A")
}

func TestBatchCommand_RequiresDirectories(t *testing.T) {
	_, err := execute(t, "-i", t.TempDir())
	assert.ErrorContains(t, err, "output")
}

func TestBatchCommand_RejectsInvalidConcurrency(t *testing.T) {
	_, err := execute(t, "-i", t.TempDir(), "-o", t.TempDir(), "--concurrency", "0")
	assert.ErrorContains(t, err, "--concurrency")
}
