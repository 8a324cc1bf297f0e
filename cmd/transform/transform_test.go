package transform_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/reframe-client/cmd/root"
	"fjacquet/reframe-client/cmd/transform"
	"fjacquet/reframe-client/internal/catalog"
	"fjacquet/reframe-client/internal/models"
	"fjacquet/reframe-client/internal/transformerror"

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

func execute(t *testing.T, endpoint, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	root.Init()
	if transform.Cmd.Parent() == nil {
		root.Cmd.AddCommand(transform.Cmd)
	}
	resetFlags(transform.Cmd.Flags())
	resetFlags(root.Cmd.PersistentFlags())

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(io.Discard)
	root.Cmd.SetIn(strings.NewReader(stdin))
	root.Cmd.SetArgs(append([]string{"transform", "--endpoint", endpoint, "--log-level", "error"}, args...))
	err := root.Cmd.Execute()
	return out.String(), err
}

func reframeServer(t *testing.T, received *string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if received != nil {
			*received = string(b)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTransformCommand_Metadata(t *testing.T) {
	assert.Equal(t, "transform", transform.Cmd.Use)
	assert.Contains(t, transform.Cmd.Long, "Example")
	assert.NotNil(t, transform.Cmd.RunE)
	for _, name := range []string{"input", "output", "sample", "format"} {
		assert.NotNil(t, transform.Cmd.Flags().Lookup(name), name)
	}
}

func TestTransformCommand_ReadsStdin(t *testing.T) {
	var received string
	srv := reframeServer(t, &received, http.StatusOK,
		`{"status":"success","results":["<Doc><A>1</A></Doc>"],"count":1,"message_type":"single"}`)

	out, err := execute(t, srv.URL+"/reframe", "{1:F01BNPAFRPPXXX0000000000}{4:\n:20:FT1\n-}")
	require.NoError(t, err)
	assert.Equal(t, "{1:F01BNPAFRPPXXX0000000000}{4:\n:20:FT1\n-}", received)
	assert.Equal(t, "<Doc>\n  <A>1</A>\n</Doc>\n", out)
}

func TestTransformCommand_SampleAsXML(t *testing.T) {
	var received string
	srv := reframeServer(t, &received, http.StatusOK,
		`{"status":"success","results":["<a/>","<b/>"],"count":2,"message_type":"multiple"}`)

	out, err := execute(t, srv.URL, "", "--sample", "mt103", "--format", "xml")
	require.NoError(t, err)

	sample, err := catalog.Default().Get("MT103")
	require.NoError(t, err)
	assert.Equal(t, sample.Sample, received)
	assert.Equal(t, "<a/>\n<b/>\n", out)
}

func TestTransformCommand_WritesOutputFile(t *testing.T) {
	srv := reframeServer(t, nil, http.StatusOK, `{"result":"<Doc><A>1</A></Doc>"}`)
	input := filepath.Join(t.TempDir(), "mt103.txt")
	require.NoError(t, os.WriteFile(input, []byte("{4:\n:20:FT1\n-}"), 0o600))
	output := filepath.Join(t.TempDir(), "out", "pacs008.xml")

	out, err := execute(t, srv.URL, "", "-i", input, "-o", output, "-f", "xml")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "<Doc>\n  <A>1</A>\n</Doc>\n", string(data))
}

func TestTransformCommand_BusinessErrorFails(t *testing.T) {
	srv := reframeServer(t, nil, http.StatusOK,
		`{"status":"error","error":{"message":"Unsupported message type","details":"MT999"}}`)

	out, err := execute(t, srv.URL, "{4:\n-}")
	require.Error(t, err)
	assert.Equal(t, transformerror.BusinessError, transformerror.KindOf(err))
	assert.Contains(t, err.Error(), "Unsupported message type")
	assert.NotContains(t, err.Error(), "MT999")
	assert.Empty(t, out)
}

func TestTransformCommand_HTTPErrorAsJSON(t *testing.T) {
	srv := reframeServer(t, nil, http.StatusInternalServerError, "boom")

	out, err := execute(t, srv.URL, "{4:\n-}", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, transformerror.TransportError, transformerror.KindOf(err))

	var outcome models.TransformOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, "HTTP 500: boom", outcome.Failure.Message)
	assert.Equal(t, http.StatusInternalServerError, outcome.Failure.StatusCode)
}

func TestTransformCommand_BlankInputIsRejected(t *testing.T) {
	var received string
	srv := reframeServer(t, &received, http.StatusOK, "<Doc/>")

	_, err := execute(t, srv.URL, "   \n")
	require.Error(t, err)
	assert.Equal(t, transformerror.ValidationError, transformerror.KindOf(err))
	assert.Empty(t, received)
}

func TestTransformCommand_UnknownSample(t *testing.T) {
	srv := reframeServer(t, nil, http.StatusOK, "<Doc/>")

	_, err := execute(t, srv.URL, "", "--sample", "MT999")
	assert.ErrorIs(t, err, catalog.ErrUnknownMessageType)
}

func TestTransformCommand_UnsupportedFormat(t *testing.T) {
	srv := reframeServer(t, nil, http.StatusOK, "<Doc/>")

	_, err := execute(t, srv.URL, "{4:\n-}", "--format", "yaml")
	assert.ErrorContains(t, err, "unsupported output format")
}
