package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eafipg/eafipg/internal/store"
)

func execGraph(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewGraphCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestGraphPutGetListRoundTrip(t *testing.T) {
	path := writeGraphFile(t, "loads.json", capLoadDoc)
	dbPath := filepath.Join(t.TempDir(), "graphs.db")

	// put
	buf, err := execGraph(t, "json", "put", path, "--db", dbPath)
	require.NoError(t, err)

	var putResp struct {
		Data store.GraphInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &putResp))
	require.NotEmpty(t, putResp.Data.Hash)
	assert.Equal(t, "loads", putResp.Data.Name)

	// list
	buf, err = execGraph(t, "json", "list", "--db", dbPath)
	require.NoError(t, err)

	var listResp struct {
		Data []store.GraphInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, putResp.Data.Hash, listResp.Data[0].Hash)

	// get
	buf, err = execGraph(t, "text", "get", putResp.Data.Hash, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"ld"`)
}

func TestGraphGetUnknownHash(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "graphs.db")

	buf, err := execGraph(t, "text", "get", "feedface", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "NOT_FOUND")
}

func TestGraphPutNameFlag(t *testing.T) {
	path := writeGraphFile(t, "loads.json", capLoadDoc)
	dbPath := filepath.Join(t.TempDir(), "graphs.db")

	_, err := execGraph(t, "json", "put", path, "--db", dbPath, "--name", "renamed")
	require.NoError(t, err)

	buf, err := execGraph(t, "json", "list", "--db", dbPath)
	require.NoError(t, err)

	var listResp struct {
		Data []store.GraphInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, "renamed", listResp.Data[0].Name)
}
