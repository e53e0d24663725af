package reporter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

func newTestCounts() (*types.TagCounts, *types.PortProtocolCounts) {
	tags := types.NewTagCounts()
	ports := types.NewPortProtocolCounts()

	for _, row := range []struct {
		tag      string
		port     string
		protocol string
	}{
		{tag: "web2", port: "80", protocol: "tcp"},
		{tag: "web", port: "443", protocol: "tcp"},
		{tag: types.Untagged, port: "22", protocol: "tcp"},
		{tag: types.Untagged, port: "22", protocol: "tcp"},
		{tag: types.Untagged, port: "53", protocol: "other"},
	} {
		tags.StoreOrIncrement(row.tag)
		ports.StoreOrIncrement(types.PortProtocol{Port: row.port, Protocol: row.protocol})
	}

	return tags, ports
}

const wantReport = `Tag Counts:

Tag,Count
web2,1
web,1
Untagged,3

Port/Protocol Combination Counts:

Port,Protocol,Count
80,tcp,1
443,tcp,1
22,tcp,2
53,other,1
`

func TestWrite(t *testing.T) {
	tags, ports := newTestCounts()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tags, ports))

	assert.Equal(t, wantReport, buf.String())
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, types.NewTagCounts(), types.NewPortProtocolCounts()))

	assert.Equal(t, "Tag Counts:\n\nTag,Count\n\nPort/Protocol Combination Counts:\n\nPort,Protocol,Count\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func TestWrite_Error(t *testing.T) {
	tags, ports := newTestCounts()

	assert.Error(t, Write(failingWriter{}, tags, ports))
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("stale\n"), 1000), 0o644))

	tags, ports := newTestCounts()
	require.NoError(t, WriteFile(path, tags, ports))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantReport, string(got))
}

func TestWriteFile_Error(t *testing.T) {
	tags, ports := newTestCounts()
	path := filepath.Join(t.TempDir(), "missing-dir", "report.txt")

	err := WriteFile(path, tags, ports)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing-dir")
}

func TestPrintSummary(t *testing.T) {
	tags, ports := newTestCounts()

	var buf bytes.Buffer
	PrintSummary(&buf, tags, ports)

	out := buf.String()
	assert.Contains(t, out, "TAG")
	assert.Contains(t, out, "PROTOCOL")
	assert.Contains(t, out, "Untagged")
	assert.Contains(t, out, "other")
}
