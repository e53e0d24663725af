package lookup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		want       Entry
		wantReason types.SkipReason
	}{
		{
			name: "Should trim and lowercase fields",
			line: "  443 , TCP ,  SV_P2 \n",
			want: Entry{
				Key: types.LookupKey{Port: "443", Protocol: "tcp"},
				Tag: "sv_p2",
			},
			wantReason: types.SkipNone,
		},
		{
			name:       "Should skip blank line",
			line:       " \t\r\n",
			wantReason: types.SkipBlank,
		},
		{
			name:       "Should skip line with two fields",
			line:       "80,tcp",
			wantReason: types.SkipFieldCount,
		},
		{
			name:       "Should skip line with four fields",
			line:       "80,tcp,web,extra",
			wantReason: types.SkipFieldCount,
		},
		{
			name: "Should keep empty tag",
			line: "25,tcp,",
			want: Entry{
				Key: types.LookupKey{Port: "25", Protocol: "tcp"},
				Tag: "",
			},
			wantReason: types.SkipNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ParseLine(tt.line)
			assert.Equal(t, tt.wantReason, reason)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	input := "dstport,protocol,tag\n" +
		"25,tcp,sv_P1\n" +
		"\n" +
		"68,udp,sv_p2\n" +
		"broken line\n" +
		"443,TCP,Sv_P2\n" +
		"993,tcp,email" // no trailing newline

	var skipped []int
	table, err := Parse(strings.NewReader(input), WithSkipHook(func(lineNumber int, reason types.SkipReason) {
		skipped = append(skipped, lineNumber)
	}))
	require.NoError(t, err)

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, []int{3, 5}, skipped)

	tag, ok := table.Lookup("443", "tcp")
	assert.True(t, ok)
	assert.Equal(t, "sv_p2", tag)

	tag, ok = table.Lookup("993", "tcp")
	assert.True(t, ok)
	assert.Equal(t, "email", tag)

	_, ok = table.Lookup("68", "tcp")
	assert.False(t, ok)
}

func TestParse_LastRowWins(t *testing.T) {
	input := "dstport,protocol,tag\n80,tcp,web\n80,tcp,web2\n443,tcp,web\n"

	table, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	tag, ok := table.Lookup("80", "tcp")
	require.True(t, ok)
	assert.Equal(t, "web2", tag)
	assert.Equal(t, 2, table.Len())
}

func TestParse_HeaderAlwaysDiscarded(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "Should discard data row on first line", input: "80,tcp,web\n443,tcp,https\n", want: 1},
		{name: "Should accept empty input", input: "", want: 0},
		{name: "Should accept header only", input: "dstport,protocol,tag", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Len())

			_, ok := table.Lookup("80", "tcp")
			assert.False(t, ok)
		})
	}
}

func TestParse_ReadError(t *testing.T) {
	readErr := errors.New("disk on fire")

	_, err := Parse(iotest.ErrReader(readErr))
	assert.ErrorIs(t, err, readErr)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lookup.csv")
	require.NoError(t, os.WriteFile(path, []byte("dstport,protocol,tag\r\n22,tcp,ssh\r\n"), 0o644))

	table, err := Load(path)
	require.NoError(t, err)

	tag, ok := table.Lookup("22", "tcp")
	assert.True(t, ok)
	assert.Equal(t, "ssh", tag)

	_, err = Load(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "missing.csv")
}
