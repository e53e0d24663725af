package lookup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

// Table maps a destination port and protocol name to a tag. A Table is
// built once by Load or Parse and is read-only afterwards.
type Table struct {
	tags map[types.LookupKey]string
}

// Lookup returns the tag for a port/protocol pair. The protocol must already
// be lowercase.
func (t *Table) Lookup(port, protocol string) (string, bool) {
	tag, ok := t.tags[types.LookupKey{Port: port, Protocol: protocol}]
	return tag, ok
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.tags)
}

// SkipHook receives the 1-based line number and reason of every skipped line.
type SkipHook func(lineNumber int, reason types.SkipReason)

type Option func(*options)

type options struct {
	onSkip SkipHook
}

func WithSkipHook(hook SkipHook) Option {
	return func(o *options) {
		o.onSkip = hook
	}
}

// Entry is one parsed row of the lookup file.
type Entry struct {
	Key types.LookupKey
	Tag string
}

// ParseLine parses a dstport,protocol,tag row. Fields are trimmed; protocol
// and tag are lowercased.
func ParseLine(line string) (Entry, types.SkipReason) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, types.SkipBlank
	}

	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return Entry{}, types.SkipFieldCount
	}

	return Entry{
		Key: types.LookupKey{
			Port:     strings.TrimSpace(parts[0]),
			Protocol: strings.ToLower(strings.TrimSpace(parts[1])),
		},
		Tag: strings.ToLower(strings.TrimSpace(parts[2])),
	}, types.SkipNone
}

// Parse reads a lookup table. The first line is a header and is discarded
// whatever it contains. A repeated key keeps the tag of its last row.
func Parse(r io.Reader, opts ...Option) (*Table, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	table := &Table{tags: make(map[types.LookupKey]string)}
	reader := bufio.NewReader(r)

	for lineNumber := 1; ; lineNumber++ {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line == "" && err != nil {
			break
		}

		if lineNumber > 1 {
			entry, reason := ParseLine(line)
			if reason == types.SkipNone {
				table.tags[entry.Key] = entry.Tag
			} else if o.onSkip != nil {
				o.onSkip(lineNumber, reason)
			}
		}

		if err != nil {
			break
		}
	}

	return table, nil
}

// Load opens and parses the lookup file at path.
func Load(path string, opts ...Option) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup file: %w", err)
	}
	defer file.Close()

	table, err := Parse(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup file %s: %w", path, err)
	}

	return table, nil
}
