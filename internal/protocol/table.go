package protocol

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Other is the protocol name of any number missing from the table.
const Other = "other"

// Table maps an IANA protocol number token to a lowercase protocol name.
// A Table is never modified after construction.
type Table struct {
	names map[string]string
}

var defaultNames = map[string]string{
	"1":   "icmp",
	"2":   "igmp",
	"6":   "tcp",
	"17":  "udp",
	"47":  "gre",
	"50":  "esp",
	"51":  "ah",
	"58":  "icmpv6",
	"89":  "ospf",
	"132": "sctp",
}

var defaultTable = NewTable(defaultNames)

// Default returns the built-in IANA protocol table.
func Default() *Table {
	return defaultTable
}

// NewTable copies names into a new Table. Keys are trimmed and names are
// trimmed and lowercased.
func NewTable(names map[string]string) *Table {
	t := &Table{names: make(map[string]string, len(names))}
	for number, name := range names {
		t.names[strings.TrimSpace(number)] = strings.ToLower(strings.TrimSpace(name))
	}
	return t
}

// Resolve returns the protocol name for a number token, or Other.
// Matching is exact on the token.
func (t *Table) Resolve(number string) string {
	if name, ok := t.names[number]; ok {
		return name
	}
	return Other
}

func (t *Table) Len() int {
	return len(t.names)
}

// LoadTable reads a YAML mapping of protocol number to protocol name.
//
//	"6": tcp
//	"17": udp
func LoadTable(filePath string) (*Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read protocol table %s: %w", filePath, err)
	}

	var names map[string]string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to unmarshal protocol table %s: %w", filePath, err)
	}

	return NewTable(names), nil
}
