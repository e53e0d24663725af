package flowlog

import (
	"strings"

	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

const (
	// MinFields is the number of whitespace separated fields of a valid record.
	MinFields = 14

	dstPortField  = 6
	protocolField = 7
)

// Record holds the fields of one flow log line this tool uses.
type Record struct {
	DstPort        string
	ProtocolNumber string
}

// ParseRecord parses one flow log line. Blank lines, comments starting with
// '#' and lines with fewer than MinFields fields produce a skip reason.
func ParseRecord(line string) (Record, types.SkipReason) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, types.SkipBlank
	}
	if strings.HasPrefix(line, "#") {
		return Record{}, types.SkipComment
	}

	fields := strings.Fields(line)
	if len(fields) < MinFields {
		return Record{}, types.SkipTooFewFields
	}

	return Record{
		DstPort:        fields[dstPortField],
		ProtocolNumber: fields[protocolField],
	}, types.SkipNone
}
