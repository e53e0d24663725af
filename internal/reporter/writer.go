package reporter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

// Write renders the tag counts and the port/protocol counts as the text
// report. Rows follow each counter's first-seen order.
func Write(w io.Writer, tags *types.TagCounts, ports *types.PortProtocolCounts) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "Tag Counts:\n\n")
	fmt.Fprint(bw, "Tag,Count\n")
	tags.Range(func(tag string, count uint64) bool {
		fmt.Fprintf(bw, "%s,%d\n", tag, count)
		return true
	})

	fmt.Fprint(bw, "\nPort/Protocol Combination Counts:\n\n")
	fmt.Fprint(bw, "Port,Protocol,Count\n")
	ports.Range(func(key types.PortProtocol, count uint64) bool {
		fmt.Fprintf(bw, "%s,%s,%d\n", key.Port, key.Protocol, count)
		return true
	})

	return bw.Flush()
}

// WriteFile writes the report to path, replacing any existing file.
func WriteFile(path string, tags *types.TagCounts, ports *types.PortProtocolCounts) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report file %s: %w", path, closeErr)
		}
	}()

	if err := Write(file, tags, ports); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}

	return nil
}
