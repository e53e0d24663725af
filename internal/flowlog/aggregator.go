package flowlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mata-elang-stable/flowlog-report/internal/protocol"
	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

// Tagger resolves a port and lowercase protocol name to a tag.
type Tagger interface {
	Lookup(port, protocol string) (string, bool)
}

// ProtocolResolver maps a protocol number token to a lowercase name.
type ProtocolResolver interface {
	Resolve(number string) string
}

// SkipHook receives the 1-based line number and reason of every skipped line.
type SkipHook func(lineNumber int, reason types.SkipReason)

type Option func(*Aggregator)

// WithProtocols replaces the built-in protocol number table.
func WithProtocols(protocols ProtocolResolver) Option {
	return func(a *Aggregator) {
		a.protocols = protocols
	}
}

func WithSkipHook(hook SkipHook) Option {
	return func(a *Aggregator) {
		a.onSkip = hook
	}
}

// Result holds the counts of one aggregation pass.
type Result struct {
	Tags  *types.TagCounts
	Ports *types.PortProtocolCounts
}

// Records returns the number of records that were counted.
func (r *Result) Records() uint64 {
	return r.Ports.Total()
}

// Aggregator classifies flow records and counts them by tag and by
// port/protocol pair. An Aggregator is not safe for concurrent use.
type Aggregator struct {
	tagger    Tagger
	protocols ProtocolResolver
	onSkip    SkipHook
	result    *Result
}

func NewAggregator(tagger Tagger, opts ...Option) *Aggregator {
	a := &Aggregator{
		tagger:    tagger,
		protocols: protocol.Default(),
		result: &Result{
			Tags:  types.NewTagCounts(),
			Ports: types.NewPortProtocolCounts(),
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Add counts one parsed record.
func (a *Aggregator) Add(record Record) {
	key := types.PortProtocol{
		Port:     record.DstPort,
		Protocol: a.protocols.Resolve(record.ProtocolNumber),
	}

	a.result.Ports.StoreOrIncrement(key)

	// An empty tag counts as no tag.
	if tag, ok := a.tagger.Lookup(key.Port, key.Protocol); ok && tag != "" {
		a.result.Tags.StoreOrIncrement(tag)
	} else {
		a.result.Tags.StoreOrIncrement(types.Untagged)
	}
}

// AddLine parses and counts one flow log line.
func (a *Aggregator) AddLine(lineNumber int, line string) {
	record, reason := ParseRecord(line)
	if reason != types.SkipNone {
		if a.onSkip != nil {
			a.onSkip(lineNumber, reason)
		}
		return
	}

	a.Add(record)
}

// Consume counts every line of r.
func (a *Aggregator) Consume(r io.Reader) error {
	reader := bufio.NewReader(r)

	for lineNumber := 1; ; lineNumber++ {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && err != nil {
			return nil
		}

		a.AddLine(lineNumber, line)

		if err != nil {
			return nil
		}
	}
}

func (a *Aggregator) Result() *Result {
	return a.result
}

// AggregateReader counts the flow log read from r.
func AggregateReader(r io.Reader, tagger Tagger, opts ...Option) (*Result, error) {
	a := NewAggregator(tagger, opts...)
	if err := a.Consume(r); err != nil {
		return nil, err
	}

	return a.Result(), nil
}

// Aggregate opens and counts the flow log at path.
func Aggregate(path string, tagger Tagger, opts ...Option) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open flow log: %w", err)
	}
	defer file.Close()

	result, err := AggregateReader(file, tagger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow log %s: %w", path, err)
	}

	return result, nil
}
