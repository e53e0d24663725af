package schema

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mata-elang-stable/flowlog-report/internal/types"
)

type TagCount struct {
	Tag   string `json:"tag"`
	Count uint64 `json:"count"`
}

type PortProtocolCount struct {
	Port     string `json:"port"`
	Protocol string `json:"protocol"`
	Count    uint64 `json:"count"`
}

// Summary is the published form of one report run. Rows keep the order of
// the report file.
type Summary struct {
	FlowLogFile        string              `json:"flow_log_file"`
	LookupFile         string              `json:"lookup_file"`
	TotalRecords       uint64              `json:"total_records"`
	TagCounts          []TagCount          `json:"tag_counts"`
	PortProtocolCounts []PortProtocolCount `json:"port_protocol_counts"`
}

func NewSummary(flowLogFile, lookupFile string, tags *types.TagCounts, ports *types.PortProtocolCounts) *Summary {
	s := &Summary{
		FlowLogFile:        flowLogFile,
		LookupFile:         lookupFile,
		TotalRecords:       ports.Total(),
		TagCounts:          make([]TagCount, 0, tags.Len()),
		PortProtocolCounts: make([]PortProtocolCount, 0, ports.Len()),
	}

	tags.Range(func(tag string, count uint64) bool {
		s.TagCounts = append(s.TagCounts, TagCount{Tag: tag, Count: count})
		return true
	})

	ports.Range(func(key types.PortProtocol, count uint64) bool {
		s.PortProtocolCounts = append(s.PortProtocolCounts, PortProtocolCount{
			Port:     key.Port,
			Protocol: key.Protocol,
			Count:    count,
		})
		return true
	})

	return s
}

func (s *Summary) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// ToStruct converts the summary to a google.protobuf.Struct with the same
// field names as the JSON form. Counts become numbers.
func (s *Summary) ToStruct() (*structpb.Struct, error) {
	marshaled, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(marshaled, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return structpb.NewStruct(fields)
}

// MarshalProto encodes the summary as a serialized google.protobuf.Struct.
// Map entries are written in sorted order so equal summaries encode equally.
func (s *Summary) MarshalProto() ([]byte, error) {
	st, err := s.ToStruct()
	if err != nil {
		return nil, err
	}

	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

const (
	FormatJSON     = "json"
	FormatProtobuf = "protobuf"
)

// Encode serializes the summary in the given format.
func (s *Summary) Encode(format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return s.JSON()
	case FormatProtobuf:
		return s.MarshalProto()
	default:
		return nil, fmt.Errorf("unknown summary format %q", format)
	}
}
