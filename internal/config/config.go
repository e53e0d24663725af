package config

import (
	"sync"

	"github.com/mata-elang-stable/flowlog-report/internal/logger"
)

type Config struct {
	// VerboseCount is the verbose level.
	VerboseCount int `mapstructure:"verbose"`

	// ProtocolTablePath points to an optional YAML file replacing the
	// built-in protocol number table.
	ProtocolTablePath string `mapstructure:"protocol_table"`

	// PrintSummary renders both count tables to stdout after the report is written.
	PrintSummary bool `mapstructure:"summary"`

	// MaxConcurrent is the maximum number of concurrent publishers.
	MaxConcurrent int `mapstructure:"max_concurrent"`

	// ReportApiUrl is the report API base URL. Empty disables HTTP publishing.
	ReportApiUrl          string `mapstructure:"report_api_url"`
	ReportPostSummaryPath string `mapstructure:"report_post_summary_path"`

	HTTPTimeoutSeconds int `mapstructure:"http_timeout_seconds"`
	HTTPMaxRetries     int `mapstructure:"http_max_retries"`

	// KafkaBrokers is the Kafka broker to connect to. Empty disables Kafka publishing.
	KafkaBrokers string `mapstructure:"kafka_brokers"`

	// OutputKafkaTopic is the Kafka topic receiving run summaries.
	OutputKafkaTopic string `mapstructure:"kafka_topic_output"`

	// KafkaValueFormat is either "json" or "protobuf".
	KafkaValueFormat string `mapstructure:"kafka_value_format"`
}

var log = logger.GetLogger()

var instance *Config
var once sync.Once

func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{}
	})

	return instance
}

// HTTPEnabled reports whether a run summary should be posted to the report API.
func (c *Config) HTTPEnabled() bool {
	return c.ReportApiUrl != ""
}

// KafkaEnabled reports whether a run summary should be produced to Kafka.
func (c *Config) KafkaEnabled() bool {
	return c.KafkaBrokers != "" && c.OutputKafkaTopic != ""
}

func (c *Config) SetupLogging() {
	switch c.VerboseCount {
	case 0:
		log.SetLevel(logger.InfoLevel)
	case 1:
		log.SetLevel(logger.DebugLevel)
	default:
		log.SetLevel(logger.TraceLevel)
	}
	log.WithFields(logger.Fields{
		"LOG_LEVEL": log.GetLevel().String(),
	}).Debugln("Logging level set.")
}
