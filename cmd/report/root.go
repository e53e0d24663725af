package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mata-elang-stable/flowlog-report/internal/config"
	"github.com/mata-elang-stable/flowlog-report/internal/logger"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appLicense = "MIT"
)

var log = logger.GetLogger()

var rootCmd = &cobra.Command{
	Use:   "flowlog-report <flow_log_file> <lookup_file> <output_file>",
	Short: "Tag flow log records and report counts",
	Long: `flowlog-report classifies every flow log record by its destination port and protocol
using a lookup table, then writes the count of records per tag and per port/protocol
combination to the output file.`,
	Version:       fmt.Sprintf("%s (commit %s, %s license)", appVersion, appCommit, appLicense),
	RunE:          runApp,
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Read configuration from .env file in the current directory
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	err := viper.ReadInConfig()
	if err != nil {
		log.WithField("error", err).Debugln("No configuration file loaded.")
	}

	viper.SetEnvPrefix("app")
	viper.AutomaticEnv()

	conf := config.GetConfig()

	viper.SetDefault("verbose", 0)
	viper.SetDefault("protocol_table", "")
	viper.SetDefault("summary", false)
	viper.SetDefault("max_concurrent", 4)
	viper.SetDefault("report_api_url", "")
	viper.SetDefault("report_post_summary_path", "/summaries")
	viper.SetDefault("http_timeout_seconds", 5)
	viper.SetDefault("http_max_retries", 3)
	viper.SetDefault("kafka_brokers", "")
	viper.SetDefault("kafka_topic_output", "flow_summaries")
	viper.SetDefault("kafka_value_format", "json")

	if err := viper.Unmarshal(&conf); err != nil {
		log.Fatalf("Failed to unmarshal configuration: %v", err)
	}

	flags := rootCmd.PersistentFlags()

	flags.StringVar(&conf.ProtocolTablePath, "protocol-table", conf.ProtocolTablePath, "YAML file mapping protocol numbers to names")
	flags.BoolVar(&conf.PrintSummary, "summary", conf.PrintSummary, "Print the count tables to stdout")
	flags.StringVar(&conf.ReportApiUrl, "url", conf.ReportApiUrl, "Report API base URL receiving the run summary")
	flags.StringVar(&conf.KafkaBrokers, "kafka-brokers", conf.KafkaBrokers, "Kafka brokers receiving the run summary")
	flags.StringVar(&conf.OutputKafkaTopic, "output-topic", conf.OutputKafkaTopic, "Kafka topic receiving the run summary")
	flags.CountVarP(&conf.VerboseCount, "verbose", "v", "Increase verbosity of the output.")

	if err := viper.BindPFlags(flags); err != nil {
		log.WithField("error", err).Fatalln("Failed to bind flags.")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
