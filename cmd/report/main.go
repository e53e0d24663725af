package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mata-elang-stable/flowlog-report/internal/app"
	"github.com/mata-elang-stable/flowlog-report/internal/config"
	"github.com/mata-elang-stable/flowlog-report/internal/kafka"
	"github.com/mata-elang-stable/flowlog-report/internal/protocol"
	"github.com/mata-elang-stable/flowlog-report/internal/reporter"
)

func runApp(cmd *cobra.Command, args []string) error {
	conf := config.GetConfig()
	conf.SetupLogging()

	// Publishing is the only stage that waits on the network.
	mainContext, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	opts, cleanup, err := buildOptions(conf, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	mainApp := app.NewApp(
		mainContext,
		app.Files{
			FlowLog: args[0],
			Lookup:  args[1],
			Output:  args[2],
		},
		opts...,
	)

	return mainApp.Run()
}

func buildOptions(conf *config.Config, cmd *cobra.Command) ([]app.Option, func(), error) {
	opts := []app.Option{app.WithMaxConcurrent(conf.MaxConcurrent)}
	cleanup := func() {}

	if conf.ProtocolTablePath != "" {
		protocols, err := protocol.LoadTable(conf.ProtocolTablePath)
		if err != nil {
			return nil, cleanup, err
		}
		log.WithField("protocols", protocols.Len()).Debugln("Loaded protocol table.")
		opts = append(opts, app.WithProtocols(protocols))
	}

	if conf.PrintSummary {
		opts = append(opts, app.WithSummary(cmd.OutOrStdout()))
	}

	if conf.HTTPEnabled() {
		httpReporter, err := reporter.NewHTTPReporter(conf)
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, app.WithPublishers(httpReporter))
	}

	if conf.KafkaEnabled() {
		producer, err := kafka.NewProducer(conf.KafkaBrokers, conf.OutputKafkaTopic, conf.KafkaValueFormat)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = producer.Close
		opts = append(opts, app.WithPublishers(producer))
	}

	return opts, cleanup, nil
}
