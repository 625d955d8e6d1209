package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/breml/rootcerts"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosplash"
	"github.com/qdm12/log"
	"github.com/spf13/cobra"

	"greynoise-ingest/internal/config"
	"greynoise-ingest/internal/greynoise"
	"greynoise-ingest/internal/health"
	"greynoise-ingest/internal/ingest"
	"greynoise-ingest/internal/inputs"
	"greynoise-ingest/internal/models"
	"greynoise-ingest/internal/persistence/dryrun"
	"greynoise-ingest/internal/persistence/mongodb"
	"greynoise-ingest/internal/shoutrrr"
)

//nolint:gochecknoglobals
var (
	version = "unknown"
	commit  = "unknown"
	date    = "an unknown date"
)

func main() {
	buildInfo := models.BuildInformation{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	logger := log.New()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(logger, buildInfo, time.Now)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd(logger log.LoggerInterface, buildInfo models.BuildInformation,
	timeNow func() time.Time) *cobra.Command {
	var dryRun bool
	var ipsFlag string

	rootCmd := &cobra.Command{
		Use:   "greynoise-ingest",
		Short: "Fetch GreyNoise IP intelligence records into MongoDB",
		Long: "greynoise-ingest fetches IP reputation records from the " +
			"GreyNoise v3 API, normalizes them and persists each one " +
			"as a document in a MongoDB collection.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), dryRun, inputs.SplitList(ipsFlag),
				logger, buildInfo, timeNow)
		},
	}
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"print normalized documents to stdout instead of inserting them")
	rootCmd.Flags().StringVar(&ipsFlag, "ips", "",
		"comma or space separated IP addresses overriding INPUT_FILE and TARGET_IPS")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(buildInfo.VersionString())
		},
	}
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var errRunFailed = errors.New("run failed")

func run(ctx context.Context, dryRun bool, ipsOverride []string,
	logger log.LoggerInterface, buildInfo models.BuildInformation,
	timeNow func() time.Time) (err error) {
	printSplash(buildInfo)

	settingsReader := reader.New(reader.Settings{
		HandleDeprecatedKey: func(source, oldKey, newKey string) {
			logger.Warnf("%q key %s is deprecated, please use %q instead",
				source, oldKey, newKey)
		},
	})

	conf, err := readConfig(settingsReader, logger)
	if err != nil {
		return err
	}

	shoutrrrClient, err := shoutrrr.New(shoutrrr.Settings{
		Addresses:    conf.Shoutrrr.Addresses,
		DefaultTitle: conf.Shoutrrr.DefaultTitle,
		Logger:       logger.New(log.SetComponent("shoutrrr")),
	})
	if err != nil {
		return fmt.Errorf("setting up Shoutrrr: %w", err)
	}

	ips, err := inputs.Resolve(ipsOverride, *conf.Inputs.InputFile,
		conf.Inputs.TargetIPs)
	if err != nil {
		return fmt.Errorf("resolving input IPs: %w", err)
	}
	logIPsCount(len(ips), logger)

	httpClient := &http.Client{Timeout: conf.Client.Timeout}
	defer httpClient.CloseIdleConnections()

	err = health.CheckHTTP(ctx, httpClient, conf.GreyNoise.BaseURL)
	if err != nil {
		logger.Warn(err.Error())
	}

	fetcher := greynoise.New(httpClient, conf.GreyNoise.BaseURL,
		*conf.GreyNoise.APIKey, timeNow)

	sink, closeSink, err := createSink(ctx, dryRun, conf.Mongo, logger, timeNow)
	if err != nil {
		shoutrrrClient.Notify(err.Error())
		return err
	}
	defer closeSink()

	runner := ingest.NewRunner(fetcher, sink, conf.Retry, dryRun,
		logger.New(log.SetComponent("ingest")))
	summary := runner.Run(ctx, ips)

	logger.Info(summary.String())

	if ctx.Err() != nil {
		shoutrrrClient.Notify("Run interrupted after " +
			strconv.Itoa(summary.Total()) + " of " +
			strconv.Itoa(len(ips)) + " IPs")
		return ctx.Err()
	}

	failed := summary.Failed()
	if failed > 0 {
		message := strconv.Itoa(failed) + " of " +
			strconv.Itoa(summary.Total()) + " IPs failed"
		shoutrrrClient.Notify(message)
		return fmt.Errorf("%w: %s", errRunFailed, message)
	}

	shoutrrrClient.Notify("Run completed: " +
		strconv.Itoa(summary.Total()) + " IPs processed")
	return nil
}

//nolint:ireturn
func createSink(ctx context.Context, dryRun bool, mongoConfig config.Mongo,
	logger log.LoggerInterface, timeNow func() time.Time) (
	sink ingest.Sink, closeSink func(), err error) {
	if dryRun {
		logger.Info("dry run: documents are printed instead of inserted")
		return dryrun.New(os.Stdout, timeNow), func() {}, nil
	}

	mongoSink, err := mongodb.NewSink(ctx, mongoConfig.URI,
		mongoConfig.Database, mongoConfig.Collection(), timeNow)
	if err != nil {
		return nil, nil, fmt.Errorf("creating MongoDB sink: %w", err)
	}

	closeSink = func() {
		const closeTimeout = 5 * time.Second
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		err := mongoSink.Close(closeCtx)
		if err != nil {
			logger.Error("closing MongoDB sink: " + err.Error())
		}
	}
	return mongoSink, closeSink, nil
}

func printSplash(buildInfo models.BuildInformation) {
	splashSettings := gosplash.Settings{
		User:       "greynoise-ingest",
		Repository: "greynoise-ingest",
		Version:    buildInfo.Version,
		Commit:     buildInfo.Commit,
		BuildDate:  buildInfo.Date,
	}
	for _, line := range gosplash.MakeLines(splashSettings) {
		fmt.Println(line)
	}
}

func readConfig(settingsReader *reader.Reader, logger log.LoggerInterface) (
	conf config.Config, err error) {
	err = conf.Read(settingsReader, logger)
	if err != nil {
		return conf, fmt.Errorf("reading settings: %w", err)
	}
	conf.SetDefaults()
	err = conf.Validate()
	if err != nil {
		return conf, fmt.Errorf("settings validation: %w", err)
	}

	logger.Patch(conf.Logger.ToOptions()...)
	logger.Info(conf.String())

	return conf, nil
}

func logIPsCount(ipsCount int, logger log.LoggerInterface) {
	switch ipsCount {
	case 1:
		logger.Info("Found single IP address to process")
	default:
		logger.Info("Found " + strconv.Itoa(ipsCount) + " IP addresses to process")
	}
}
