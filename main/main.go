package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/cloudgovern/steward/alerting"
	"github.com/cloudgovern/steward/conf"
	"github.com/cloudgovern/steward/license"
	"github.com/cloudgovern/steward/logsink"
	"github.com/cloudgovern/steward/mailapi"
	"github.com/cloudgovern/steward/queue"
	"github.com/cloudgovern/steward/reporting"
	"github.com/cloudgovern/steward/sharing"
	"github.com/cloudgovern/steward/standard"
	"github.com/cloudgovern/steward/util"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var StewardVersion string
var StewardCommitVersion string

var metricAddr = flag.String("steward-metrics", ":8082", "The address to listen on for HTTP requests.")
var defaultLogFilepath = filepath.Join("/var", "log", "steward", "steward"+strconv.Itoa(os.Getpid())+".log")

func main() {

	flag.Parse()

	go serveMetrics()

	logrus.SetFormatter(conf.PrepareLogFormat())

	logger := &lumberjack.Logger{
		Filename:  defaultLogFilepath,
		MaxSize:   5,  // MB
		MaxAge:    10, // Days
		LocalTime: true,
	}

	err := logger.Rotate()
	if err != nil {
		logrus.Warn("Cannot create the log file. Logging will proceed on stdout only. Reason: ", err)
		logrus.SetOutput(os.Stdout)
	} else {
		logrus.SetOutput(io.MultiWriter(os.Stdout, logger))
		go util.CheckLogFile(logger, time.Second*10)
	}

	logrus.Infof("Steward version is %s", StewardVersion)
	logrus.Infof("Steward commit version is %s", StewardCommitVersion)

	configuration, err := conf.Read()
	if err != nil {
		logrus.Fatalln("Could not read configuration: ", err)
	}

	logrus.SetLevel(configuration.LogrusLevel)

	queue.UserAgentHeader = fmt.Sprintf("%s/%s %s (%s/%s)", "steward", StewardVersion, StewardCommitVersion, runtime.GOOS, runtime.GOARCH)

	processor := newProcessor(configuration)

	err = processor.Start()
	if err != nil {
		logrus.Fatalln(err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	<-signals
	logrus.Infof("Steward will be stopped gracefully.")
	err = processor.Stop()
	if err != nil {
		logrus.Fatalln(err)
	}

	os.Exit(0)
}

// newProcessor wires the collaborators of every standard invocation:
// the mail service client, the capability resolver and the control
// plane sinks, all injected into one shared runner.
func newProcessor(configuration *conf.Configuration) queue.Processor {

	mailClient := mailapi.NewClient(configuration.MailApiUrl, configuration.ApiKey)

	logs := logsink.New()
	if configuration.AuditLogFilepath != "" {
		logs = logsink.NewWithAuditFile(configuration.AuditLogFilepath, conf.PrepareLogFormat())
	}

	reportingClient := reporting.NewClient(configuration.BaseUrl, configuration.ApiKey)

	runner := standard.NewRunner(
		license.NewResolver(mailClient),
		logs,
		alerting.NewClient(configuration.BaseUrl, configuration.ApiKey),
		reportingClient,
		reportingClient,
	)

	checks := map[string]standard.Check{
		sharing.CheckName: sharing.NewCheck(mailClient),
	}

	return queue.NewProcessor(configuration, runner, checks)
}

func serveMetrics() {
	http.Handle("/metrics", promhttp.Handler())
	logrus.Error(http.ListenAndServe(*metricAddr, nil))
}
