package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/migalabs/syncwatch/pkg/analyzer"
	"github.com/migalabs/syncwatch/pkg/config"
	"github.com/migalabs/syncwatch/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

var SyncCheckCommand = &cli.Command{
	Name:   "sync-check",
	Usage:  "compare the sync committee validators seen by the crawler node with beaconcha.in for a slot range",
	Action: LaunchSyncCheck,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level: debug, warn, info, error",
			EnvVars:     []string{"SYNCWATCH_LOG_LEVEL"},
			DefaultText: config.DefaultLogLevel,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Where to write the logs: stderr, terminal (stdout)",
			EnvVars:     []string{"SYNCWATCH_LOG_OUTPUT"},
			DefaultText: config.DefaultLogOutput,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format: text, json",
			EnvVars:     []string{"SYNCWATCH_LOG_FORMAT"},
			DefaultText: config.DefaultLogFormat,
		},
		&cli.Uint64Flag{
			Name:        "init-slot",
			Usage:       "First slot to check (included)",
			EnvVars:     []string{"SYNCWATCH_INIT_SLOT"},
			DefaultText: "4600500",
		},
		&cli.Uint64Flag{
			Name:        "final-slot",
			Usage:       "Last slot to check (not included)",
			EnvVars:     []string{"SYNCWATCH_FINAL_SLOT"},
			DefaultText: "4601000",
		},
		&cli.StringFlag{
			Name:    "slot-range",
			Usage:   "Slot range as MIN:MAX, overrides init-slot and final-slot",
			EnvVars: []string{"SYNCWATCH_SLOT_RANGE"},
		},
		&cli.StringFlag{
			Name:        "validators-endpoint",
			Usage:       "Crawler node validators route, the slot is appended",
			EnvVars:     []string{"SYNCWATCH_VALIDATORS_ENDPOINT"},
			DefaultText: config.DefaultValidatorsEndpoint,
		},
		&cli.StringFlag{
			Name:        "messages-endpoint",
			Usage:       "Crawler node messages route, the slot is appended",
			EnvVars:     []string{"SYNCWATCH_MESSAGES_ENDPOINT"},
			DefaultText: config.DefaultMessagesEndpoint,
		},
		&cli.StringFlag{
			Name:        "beaconchain-endpoint",
			Usage:       "beaconcha.in block route, the slot is appended",
			EnvVars:     []string{"SYNCWATCH_BEACONCHAIN_ENDPOINT"},
			DefaultText: config.DefaultBeaconchainEndpoint,
		},
		&cli.DurationFlag{
			Name:        "request-timeout",
			Usage:       "Timeout of each request, 0 for none",
			EnvVars:     []string{"SYNCWATCH_REQUEST_TIMEOUT"},
			DefaultText: "0s",
		},
		&cli.IntFlag{
			Name:        "prometheus-port",
			Usage:       "Port where to expose the prometheus metrics, 0 disables the exporter",
			EnvVars:     []string{"SYNCWATCH_PROMETHEUS_PORT"},
			DefaultText: "0",
		},
	},
}

var logCmdChain = logrus.WithField(
	"module", "syncCheckCommand",
)

// LaunchSyncCheck is the function that is called when running `sync-check`.
func LaunchSyncCheck(c *cli.Context) error {

	conf := config.NewSyncCheckConfig()
	if err := conf.Apply(c); err != nil {
		return err
	}

	if err := utils.ConfigureLogger(conf.LogLevel, conf.LogOutput, conf.LogFormat); err != nil {
		return err
	}

	checker, err := analyzer.NewSyncChecker(c.Context, *conf, os.Stdout)
	if err != nil {
		return err
	}
	defer checker.Close()

	procDoneC := make(chan error, 1)
	sigtermC := make(chan os.Signal, 1)

	signal.Notify(sigtermC, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigtermC)

	go func() {
		_, err := checker.Run()
		procDoneC <- err
	}()

	select {
	case <-sigtermC:
		logCmdChain.Info("Sudden shutdown detected, controlled shutdown of the cli triggered")
		checker.Close()
		err = <-procDoneC

	case err = <-procDoneC:
	}

	if errors.Is(err, context.Canceled) {
		logCmdChain.Info("Sync check interrupted")
		return nil
	}
	if err != nil {
		return err
	}
	logCmdChain.Info("Process successfully finish!")
	return nil
}
