package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/migalabs/syncwatch/cmd"
	"github.com/migalabs/syncwatch/pkg/utils"
)

var (
	log = logrus.WithField(
		"cli", utils.CliName,
	)
)

func main() {
	// Set the general log configurations for the entire tool
	if err := utils.ConfigureLogger("info", "stderr", "text"); err != nil {
		logrus.Fatal(err)
	}

	log.Infof("%s %s", utils.CliName, utils.Version)

	// variables from .env feed the flags' env vars
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("unable to read .env file: %s", err)
	}

	app := &cli.App{
		Name:                 utils.CliName,
		Usage:                "Cross-check the sync committee messages collected by a crawler node against beaconcha.in for a slot range.",
		UsageText:            "syncwatch [commands] [arguments...]",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			cmd.SyncCheckCommand,
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Errorf("error: %v\n", err)
		os.Exit(1)
	}
}
