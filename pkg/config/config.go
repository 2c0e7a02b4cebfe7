package config

import (
	"strings"
	"time"

	"github.com/attestantio/go-eth2-client/spec/phase0"
	"github.com/migalabs/syncwatch/pkg/utils"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
)

type SyncCheckConfig struct {
	LogLevel            string        `json:"log-level"`
	LogOutput           string        `json:"log-output"`
	LogFormat           string        `json:"log-format"`
	InitSlot            phase0.Slot   `json:"init-slot"`
	FinalSlot           phase0.Slot   `json:"final-slot"`
	ValidatorsEndpoint  string        `json:"validators-endpoint"`
	MessagesEndpoint    string        `json:"messages-endpoint"`
	BeaconchainEndpoint string        `json:"beaconchain-endpoint"`
	RequestTimeout      time.Duration `json:"request-timeout"`
	PrometheusPort      int           `json:"prometheus-port"`
}

func NewSyncCheckConfig() *SyncCheckConfig {
	// Return Default values for the sync check
	return &SyncCheckConfig{
		LogLevel:            DefaultLogLevel,
		LogOutput:           DefaultLogOutput,
		LogFormat:           DefaultLogFormat,
		InitSlot:            phase0.Slot(DefaultInitSlot),
		FinalSlot:           phase0.Slot(DefaultFinalSlot),
		ValidatorsEndpoint:  DefaultValidatorsEndpoint,
		MessagesEndpoint:    DefaultMessagesEndpoint,
		BeaconchainEndpoint: DefaultBeaconchainEndpoint,
		RequestTimeout:      DefaultRequestTimeout,
		PrometheusPort:      DefaultPrometheusPort,
	}
}

// Apply overrides the defaults with the flags (or env vars) that were set.
func (c *SyncCheckConfig) Apply(ctx *cli.Context) error {
	if ctx.IsSet("log-level") {
		c.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("log-output") {
		c.LogOutput = ctx.String("log-output")
	}
	if ctx.IsSet("log-format") {
		c.LogFormat = ctx.String("log-format")
	}
	if ctx.IsSet("init-slot") {
		c.InitSlot = phase0.Slot(ctx.Uint64("init-slot"))
	}
	if ctx.IsSet("final-slot") {
		c.FinalSlot = phase0.Slot(ctx.Uint64("final-slot"))
	}
	// slot range wins over init/final slot
	if ctx.IsSet("slot-range") {
		slotRange, err := utils.NewSlotRangeFromString(ctx.String("slot-range"))
		if err != nil {
			return errors.Wrap(err, "invalid slot-range")
		}
		c.InitSlot = slotRange.Init
		c.FinalSlot = slotRange.Final
	}
	if ctx.IsSet("validators-endpoint") {
		c.ValidatorsEndpoint = ctx.String("validators-endpoint")
	}
	if ctx.IsSet("messages-endpoint") {
		c.MessagesEndpoint = ctx.String("messages-endpoint")
	}
	if ctx.IsSet("beaconchain-endpoint") {
		c.BeaconchainEndpoint = ctx.String("beaconchain-endpoint")
	}
	if ctx.IsSet("request-timeout") {
		c.RequestTimeout = ctx.Duration("request-timeout")
	}
	if ctx.IsSet("prometheus-port") {
		c.PrometheusPort = ctx.Int("prometheus-port")
	}
	return c.Validate()
}

func (c *SyncCheckConfig) Validate() error {
	if _, err := utils.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := utils.ParseLogOutput(c.LogOutput); err != nil {
		return err
	}
	if _, err := utils.ParseLogFormatter(c.LogFormat); err != nil {
		return err
	}
	if !c.SlotRange().IsValid() {
		return errors.Errorf("final slot (%d) must be greater than init slot (%d)", c.FinalSlot, c.InitSlot)
	}
	endpoints := map[string]string{
		"validators-endpoint":  c.ValidatorsEndpoint,
		"messages-endpoint":    c.MessagesEndpoint,
		"beaconchain-endpoint": c.BeaconchainEndpoint,
	}
	for name, endpoint := range endpoints {
		if strings.TrimSpace(endpoint) == "" {
			return errors.Errorf("%s cannot be empty", name)
		}
	}
	if c.RequestTimeout < 0 {
		return errors.Errorf("request-timeout cannot be negative: %s", c.RequestTimeout)
	}
	if c.PrometheusPort < 0 || c.PrometheusPort > 65535 {
		return errors.Errorf("invalid prometheus-port %d", c.PrometheusPort)
	}
	return nil
}

func (c *SyncCheckConfig) SlotRange() utils.SlotRange {
	return utils.NewSlotRange(c.InitSlot, c.FinalSlot)
}
