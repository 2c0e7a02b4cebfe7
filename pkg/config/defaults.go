package config

import "time"

var (
	DefaultLogLevel            string        = "info"
	DefaultLogOutput           string        = "stderr"
	DefaultLogFormat           string        = "text"
	DefaultInitSlot            uint64        = 4600500
	DefaultFinalSlot           uint64        = 4601000
	DefaultValidatorsEndpoint  string        = "http://localhost:5051/eth/v1/crawler/validators/"
	DefaultMessagesEndpoint    string        = "http://localhost:5051/eth/v1/crawler/messages/"
	DefaultBeaconchainEndpoint string        = "https://beaconcha.in/api/v1/block/"
	DefaultRequestTimeout      time.Duration = 0
	DefaultPrometheusPort      int           = 0
)
