package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pocketorg/organizer/internal/flagx"
	"github.com/pocketorg/organizer/internal/timex"
)

// JsonConfig is the JSON-file shape of the CLI configuration. Interval
// fields use timex.Duration so they can be written as "60s" or as integer
// nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DataFile            string         `json:"data_file"`
	SyncInterval        timex.Duration `json:"sync_interval"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags. When neither flag is set, no file is loaded. An
// unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
	config.DataFile = c.DataFile
	config.SyncInterval = time.Duration(c.SyncInterval.Duration)
	config.OnlineCheckInterval = time.Duration(c.OnlineCheckInterval.Duration)
}
