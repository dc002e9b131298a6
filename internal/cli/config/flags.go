package config

import (
	"flag"
	"os"
	"time"

	"github.com/pocketorg/organizer/internal/flagx"
)

// parseFlags populates selected CLI Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   sync server base URL (e.g., "http://127.0.0.1:8080")
//	-f string   local database file path
//	-i int      sync interval, seconds
//	-o int      online check interval, seconds
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-i", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "sync server base URL")
	fs.StringVar(&config.DataFile, "f", config.DataFile, "local database file")

	syncInterval := fs.Int("i", int(config.SyncInterval.Seconds()), "sync_interval (in seconds)")
	onlineCheckInterval := fs.Int("o", int(config.OnlineCheckInterval.Seconds()), "online_check_interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SyncInterval = time.Duration(*syncInterval) * time.Second
	config.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
