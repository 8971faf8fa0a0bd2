package config

import (
	"flag"
	"os"
	"time"

	"github.com/commis-dev/commis/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   secret key (JWT signing + token hashing)
//	-w string   public dashboard base URL
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-v int      device code validity, minutes
//	-j int      browser session validity, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-w", "-t", "-r", "-v", "-j"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SiteURL, "w", config.SiteURL, "public dashboard base URL")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidity.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidity.Minutes()), "refresh token validity (in minutes)")
	deviceCodeValidity := fs.Int("v", int(config.DeviceCodeValidity.Minutes()), "device code validity (in minutes)")
	sessionValidity := fs.Int("j", int(config.SessionValidity.Minutes()), "browser session validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidity = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidity = time.Duration(*refreshTokenValidity) * time.Minute
	config.DeviceCodeValidity = time.Duration(*deviceCodeValidity) * time.Minute
	config.SessionValidity = time.Duration(*sessionValidity) * time.Minute
}
