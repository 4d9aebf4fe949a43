package config

import (
	"flag"
	"io"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/flagx"
)

// parseFlags overlays command-line flags.
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-b string   storage backend: dynamodb, postgres or memory
//	-v string   verification backend: memory or docstore
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t dur      token lifetime ("7d", "12h")
//	-p string   table name prefix
//
// Args are filtered with flagx.FilterArgs first so -c/-config and flags of
// other components do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-b", "-v", "-d", "-s", "-t", "-p"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.VerificationBackend, "v", config.VerificationBackend, "verification backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.TablePrefix, "p", config.TablePrefix, "table name prefix")
	ttl := fs.String("t", "", "token lifetime")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *ttl != "" {
		d, err := ParseTTL(*ttl)
		if err != nil {
			return err
		}
		config.TokenTTL = d
	}
	return nil
}
