// Package config handles the parsing and validation of application configuration
// from command-line arguments and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jessevdk/go-flags"
	"github.com/woozymasta/seplayers/internal/logger"
	"github.com/woozymasta/seplayers/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Server    Server        `group:"Server Options" env-namespace:"SEPLAYERS"`
	Target    Target        `group:"Target Options" namespace:"target" env-namespace:"SEPLAYERS_TARGET"`
	A2S       A2S           `group:"A2S Options" namespace:"a2s" env-namespace:"SEPLAYERS_A2S"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"SEPLAYERS_RATE_LIMIT"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"SEPLAYERS_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	// betteralign:ignore

	Address    string `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":3000" validate:"required"`
	CORSOrigin string `long:"cors-origin" env:"CORS_ORIGIN" description:"Value of Access-Control-Allow-Origin" default:"*" validate:"required"`
	TrustProxy bool   `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
}

// Target is the game server whose players are served.
type Target struct {
	// betteralign:ignore

	Protocol string `short:"p" long:"protocol" env:"PROTOCOL" description:"Game server query type" default:"spaceengineers" validate:"oneof=spaceengineers"`
	Host     string `short:"H" long:"host" env:"HOST" description:"Game server host" default:"192.169.93.178" validate:"required,hostname_rfc1123|ip"`
	Port     int    `short:"P" long:"port" env:"PORT" description:"Game server query port" default:"27019" validate:"min=1,max=65535"`
}

// A2S holds Source Query protocol configuration.
type A2S struct {
	// betteralign:ignore

	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" description:"Query timeout, 0 keeps the library default" default:"0s" validate:"min=0"`
	BufferSize uint16        `long:"buffer-size" env:"BUFFER_SIZE" description:"Response body buffer size" default:"1400" validate:"min=576"`
}

// RateLimit holds API rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	Count  int           `long:"count" env:"COUNT" description:"Requests per IP within window, 0 disables the limiter" default:"0" validate:"min=0"`
	Window time.Duration `long:"window" env:"WINDOW" description:"Rate limit window duration" default:"1m" validate:"required_unless=Count 0"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	return cfg
}

// ParseArgs parses args (without the program name) and validates the result.
func ParseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Version {
		return &cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints declared in the validate tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
