package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/lbc-release/pkg/domain/model"
	"github.com/m-mizutani/lbc-release/pkg/infra/nexus"
	"github.com/m-mizutani/lbc-release/pkg/utils/poll"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Staging holds the staging service connection and release tunables
type Staging struct {
	Username     string
	Password     string `masq:"secret"`
	BaseURL      string
	Description  string
	PollInterval time.Duration
	MaxPolls     int
	WaitTimeout  time.Duration
	ConfigFile   string
}

// stagingFile is the TOML layout of --config
type stagingFile struct {
	BaseURL      string `toml:"base_url"`
	Description  string `toml:"description"`
	PollInterval string `toml:"poll_interval"`
	MaxPolls     *int   `toml:"max_polls"`
	WaitTimeout  string `toml:"wait_timeout"`
}

// Flags returns CLI flags for staging configuration
func (c *Staging) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "username",
			Aliases:     []string{"u"},
			Usage:       "Sonatype username",
			Destination: &c.Username,
			Sources:     cli.EnvVars("SONATYPE_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "password",
			Aliases:     []string{"p"},
			Usage:       "Sonatype password",
			Destination: &c.Password,
			Sources:     cli.EnvVars("SONATYPE_PASSWORD"),
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Staging API base URL",
			Value:       nexus.DefaultBaseURL,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("LBC_RELEASE_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "description",
			Usage:       "Description sent with finish, promote and drop requests",
			Value:       model.DefaultPromoteDescription,
			Destination: &c.Description,
			Sources:     cli.EnvVars("LBC_RELEASE_DESCRIPTION"),
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Wait between two repository state checks",
			Value:       poll.DefaultInterval,
			Destination: &c.PollInterval,
			Sources:     cli.EnvVars("LBC_RELEASE_POLL_INTERVAL"),
		},
		&cli.IntFlag{
			Name:        "max-polls",
			Usage:       "Maximum state checks per wait (0 = unbounded)",
			Value:       0,
			Destination: &c.MaxPolls,
			Sources:     cli.EnvVars("LBC_RELEASE_MAX_POLLS"),
		},
		&cli.DurationFlag{
			Name:        "wait-timeout",
			Usage:       "Maximum duration of each state wait (0 = unbounded)",
			Value:       0,
			Destination: &c.WaitTimeout,
			Sources:     cli.EnvVars("LBC_RELEASE_WAIT_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "TOML file with base_url, description, poll_interval, max_polls, wait_timeout",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("LBC_RELEASE_CONFIG"),
		},
	}
}

// ApplyFile loads ConfigFile, if any, into every field whose flag was not
// explicitly set. isSet reports whether a flag was given on the command line
// or through its environment variable.
func (c *Staging) ApplyFile(isSet func(name string) bool) error {
	if c.ConfigFile == "" {
		return nil
	}

	raw, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.ConfigFile))
	}

	var file stagingFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.ConfigFile))
	}

	if file.BaseURL != "" && !isSet("base-url") {
		c.BaseURL = file.BaseURL
	}
	if file.Description != "" && !isSet("description") {
		c.Description = file.Description
	}
	if file.PollInterval != "" && !isSet("poll-interval") {
		d, err := time.ParseDuration(file.PollInterval)
		if err != nil {
			return goerr.Wrap(err, "invalid poll_interval", goerr.V("value", file.PollInterval))
		}
		c.PollInterval = d
	}
	if file.MaxPolls != nil && !isSet("max-polls") {
		c.MaxPolls = *file.MaxPolls
	}
	if file.WaitTimeout != "" && !isSet("wait-timeout") {
		d, err := time.ParseDuration(file.WaitTimeout)
		if err != nil {
			return goerr.Wrap(err, "invalid wait_timeout", goerr.V("value", file.WaitTimeout))
		}
		c.WaitTimeout = d
	}

	return nil
}

// Validate checks the values required to run a release
func (c *Staging) Validate() error {
	if c.Username == "" {
		return goerr.New("username is required (--username or SONATYPE_USERNAME)")
	}
	if c.Password == "" {
		return goerr.New("password is required (--password or SONATYPE_PASSWORD)")
	}
	if c.PollInterval <= 0 {
		return goerr.New("poll interval must be positive", goerr.V("poll_interval", c.PollInterval))
	}
	if c.MaxPolls < 0 {
		return goerr.New("max polls must not be negative", goerr.V("max_polls", c.MaxPolls))
	}
	return nil
}
