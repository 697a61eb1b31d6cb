package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/lbc-release/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Migration holds source migration configuration
type Migration struct {
	Dir      string
	RuleFile string
	DryRun   bool
}

// Flags returns CLI flags for migration configuration
func (c *Migration) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "Root directory to migrate",
			Value:       ".",
			Destination: &c.Dir,
		},
		&cli.StringFlag{
			Name:        "rule",
			Usage:       "TOML rule file overriding the built-in presenter-1.8.0 rule",
			Destination: &c.RuleFile,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Report files that would change without writing them",
			Destination: &c.DryRun,
		},
	}
}

// Rule returns the built-in rule with the fields of RuleFile applied on top
func (c *Migration) Rule() (model.MigrationRule, error) {
	rule := model.PresenterMigrationRule
	if c.RuleFile == "" {
		return rule, nil
	}

	raw, err := os.ReadFile(c.RuleFile)
	if err != nil {
		return rule, goerr.Wrap(err, "failed to read rule file", goerr.V("path", c.RuleFile))
	}

	var override model.MigrationRule
	if err := toml.Unmarshal(raw, &override); err != nil {
		return rule, goerr.Wrap(err, "failed to parse rule file", goerr.V("path", c.RuleFile))
	}

	for dst, src := range map[*string]string{
		&rule.Name:         override.Name,
		&rule.FileSuffix:   override.FileSuffix,
		&rule.StartPattern: override.StartPattern,
		&rule.EndPattern:   override.EndPattern,
		&rule.ParamLine:    override.ParamLine,
		&rule.ImportLine:   override.ImportLine,
	} {
		if src != "" {
			*dst = src
		}
	}

	return rule, nil
}
