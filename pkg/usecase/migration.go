package usecase

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/lbc-release/pkg/domain/interfaces"
	"github.com/m-mizutani/lbc-release/pkg/domain/model"
)

type migrationUseCase struct {
	rule     model.MigrationRule
	start    *regexp.Regexp
	end      *regexp.Regexp
	reporter interfaces.Reporter
	dryRun   bool
}

// NewMigration compiles rule and creates a MigrationUseCase. With dryRun,
// files are analysed but never written.
func NewMigration(rule model.MigrationRule, reporter interfaces.Reporter, dryRun bool) (interfaces.MigrationUseCase, error) {
	if rule.FileSuffix == "" || rule.ParamLine == "" {
		return nil, goerr.New("migration rule requires file_suffix and param_line", goerr.V("rule", rule.Name))
	}

	start, err := compileLinePattern(rule.StartPattern)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid start_pattern", goerr.V("pattern", rule.StartPattern))
	}
	end, err := compileLinePattern(rule.EndPattern)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid end_pattern", goerr.V("pattern", rule.EndPattern))
	}

	return &migrationUseCase{
		rule:     rule,
		start:    start,
		end:      end,
		reporter: reporter,
		dryRun:   dryRun,
	}, nil
}

// compileLinePattern compiles pattern so that it only matches from the
// beginning of a line, whether or not it starts with ^
func compileLinePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + pattern + ")")
}

// Migrate rewrites every file under root whose name ends with the rule suffix
func (uc *migrationUseCase) Migrate(ctx context.Context, root string) (*model.MigrationResult, error) {
	logger := ctxlog.From(ctx)
	result := &model.MigrationResult{DryRun: uc.dryRun}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), uc.rule.FileSuffix) {
			return nil
		}
		result.Scanned++

		info, err := d.Info()
		if err != nil {
			return goerr.Wrap(err, "failed to stat file", goerr.V("path", path))
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return goerr.Wrap(err, "failed to read file", goerr.V("path", path))
		}

		rewritten, matched := uc.rewrite(path, string(content))
		if !matched || rewritten == string(content) {
			return nil
		}

		result.Updated = append(result.Updated, path)
		if uc.dryRun {
			logger.Info("Would update file", "path", path)
			return nil
		}

		if err := os.WriteFile(path, []byte(rewritten), info.Mode().Perm()); err != nil {
			return goerr.Wrap(err, "failed to write file", goerr.V("path", path))
		}
		logger.Debug("Updated file", "path", path)
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "migration aborted", goerr.V("root", root), goerr.V("rule", uc.rule.Name))
	}

	uc.reporter.Success("Replacement complete.")
	logger.Info("Migration finished",
		"rule", uc.rule.Name,
		"scanned", result.Scanned,
		"updated", len(result.Updated),
		"dry_run", uc.dryRun,
	)

	return result, nil
}

// rewrite inserts the parameter line into every matching signature of
// content. matched reports whether at least one signature end was found.
func (uc *migrationUseCase) rewrite(path, content string) (string, bool) {
	lines := strings.SplitAfter(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	paramNeedle := strings.TrimSpace(uc.rule.ParamLine)

	out := make([]string, 0, len(lines)+2)
	inSignature := false
	matched := false
	inserted := false

	for _, line := range lines {
		if uc.start.MatchString(line) {
			inSignature = true
			out = append(out, line)
			continue
		}

		if inSignature && uc.end.MatchString(line) {
			uc.reporter.Step("Updating %s ...", path)
			matched = true

			var prev string
			if len(out) > 0 {
				prev = out[len(out)-1]
			}
			if !strings.Contains(prev, paramNeedle) {
				eol := lineEnding(prev)
				if prev == "" {
					eol = lineEnding(line)
				}
				out = append(out, uc.rule.ParamLine+eol)
				inserted = true
			}
			out = append(out, line)
			inSignature = false
			continue
		}

		out = append(out, line)
	}

	if inserted && uc.rule.ImportLine != "" {
		out = insertImport(out, uc.rule.ImportLine)
	}

	return strings.Join(out, ""), matched
}

// insertImport adds importLine before the first import, or after the package
// clause when the file has no import, unless it is already present
func insertImport(lines []string, importLine string) []string {
	for _, line := range lines {
		if strings.TrimRight(line, "\r\n") == importLine {
			return lines
		}
	}

	at := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "import ") {
			at = i
			break
		}
	}
	if at < 0 {
		at = 0
		for i, line := range lines {
			if strings.HasPrefix(line, "package ") {
				at = i + 1
				break
			}
		}
	}

	var eol string
	switch {
	case at < len(lines):
		eol = lineEnding(lines[at])
	case at > 0:
		eol = lineEnding(lines[at-1])
	default:
		eol = "\n"
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	if at > 0 && !strings.HasSuffix(out[at-1], "\n") {
		out[at-1] += eol
	}
	out = append(out, importLine+eol)
	return append(out, lines[at:]...)
}

// lineEnding returns the terminator of line, "\r\n" or "\n". A line without
// terminator is treated as "\n".
func lineEnding(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
