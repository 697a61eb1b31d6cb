package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/lbc-release/pkg/cli/config"
	"github.com/m-mizutani/lbc-release/pkg/domain/model"
)

func TestMigration_Rule(t *testing.T) {
	t.Run("built-in rule by default", func(t *testing.T) {
		rule, err := (&config.Migration{}).Rule()
		gt.NoError(t, err)
		gt.Equal(t, rule, model.PresenterMigrationRule)
	})

	t.Run("rule file overrides set fields only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rule.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`
name = "presenter-2.0.0"
file_suffix = "Reducer.kt"
param_line = "        useContext: (suspend (Context) -> Unit) -> Unit,"
import_line = "import android.content.Context"
`), 0600))

		rule, err := (&config.Migration{RuleFile: path}).Rule()
		gt.NoError(t, err)
		gt.Equal(t, rule.Name, "presenter-2.0.0")
		gt.Equal(t, rule.FileSuffix, "Reducer.kt")
		gt.Equal(t, rule.ImportLine, "import android.content.Context")
		gt.Equal(t, rule.StartPattern, model.PresenterMigrationRule.StartPattern)
		gt.Equal(t, rule.EndPattern, model.PresenterMigrationRule.EndPattern)
	})

	t.Run("broken rule file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rule.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`name = `), 0600))

		_, err := (&config.Migration{RuleFile: path}).Rule()
		gt.Error(t, err)
	})
}
