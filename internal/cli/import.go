package cli

import (
	"fmt"
	"os"

	"schemadesk/internal/export"
	"schemadesk/internal/mutate"
	"schemadesk/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Merge a YAML schema into the workspace (by model and property name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			defer f.Close()

			models, err := export.ReadYAML(f)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%s: %w", args[0], err))
			}

			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Nothing is saved unless the whole file merges cleanly.
			results, err := mutate.MergeModels(db, store.RandomIDs{}, models, app.dataTypes())
			if err != nil {
				app.logger().Warn("import rejected", zap.String("file", args[0]), zap.Error(err))
				return writeErr(cmd, fmt.Errorf("%s: %w", args[0], err))
			}
			if err := commit(cmd, app, s, db, results...); err != nil {
				return writeErr(cmd, err)
			}

			sum := importSummary{File: args[0], Models: len(models)}
			for _, r := range results {
				if r.Changed {
					sum.Changes++
				} else {
					sum.Unchanged++
				}
			}
			return writeOut(cmd, app, importOut{Data: sum})
		},
	}
}
