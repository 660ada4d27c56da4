package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"schemadesk/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(app *App) *cobra.Command {
	var as string
	var out string

	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the workspace schema",
		Long: strings.TrimSpace(`
Export writes every model in display order.

Without --out the rendered schema goes to stdout as-is (no JSON envelope).
With --out it is written to the file and a summary is printed instead.
`),
		Example: strings.TrimSpace(`
  schemadesk export --as sql
  schemadesk export --as yaml --out schema.yaml
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(as)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			if strings.TrimSpace(out) == "" {
				if err := export.Write(cmd.OutOrStdout(), db.Models, f); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}

			if err := writeExportFile(out, func(fh *os.File) error { return export.Write(fh, db.Models, f) }); err != nil {
				return writeErr(cmd, err)
			}
			abs, _ := filepath.Abs(out)
			app.logger().Info("schema exported", zap.String("path", abs), zap.String("format", string(f)))
			return writeOut(cmd, app, exportOut{Data: exportFile{Path: abs, Format: string(f), Models: len(db.Models)}})
		},
	}

	cmd.Flags().StringVar(&as, "as", string(export.FormatYAML), "Format ("+strings.Join(names, "|")+")")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout")
	return cmd
}

// writeExportFile writes through a temp file in the target dir so a failed
// render never leaves a truncated export behind.
func writeExportFile(path string, render func(*os.File) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err := render(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("rendering export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
