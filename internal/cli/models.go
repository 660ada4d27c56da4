package cli

import (
	"errors"
	"fmt"

	"schemadesk/internal/export"
	"schemadesk/internal/model"
	"schemadesk/internal/mutate"
	"schemadesk/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"
)

func newModelsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Model commands",
	}

	cmd.AddCommand(newModelsListCmd(app))
	cmd.AddCommand(newModelsShowCmd(app))
	cmd.AddCommand(newModelsCreateCmd(app))
	cmd.AddCommand(newModelsRenameCmd(app))
	cmd.AddCommand(newModelsDeleteCmd(app))
	cmd.AddCommand(newModelsMoveCmd(app))
	return cmd
}

func newModelsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List models in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, modelsOut{Data: db.Models})
		},
	}
}

func newModelsShowCmd(app *App) *cobra.Command {
	var render bool
	var width int
	var style string

	cmd := &cobra.Command{
		Use:   "show <model-id>",
		Short: "Show a model and its properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, ok := db.FindModel(args[0])
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "model", ID: args[0]})
			}
			if render {
				out, err := renderModel(*m, style, width)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			return writeOut(cmd, app, modelOut{Data: *m})
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render as terminal Markdown instead of structured output")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	cmd.Flags().StringVar(&style, "style", styles.DarkStyle, "glamour style for --render (dark|light|notty|ascii|...)")
	return cmd
}

func renderModel(m model.Model, style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return "", err
	}
	return r.Render(export.Markdown([]model.Model{m}))
}

func newModelsCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateModel(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.CreateModel(db, store.RandomIDs{}, name)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Model name (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newModelsRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <model-id>",
		Short: "Rename a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateModel(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.RenameModel(db, args[0], name)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New model name (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newModelsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model-id>",
		Short: "Delete a model and its properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateModel(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.DeleteModel(db, args[0])
			})
		},
	}
}

func newModelsMoveCmd(app *App) *cobra.Command {
	var by int

	cmd := &cobra.Command{
		Use:   "move <model-id>",
		Short: "Move a model up (negative) or down (positive) in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by == 0 {
				return writeErr(cmd, errors.New("--by must be non-zero"))
			}
			return mutateModel(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.MoveModel(db, args[0], by)
			})
		},
	}

	cmd.Flags().IntVar(&by, "by", 0, "Positions to move (e.g. -1, 2)")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

// mutateModel runs one owner-boundary operation against a fresh snapshot and
// prints the resulting model.
func mutateModel(cmd *cobra.Command, app *App, fn func(db *store.DB) (mutate.Result, error)) error {
	db, s, err := loadDB(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	res, err := fn(db)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := commit(cmd, app, s, db, res); err != nil {
		return writeErr(cmd, err)
	}
	var m model.Model
	if res.Model != nil {
		m = *res.Model
	}
	return writeOut(cmd, app, modelOut{Data: m, Meta: metaOf(res)})
}
