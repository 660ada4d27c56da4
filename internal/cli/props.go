package cli

import (
	"errors"

	"schemadesk/internal/mutate"
	"schemadesk/internal/store"

	"github.com/spf13/cobra"
)

func newPropsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "props",
		Aliases: []string{"properties"},
		Short:   "Property commands",
	}

	cmd.AddCommand(newPropsAddCmd(app))
	cmd.AddCommand(newPropsRenameCmd(app))
	cmd.AddCommand(newPropsTypeCmd(app))
	cmd.AddCommand(newPropsKeyCmd(app))
	cmd.AddCommand(newPropsDeleteCmd(app))
	cmd.AddCommand(newPropsMoveCmd(app))
	return cmd
}

func newPropsAddCmd(app *App) *cobra.Command {
	var spec mutate.PropertySpec

	cmd := &cobra.Command{
		Use:   "add <model-id>",
		Short: "Add a property (defaults: next property_N name, string datatype)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateProperty(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.AddProperty(db, store.RandomIDs{}, args[0], spec, app.dataTypes())
			})
		},
	}

	cmd.Flags().StringVar(&spec.Name, "name", "", "Property name")
	cmd.Flags().StringVar(&spec.DataType, "type", "", "Datatype (see: schemadesk datatypes list)")
	cmd.Flags().BoolVar(&spec.IsKey, "key", false, "Mark as a key property")
	return cmd
}

func newPropsRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <model-id> <prop-id>",
		Short: "Rename a property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateProperty(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.RenameProperty(db, args[0], args[1], name)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New property name (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPropsTypeCmd(app *App) *cobra.Command {
	var dataType string

	cmd := &cobra.Command{
		Use:   "type <model-id> <prop-id>",
		Short: "Set a property's datatype",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateProperty(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.SetPropertyDataType(db, args[0], args[1], dataType, app.dataTypes())
			})
		},
	}

	cmd.Flags().StringVar(&dataType, "type", "", "Datatype (required)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newPropsKeyCmd(app *App) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "key <model-id> <prop-id>",
		Short: "Mark a property as key (or clear it with --off)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateProperty(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.SetPropertyKey(db, args[0], args[1], !off)
			})
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Clear the key flag")
	return cmd
}

func newPropsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model-id> <prop-id>",
		Short: "Delete a property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateProperty(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.DeleteProperty(db, args[0], args[1])
			})
		},
	}
}

func newPropsMoveCmd(app *App) *cobra.Command {
	var by int

	cmd := &cobra.Command{
		Use:   "move <model-id> <prop-id>",
		Short: "Move a property up (negative) or down (positive) within its model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if by == 0 {
				return writeErr(cmd, errors.New("--by must be non-zero"))
			}
			return mutateProperty(cmd, app, func(db *store.DB) (mutate.Result, error) {
				return mutate.MoveProperty(db, args[0], args[1], by)
			})
		},
	}

	cmd.Flags().IntVar(&by, "by", 0, "Positions to move (e.g. -1, 2)")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func mutateProperty(cmd *cobra.Command, app *App, fn func(db *store.DB) (mutate.Result, error)) error {
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
	out := propertyOut{Meta: metaOf(res)}
	if res.Property != nil {
		out.Data = *res.Property
	}
	if res.Model != nil {
		out.ModelID = res.Model.ID
	}
	return writeOut(cmd, app, out)
}
