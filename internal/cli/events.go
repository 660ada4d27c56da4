package cli

import (
	"schemadesk/internal/store"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Event log commands",
	}
	cmd.AddCommand(newEventsListCmd(app))
	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent events (oldest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.Store{Dir: app.Dir}
			evs, err := s.ReadEvents(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, eventsOut{Data: evs})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Max events to return (0 = all)")
	return cmd
}

func newDataTypesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datatypes",
		Aliases: []string{"types"},
		Short:   "Datatype commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List allowed datatypes (defaults plus config datatypes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, dataTypesOut{Data: app.dataTypes().Names()})
		},
	})
	return cmd
}
