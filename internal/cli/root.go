package cli

import (
	"fmt"
	"strings"

	"schemadesk/internal/config"
	"schemadesk/internal/format"
	"schemadesk/internal/logging"
	"schemadesk/internal/model"
	"schemadesk/internal/mutate"
	"schemadesk/internal/store"
	"schemadesk/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	ConfigFile string
	Format     string
	PrettyJSON bool
	LogLevel   string

	cfg *config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "schemadesk",
		Short:        "schemadesk (local-first) schema designer: TUI + CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  schemadesk

  # Scriptable commands
  schemadesk models list
  schemadesk models create --name User
  schemadesk props add mdl-ab12cd34 --name email --type string

  # Export the workspace as PostgreSQL DDL
  schemadesk export --as sql

  # Direct model lookup (shortcut for: schemadesk models show <model-id>)
  schemadesk mdl-ab12cd34
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "completion", "__complete":
			return nil
		}
		if err := app.init(cmd); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.Dir, "dir", "", "Path to the workspace dir (default: discover .schemadesk upward from cwd)")
	pf.StringVar(&app.ConfigFile, "config", "", "Config file (default: <dir>/schemadesk.yaml when present)")
	pf.StringVar(&app.Format, "format", config.DefaultFormat, "Output format (json|yaml|table)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.LogLevel, "log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")

	cmd.AddCommand(newModelsCmd(app))
	cmd.AddCommand(newPropsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newDataTypesCmd(app))

	return cmd
}

// init resolves config and the logger. Only the root's persistent flags feed
// koanf so subcommand flags like --name never leak into config keys.
func (app *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.Dir = cfg.Dir
	app.Format = cfg.Format
	app.PrettyJSON = cfg.Pretty
	app.LogLevel = cfg.LogLevel

	log, err := logging.New(cfg.LogLevel, cfg.LogPath())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	app.log = log.With(zap.String("cmd", cmd.CommandPath()))
	return nil
}

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		return logging.Nop()
	}
	return app.log
}

func (app *App) dataTypes() model.DataTypeSet {
	if app.cfg == nil {
		return model.NewDataTypeSet()
	}
	return model.NewDataTypeSet(app.cfg.DataTypes...)
}

func runTUI(app *App) error {
	db, _, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Dir:           app.Dir,
		DB:            db,
		DataTypes:     app.dataTypes(),
		Glyphs:        app.cfg.Glyphs,
		Theme:         app.cfg.Theme,
		MarkdownStyle: app.cfg.MarkdownStyle,
		ConfirmDelete: app.cfg.ConfirmDelete,
		Logger:        app.logger(),
	})
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	s := store.Store{Dir: app.Dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, fmt.Errorf("loading workspace %s: %w", app.Dir, err)
	}
	return db, s, nil
}

// commit persists db together with the events of the changed results in one
// transaction. A batch of no-ops writes nothing.
func commit(cmd *cobra.Command, app *App, s store.Store, db *store.DB, results ...mutate.Result) error {
	log := app.logger()

	events := mutate.Events(results...)
	if len(events) == 0 {
		log.Debug("no changes to save")
		return nil
	}

	if err := s.SaveSQLite(cmd.Context(), db, events...); err != nil {
		log.Error("save failed", zap.Error(err))
		return err
	}
	for _, ev := range events {
		log.Info("mutation applied", zap.String("type", ev.Type), zap.String("entity", ev.EntityID))
	}
	return nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
