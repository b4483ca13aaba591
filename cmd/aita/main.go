package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/aita-go-api/internal/analysis"
	"github.com/noah-isme/aita-go-api/internal/apiclient"
	"github.com/noah-isme/aita-go-api/internal/config"
	applogger "github.com/noah-isme/aita-go-api/internal/logger"
	"github.com/noah-isme/aita-go-api/internal/reports"
	"github.com/noah-isme/aita-go-api/internal/session"
	"github.com/noah-isme/aita-go-api/internal/store"
)

// openStore is replaced in tests to share state across invocations.
var openStore = store.Open

// cli holds the components every command works with. It is populated by the
// root command's pre-run hook.
type cli struct {
	cfg      config.ClientConfig
	logger   zerolog.Logger
	store    store.Store
	local    *store.Local
	bridge   *session.Bridge
	workflow *analysis.Workflow
	reports  *reports.Manager
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:   "aita",
		Short: "AI Teacher Assistant - essay feedback for teachers",
		Long: `aita signs a teacher in, analyses student essays for grammar and clarity,
saves approved feedback as reports and exports them.

Without an API key configured (aita settings set api-key) analysis runs offline
and returns demonstration feedback.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd, stderr)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.store != nil {
				return app.store.Close()
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.String("api-url", "", "backend base URL (default http://localhost:8080)")
	flags.String("store", "", "state backend: bolt, redis, sqlite, postgres or memory")
	flags.String("store-path", "", "file used by the bolt and sqlite backends")
	flags.String("profile", "", "state profile name")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newProfileCmd(app),
		newAnalyzeCmd(app),
		newReportsCmd(app),
		newDraftCmd(app),
		newSettingsCmd(app),
	)

	return root
}

func (a *cli) init(cmd *cobra.Command, stderr io.Writer) error {
	cfg, err := config.LoadClient(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = applogger.New(stderr, cfg.LogLevel, cfg.LogFormat)

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	a.store = st
	a.local = store.NewLocal(st, a.logger)

	client := apiclient.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	a.bridge = session.NewBridge(a.local, client, a.logger)
	a.workflow = analysis.NewWorkflow(a.local, client, cfg.MockDelay, a.logger)
	a.reports = reports.NewManager(a.local, a.logger)
	return nil
}

// requireTeacher gates commands that need a signed-in teacher.
func (a *cli) requireTeacher(cmd *cobra.Command) error {
	if _, err := a.bridge.RequireTeacher(cmd.Context()); err != nil {
		return fmt.Errorf("%w: run \"aita login\" first", err)
	}
	return nil
}
