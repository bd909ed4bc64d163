package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nao1215/gdpdash/internal/config"
	"github.com/nao1215/gdpdash/internal/dashboard"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		Long: `Serve loads the dataset once and serves the dashboard over HTTP.

The dashboard has Summary, Region, Year and Report tabs. The initial region,
year and country come from the run configuration when it exists; the
dropdowns change them and every change redraws the charts.

The dashboard listens on loopback by default. When a token is set (--token,
GDPDASH_TOKEN or dashboard.token in the settings file) every page except
/healthz requires it as "Authorization: Bearer <token>" or ?token=<token>.

Examples:
  # Serve on http://127.0.0.1:8050
  gdpdash serve

  # Start on Europe in 2015 and listen on all interfaces with a token
  GDPDASH_TOKEN=secret gdpdash serve --region Europe --year 2015 --addr :8050`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addRunFlags(cmd)
	_ = cmd.Flags().MarkHidden("output")
	cmd.Flags().String("addr", "",
		"Listen address (default: dashboard.addr from settings or "+config.DefaultServeAddr+")")
	cmd.Flags().String("token", "",
		"Access token required by the dashboard (env: "+config.EnvToken+")")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return &configError{err: err}
	}
	if err := loadRunConfig(cmd, cfg, true); err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Settings.Dashboard.Addr
	}
	if addr == "" {
		addr = config.DefaultServeAddr
	}
	token, err := stringFlagOrEnv(cmd, "token", config.EnvToken)
	if err != nil {
		return err
	}
	if token == "" {
		token = cfg.Settings.Dashboard.Token
	}

	ds, err := loadDataset(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl, err := dashboard.NewController(ctx, ds, cfg.Run,
		dashboard.WithProcessor(newProcessor(cfg.Settings)),
		dashboard.WithShaper(newShaper(cfg.Settings)),
		dashboard.WithTrendRange(cfg.Settings.Trend.Start, cfg.Settings.Trend.End),
		dashboard.WithControllerLogger(logger),
	)
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidOperation) {
		return &configError{err: fmt.Errorf("failed to start dashboard: %w", err)}
	}
	if err != nil {
		return fmt.Errorf("failed to start dashboard: %w", err)
	}

	srv, err := dashboard.NewServer(ctrl,
		dashboard.WithToken(token),
		dashboard.WithServerLogger(logger),
		dashboard.WithVersion(getVersion()),
	)
	if err != nil {
		return err
	}

	state := ctrl.State()
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Loaded %d records from %s\n", ds.Len(), ds.Source)
	_, _ = fmt.Fprintf(out, "Dashboard: %s (region %s, year %s)\n",
		dashboardURL(addr), model.RunConfig{Region: state.Region}.RegionLabel(), state.Year)
	if token != "" {
		_, _ = fmt.Fprintln(out, "Access token required.")
	}
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop.")

	return srv.ListenAndServe(ctx, addr)
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr + "/"
	}
	return "http://" + addr + "/"
}
