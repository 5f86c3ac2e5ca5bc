package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"deskhub/pkg/access"
	"deskhub/pkg/cards"
	"deskhub/pkg/config"
	"deskhub/pkg/export"
	"deskhub/pkg/ingest"
	"deskhub/pkg/layout"
	"deskhub/pkg/logging"
	"deskhub/pkg/model"
	"deskhub/pkg/store"
	"deskhub/pkg/ui"
	"deskhub/pkg/view"
	"deskhub/pkg/watcher"
)

const appVersion = "0.2.0"

var (
	configPath string
	verbose    bool
)

// env is everything a command needs after bootstrap.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *store.SQLiteStore
	dash   *store.Dashboard
	capab  access.Capability
	ingest *ingest.Client
}

func (e *env) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

var rootCmd = &cobra.Command{
	Use:   "deskhub",
	Short: "deskhub - a terminal workspace dashboard",
	Long: `deskhub arranges schedule cards, a mission status summary, manual
cards, and spreadsheet-backed widgets into named sections, with drag-style
reordering and per-card data visualization.

Run without arguments to open the dashboard.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the deskhub version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("deskhub %s\n", appVersion)
	},
}

var grantCmd = &cobra.Command{
	Use:   "grant <email> <role>",
	Short: "Grant a role on the configured dashboard",
	Long: `Adds an access list entry for the given email. Roles owner, editor,
and edit can mutate the dashboard; anything else is view-only.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := bootstrap()
		if err != nil {
			return err
		}
		defer e.close()

		entry := access.Entry{UserEmail: args[0], Role: args[1]}
		if err := e.store.GrantAccess(cmd.Context(), e.dash.ID, entry); err != nil {
			return fmt.Errorf("grant access: %w", err)
		}
		fmt.Printf("granted %s to %s\n", args[1], args[0])
		return nil
	},
}

var (
	exportDir   string
	exportServe bool
	exportPort  int
	exportW     int
	exportH     int
)

var exportCmd = &cobra.Command{
	Use:   "export [card-id...]",
	Short: "Export chart cards as an SVG bundle",
	Long: `Renders the named chart cards (or every chart-configured widget when
no ids are given) as SVG files plus an index.html, refreshing their sheet
data first. With --serve the bundle is served locally for previewing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), args)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "deskhub-export", "output bundle directory")
	exportCmd.Flags().BoolVar(&exportServe, "serve", false, "serve the bundle after exporting")
	exportCmd.Flags().IntVar(&exportPort, "port", 8371, "preview server port")
	exportCmd.Flags().IntVar(&exportW, "width", 640, "chart width in pixels")
	exportCmd.Flags().IntVar(&exportH, "height", 360, "chart height in pixels")

	rootCmd.AddCommand(versionCmd, grantCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads config, the logger, the record store, and the dashboard
// record, creating the record on first run.
func bootstrap() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}

	log, err := logging.New(cfg.LogPath(), cfg.Verbose)
	if err != nil {
		return nil, err
	}

	st, err := store.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	e := &env{cfg: cfg, log: log, store: st}
	ctx := context.Background()

	identity := access.User{ID: cfg.UserID, Email: cfg.UserEmail}
	if identity.ID == "" && identity.Email == "" {
		identity.ID = "local"
	}

	dash, err := st.GetDashboard(ctx, cfg.DashboardID)
	if errors.Is(err, store.ErrNotFound) {
		dash = &store.Dashboard{
			ID:          cfg.DashboardID,
			Name:        "Deskhub",
			Sections:    []string{"General"},
			ScheduleURL: cfg.ScheduleURL,
			MissionURL:  cfg.MissionURL,
		}
		if err := st.SaveDashboard(ctx, dash); err != nil {
			e.close()
			return nil, fmt.Errorf("create dashboard: %w", err)
		}
		// The creating identity owns a fresh dashboard.
		owner := access.Entry{UserID: identity.ID, UserEmail: identity.Email, Role: "owner"}
		if err := st.GrantAccess(ctx, dash.ID, owner); err != nil {
			e.close()
			return nil, fmt.Errorf("grant owner: %w", err)
		}
		log.Info("created dashboard", zap.String("id", dash.ID))
	} else if err != nil {
		e.close()
		return nil, err
	}

	// Config-provided sheet locations fill gaps in the stored record.
	if dash.ScheduleURL == "" {
		dash.ScheduleURL = cfg.ScheduleURL
	}
	if dash.MissionURL == "" {
		dash.MissionURL = cfg.MissionURL
	}
	e.dash = dash

	entries, err := st.ListAccess(ctx, dash.ID)
	if err != nil {
		e.close()
		return nil, err
	}
	e.capab = access.Resolve(&identity, entries)
	e.ingest = ingest.NewClient(log)

	log.Info("session resolved",
		zap.String("dashboard", dash.ID),
		zap.String("role", e.capab.Role),
		zap.Bool("can_edit", e.capab.CanEdit))
	return e, nil
}

func runDashboard() error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	engine := layout.NewEngine(e.dash, e.store, e.capab.CanEdit, e.log)
	loader := cards.NewLoader(e.store, e.ingest, firstSection(e.dash), e.log)

	opts := ui.Options{
		Token:               e.cfg.SheetToken,
		ScheduleLabelColumn: e.cfg.ScheduleLabelColumn,
	}
	theme := ui.DefaultTheme(nil)
	m := ui.NewDashboardModel(engine, loader, e.ingest, opts, theme, e.log)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Re-read sources when the config file changes on disk.
	fw, werr := watcher.WatchFile(configPath, func() {
		p.Send(ui.ReloadMsg{})
	})
	if werr == nil {
		defer fw.Close()
	} else {
		e.log.Warn("config watch unavailable", zap.Error(werr))
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

func firstSection(d *store.Dashboard) string {
	if len(d.Sections) > 0 {
		return d.Sections[0]
	}
	return ""
}

func runExport(ctx context.Context, ids []string) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	widgets, err := e.store.ListWidgets(ctx, e.dash.ID)
	if err != nil {
		return err
	}
	manual, err := e.store.ListCards(ctx, e.dash.ID)
	if err != nil {
		return err
	}
	all := append(manual, widgets...)

	wanted := func(id string) bool {
		if len(ids) == 0 {
			return true
		}
		for _, w := range ids {
			if w == id {
				return true
			}
		}
		return false
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	var index strings.Builder
	index.WriteString("<!DOCTYPE html>\n<html><head><title>" + e.dash.Name + "</title></head><body>\n")
	index.WriteString("<h1>" + e.dash.Name + "</h1>\n")

	exported := 0
	for i := range all {
		card := &all[i]
		if !wanted(card.ID) {
			continue
		}
		if !card.DataBearing() || card.Settings.ViewMode != model.ViewChart {
			continue
		}

		table, err := e.ingest.FetchTable(ctx, card.SheetURL, e.cfg.SheetToken)
		if err != nil {
			e.log.Warn("skipping card, fetch failed",
				zap.String("card", card.ID), zap.Error(err))
			continue
		}
		card.Data = table

		p := view.Compute(card)
		if p.Chart == nil {
			continue
		}

		name := card.ID + ".svg"
		f, err := os.Create(filepath.Join(exportDir, name))
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		werr := export.WriteChartSVG(f, card.Title, p.Chart, exportW, exportH)
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("render %s: %w", name, werr)
		}
		if cerr != nil {
			return cerr
		}

		index.WriteString(fmt.Sprintf("<div><h2>%s</h2><img src=%q alt=%q></div>\n",
			card.Title, name, card.Title))
		exported++
		fmt.Printf("exported %s\n", name)
	}

	index.WriteString("</body></html>\n")
	indexPath := filepath.Join(exportDir, "index.html")
	if err := os.WriteFile(indexPath, []byte(index.String()), 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	if exported == 0 {
		fmt.Println("no chart-configured cards matched; nothing exported")
	} else {
		fmt.Printf("bundle written to %s\n", exportDir)
	}

	if !exportServe {
		return nil
	}

	srvCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	srv := export.NewPreviewServer(exportDir, exportPort)
	return srv.Start(srvCtx)
}
