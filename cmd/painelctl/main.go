// Command painelctl exports rankings and sales summaries, renders charts
// and prints the audit log without running the dashboard server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/okian/painel/internal/app"
	"github.com/okian/painel/internal/config"
	"github.com/okian/painel/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globals are the flags shared by every subcommand.
type globals struct {
	workbook string
	logLevel string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "painelctl",
		Short: "Offline tools for the PEX and Vendas dashboards",
		Long: `painelctl reads the same spreadsheet as the dashboard server, configured
through PAINEL_* variables, config.env or PAINEL_CONFIG, and writes exports,
charts and audit listings to files or stdout.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.workbook, "workbook", "", "Read an .xlsx workbook instead of the configured source")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(
		newRankingCmd(g),
		newSalesCmd(g),
		newAuditCmd(g),
		newSampleCmd(),
	)
	return root
}

// open loads the configuration, applies the global flags and opens the service.
func (g *globals) open(ctx context.Context) (*app.Service, func() error, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if g.workbook != "" {
		cfg.Source = config.SourceWorkbook
		cfg.WorkbookPath = g.workbook
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(g.logLevel); err != nil {
		return nil, nil, err
	}
	return app.Open(ctx, cfg, logger.Get())
}
