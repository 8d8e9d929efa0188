package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/citadelmro/capplan/app"
	"github.com/citadelmro/capplan/config"
	"github.com/citadelmro/capplan/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "capplan",
	Short: "Labor capacity and hangar bay planning",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// newService loads configuration, builds the service and takes the
// first snapshot.
func newService(ctx context.Context) (*app.Service, *config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := svc.Refresh(ctx); err != nil {
		if cerr := svc.Close(); cerr != nil {
			logger.New("main").Errorf("service close: %v", cerr)
		}
		return nil, nil, err
	}
	return svc, cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cfg, err := newService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	g := cfg.Planner.GranularityValue()
	snap := svc.CurrentSnapshot()
	for _, d := range snap.Departments {
		summary, err := svc.Summary(d.Key, g, cfg.Planner.IncludePotential)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s peak %6.1f%% @ %-10s worst %+8.1f h @ %-10s capacity %6.1f h/wk\n",
			d.Key, summary.PeakUtilization, summary.PeakPeriod,
			summary.WorstOverUnder, summary.WorstPeriod, summary.WeeklyCapacity)
	}
	return nil
}
