package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/model"
	"github.com/citadelmro/capplan/infra/logger"
)

var (
	loadDept        string
	loadDataset     string
	loadGranularity string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Print the load and capacity series for a department",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadDept, "dept", "", "department key (required)")
	loadCmd.Flags().StringVar(&loadDataset, "dataset", "confirmed", "dataset: confirmed, potential or actual")
	loadCmd.Flags().StringVar(&loadGranularity, "granularity", "", "weekly or monthly (default: configured)")
	_ = loadCmd.MarkFlagRequired("dept")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cfg, err := newService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("load-command").Errorf("service close: %v", err)
		}
	}()

	category, err := model.ParseCategory(loadDataset)
	if err != nil {
		return err
	}
	g := cfg.Planner.GranularityValue()
	if loadGranularity != "" {
		if g, err = calendar.ParseGranularity(loadGranularity); err != nil {
			return err
		}
	}

	series, err := svc.GetLoadSeries(loadDept, category, g)
	if err != nil {
		return err
	}
	capSeries, err := svc.GetCapacitySeries(loadDept, g)
	if err != nil {
		return err
	}
	periods := svc.Periods(g)
	fmt.Printf("%-12s %10s %10s %6s\n", "period", "load", "capacity", "util")
	for i, p := range periods {
		util := 0.0
		if capSeries[i] > 0 {
			util = 100 * series.Values[i] / capSeries[i]
		}
		fmt.Printf("%-12s %10.1f %10.1f %5.1f%%\n", p.Label(), series.Values[i], capSeries[i], util)
	}
	return nil
}
