package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/citadelmro/capplan/core/hangar"
	"github.com/citadelmro/capplan/infra/logger"
)

var (
	planPeriods   int
	planFrom      string
	planPotential bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute the hangar bay plan",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().IntVar(&planPeriods, "periods", 0, "number of periods to plan (0 = configured default)")
	planCmd.Flags().StringVar(&planFrom, "from", "", "start date YYYY-MM-DD (default: first snapshot period)")
	planCmd.Flags().BoolVar(&planPotential, "include-potential", false, "include potential projects")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, _, err := newService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("plan-command").Errorf("service close: %v", err)
		}
	}()

	var from time.Time
	if planFrom != "" {
		from, err = time.Parse("2006-01-02", planFrom)
		if err != nil {
			return fmt.Errorf("bad --from date: %w", err)
		}
	}

	plan := svc.ComputeHangarPlan(from, planPeriods, planPotential, nil)
	fmt.Printf("%-12s %-14s %-14s %-14s %-14s %-14s %s\n",
		"period", "H1", "H2", "D1", "D2", "D3", "conflicts")
	for _, pa := range plan {
		cells := make([]string, hangar.NumBays)
		for i, b := range pa.Bays {
			cells[i] = bayCell(b)
		}
		var conflicts []string
		for _, a := range pa.Conflicts {
			conflicts = append(conflicts, a.Number)
		}
		fmt.Printf("%-12s %-14s %-14s %-14s %-14s %-14s %s\n",
			pa.Period.Label(), cells[0], cells[1], cells[2], cells[3], cells[4],
			strings.Join(conflicts, ","))
	}
	return nil
}

func bayCell(b hangar.Bay) string {
	if b.State == hangar.StateEmpty {
		return "-"
	}
	var nums []string
	for _, a := range b.Occupants {
		nums = append(nums, a.Number)
	}
	return fmt.Sprintf("%s:%s", b.State, strings.Join(nums, "+"))
}
