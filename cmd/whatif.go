package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/citadelmro/capplan/core/model"
	"github.com/citadelmro/capplan/core/whatif"
	"github.com/citadelmro/capplan/infra/logger"
)

var (
	whatifNumber   string
	whatifDataset  string
	whatifMult     float64
	whatifLead     int
	whatifOvertime float64
	whatifInd      string
	whatifDel      string
)

var whatifCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Estimate the schedule impact of a candidate project",
	RunE:  runWhatif,
}

func init() {
	whatifCmd.Flags().StringVar(&whatifNumber, "project", "", "project number (required)")
	whatifCmd.Flags().StringVar(&whatifDataset, "dataset", "potential", "dataset holding the project")
	whatifCmd.Flags().Float64Var(&whatifMult, "mult", 1.0, "scope multiplier")
	whatifCmd.Flags().IntVar(&whatifLead, "lead", 14, "minimum lead time in workdays")
	whatifCmd.Flags().Float64Var(&whatifOvertime, "overtime", 0, "capacity uplift percent")
	whatifCmd.Flags().StringVar(&whatifInd, "induction", "", "induction override YYYY-MM-DD")
	whatifCmd.Flags().StringVar(&whatifDel, "delivery", "", "delivery override YYYY-MM-DD")
	_ = whatifCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(whatifCmd)
}

func runWhatif(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, _, err := newService(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("whatif-command").Errorf("service close: %v", err)
		}
	}()

	category, err := model.ParseCategory(whatifDataset)
	if err != nil {
		return err
	}
	snap := svc.CurrentSnapshot()
	var source *model.Project
	for _, set := range [][]model.Project{snap.Confirmed, snap.Potential, snap.Actual} {
		for i := range set {
			if set[i].Number == whatifNumber && set[i].Category == category {
				source = &set[i]
			}
		}
	}
	if source == nil {
		return fmt.Errorf("project %q not found in %s dataset", whatifNumber, category)
	}

	req := whatif.Request{
		Source:          *source,
		ScopeMultiplier: whatifMult,
		MinLeadWorkdays: whatifLead,
		OvertimePct:     whatifOvertime,
	}
	if whatifInd != "" {
		if req.InductionOverride, err = time.Parse("2006-01-02", whatifInd); err != nil {
			return fmt.Errorf("bad --induction date: %w", err)
		}
	}
	if whatifDel != "" {
		if req.DeliveryOverride, err = time.Parse("2006-01-02", whatifDel); err != nil {
			return fmt.Errorf("bad --delivery date: %w", err)
		}
	}

	res, err := svc.ComputeWhatIf(req)
	if err != nil {
		return err
	}
	fmt.Printf("earliest start %s, requested %s -> %s, new delivery %s (slip %d workdays)\n",
		res.EarliestStart.Format("2006-01-02"), res.RequestedStart.Format("2006-01-02"),
		res.RequestedDelivery.Format("2006-01-02"), res.NewDelivery.Format("2006-01-02"), res.SlipWorkdays)
	if res.Unresolvable {
		fmt.Println("warning: at least one department has no capacity to absorb its shortfall")
	}
	fmt.Printf("%-12s %10s %10s %10s %6s\n", "department", "hours", "headroom", "shortfall", "slip")
	for _, imp := range res.Impacts {
		slip := fmt.Sprintf("%d", imp.SlipWorkdays)
		if imp.Unresolvable {
			slip = "n/a"
		}
		fmt.Printf("%-12s %10.1f %10.1f %10.1f %6s\n", imp.Department, imp.Hours, imp.Headroom, imp.Shortfall, slip)
	}
	return nil
}
