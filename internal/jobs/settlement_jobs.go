package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/utils"
)

// RunWeeklySettlement settles the week that just ended, using the
// default cost figures from configuration, and pushes the formatted
// report to the configured channels.
func (jr *JobRunner) RunWeeklySettlement() {
	jr.runWithRecovery("RunWeeklySettlement", func() {
		ctx := context.Background()

		loc := jr.config.Location()
		start, end, week := utils.PreviousWeekOf(time.Now(), loc)

		courtCost := jr.config.Settlement.DefaultCourtCostCents
		shuttlecockCost := jr.config.Settlement.DefaultShuttlecockCostCents

		report, err := jr.settlement.RunWeeklySettlement(ctx, domain.SettlementInputs{
			PeriodStart:          start,
			PeriodEnd:            end,
			SessionCount:         jr.config.Settlement.SessionsPerWeek,
			CourtCostCents:       &courtCost,
			ShuttlecockCostCents: &shuttlecockCost,
		})
		if err != nil {
			logger.Error("Weekly settlement failed", "week", week, "error", err)
			return
		}

		// Delivery is fire and forget; the report is already committed.
		jr.dispatcher.Send(ctx, FormatWeeklyReport(report))
	})
}

// FormatWeeklyReport renders the report for the group chat. Amounts are
// shown in whole currency units.
func FormatWeeklyReport(r *domain.WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weekly settlement %s\n", r.Week)
	fmt.Fprintf(&b, "Period: %s – %s\n", r.PeriodStart.Format("Mon 2 Jan"), r.PeriodEnd.AddDate(0, 0, -1).Format("Mon 2 Jan"))
	if r.SessionCount > 0 {
		fmt.Fprintf(&b, "Sessions: %d\n", r.SessionCount)
	}
	fmt.Fprintf(&b, "Income: %s\n", formatUnits(r.TotalIncomeCents))
	fmt.Fprintf(&b, "Court: %s  Shuttles: %s\n", formatUnits(r.CourtCostCents), formatUnits(r.ShuttlecockCostCents))
	fmt.Fprintf(&b, "Profit this week: %s\n", formatUnits(r.GrossProfitCents))
	fmt.Fprintf(&b, "Running balance: %s\n", formatUnits(r.RunningBalanceCents))
	fmt.Fprintf(&b, "Next week's price: %s per player", formatUnits(r.RecommendedPriceCents))
	if r.PriceClamped {
		b.WriteString(" (floored)")
	}
	return b.String()
}

func formatUnits(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("%d", cents/100)
	}
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
