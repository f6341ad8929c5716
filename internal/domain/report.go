package domain

import "time"

// SettlementState is the single document carrying the club's running
// balance across settlement weeks. It is read-modify-written in the same
// store transaction that records a weekly report, so two concurrent
// settlement runs cannot both apply.
type SettlementState struct {
	RunningBalanceCents int64     `firestore:"runningBalanceCents" json:"running_balance_cents"`
	LastSettledWeek     string    `firestore:"lastSettledWeek" json:"last_settled_week"`
	UpdatedOn           time.Time `firestore:"updatedOn,serverTimestamp" json:"updated_on"`
}

// SettlementInputs are the externally supplied figures for one settlement
// week. Costs are pointers so that a missing figure fails validation
// instead of silently counting as zero.
type SettlementInputs struct {
	PeriodStart          time.Time `json:"period_start"`
	PeriodEnd            time.Time `json:"period_end"`
	SessionCount         int       `json:"session_count"`
	TotalPlayers         int       `json:"total_players"`
	CourtCostCents       *int64    `json:"court_cost_cents"`
	ShuttlecockCostCents *int64    `json:"shuttlecock_cost_cents"`
}

// WeeklyReport is the settled result for one week. Week is the ISO week
// label of the period start, e.g. "2026-W34".
type WeeklyReport struct {
	Week                  string    `firestore:"week" json:"week"`
	PeriodStart           time.Time `firestore:"periodStart" json:"period_start"`
	PeriodEnd             time.Time `firestore:"periodEnd" json:"period_end"`
	SessionCount          int       `firestore:"sessionCount" json:"session_count"`
	TotalPlayers          int       `firestore:"totalPlayers" json:"total_players"`
	TotalIncomeCents      int64     `firestore:"totalIncomeCents" json:"total_income_cents"`
	CourtCostCents        int64     `firestore:"courtCostCents" json:"court_cost_cents"`
	ShuttlecockCostCents  int64     `firestore:"shuttlecockCostCents" json:"shuttlecock_cost_cents"`
	TotalExpensesCents    int64     `firestore:"totalExpensesCents" json:"total_expenses_cents"`
	GrossProfitCents      int64     `firestore:"grossProfitCents" json:"gross_profit_cents"`
	RunningBalanceCents   int64     `firestore:"runningBalanceCents" json:"running_balance_cents"`
	BasePriceCents        int64     `firestore:"basePriceCents" json:"base_price_cents"`
	AdjustmentCents       int64     `firestore:"adjustmentCents" json:"adjustment_cents"`
	RecommendedPriceCents int64     `firestore:"recommendedPriceCents" json:"recommended_price_cents"`
	PriceClamped          bool      `firestore:"priceClamped" json:"price_clamped"`
	CreatedOn             time.Time `firestore:"createdOn,serverTimestamp" json:"created_on"`
}
