package usecase

import (
	"math"

	"futures-risk-calc/internal/domain"
)

// Staged profit taking: fractions of the entry-to-target move at which a
// partial exit happens, and the share of the position closed at each stage.
var (
	profitStageFractions = []float64{0.33, 0.66, 1.0}
	profitStageWeights   = []float64{30, 50, 20}
)

// Calculator turns a validated TradeSpecification into a CalculationResult.
// Pure and stateless: no I/O, no clock, no configuration beyond the optional
// risk-percent cap enforced during validation.
type Calculator struct {
	// MaxRiskPercent caps the requested risk percentage when > 0. Zero
	// disables the cap, which keeps leverage-implying sizes possible.
	MaxRiskPercent float64
}

// Validate runs the pre-flight checks in a fixed order and reports the first
// failing rule. Callers decide whether to surface the failure: continuous
// recalculation while the user types stays silent, an explicit calculate
// action shows the message.
func (c *Calculator) Validate(spec *domain.TradeSpecification) error {
	if spec.Exchange == "" {
		return &domain.ValidationError{Field: "exchange", Reason: "exchange must be selected"}
	}
	if spec.Symbol == "" {
		return &domain.ValidationError{Field: "symbol", Reason: "symbol must be selected"}
	}

	numeric := []struct {
		field string
		value float64
	}{
		{"entryPrice", spec.EntryPrice},
		{"stopLoss", spec.StopLoss},
		{"targetPrice", spec.TargetPrice},
		{"accountSize", spec.AccountSize},
		{"riskPercent", spec.RiskPercent},
	}
	for _, n := range numeric {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) || n.value <= 0 {
			return &domain.ValidationError{Field: n.field, Reason: "must be a positive number"}
		}
	}

	if c.MaxRiskPercent > 0 && spec.RiskPercent > c.MaxRiskPercent {
		return &domain.ValidationError{Field: "riskPercent", Reason: "exceeds configured maximum"}
	}

	switch spec.Direction {
	case domain.DirectionLong:
		if spec.StopLoss >= spec.EntryPrice {
			return &domain.ValidationError{Field: "stopLoss", Reason: "must be below entry price for a long"}
		}
		if spec.TargetPrice <= spec.EntryPrice {
			return &domain.ValidationError{Field: "targetPrice", Reason: "must be above entry price for a long"}
		}
	case domain.DirectionShort:
		if spec.StopLoss <= spec.EntryPrice {
			return &domain.ValidationError{Field: "stopLoss", Reason: "must be above entry price for a short"}
		}
		if spec.TargetPrice >= spec.EntryPrice {
			return &domain.ValidationError{Field: "targetPrice", Reason: "must be below entry price for a short"}
		}
	default:
		return &domain.ValidationError{Field: "direction", Reason: "must be LONG or SHORT"}
	}

	return nil
}

// Calculate sizes the position so that a stop-loss hit loses exactly
// riskPercent of the account. Assumes a validated specification but still
// guards the degenerate entry==stop case.
func (c *Calculator) Calculate(spec *domain.TradeSpecification) (*domain.CalculationResult, error) {
	riskPerUnit := math.Abs(spec.EntryPrice - spec.StopLoss)
	if riskPerUnit == 0 {
		return nil, domain.ErrDegenerateTrade
	}
	rewardPerUnit := math.Abs(spec.TargetPrice - spec.EntryPrice)

	maxRiskAmount := spec.AccountSize * spec.RiskPercent / 100
	positionSize := maxRiskAmount / riskPerUnit

	riskAmount := positionSize * riskPerUnit
	rewardAmount := positionSize * rewardPerUnit
	ratio := rewardAmount / riskAmount

	return &domain.CalculationResult{
		PositionSize:      positionSize,
		PositionValue:     positionSize * spec.EntryPrice,
		RiskAmount:        riskAmount,
		RiskPercentActual: riskAmount / spec.AccountSize * 100,
		RewardAmount:      rewardAmount,
		RiskRewardRatio:   ratio,
		RiskLevel:         ClassifyRisk(ratio),
		ProfitTargets:     stagedTargets(spec, riskPerUnit),
		WinRates:          winRates(ratio),
	}, nil
}

// ClassifyRisk buckets a risk/reward ratio. Boundaries are half-open on the
// lower bound: exactly 1.0 is MODERATE_RISK, 1.5 is LOW_RISK, and so on.
func ClassifyRisk(ratio float64) domain.RiskLevel {
	switch {
	case ratio <= 0:
		return domain.RiskInvalid
	case ratio < 1:
		return domain.RiskHigh
	case ratio < 1.5:
		return domain.RiskModerate
	case ratio < 2:
		return domain.RiskLow
	case ratio < 3:
		return domain.RiskConservative
	default:
		return domain.RiskVeryConservative
	}
}

func stagedTargets(spec *domain.TradeSpecification, riskPerUnit float64) []domain.ProfitTarget {
	totalMove := math.Abs(spec.TargetPrice - spec.EntryPrice)
	sign := 1.0
	if spec.Direction == domain.DirectionShort {
		sign = -1.0
	}

	targets := make([]domain.ProfitTarget, 0, len(profitStageFractions))
	for i, fraction := range profitStageFractions {
		price := spec.EntryPrice + sign*fraction*totalMove
		if fraction == 1.0 {
			// The final stage is the literal target, never a recomputed
			// value, so it cannot drift from the user's input.
			price = spec.TargetPrice
		}
		targets = append(targets, domain.ProfitTarget{
			Price:           price,
			PositionPercent: profitStageWeights[i],
			RiskRewardRatio: math.Abs(price-spec.EntryPrice) / riskPerUnit,
		})
	}
	return targets
}

func winRates(ratio float64) domain.WinRateAnalysis {
	breakeven := 1 / (1 + ratio) * 100
	return domain.WinRateAnalysis{
		Breakeven:    breakeven,
		Profitable:   breakeven + 10,
		Conservative: breakeven + 20,
	}
}
