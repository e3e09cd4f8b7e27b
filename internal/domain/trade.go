package domain

import "time"

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// RiskLevel is a qualitative classification of the risk/reward ratio.
type RiskLevel string

const (
	RiskInvalid          RiskLevel = "INVALID"
	RiskHigh             RiskLevel = "HIGH_RISK"
	RiskModerate         RiskLevel = "MODERATE_RISK"
	RiskLow              RiskLevel = "LOW_RISK"
	RiskConservative     RiskLevel = "CONSERVATIVE"
	RiskVeryConservative RiskLevel = "VERY_CONSERVATIVE"
)

// TradeSpecification is the user input to the calculator.
// Symbol may be a placeholder when no live market is selected.
type TradeSpecification struct {
	Direction   Direction `json:"direction"`
	EntryPrice  float64   `json:"entryPrice"`
	StopLoss    float64   `json:"stopLoss"`
	TargetPrice float64   `json:"targetPrice"`
	AccountSize float64   `json:"accountSize"`
	RiskPercent float64   `json:"riskPercent"`
	Exchange    string    `json:"exchange"`
	Symbol      string    `json:"symbol"`
}

// ProfitTarget is one staged partial exit between entry and the final target.
type ProfitTarget struct {
	Price           float64 `json:"price"`
	PositionPercent float64 `json:"positionPercent"`
	RiskRewardRatio float64 `json:"riskRewardRatio"`
}

// WinRateAnalysis reports the win rates implied by the risk/reward ratio.
// Informational only, never used to reject a trade.
type WinRateAnalysis struct {
	Breakeven    float64 `json:"breakeven"`
	Profitable   float64 `json:"profitable"`
	Conservative float64 `json:"conservative"`
}

// CalculationResult is the deterministic output for a valid TradeSpecification.
type CalculationResult struct {
	PositionSize      float64         `json:"positionSize"`
	PositionValue     float64         `json:"positionValue"`
	RiskAmount        float64         `json:"riskAmount"`
	RiskPercentActual float64         `json:"riskPercentActual"`
	RewardAmount      float64         `json:"rewardAmount"`
	RiskRewardRatio   float64         `json:"riskRewardRatio"`
	RiskLevel         RiskLevel       `json:"riskLevel"`
	ProfitTargets     []ProfitTarget  `json:"profitTargets"`
	WinRates          WinRateAnalysis `json:"winRates"`
}

// CalculationRecord is a persisted calculation: the input specification plus
// the headline outputs, as handed to the history store.
type CalculationRecord struct {
	ID              int64     `json:"id"`
	Exchange        string    `json:"exchange"`
	Symbol          string    `json:"symbol"`
	Direction       Direction `json:"direction"`
	EntryPrice      float64   `json:"entryPrice"`
	StopLoss        float64   `json:"stopLoss"`
	TargetPrice     float64   `json:"targetPrice"`
	AccountSize     float64   `json:"accountSize"`
	RiskPercent     float64   `json:"riskPercent"`
	PositionSize    float64   `json:"positionSize"`
	PositionValue   float64   `json:"positionValue"`
	RiskAmount      float64   `json:"riskAmount"`
	RewardAmount    float64   `json:"rewardAmount"`
	RiskRewardRatio float64   `json:"riskRewardRatio"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	CreatedAt       time.Time `json:"createdAt"`
}
