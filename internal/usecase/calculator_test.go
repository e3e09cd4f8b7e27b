package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futures-risk-calc/internal/domain"
)

func validLongSpec() *domain.TradeSpecification {
	return &domain.TradeSpecification{
		Direction:   domain.DirectionLong,
		EntryPrice:  100,
		StopLoss:    95,
		TargetPrice: 115,
		AccountSize: 10000,
		RiskPercent: 2,
		Exchange:    "bybit",
		Symbol:      "BTCUSDT",
	}
}

func TestCalculate_LongScenario(t *testing.T) {
	calc := &Calculator{}
	spec := validLongSpec()

	result, err := calc.Calculate(spec)
	require.NoError(t, err)

	// riskPerUnit = 5, maxRisk = 200 -> size 40
	assert.InEpsilon(t, 40.0, result.PositionSize, 1e-9)
	assert.InEpsilon(t, 4000.0, result.PositionValue, 1e-9)
	assert.InEpsilon(t, 200.0, result.RiskAmount, 1e-9)
	assert.InEpsilon(t, 600.0, result.RewardAmount, 1e-9)
	assert.InEpsilon(t, 3.0, result.RiskRewardRatio, 1e-9)
	assert.Equal(t, domain.RiskVeryConservative, result.RiskLevel)

	require.Len(t, result.ProfitTargets, 3)
	assert.InEpsilon(t, 104.95, result.ProfitTargets[0].Price, 1e-9)
	assert.InEpsilon(t, 109.9, result.ProfitTargets[1].Price, 1e-9)
	assert.Equal(t, 115.0, result.ProfitTargets[2].Price)
	assert.Equal(t, 30.0, result.ProfitTargets[0].PositionPercent)
	assert.Equal(t, 50.0, result.ProfitTargets[1].PositionPercent)
	assert.Equal(t, 20.0, result.ProfitTargets[2].PositionPercent)
	assert.InEpsilon(t, 0.99, result.ProfitTargets[0].RiskRewardRatio, 1e-9)
	assert.InEpsilon(t, 1.98, result.ProfitTargets[1].RiskRewardRatio, 1e-9)
	assert.InEpsilon(t, 3.0, result.ProfitTargets[2].RiskRewardRatio, 1e-9)

	// breakeven 25%, +10, +20
	assert.InEpsilon(t, 25.0, result.WinRates.Breakeven, 1e-9)
	assert.InEpsilon(t, 35.0, result.WinRates.Profitable, 1e-9)
	assert.InEpsilon(t, 45.0, result.WinRates.Conservative, 1e-9)
}

func TestCalculate_ShortScenario(t *testing.T) {
	calc := &Calculator{}
	spec := &domain.TradeSpecification{
		Direction:   domain.DirectionShort,
		EntryPrice:  50,
		StopLoss:    55,
		TargetPrice: 40,
		AccountSize: 5000,
		RiskPercent: 1,
		Exchange:    "binance",
		Symbol:      "ETHUSDT",
	}

	result, err := calc.Calculate(spec)
	require.NoError(t, err)

	assert.InEpsilon(t, 10.0, result.PositionSize, 1e-9)
	assert.InEpsilon(t, 50.0, result.RiskAmount, 1e-9)
	assert.InEpsilon(t, 100.0, result.RewardAmount, 1e-9)
	assert.InEpsilon(t, 2.0, result.RiskRewardRatio, 1e-9)
	assert.Equal(t, domain.RiskConservative, result.RiskLevel)

	// Short targets step down from entry.
	require.Len(t, result.ProfitTargets, 3)
	assert.InEpsilon(t, 46.7, result.ProfitTargets[0].Price, 1e-9)
	assert.InEpsilon(t, 43.4, result.ProfitTargets[1].Price, 1e-9)
	assert.Equal(t, 40.0, result.ProfitTargets[2].Price)
}

func TestCalculate_RiskAmountMatchesRequestedPercent(t *testing.T) {
	calc := &Calculator{}
	specs := []*domain.TradeSpecification{
		{Direction: domain.DirectionLong, EntryPrice: 27123.5, StopLoss: 26980.1, TargetPrice: 27500, AccountSize: 12345.67, RiskPercent: 1.5, Exchange: "bybit", Symbol: "BTCUSDT"},
		{Direction: domain.DirectionShort, EntryPrice: 0.08213, StopLoss: 0.08441, TargetPrice: 0.0779, AccountSize: 900, RiskPercent: 0.25, Exchange: "bingx", Symbol: "DOGEUSDT"},
		{Direction: domain.DirectionLong, EntryPrice: 1850, StopLoss: 1800, TargetPrice: 1999, AccountSize: 50000, RiskPercent: 150, Exchange: "bitget", Symbol: "ETHUSDT"},
	}

	for _, spec := range specs {
		result, err := calc.Calculate(spec)
		require.NoError(t, err)
		expected := spec.AccountSize * spec.RiskPercent / 100
		assert.InEpsilon(t, expected, result.RiskAmount, 1e-6)
		assert.InEpsilon(t, spec.RiskPercent, result.RiskPercentActual, 1e-6)
	}
}

func TestCalculate_FinalTargetIsLiteral(t *testing.T) {
	calc := &Calculator{}
	spec := validLongSpec()
	spec.EntryPrice = 0.123456
	spec.StopLoss = 0.111111
	spec.TargetPrice = 0.987654

	result, err := calc.Calculate(spec)
	require.NoError(t, err)

	// Exact equality, not tolerance: the final stage substitutes the input.
	if result.ProfitTargets[2].Price != spec.TargetPrice {
		t.Fatalf("final target drifted: got %v want %v", result.ProfitTargets[2].Price, spec.TargetPrice)
	}
}

func TestCalculate_DegenerateTrade(t *testing.T) {
	calc := &Calculator{}
	spec := validLongSpec()
	spec.StopLoss = spec.EntryPrice

	_, err := calc.Calculate(spec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDegenerateTrade))
}

func TestClassifyRisk_Boundaries(t *testing.T) {
	cases := []struct {
		ratio float64
		want  domain.RiskLevel
	}{
		{-1, domain.RiskInvalid},
		{0, domain.RiskInvalid},
		{0.5, domain.RiskHigh},
		{0.99999, domain.RiskHigh},
		{1.0, domain.RiskModerate},
		{1.49999, domain.RiskModerate},
		{1.5, domain.RiskLow},
		{1.99999, domain.RiskLow},
		{2.0, domain.RiskConservative},
		{2.99999, domain.RiskConservative},
		{3.0, domain.RiskVeryConservative},
		{10, domain.RiskVeryConservative},
	}

	for _, tc := range cases {
		if got := ClassifyRisk(tc.ratio); got != tc.want {
			t.Errorf("ClassifyRisk(%v) = %s, want %s", tc.ratio, got, tc.want)
		}
	}
}

func TestValidate_DirectionOrdering(t *testing.T) {
	calc := &Calculator{}

	long := validLongSpec()
	long.StopLoss = 100 // == entry
	err := calc.Validate(long)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "stopLoss", vErr.Field)

	long = validLongSpec()
	long.StopLoss = 105
	require.ErrorAs(t, calc.Validate(long), &vErr)
	assert.Equal(t, "stopLoss", vErr.Field)

	long = validLongSpec()
	long.TargetPrice = 99
	require.ErrorAs(t, calc.Validate(long), &vErr)
	assert.Equal(t, "targetPrice", vErr.Field)

	short := &domain.TradeSpecification{
		Direction:   domain.DirectionShort,
		EntryPrice:  50,
		StopLoss:    55,
		TargetPrice: 50, // == entry, must be below
		AccountSize: 5000,
		RiskPercent: 1,
		Exchange:    "bybit",
		Symbol:      "ETHUSDT",
	}
	require.ErrorAs(t, calc.Validate(short), &vErr)
	assert.Equal(t, "targetPrice", vErr.Field)

	short.TargetPrice = 40
	short.StopLoss = 49
	require.ErrorAs(t, calc.Validate(short), &vErr)
	assert.Equal(t, "stopLoss", vErr.Field)
}

func TestValidate_FirstFailureWins(t *testing.T) {
	calc := &Calculator{}

	// Everything is wrong; exchange is checked first.
	spec := &domain.TradeSpecification{}
	var vErr *domain.ValidationError
	require.ErrorAs(t, calc.Validate(spec), &vErr)
	assert.Equal(t, "exchange", vErr.Field)

	spec.Exchange = "bybit"
	require.ErrorAs(t, calc.Validate(spec), &vErr)
	assert.Equal(t, "symbol", vErr.Field)

	spec.Symbol = "BTCUSDT"
	require.ErrorAs(t, calc.Validate(spec), &vErr)
	assert.Equal(t, "entryPrice", vErr.Field)
}

func TestValidate_NumericFields(t *testing.T) {
	calc := &Calculator{}

	for _, mutate := range []func(*domain.TradeSpecification){
		func(s *domain.TradeSpecification) { s.EntryPrice = 0 },
		func(s *domain.TradeSpecification) { s.StopLoss = -5 },
		func(s *domain.TradeSpecification) { s.AccountSize = 0 },
		func(s *domain.TradeSpecification) { s.RiskPercent = 0 },
	} {
		spec := validLongSpec()
		mutate(spec)
		var vErr *domain.ValidationError
		require.ErrorAs(t, calc.Validate(spec), &vErr)
	}

	spec := validLongSpec()
	spec.Direction = "SIDEWAYS"
	var vErr *domain.ValidationError
	require.ErrorAs(t, calc.Validate(spec), &vErr)
	assert.Equal(t, "direction", vErr.Field)
}

func TestValidate_MaxRiskPercentCap(t *testing.T) {
	spec := validLongSpec()
	spec.RiskPercent = 500

	// Permissive by default.
	require.NoError(t, (&Calculator{}).Validate(spec))

	capped := &Calculator{MaxRiskPercent: 100}
	var vErr *domain.ValidationError
	require.ErrorAs(t, capped.Validate(spec), &vErr)
	assert.Equal(t, "riskPercent", vErr.Field)
}
