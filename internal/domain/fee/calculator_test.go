package fee

import (
	"testing"

	"github.com/fundraisely/backend/pkg/errorx"

	"github.com/stretchr/testify/require"
)

func Test_ToBasisPoints(t *testing.T) {
	testCases := []struct {
		name     string
		percent  float64
		expected int
	}{
		{name: "whole percent", percent: 3, expected: 300},
		{name: "fractional percent", percent: 3.5, expected: 350},
		{name: "rounds half up", percent: 0.015, expected: 2},
		{name: "negative clamps to zero", percent: -10, expected: 0},
		{name: "over hundred clamps", percent: 250, expected: 10000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ToBasisPoints(tc.percent))
		})
	}
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name         string
		hostBps      int
		prizePoolBps int
		wantErr      error
		wantCharity  int
	}{
		{
			name:         "host 3 percent prize 35 percent is allowed",
			hostBps:      300,
			prizePoolBps: 3500,
			wantCharity:  4200,
		},
		{
			name:         "maximum host and prize leaves exactly the charity floor",
			hostBps:      500,
			prizePoolBps: 3500,
			wantCharity:  4000,
		},
		{
			name:         "zero host zero prize gives charity the remainder",
			hostBps:      0,
			prizePoolBps: 0,
			wantCharity:  8000,
		},
		{
			name:         "host 5 percent prize 40 percent squeezes charity below floor",
			hostBps:      500,
			prizePoolBps: 4000,
			wantErr:      errorx.New(errorx.CharityBelowMinimum, ""),
		},
		{
			name:         "host fee over cap",
			hostBps:      501,
			prizePoolBps: 0,
			wantErr:      errorx.New(errorx.FeeOutOfRange, ""),
		},
		{
			name:         "negative host fee",
			hostBps:      -1,
			prizePoolBps: 0,
			wantErr:      errorx.New(errorx.FeeOutOfRange, ""),
		},
		{
			name:         "prize pool over cap",
			hostBps:      0,
			prizePoolBps: 4001,
			wantErr:      errorx.New(errorx.FeeOutOfRange, ""),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Validate(tc.hostBps, tc.prizePoolBps)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, PlatformFeeBps, s.PlatformBps)
			require.Equal(t, tc.wantCharity, s.CharityBps)
			require.Equal(t, BpsDenominator,
				s.PlatformBps+s.HostBps+s.PrizePoolBps+s.CharityBps)
		})
	}
}

func Test_Validate_SplitAlwaysSumsToWhole(t *testing.T) {
	for hostBps := 0; hostBps <= MaxHostFeeBps; hostBps += 25 {
		for prizeBps := 0; prizeBps <= MaxPrizePoolBps; prizeBps += 250 {
			s, err := Validate(hostBps, prizeBps)
			if err != nil {
				continue
			}

			require.Equal(t, BpsDenominator,
				s.PlatformBps+s.HostBps+s.PrizePoolBps+s.CharityBps,
				"host=%d prize=%d", hostBps, prizeBps)
			require.GreaterOrEqual(t, s.CharityBps, MinCharityBps)
		}
	}
}

func Test_ValidatePrizeDistribution(t *testing.T) {
	require.NoError(t, ValidatePrizeDistribution(100, 0, 0))
	require.NoError(t, ValidatePrizeDistribution(50, 30, 20))
	require.NoError(t, ValidatePrizeDistribution(60, 40, 0))

	err := ValidatePrizeDistribution(50, 30, 10)
	require.ErrorIs(t, err, errorx.New(errorx.InvalidPrizeDistribution, ""))

	err = ValidatePrizeDistribution(120, -20, 0)
	require.ErrorIs(t, err, errorx.New(errorx.InvalidPrizeDistribution, ""))
}

func Test_CalculateBreakdown(t *testing.T) {
	s, err := Validate(300, 3500)
	require.NoError(t, err)

	// 10 USDC of entry fees (6 decimals) and 2.5 USDC of extras.
	b := CalculateBreakdown(10_000_000, 2_500_000, s)

	require.Equal(t, uint64(2_000_000), b.Platform)
	require.Equal(t, uint64(300_000), b.Host)
	require.Equal(t, uint64(3_500_000), b.Prizes)
	require.Equal(t, uint64(4_200_000+2_500_000), b.Charity)

	// Nothing minted, nothing burned.
	require.Equal(t, uint64(12_500_000), b.Platform+b.Host+b.Prizes+b.Charity)
}

func Test_CalculateBreakdown_RemainderGoesToCharity(t *testing.T) {
	s, err := Validate(333, 3333)
	require.NoError(t, err)

	// A total that does not divide evenly; integer truncation on the bps
	// shares must land in charity, not vanish.
	total := uint64(999_999)
	b := CalculateBreakdown(total, 0, s)
	require.Equal(t, total, b.Platform+b.Host+b.Prizes+b.Charity)
	require.GreaterOrEqual(t, b.Charity, calculateBps(total, s.CharityBps))
}

func Test_CalculateBreakdown_ExtrasBypassSplit(t *testing.T) {
	s, err := Validate(500, 3500)
	require.NoError(t, err)

	withExtras := CalculateBreakdown(1_000_000, 400_000, s)
	withoutExtras := CalculateBreakdown(1_000_000, 0, s)

	require.Equal(t, withoutExtras.Platform, withExtras.Platform)
	require.Equal(t, withoutExtras.Host, withExtras.Host)
	require.Equal(t, withoutExtras.Prizes, withExtras.Prizes)
	require.Equal(t, withoutExtras.Charity+400_000, withExtras.Charity)
}

func Test_PrizeAmounts(t *testing.T) {
	amounts := PrizeAmounts(1_000_000, []int{50, 30, 20})
	require.Equal(t, []uint64{500_000, 300_000, 200_000}, amounts)

	amounts = PrizeAmounts(1_000_000, []int{100})
	require.Equal(t, []uint64{1_000_000}, amounts)
}
