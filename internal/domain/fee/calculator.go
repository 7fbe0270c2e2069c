package fee

import (
	"math"

	"github.com/fundraisely/backend/pkg/errorx"
)

// Platform economics, in basis points. These mirror the on-chain global
// config and must not drift from it: a structure accepted here but rejected
// on chain wastes the host a transaction fee.
const (
	PlatformFeeBps  = 2000
	MaxHostFeeBps   = 500
	MaxPrizePoolBps = 4000
	MinCharityBps   = 4000

	BpsDenominator = 10000

	// maxBpsFieldValue is the width of the on-chain u16 fee fields.
	maxBpsFieldValue = 65535
)

// Structure is the immutable fee split of one room. Construct it through
// Validate only.
type Structure struct {
	PlatformBps  int
	HostBps      int
	PrizePoolBps int
	CharityBps   int
}

// ToBasisPoints converts a host-facing percentage to basis points. The
// conversion lives in exactly one place so rounding cannot drift between
// the wizard, the preview and the chain call.
func ToBasisPoints(percent float64) int {
	if percent < 0 {
		percent = 0
	}

	if percent > 100 {
		percent = 100
	}

	bps := int(math.Round(percent * 100))
	if bps > maxBpsFieldValue {
		bps = maxBpsFieldValue
	}

	return bps
}

// DeriveCharityBps returns the charity remainder of the split.
func DeriveCharityBps(hostBps, prizePoolBps int) int {
	return BpsDenominator - PlatformFeeBps - hostBps - prizePoolBps
}

// Validate checks a host/prize-pool allocation and returns the complete
// structure. Configurations below the charity guarantee are rejected, never
// clamped.
func Validate(hostBps, prizePoolBps int) (Structure, error) {
	if hostBps < 0 || hostBps > MaxHostFeeBps {
		return Structure{}, errorx.New(errorx.FeeOutOfRange,
			"Host fee must be between 0 and %d bps", MaxHostFeeBps)
	}

	if prizePoolBps < 0 || prizePoolBps > MaxPrizePoolBps {
		return Structure{}, errorx.New(errorx.FeeOutOfRange,
			"Prize pool must be between 0 and %d bps", MaxPrizePoolBps)
	}

	charityBps := DeriveCharityBps(hostBps, prizePoolBps)
	if charityBps < MinCharityBps {
		return Structure{}, errorx.New(errorx.CharityBelowMinimum,
			"Charity allocation %d bps is below the %d bps minimum", charityBps, MinCharityBps)
	}

	return Structure{
		PlatformBps:  PlatformFeeBps,
		HostBps:      hostBps,
		PrizePoolBps: prizePoolBps,
		CharityBps:   charityBps,
	}, nil
}

// ValidatePrizeDistribution checks the winner percentages sum to exactly
// 100. Unused places are passed as zero.
func ValidatePrizeDistribution(first, second, third int) error {
	if first < 0 || second < 0 || third < 0 {
		return errorx.New(errorx.InvalidPrizeDistribution,
			"Prize percentages cannot be negative")
	}

	if first+second+third != 100 {
		return errorx.New(errorx.InvalidPrizeDistribution,
			"Prize distribution must sum to 100, got %d", first+second+third)
	}

	return nil
}

// Breakdown is the amount each recipient receives at settlement, in token
// base units.
type Breakdown struct {
	Platform uint64
	Host     uint64
	Prizes   uint64
	Charity  uint64
}

// CalculateBreakdown applies the split the same way the chain program does:
// bps shares of entry fees only, charity takes the entry-fee remainder plus
// every extra.
func CalculateBreakdown(entryFees, extras uint64, s Structure) Breakdown {
	platform := calculateBps(entryFees, s.PlatformBps)
	host := calculateBps(entryFees, s.HostBps)
	prizes := calculateBps(entryFees, s.PrizePoolBps)

	charity := entryFees - platform - host - prizes + extras

	return Breakdown{
		Platform: platform,
		Host:     host,
		Prizes:   prizes,
		Charity:  charity,
	}
}

// PrizeAmounts splits the prize pot across up to three winners.
func PrizeAmounts(prizes uint64, distribution []int) []uint64 {
	amounts := make([]uint64, len(distribution))
	for i, pct := range distribution {
		amounts[i] = prizes * uint64(pct) / 100
	}

	return amounts
}

func calculateBps(amount uint64, bps int) uint64 {
	return amount * uint64(bps) / BpsDenominator
}
