// =============================================================================
// INFRA3 Curator - Transformer Options
// =============================================================================
//
// The transformers in this package are pure functions of the source table and
// a small set of options. Options bound the numbered column groups that are
// scanned and decide how many of them are classified as debt.
//
// TRANSFORM ORDER:
//   1. Transaction          (TransformTransactions)
//   2. Events               (TransformEvents)
//   3. Bidders_Any          (TransformBidders)
//   4. Tranches             (TransformTranches)
//   5. Tranche_Roles_Any    (TransformTrancheRoles, needs Tranches)
//
// =============================================================================

package converter

import (
	"github.com/ginjaninja78/infra3-curator/internal/config"
)

// Options controls the tranche transformers.
type Options struct {
	// TrancheSlots is the highest loan group index scanned.
	TrancheSlots int

	// CapitalMarketSlots is the highest capital-market group index scanned.
	CapitalMarketSlots int

	// ClassifiedSlots is how many leading loan and capital-market slots are
	// classified as debt.
	ClassifiedSlots int
}

// DefaultOptions matches config.Default().Conversion.
func DefaultOptions() Options {
	return OptionsFrom(config.Default().Conversion)
}

// OptionsFrom converts the conversion section of the configuration.
func OptionsFrom(c config.ConversionConfig) Options {
	return Options{
		TrancheSlots:       c.TrancheSlots,
		CapitalMarketSlots: c.CapitalMarketSlots,
		ClassifiedSlots:    c.ClassifiedSlots,
	}
}
