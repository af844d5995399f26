package sales

import (
	"math"
	"math/rand"
	"time"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

// Result is one day's generated demand. Dropped counts the demand units
// that could not be served because nothing affordable was left in stock;
// it is informational, never an error.
type Result struct {
	Records []models.SaleRecord
	Dropped int
}

// NewRand returns the production randomness source, freshly seeded per run.
// Tests inject a fixed-seed source instead.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Generate produces the synthetic sales for one simulated day. It is a pure
// function of its inputs: the same date, inventory, parameters and source
// always yield the same records. Stock is debited on the passed inventory
// one unit per draw, so generated sales can never exceed available stock.
func Generate(date models.Date, inv models.Inventory, params models.DemandParams, rng *rand.Rand) Result {
	volume := dailyVolume(date, params, rng)

	var out Result
	for i := 0; i < volume; i++ {
		item, ok := pickItem(inv, params, rng)
		if !ok {
			// Nothing affordable or everything out of stock; the rest of
			// the day's demand goes unserved.
			out.Dropped = volume - i
			break
		}
		if err := inv.Debit(item, 1); err != nil {
			out.Dropped = volume - i
			break
		}
		out.Records = append(out.Records, models.SaleRecord{
			Date:     date,
			Item:     item,
			Qty:      1,
			Price:    inv[item].SellPrice,
			UnitCost: inv[item].CostPrice,
		})
	}
	return out
}

// dailyVolume draws the day's demand from the configured range and scales
// it by the day-of-week multiplier.
func dailyVolume(date models.Date, params models.DemandParams, rng *rand.Rand) int {
	minv, maxv := params.MinSalesPerDay, params.MaxSalesPerDay
	if maxv < minv {
		maxv = minv
	}
	base := minv
	if maxv > minv {
		base += rng.Intn(maxv - minv + 1)
	}
	volume := int(math.Round(float64(base) * params.Multiplier(date)))
	if volume < 0 {
		return 0
	}
	return volume
}

// pickItem draws one item weighted by popularity and price attractiveness.
// Candidates must be in stock and priced within the affordability cap; a
// zero cap means no cap. With positive elasticity, cheaper items (relative
// to the cap) are proportionally more likely to be chosen.
func pickItem(inv models.Inventory, params models.DemandParams, rng *rand.Rand) (string, bool) {
	limit := params.MaxAffordablePrice
	capped := limit.IsPositive()

	names := inv.Names()
	weights := make([]float64, 0, len(names))
	candidates := make([]string, 0, len(names))
	var total float64

	for _, name := range names {
		it := inv[name]
		if it.Stock <= 0 {
			continue
		}
		if capped && it.SellPrice.GreaterThan(limit) {
			continue
		}
		weight := params.Weight(name)
		if params.PriceElasticity > 0 && capped && it.SellPrice.IsPositive() {
			ratio := limit.InexactFloat64() / it.SellPrice.InexactFloat64()
			weight *= math.Pow(ratio, params.PriceElasticity)
		}
		if weight <= 0 {
			continue
		}
		candidates = append(candidates, name)
		weights = append(weights, weight)
		total += weight
	}

	if len(candidates) == 0 || total <= 0 {
		return "", false
	}

	target := rng.Float64() * total
	for i, name := range candidates {
		target -= weights[i]
		if target < 0 {
			return name, true
		}
	}
	return candidates[len(candidates)-1], true
}
