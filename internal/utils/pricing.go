package utils

import (
	"sort"

	"vkolc-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// ReconciliationTolerance is the largest gap, exclusive, allowed between the
// summed line items and the stated total.
const ReconciliationTolerance = 1

// surchargeRate is the fixed tax shown on ledger entries (18%).
var surchargeRate = decimal.NewFromInt(18).Div(decimal.NewFromInt(100))

// ChargeBreakdown splits a ledger amount into the base, surcharge and net total
type ChargeBreakdown struct {
	Amount    int64
	Tax       int64
	NetAmount int64
}

// SumPrices adds up a list of prices
func SumPrices(prices []int64) int64 {
	var sum int64
	for _, p := range prices {
		sum += p
	}
	return sum
}

// SumItemPrices adds up the prices of quotation line items
func SumItemPrices(items []domain.QuotationItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Price
	}
	return sum
}

// Reconciles reports whether the line items add up to total within tolerance.
// The sum is taken in decimal so oversized prices cannot wrap into a match.
func Reconciles(items []domain.QuotationItem, total int64) bool {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromInt(it.Price))
	}
	gap := sum.Sub(decimal.NewFromInt(total)).Abs()
	return gap.LessThan(decimal.NewFromInt(ReconciliationTolerance))
}

// RedistributePrices scales every price by target/sum(original) and rounds to
// whole units. Rounding each share on its own can miss target ({10,10,10} to 20
// gives 7+7+7), so the residue is pushed onto the prices with the largest
// remainders instead and the result always adds up to target ({10,10,10} to 20
// gives 6,7,7). An empty or zero-sum input is returned unchanged.
func RedistributePrices(original []int64, target int64) []int64 {
	out := make([]int64, len(original))
	copy(out, original)

	sum := SumPrices(original)
	if sum == 0 {
		return out
	}

	s := decimal.NewFromInt(sum)
	t := decimal.NewFromInt(target)
	remainders := make([]decimal.Decimal, len(original))
	var allocated int64
	for i, p := range original {
		share := decimal.NewFromInt(p).Mul(t).Div(s)
		rounded := share.Round(0)
		out[i] = rounded.IntPart()
		remainders[i] = share.Sub(rounded)
		allocated += out[i]
	}

	residual := target - allocated
	if residual == 0 {
		return out
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	step := int64(1)
	if residual > 0 {
		sort.SliceStable(order, func(a, b int) bool { return remainders[order[a]].GreaterThan(remainders[order[b]]) })
	} else {
		step = -1
		sort.SliceStable(order, func(a, b int) bool { return remainders[order[a]].LessThan(remainders[order[b]]) })
	}

	// Residue never exceeds half the item count, so a couple of passes is plenty.
	for pass := 0; residual != 0 && pass < 2; pass++ {
		for _, i := range order {
			if residual == 0 {
				break
			}
			if step < 0 && target >= 0 && out[i] <= 0 {
				continue
			}
			out[i] += step
			residual -= step
		}
	}
	return out
}

// RedistributeItems applies RedistributePrices to the prices of line items,
// using base as the original per-item prices.
func RedistributeItems(items []domain.QuotationItem, base []int64, target int64) []domain.QuotationItem {
	prices := RedistributePrices(base, target)
	out := make([]domain.QuotationItem, len(items))
	for i, it := range items {
		out[i] = domain.QuotationItem{EquipmentID: it.EquipmentID, Price: prices[i]}
	}
	return out
}

// CalculateCharge applies the fixed 18% surcharge to amount
func CalculateCharge(amount int64) ChargeBreakdown {
	tax := decimal.NewFromInt(amount).Mul(surchargeRate).Round(0).IntPart()
	return ChargeBreakdown{
		Amount:    amount,
		Tax:       tax,
		NetAmount: amount + tax,
	}
}
