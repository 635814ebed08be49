package simulator

import (
	"log"
	"sort"

	"github.com/shopspring/decimal"
)

// IngredientSummary aggregates one ingredient across all restaurants.
type IngredientSummary struct {
	Ingredient   string
	Ledgers      int
	Profit       decimal.Decimal
	Waste        decimal.Decimal
	HoursWithout decimal.Decimal
	AvgFreshness decimal.Decimal
	Trades       int
	TradedPounds decimal.Decimal
}

// Summary returns one entry per ingredient, sorted by name.
func (s *Simulator) Summary() []IngredientSummary {
	byName := make(map[string]*IngredientSummary)
	freshnessSum := make(map[string]decimal.Decimal)
	consumed := make(map[string]decimal.Decimal)

	entry := func(name string) *IngredientSummary {
		sum, ok := byName[name]
		if !ok {
			sum = &IngredientSummary{Ingredient: name}
			byName[name] = sum
		}
		return sum
	}

	for _, restaurant := range s.Restaurants {
		for _, ledger := range restaurant.Ledgers {
			sum := entry(ledger.Name())
			sum.Ledgers++
			sum.Profit = sum.Profit.Add(decimal.NewFromFloat(ledger.Profit))
			sum.Waste = sum.Waste.Add(decimal.NewFromFloat(ledger.AmountOfWastedFood))
			sum.HoursWithout = sum.HoursWithout.Add(decimal.NewFromFloat(ledger.HoursWithoutIngredient))
			freshnessSum[ledger.Name()] = freshnessSum[ledger.Name()].Add(decimal.NewFromFloat(ledger.TotalFreshness))
			consumed[ledger.Name()] = consumed[ledger.Name()].Add(decimal.NewFromFloat(ledger.TotalFoodConsumed))
		}
	}

	for _, trade := range s.Trades {
		sum := entry(trade.Ingredient)
		sum.Trades++
		sum.TradedPounds = sum.TradedPounds.Add(decimal.NewFromFloat(trade.Pounds))
	}

	summaries := make([]IngredientSummary, 0, len(byName))
	for name, sum := range byName {
		// weighted by pounds consumed, like each ledger's own average
		if total := consumed[name]; total.IsPositive() {
			sum.AvgFreshness = freshnessSum[name].DivRound(total, 4)
		}
		summaries = append(summaries, *sum)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Ingredient < summaries[j].Ingredient
	})
	return summaries
}

func (s *Simulator) logSummary() {
	log.Printf("Simulation %s completed after %d hours, %d trades", s.RunID, s.CurrentHour+1, len(s.Trades))
	for _, sum := range s.Summary() {
		log.Printf("%s: ledgers=%d profit=$%s waste=%slb hoursWithout=%s avgFreshness=%s trades=%d (%slb)",
			sum.Ingredient,
			sum.Ledgers,
			sum.Profit.StringFixed(2),
			sum.Waste.StringFixed(2),
			sum.HoursWithout.StringFixed(2),
			sum.AvgFreshness.StringFixed(3),
			sum.Trades,
			sum.TradedPounds.StringFixed(2),
		)
	}
	for _, restaurant := range s.Restaurants {
		for _, ledger := range restaurant.Ledgers {
			log.Printf("%s (%s) %s", restaurant.Name, restaurant.Town, ledger)
		}
	}
}
