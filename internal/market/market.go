package market

import (
	"fmt"
	"log"

	"github.com/chrisdamba/freshsim/internal/inventory"
)

// Trade is one filled buy request.
type Trade struct {
	Hour        int
	BuyerID     string
	SellerID    string
	Ingredient  string
	Pounds      float64
	Price       float64
	HourCreated int
}

// Market collects sell registrations and buy requests and fills each request from the
// cheapest qualifying offer at the seller's posted price.
type Market struct {
	sellers  []*inventory.Ledger
	owners   map[*inventory.Ledger]string
	requests []*inventory.Ledger
}

var _ inventory.Marketplace = (*Market)(nil)

func NewMarket() *Market {
	return &Market{
		owners: make(map[*inventory.Ledger]string),
	}
}

// SetOwner records which restaurant a ledger belongs to, for trade reporting.
func (m *Market) SetOwner(l *inventory.Ledger, ownerID string) {
	m.owners[l] = ownerID
}

func (m *Market) PlaceSellRequest(l *inventory.Ledger) {
	for _, s := range m.sellers {
		if s == l {
			return
		}
	}
	m.sellers = append(m.sellers, l)
}

func (m *Market) PlaceBuyRequest(l *inventory.Ledger) {
	m.requests = append(m.requests, l)
}

// Pending returns the number of buy requests waiting to be matched.
func (m *Market) Pending() int {
	return len(m.requests)
}

// Sellers returns the number of registered sell-side ledgers.
func (m *Market) Sellers() int {
	return len(m.sellers)
}

// Match fills the buy requests placed so far, in arrival order, and clears the queue.
// Requests that no seller can fill are dropped.
func (m *Market) Match(hour int) ([]Trade, error) {
	requests := m.requests
	m.requests = nil

	var trades []Trade
	for _, buyer := range requests {
		trade, ok, err := m.fill(hour, buyer)
		if err != nil {
			return trades, fmt.Errorf("failed to fill %s request for %s: %w", buyer.Name(), m.owners[buyer], err)
		}
		if !ok {
			log.Printf("No offer for %s buy request from %s at hour %d", buyer.Name(), m.owners[buyer], hour)
			continue
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

func (m *Market) fill(hour int, buyer *inventory.Ledger) (Trade, bool, error) {
	amount := buyer.PreferredPurchaseAmount()
	if amount <= 0 {
		return Trade{}, false, nil
	}

	var (
		bestSeller *inventory.Ledger
		bestChunk  inventory.Chunk
		bestPrice  float64
	)
	for _, seller := range m.sellers {
		if seller == buyer || seller.Name() != buyer.Name() {
			continue
		}
		chunk, ok := seller.CheapestAvailableChunk(hour, amount)
		if !ok {
			continue
		}
		price := chunk.CurrentPrice(hour)
		if price > buyer.MaxBuyPrice() {
			continue
		}
		if bestSeller == nil || price < bestPrice {
			bestSeller, bestChunk, bestPrice = seller, chunk, price
		}
	}
	if bestSeller == nil {
		return Trade{}, false, nil
	}

	pounds := amount
	if bestChunk.Weight < pounds {
		pounds = bestChunk.Weight
	}
	if err := bestSeller.ReduceWeight(bestChunk.ID, pounds); err != nil {
		return Trade{}, false, err
	}
	bestSeller.RecordSale(pounds, bestPrice)
	buyer.Receive(pounds, bestChunk.HourCreated, bestPrice)

	return Trade{
		Hour:        hour,
		BuyerID:     m.owners[buyer],
		SellerID:    m.owners[bestSeller],
		Ingredient:  buyer.Name(),
		Pounds:      pounds,
		Price:       bestPrice,
		HourCreated: bestChunk.HourCreated,
	}, true, nil
}
