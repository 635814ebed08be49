package market

import (
	"math/rand"
	"testing"

	"github.com/chrisdamba/freshsim/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sellerConfig() inventory.LedgerConfig {
	cfg := inventory.DefaultLedgerConfig("lemon")
	cfg.AvgPoundsConsumedPerHour = 0
	cfg.RandomnessInDemand = 0
	cfg.Restock = inventory.RestockPolicy{}
	cfg.WillingToSell = true
	cfg.SellWeight = 5
	return cfg
}

func buyerConfig() inventory.LedgerConfig {
	cfg := sellerConfig()
	cfg.WillingToSell = false
	cfg.WillingToBuy = true
	cfg.BuyWeight = 10
	cfg.MaxBuyPrice = 1.9
	cfg.PreferredPurchaseAmount = 8
	return cfg
}

func newLedger(t *testing.T, m *Market, cfg inventory.LedgerConfig, owner string) *inventory.Ledger {
	t.Helper()
	l, err := inventory.NewLedger(cfg, inventory.DefaultPrices(), m, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	m.SetOwner(l, owner)
	return l
}

func TestLedgersRegisterOnce(t *testing.T) {
	m := NewMarket()
	l := newLedger(t, m, sellerConfig(), "r1")
	m.PlaceSellRequest(l)

	assert.Equal(t, 1, m.Sellers())
}

func TestMatchPicksCheapestQualifyingOffer(t *testing.T) {
	m := NewMarket()
	buyer := newLedger(t, m, buyerConfig(), "buyer")
	fresh := newLedger(t, m, sellerConfig(), "fresh")
	older := newLedger(t, m, sellerConfig(), "older")
	fresh.Receive(30, 20, 0)
	older.Receive(30, 8, 0)

	m.PlaceBuyRequest(buyer)
	require.Equal(t, 1, m.Pending())

	trades, err := m.Match(20)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 0, m.Pending())

	trade := trades[0]
	assert.Equal(t, "older", trade.SellerID)
	assert.Equal(t, "buyer", trade.BuyerID)
	assert.Equal(t, 8, trade.HourCreated)
	assert.InDelta(t, 8, trade.Pounds, 1e-9)
	// age 12 of 48 between 2.0 and 1.0
	assert.InDelta(t, 1.75, trade.Price, 1e-9)

	assert.InDelta(t, 22, older.TotalWeight(), 1e-9)
	assert.InDelta(t, 8*1.75, older.Profit, 1e-9)
	assert.InDelta(t, 8, buyer.TotalWeight(), 1e-9)
	assert.InDelta(t, -8*1.75, buyer.Profit, 1e-9)
	assert.Equal(t, 8, buyer.Chunks()[0].HourCreated)
}

func TestMatchRespectsMaxBuyPrice(t *testing.T) {
	m := NewMarket()
	buyer := newLedger(t, m, buyerConfig(), "buyer")
	seller := newLedger(t, m, sellerConfig(), "seller")
	// one hour old lemons cost more than 1.9
	seller.Receive(30, 19, 0)

	m.PlaceBuyRequest(buyer)
	trades, err := m.Match(20)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.InDelta(t, 30, seller.TotalWeight(), 1e-9)
	assert.Equal(t, 0, m.Pending())
}

func TestMatchSkipsOtherIngredientsAndSelf(t *testing.T) {
	prices := inventory.DefaultPrices()
	prices["basil"] = inventory.PriceRange{High: 1, Low: 0.5}

	m := NewMarket()
	buyerCfg := buyerConfig()
	buyerCfg.WillingToSell = true
	buyer, err := inventory.NewLedger(buyerCfg, prices, m, nil)
	require.NoError(t, err)
	buyer.Receive(50, 0, 0)

	basilCfg := sellerConfig()
	basilCfg.Name = "basil"
	basil, err := inventory.NewLedger(basilCfg, prices, m, nil)
	require.NoError(t, err)
	basil.Receive(50, 0, 0)

	m.PlaceBuyRequest(buyer)
	trades, err := m.Match(30)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestMatchCapsAtChunkWeight(t *testing.T) {
	m := NewMarket()
	buyer := newLedger(t, m, buyerConfig(), "buyer")
	seller := newLedger(t, m, sellerConfig(), "seller")
	seller.Receive(20, 0, 0)
	seller.Receive(3, 10, 0)

	m.PlaceBuyRequest(buyer)
	trades, err := m.Match(24)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.InDelta(t, 3, trades[0].Pounds, 1e-9)
	assert.Equal(t, 10, trades[0].HourCreated)
	assert.Len(t, seller.Chunks(), 1)
}
