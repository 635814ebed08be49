package inventory

import (
	"fmt"
	"math/rand"
	"sort"
)

// hourNotStarted marks a ledger that has not processed any hour yet.
const hourNotStarted = -1

// Marketplace is the collaborator that matches buy and sell requests across ledgers.
type Marketplace interface {
	PlaceSellRequest(l *Ledger)
	PlaceBuyRequest(l *Ledger)
}

// RestockPolicy restocks AmountPounds on every hour where hour % EveryHours == OnHour.
type RestockPolicy struct {
	EveryHours   int     `mapstructure:"every_hours" json:"every_hours"`
	OnHour       int     `mapstructure:"on_hour" json:"on_hour"`
	AmountPounds float64 `mapstructure:"amount_pounds" json:"amount_pounds"`
}

// LedgerConfig holds the static policy of one ingredient at one restaurant.
type LedgerConfig struct {
	Name                         string        `mapstructure:"name"`
	ExpirationTime               float64       `mapstructure:"expiration_time"`
	WillingToSell                bool          `mapstructure:"willing_to_sell"`
	WillingToBuy                 bool          `mapstructure:"willing_to_buy"`
	BuyWeight                    float64       `mapstructure:"buy_weight"`
	SellWeight                   float64       `mapstructure:"sell_weight"`
	MaxBuyPrice                  float64       `mapstructure:"max_buy_price"`
	PreferredPurchaseAmount      float64       `mapstructure:"preferred_purchase_amount"`
	DollarsPerHourFromIngredient float64       `mapstructure:"dollars_per_hour_from_ingredient"`
	AvgPoundsConsumedPerHour     float64       `mapstructure:"avg_pounds_consumed_per_hour"`
	RandomnessInDemand           float64       `mapstructure:"randomness_in_demand"`
	Restock                      RestockPolicy `mapstructure:"restock"`
	InitialStock                 float64       `mapstructure:"initial_stock"`
	InitialStockHour             int           `mapstructure:"initial_stock_hour"`
}

// DefaultLedgerConfig mirrors the defaults of a freshly created ingredient.
func DefaultLedgerConfig(name string) LedgerConfig {
	return LedgerConfig{
		Name:                         name,
		ExpirationTime:               48,
		DollarsPerHourFromIngredient: 1,
		AvgPoundsConsumedPerHour:     0.1,
		RandomnessInDemand:           0.1,
		Restock: RestockPolicy{
			EveryHours:   24 * 7,
			OnHour:       0,
			AmountPounds: 50,
		},
	}
}

// Snapshot is the state of a ledger's running metrics after one hour.
type Snapshot struct {
	Hour         int
	Profit       float64
	HoursWithout float64
	Waste        float64
	AvgFreshness float64
	Stock        float64
}

// Ledger tracks the stock, money and quality metrics of one ingredient at one restaurant.
// It is not safe for concurrent use; callers serialize AdvanceHour per ledger.
type Ledger struct {
	cfg     LedgerConfig
	prices  PriceRange
	market  Marketplace
	rng     *rand.Rand
	chunks  []*Chunk // oldest first
	nextID  ChunkID
	history []Snapshot
	started bool

	Profit                 float64
	AmountOfWastedFood     float64
	HoursWithoutIngredient float64
	TotalFreshness         float64
	TotalFoodConsumed      float64
	CurrentHour            int
}

// NewLedger builds a ledger and registers it with the market as a seller.
func NewLedger(cfg LedgerConfig, prices PriceTable, market Marketplace, rng *rand.Rand) (*Ledger, error) {
	pr, err := prices.Lookup(cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	l := &Ledger{
		cfg:         cfg,
		prices:      pr,
		market:      market,
		rng:         rng,
		CurrentHour: hourNotStarted,
	}
	if cfg.InitialStock > 0 {
		l.addChunk(cfg.InitialStock, cfg.InitialStockHour)
	}

	if market != nil {
		market.PlaceSellRequest(l)
	}
	return l, nil
}

func (l *Ledger) Name() string                     { return l.cfg.Name }
func (l *Ledger) ExpirationTime() float64          { return l.cfg.ExpirationTime }
func (l *Ledger) Prices() PriceRange               { return l.prices }
func (l *Ledger) MaxBuyPrice() float64             { return l.cfg.MaxBuyPrice }
func (l *Ledger) PreferredPurchaseAmount() float64 { return l.cfg.PreferredPurchaseAmount }

// ConfigureRestockPolicy replaces the restock cadence. Values are not validated; a
// combination that can never match (for example onHour >= everyHours) simply never restocks.
func (l *Ledger) ConfigureRestockPolicy(everyHours, onHour int, amountPounds float64) {
	l.cfg.Restock = RestockPolicy{
		EveryHours:   everyHours,
		OnHour:       onHour,
		AmountPounds: amountPounds,
	}
}

// AdvanceHour runs one simulated hour: decay, restock, consumption, accounting,
// buy signalling and a snapshot. Hours must be strictly increasing.
func (l *Ledger) AdvanceHour(hour int) error {
	if l.started && hour <= l.CurrentHour {
		return fmt.Errorf("advance to hour %d after hour %d: %w", hour, l.CurrentHour, ErrNonIncreasingHour)
	}

	originalWeight := l.TotalWeight()
	l.CurrentHour = hour
	l.started = true

	l.discardExpired()
	l.restock()
	l.feedCustomers(originalWeight)

	l.recordSnapshot()
	return nil
}

func (l *Ledger) discardExpired() {
	kept := make([]*Chunk, 0, len(l.chunks))
	for _, c := range l.chunks {
		if c.age(l.CurrentHour) > l.cfg.ExpirationTime {
			l.AmountOfWastedFood += c.Weight
			continue
		}
		kept = append(kept, c)
	}
	l.chunks = kept
}

func (l *Ledger) restock() {
	policy := l.cfg.Restock
	if policy.EveryHours <= 0 || l.CurrentHour%policy.EveryHours != policy.OnHour {
		return
	}
	l.addChunk(policy.AmountPounds, l.CurrentHour)
	// restocking is always charged at the fresh price
	l.Profit -= policy.AmountPounds * l.prices.High
}

func (l *Ledger) feedCustomers(originalWeight float64) {
	spread := l.cfg.RandomnessInDemand
	target := l.cfg.AvgPoundsConsumedPerHour * (1 + (l.rng.Float64()*2-1)*spread)

	served, freshness := l.consume(target)
	l.TotalFoodConsumed += served
	l.TotalFreshness += freshness
	l.Profit += served * l.cfg.DollarsPerHourFromIngredient
	if target > 0 {
		l.HoursWithoutIngredient += (target - served) / target
	}

	if !l.cfg.WillingToBuy {
		return
	}
	if (originalWeight > l.cfg.BuyWeight || l.CurrentHour == 0) && l.TotalWeight() < l.cfg.BuyWeight {
		if l.market != nil {
			l.market.PlaceBuyRequest(l)
		}
	}
}

// consume eats the oldest stock first and returns the weight served and the
// freshness-weighted sum of what was served.
func (l *Ledger) consume(amount float64) (float64, float64) {
	remaining := amount
	freshness := 0.0
	eaten := 0
	for remaining > 0 && eaten < len(l.chunks) {
		c := l.chunks[eaten]
		if c.Weight > remaining {
			c.Weight -= remaining
			freshness += remaining * c.CurrentFreshness(l.CurrentHour)
			remaining = 0
			break
		}
		remaining -= c.Weight
		freshness += c.Weight * c.CurrentFreshness(l.CurrentHour)
		eaten++
	}
	l.chunks = append(l.chunks[:0:0], l.chunks[eaten:]...)

	return amount - remaining, freshness
}

func (l *Ledger) recordSnapshot() {
	avgFreshness := 0.0
	if l.TotalFoodConsumed > 0 {
		avgFreshness = l.TotalFreshness / l.TotalFoodConsumed
	}
	l.history = append(l.history, Snapshot{
		Hour:         l.CurrentHour,
		Profit:       l.Profit,
		HoursWithout: l.HoursWithoutIngredient,
		Waste:        l.AmountOfWastedFood,
		AvgFreshness: avgFreshness,
		Stock:        l.TotalWeight(),
	})
}

// TotalWeight is the sum of all held chunk weights.
func (l *Ledger) TotalWeight() float64 {
	sum := 0.0
	for _, c := range l.chunks {
		sum += c.Weight
	}
	return sum
}

// CheapestAvailableChunk offers the newest chunk to the market when the ledger sells and
// selling amount would keep its stock above the sell floor.
func (l *Ledger) CheapestAvailableChunk(hour int, amount float64) (Chunk, bool) {
	if !l.cfg.WillingToSell || len(l.chunks) == 0 {
		return Chunk{}, false
	}
	if l.TotalWeight()-amount <= l.cfg.SellWeight {
		return Chunk{}, false
	}
	return *l.chunks[len(l.chunks)-1], true
}

// ReduceWeight takes amount pounds out of a chunk, dropping it once it is nearly empty.
func (l *Ledger) ReduceWeight(id ChunkID, amount float64) error {
	for i, c := range l.chunks {
		if c.ID != id {
			continue
		}
		if c.reduceWeight(amount) {
			l.chunks = append(l.chunks[:i:i], l.chunks[i+1:]...)
		}
		return nil
	}
	return fmt.Errorf("reduce chunk %d of %s: %w", id, l.cfg.Name, ErrChunkNotFound)
}

// RecordSale credits the ledger for pounds sold at pricePerPound.
func (l *Ledger) RecordSale(pounds, pricePerPound float64) {
	l.Profit += pounds * pricePerPound
}

// Receive adds purchased stock. The stock keeps its original creation hour so its
// freshness is unchanged by the transfer.
func (l *Ledger) Receive(pounds float64, hourCreated int, pricePerPound float64) Chunk {
	c := l.addChunk(pounds, hourCreated)
	l.Profit -= pounds * pricePerPound
	return *c
}

func (l *Ledger) addChunk(weight float64, hourCreated int) *Chunk {
	l.nextID++
	c := &Chunk{
		ID:             l.nextID,
		Weight:         weight,
		HourCreated:    hourCreated,
		expirationTime: l.cfg.ExpirationTime,
		prices:         l.prices,
	}
	// insert after every chunk created at or before hourCreated
	i := sort.Search(len(l.chunks), func(i int) bool {
		return l.chunks[i].HourCreated > hourCreated
	})
	l.chunks = append(l.chunks, nil)
	copy(l.chunks[i+1:], l.chunks[i:])
	l.chunks[i] = c
	return c
}

// Chunks returns copies of the held chunks, oldest first.
func (l *Ledger) Chunks() []Chunk {
	out := make([]Chunk, len(l.chunks))
	for i, c := range l.chunks {
		out[i] = *c
	}
	return out
}

// History returns the per-hour snapshots recorded so far.
func (l *Ledger) History() []Snapshot {
	return append([]Snapshot(nil), l.history...)
}

// LastSnapshot returns the most recent snapshot, if any hour has run.
func (l *Ledger) LastSnapshot() (Snapshot, bool) {
	if len(l.history) == 0 {
		return Snapshot{}, false
	}
	return l.history[len(l.history)-1], true
}

// SimData returns the history as named series.
func (l *Ledger) SimData() map[string][]float64 {
	data := map[string][]float64{
		"profit":       make([]float64, 0, len(l.history)),
		"hoursWithout": make([]float64, 0, len(l.history)),
		"waste":        make([]float64, 0, len(l.history)),
		"avgFreshness": make([]float64, 0, len(l.history)),
	}
	for _, s := range l.history {
		data["profit"] = append(data["profit"], s.Profit)
		data["hoursWithout"] = append(data["hoursWithout"], s.HoursWithout)
		data["waste"] = append(data["waste"], s.Waste)
		data["avgFreshness"] = append(data["avgFreshness"], s.AvgFreshness)
	}
	return data
}

func (l *Ledger) String() string {
	return fmt.Sprintf("Item: %s -- Amount: %f", l.cfg.Name, l.TotalWeight())
}
