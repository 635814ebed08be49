package inventory

// removalEpsilon is the weight at or below which a partially sold chunk is dropped.
const removalEpsilon = 0.05

// ChunkID identifies a chunk within its ledger.
type ChunkID int64

// Chunk is a dated batch of stock. Expiration and prices are copied from the owning
// ledger at creation so the chunk never needs to reach back into it.
type Chunk struct {
	ID          ChunkID
	Weight      float64
	HourCreated int

	expirationTime float64
	prices         PriceRange
}

func (c *Chunk) age(hour int) float64 {
	return float64(hour - c.HourCreated)
}

// CurrentPrice interpolates linearly from High at creation to Low at expiration.
// The result is not clamped: past expiration it keeps falling below Low and eventually
// goes negative, and for hours before creation it rises above High.
func (c *Chunk) CurrentPrice(hour int) float64 {
	return c.prices.High - (c.prices.High-c.prices.Low)*(c.age(hour)/c.expirationTime)
}

// CurrentFreshness is 1 at creation, 0 at expiration and negative afterwards.
func (c *Chunk) CurrentFreshness(hour int) float64 {
	return 1 - c.age(hour)/c.expirationTime
}

// reduceWeight subtracts amount and reports whether the chunk is now small enough to drop.
func (c *Chunk) reduceWeight(amount float64) bool {
	c.Weight -= amount
	return c.Weight <= removalEpsilon
}
