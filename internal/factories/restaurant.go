package factories

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/chrisdamba/freshsim/internal/inventory"
	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

// Marketplace is the market a restaurant's ledgers register with.
type Marketplace interface {
	inventory.Marketplace
	SetOwner(l *inventory.Ledger, ownerID string)
}

type RestaurantFactory struct {
	fake      faker.Faker
	rng       *rand.Rand
	slugCache sync.Map // to track used slugs
}

// NewRestaurantFactory returns a factory whose names and demand jitter follow seed.
func NewRestaurantFactory(seed int64) *RestaurantFactory {
	return &RestaurantFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// CreateRestaurant builds a restaurant with one ledger per configured ingredient. Each
// ledger registers with market on creation.
func (rf *RestaurantFactory) CreateRestaurant(config *models.Config, market Marketplace) (*models.Restaurant, error) {
	name := rf.fake.Company().Name()
	restaurant := &models.Restaurant{
		ID:       cuid.New(),
		Name:     name,
		Town:     config.CityName,
		SlugName: rf.createUniqueSlug(name),
	}
	if restaurant.Town == "" {
		restaurant.Town = rf.fake.Address().City()
	}

	for _, ingredient := range config.Ingredients {
		ledgerConfig := rf.jitter(ingredient, config.DemandJitter)
		ledger, err := inventory.NewLedger(ledgerConfig, config.Prices, market, rand.New(rand.NewSource(rf.rng.Int63())))
		if err != nil {
			return nil, fmt.Errorf("restaurant %s: %w", restaurant.Name, err)
		}
		market.SetOwner(ledger, restaurant.ID)
		restaurant.Ledgers = append(restaurant.Ledgers, ledger)
	}
	return restaurant, nil
}

// jitter varies demand and opening stock per restaurant so that ledgers drift apart and
// have reasons to trade.
func (rf *RestaurantFactory) jitter(cfg inventory.LedgerConfig, spread float64) inventory.LedgerConfig {
	if spread <= 0 {
		return cfg
	}
	cfg.AvgPoundsConsumedPerHour *= 1 + (rf.rng.Float64()*2-1)*spread
	cfg.InitialStock *= 1 + (rf.rng.Float64()*2-1)*spread
	return cfg
}

func (rf *RestaurantFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)

	slug := base
	counter := 1

	for {
		if _, exists := rf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}
