package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/chrisdamba/freshsim/internal/factories"
	"github.com/chrisdamba/freshsim/internal/market"
	"github.com/chrisdamba/freshsim/internal/models"
	"github.com/rs/xid"
	"github.com/schollz/progressbar/v3"
)

type Simulator struct {
	RunID       string
	Config      *models.Config
	Restaurants []*models.Restaurant
	Market      *market.Market
	Trades      []market.Trade
	CurrentHour int
	EventQueue  *models.EventQueue

	progressOut io.Writer
}

func NewSimulator(config *models.Config) *Simulator {
	return &Simulator{
		RunID:       xid.New().String(),
		Config:      config,
		Market:      market.NewMarket(),
		EventQueue:  models.NewEventQueue(),
		CurrentHour: -1,
		progressOut: os.Stderr,
	}
}

func (s *Simulator) initializeData() error {
	restaurantFactory := factories.NewRestaurantFactory(s.Config.Seed)

	s.Restaurants = make([]*models.Restaurant, 0, s.Config.Restaurants)
	for i := 0; i < s.Config.Restaurants; i++ {
		restaurant, err := restaurantFactory.CreateRestaurant(s.Config, s.Market)
		if err != nil {
			return fmt.Errorf("failed to create restaurant: %w", err)
		}
		s.Restaurants = append(s.Restaurants, restaurant)
	}
	return nil
}

// Run builds the restaurants and simulates every configured hour into the output
// destination chosen by the config.
func (s *Simulator) Run(ctx context.Context) error {
	output, err := s.determineOutputDestination(ctx)
	if err != nil {
		return fmt.Errorf("failed to create output destination: %w", err)
	}
	return s.RunWithOutput(ctx, output)
}

// RunWithOutput is Run with an explicit destination. The destination is closed on return.
func (s *Simulator) RunWithOutput(ctx context.Context, output OutputDestination) (err error) {
	defer func() {
		if closeErr := output.Close(); closeErr != nil {
			log.Printf("Error closing output destination: %v", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	if err := s.initializeData(); err != nil {
		return err
	}
	log.Printf("Simulation %s starts with %d restaurants over %d hours from %s",
		s.RunID, len(s.Restaurants), s.Config.Hours, s.Config.StartDate.Format(time.RFC3339))

	bar := s.newProgressBar()
	for hour := 0; hour < s.Config.Hours; hour++ {
		select {
		case <-ctx.Done():
			log.Printf("Simulation cancelled at hour %d", hour)
			return ctx.Err()
		default:
		}

		if err := s.simulateHour(hour); err != nil {
			return err
		}
		s.flushEvents(output, models.HourTime(s.Config.StartDate, hour))
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	s.logSummary()
	return nil
}

func (s *Simulator) newProgressBar() *progressbar.ProgressBar {
	out := s.progressOut
	if !s.Config.ShowProgress {
		out = io.Discard
	}
	return progressbar.NewOptions(s.Config.Hours,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("simulating hours"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// simulateHour advances every ledger, then fills the buy requests they raised.
func (s *Simulator) simulateHour(hour int) error {
	s.CurrentHour = hour
	eventTime := models.HourTime(s.Config.StartDate, hour)

	for _, restaurant := range s.Restaurants {
		for _, ledger := range restaurant.Ledgers {
			if err := ledger.AdvanceHour(hour); err != nil {
				return fmt.Errorf("restaurant %s: %w", restaurant.ID, err)
			}
			snapshot, ok := ledger.LastSnapshot()
			if !ok {
				continue
			}
			s.EventQueue.Enqueue(&models.Event{
				Time:  eventTime,
				Type:  models.EventLedgerSnapshot,
				Topic: models.TopicLedgerSnapshots,
				Data: models.LedgerSnapshotEvent{
					Timestamp:      eventTime.Unix(),
					EventType:      models.EventLedgerSnapshot,
					RestaurantID:   restaurant.ID,
					RestaurantName: restaurant.Name,
					Ingredient:     ledger.Name(),
					Hour:           int64(snapshot.Hour),
					Profit:         snapshot.Profit,
					HoursWithout:   snapshot.HoursWithout,
					Waste:          snapshot.Waste,
					AvgFreshness:   snapshot.AvgFreshness,
					Stock:          snapshot.Stock,
				},
			})
		}
	}

	trades, err := s.Market.Match(hour)
	if err != nil {
		return fmt.Errorf("market match at hour %d: %w", hour, err)
	}
	for _, trade := range trades {
		s.Trades = append(s.Trades, trade)
		s.EventQueue.Enqueue(&models.Event{
			Time:  eventTime,
			Type:  models.EventTrade,
			Topic: models.TopicTrades,
			Data: models.TradeEvent{
				Timestamp:     eventTime.Unix(),
				EventType:     models.EventTrade,
				BuyerID:       trade.BuyerID,
				SellerID:      trade.SellerID,
				Ingredient:    trade.Ingredient,
				Hour:          int64(trade.Hour),
				Pounds:        trade.Pounds,
				PricePerPound: trade.Price,
				HourCreated:   int64(trade.HourCreated),
			},
		})
	}
	return nil
}

// flushEvents writes every queued event up to t. Write failures are logged and skipped.
func (s *Simulator) flushEvents(output OutputDestination, t time.Time) {
	for _, event := range s.EventQueue.DequeueUntil(t) {
		eventMsg, err := s.serializeEvent(event)
		if err != nil {
			log.Printf("Error serializing event: %v", err)
			continue
		}
		if err := output.WriteMessage(eventMsg.Topic, eventMsg.Message); err != nil {
			log.Printf("Failed to write message: %v", err)
		}
	}
}

func (s *Simulator) serializeEvent(event *models.Event) (models.EventMessage, error) {
	if event.Topic == "" {
		return models.EventMessage{}, fmt.Errorf("event %s has no topic", event.Type)
	}
	msg, err := json.Marshal(event.Data)
	if err != nil {
		return models.EventMessage{}, fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return models.EventMessage{Topic: event.Topic, Message: msg}, nil
}
