package models

import "time"

// LedgerSnapshotEvent is one ledger's running metrics after an hour.
type LedgerSnapshotEvent struct {
	Timestamp      int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType      string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantID   string  `json:"restaurantId" parquet:"name=restaurantId,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantName string  `json:"restaurantName" parquet:"name=restaurantName,type=BYTE_ARRAY,convertedtype=UTF8"`
	Ingredient     string  `json:"ingredient" parquet:"name=ingredient,type=BYTE_ARRAY,convertedtype=UTF8"`
	Hour           int64   `json:"hour" parquet:"name=hour,type=INT64"`
	Profit         float64 `json:"profit" parquet:"name=profit,type=DOUBLE"`
	HoursWithout   float64 `json:"hoursWithout" parquet:"name=hoursWithout,type=DOUBLE"`
	Waste          float64 `json:"waste" parquet:"name=waste,type=DOUBLE"`
	AvgFreshness   float64 `json:"avgFreshness" parquet:"name=avgFreshness,type=DOUBLE"`
	Stock          float64 `json:"stock" parquet:"name=stock,type=DOUBLE"`
}

// TradeEvent is one filled buy request.
type TradeEvent struct {
	Timestamp     int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType     string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	BuyerID       string  `json:"buyerId" parquet:"name=buyerId,type=BYTE_ARRAY,convertedtype=UTF8"`
	SellerID      string  `json:"sellerId" parquet:"name=sellerId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Ingredient    string  `json:"ingredient" parquet:"name=ingredient,type=BYTE_ARRAY,convertedtype=UTF8"`
	Hour          int64   `json:"hour" parquet:"name=hour,type=INT64"`
	Pounds        float64 `json:"pounds" parquet:"name=pounds,type=DOUBLE"`
	PricePerPound float64 `json:"pricePerPound" parquet:"name=pricePerPound,type=DOUBLE"`
	HourCreated   int64   `json:"hourCreated" parquet:"name=hourCreated,type=INT64"`
}

// EventMessage is a serialized event ready for an output destination.
type EventMessage struct {
	Topic   string
	Message []byte
}

// HourTime converts a simulation hour into wall-clock time relative to start.
func HourTime(start time.Time, hour int) time.Time {
	return start.Add(time.Duration(hour) * time.Hour)
}
