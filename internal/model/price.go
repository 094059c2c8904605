package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the compact date format used across the api.
const DateLayout = "20060102"

// Price defines a price value in time.
type Price struct {
	Value float64
	Time  time.Time
}

// NewPrice creates a new reference to a price.
func NewPrice(price float64, time time.Time) Price {
	return Price{
		Value: price,
		Time:  time,
	}
}

// Date returns the day of the price as YYYYMMDD.
func (p Price) Date() int {
	d, _ := strconv.Atoi(p.Time.Format(DateLayout))
	return d
}

// MarshalJSON encodes the price as a [YYYYMMDD, value] pair.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.Date(), p.Value})
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("invalid price pair: %s", string(data))
	}
	t, err := time.Parse(DateLayout, strconv.Itoa(int(pair[0])))
	if err != nil {
		return fmt.Errorf("invalid price date %v: %w", pair[0], err)
	}
	p.Time = t
	p.Value = pair[1]
	return nil
}
