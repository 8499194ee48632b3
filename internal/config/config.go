package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const DefaultBaseTempC = 18.0

// Config is the location settings file. The weather fetch needs latitude
// and longitude; base_temp_c defaults to 18°C when omitted. noaa_station
// is only required for the NOAA GSOD source (e.g. "725300-94846").
type Config struct {
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	BaseTempC   *float64 `json:"base_temp_c,omitempty"`
	NOAAStation string   `json:"noaa_station,omitempty"`
}

// BaseTemp returns the configured base temperature or the default.
func (c *Config) BaseTemp() float64 {
	if c.BaseTempC != nil {
		return *c.BaseTempC
	}
	return DefaultBaseTempC
}

// Load reads and parses the JSON config file. A missing file is an error;
// the caller treats it as fatal at startup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s not found, create one with your location details", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
