package main

import (
	"fmt"
	"github.com/callebjorkell/gas-sensor/internal/monitor"
	"github.com/callebjorkell/gas-sensor/internal/uart"
	"gopkg.in/yaml.v3"
	"os"
	"time"
)

const (
	busParallel = "parallel"
	busI2C      = "i2c"

	defaultSPIPort  = "/dev/spidev0.0"
	defaultVref     = 3.3
	defaultTTY      = "/dev/serial0"
	defaultWarn     = 400
	defaultAlarm    = 700
	defaultButton   = "GPIO20"
	defaultI2CAddr  = 0x27
	defaultI2CBus   = 1
	defaultSensor   = "gas"
	defaultInterval = 500
	defaultStartup  = 250
)

type Config struct {
	Label          string `yaml:"label"`
	IntervalMs     int    `yaml:"intervalMs"`
	StartupDelayMs *int   `yaml:"startupDelayMs"`
	LCD            struct {
		Bus  string `yaml:"bus"`
		Pins struct {
			RS     string `yaml:"rs"`
			Enable string `yaml:"enable"`
			D4     string `yaml:"d4"`
			D5     string `yaml:"d5"`
			D6     string `yaml:"d6"`
			D7     string `yaml:"d7"`
		} `yaml:"pins"`
		I2C struct {
			Address uint8 `yaml:"address"`
			Bus     int   `yaml:"bus"`
		} `yaml:"i2c"`
	} `yaml:"lcd"`
	ADC struct {
		SPIPort string  `yaml:"spiPort"`
		Channel int     `yaml:"channel"`
		Vref    float64 `yaml:"vref"`
	} `yaml:"adc"`
	Serial struct {
		Enabled bool   `yaml:"enabled"`
		Device  string `yaml:"device"`
		Baud    int    `yaml:"baud"`
	} `yaml:"serial"`
	Indicator struct {
		Enabled bool   `yaml:"enabled"`
		Warn    int    `yaml:"warn"`
		Alarm   int    `yaml:"alarm"`
		Button  string `yaml:"button"`
	} `yaml:"indicator"`
	Influx struct {
		URL    string `yaml:"url"`
		Token  string `yaml:"token"`
		Org    string `yaml:"org"`
		Bucket string `yaml:"bucket"`
		Sensor string `yaml:"sensor"`
	} `yaml:"influx"`
}

func (c Config) Monitor() monitor.Config {
	return monitor.Config{
		Label:        c.Label,
		Interval:     time.Duration(c.IntervalMs) * time.Millisecond,
		StartupDelay: time.Duration(*c.StartupDelayMs) * time.Millisecond,
	}
}

func readConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return parseConfig(nil)
	}
	if err != nil {
		return nil, err
	}
	return parseConfig(content)
}

func parseConfig(content []byte) (*Config, error) {
	c := &Config{}
	err := yaml.Unmarshal(content, c)
	if err != nil {
		return nil, err
	}

	if c.Label == "" {
		c.Label = monitor.DefaultLabel
	}
	if c.IntervalMs <= 0 {
		c.IntervalMs = defaultInterval
	}
	if c.StartupDelayMs == nil {
		d := defaultStartup
		c.StartupDelayMs = &d
	}
	if *c.StartupDelayMs < 0 {
		return nil, fmt.Errorf("startup delay cannot be negative")
	}

	switch c.LCD.Bus {
	case "":
		c.LCD.Bus = busParallel
	case busParallel, busI2C:
	default:
		return nil, fmt.Errorf("unknown lcd bus %q", c.LCD.Bus)
	}
	pins := &c.LCD.Pins
	defaultPin(&pins.RS, "GPIO4")
	defaultPin(&pins.Enable, "GPIO17")
	defaultPin(&pins.D4, "GPIO25")
	defaultPin(&pins.D5, "GPIO22")
	defaultPin(&pins.D6, "GPIO23")
	defaultPin(&pins.D7, "GPIO24")
	if c.LCD.I2C.Address == 0 {
		c.LCD.I2C.Address = defaultI2CAddr
	}
	if c.LCD.I2C.Bus <= 0 {
		c.LCD.I2C.Bus = defaultI2CBus
	}

	if c.ADC.SPIPort == "" {
		c.ADC.SPIPort = defaultSPIPort
	}
	if c.ADC.Channel < 0 || c.ADC.Channel > 7 {
		return nil, fmt.Errorf("adc channel must be between 0 and 7, got %d", c.ADC.Channel)
	}
	if c.ADC.Vref <= 0 {
		c.ADC.Vref = defaultVref
	}

	if c.Serial.Device == "" {
		c.Serial.Device = defaultTTY
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = uart.DefaultBaud
	}

	if c.Indicator.Warn <= 0 {
		c.Indicator.Warn = defaultWarn
	}
	if c.Indicator.Alarm <= 0 {
		c.Indicator.Alarm = defaultAlarm
	}
	if c.Indicator.Alarm > 1023 {
		return nil, fmt.Errorf("indicator alarm level must be at most 1023, got %d", c.Indicator.Alarm)
	}
	if c.Indicator.Warn >= c.Indicator.Alarm {
		return nil, fmt.Errorf("indicator warn level %d must be below the alarm level %d", c.Indicator.Warn, c.Indicator.Alarm)
	}
	if c.Indicator.Button == "" {
		c.Indicator.Button = defaultButton
	}

	if c.Influx.URL != "" {
		if c.Influx.Org == "" {
			return nil, fmt.Errorf("influx org is missing")
		}
		if c.Influx.Bucket == "" {
			return nil, fmt.Errorf("influx bucket is missing")
		}
		if c.Influx.Sensor == "" {
			c.Influx.Sensor = defaultSensor
		}
	}

	return c, nil
}

func defaultPin(name *string, def string) {
	if *name == "" {
		*name = def
	}
}
