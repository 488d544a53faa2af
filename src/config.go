package callerid

/*------------------------------------------------------------------
 *
 * Purpose:	Read the configuration file.
 *
 * Description:	YAML, for example:
 *
 *			modem:
 *			  standard: bell202
 *			  sample_rate: 8000
 *			  codec: ulaw
 *			transmit:
 *			  level_db: -14
 *			  seize_bits: 300
 *			  carrier_start_bits: 180
 *			  carrier_stop_bits: 5
 *			log:
 *			  level: info
 *			  dir: /var/log/callerid
 *
 *		Anything not mentioned keeps the default value.
 *		Command line options override the file.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const CONFIG_FILE_NAME = "callerid.yaml"

var config_search_locations = []string{
	CONFIG_FILE_NAME, // Current working directory
	"/usr/local/etc/callerid/" + CONFIG_FILE_NAME,
	"/etc/callerid/" + CONFIG_FILE_NAME,
}

type ModemSection struct {
	Standard   string `yaml:"standard"`
	SampleRate int    `yaml:"sample_rate"`
	Codec      string `yaml:"codec"`
	BitOrder   string `yaml:"bit_order"`
	Capacity   int    `yaml:"capacity"` // Largest message received.
}

type TransmitSection struct {
	LevelDB          float64 `yaml:"level_db"`
	SeizeBits        int     `yaml:"seize_bits"`
	CarrierStartBits int     `yaml:"carrier_start_bits"`
	CarrierStopBits  int     `yaml:"carrier_stop_bits"`
}

type LogSection struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir"`   // Daily CSV files.
	File  string `yaml:"file"`  // Single CSV file.
	Color int    `yaml:"color"` // 0 = none, 1 = light background, 2 = dark.
}

type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // tcp://host:1883
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	Retain      bool   `yaml:"retain"`
}

type MetricsSection struct {
	Addr string `yaml:"addr"` // Empty disables the HTTP listener.
	Path string `yaml:"path"`
}

type Config struct {
	Channel  string          `yaml:"channel"`
	Modem    ModemSection    `yaml:"modem"`
	Transmit TransmitSection `yaml:"transmit"`
	Log      LogSection      `yaml:"log"`
	MQTT     MQTTConfig      `yaml:"mqtt"`
	Metrics  MetricsSection  `yaml:"metrics"`
}

func DefaultConfig() Config {
	var m = DefaultModulatorConfig()

	return Config{
		Channel: "0",
		Modem: ModemSection{
			Standard:   DEFAULT_STANDARD.String(),
			SampleRate: DEFAULT_SAMPLES_PER_SEC,
			Codec:      CodecLinear.String(),
			BitOrder:   LSBFirst.String(),
			Capacity:   MAX_MESSAGE_LEN,
		},
		Transmit: TransmitSection{
			LevelDB:          m.LevelDB,
			SeizeBits:        m.SeizeBits,
			CarrierStartBits: m.CarrierStartBits,
			CarrierStopBits:  m.CarrierStopBits,
		},
		Log: LogSection{
			Level: "warn",
			Dir:   "",
			File:  "",
			Color: 0,
		},
		MQTT: MQTTConfig{
			Enabled:     false,
			Broker:      "tcp://localhost:1883",
			Username:    "",
			Password:    "",
			TopicPrefix: "callerid",
			QoS:         0,
			Retain:      false,
		},
		Metrics: MetricsSection{
			Addr: "",
			Path: "/metrics",
		},
	}
}

/*------------------------------------------------------------------
 *
 * Name:        LoadConfig
 *
 * Purpose:     Read configuration on top of the defaults.
 *
 * Inputs:	path	- File name.  Empty means try the usual places.
 *			  Not finding any of those is not an error.
 *
 *---------------------------------------------------------------*/

func LoadConfig(path string) (Config, error) {
	var c = DefaultConfig()

	var data []byte

	if path != "" {
		var err error
		data, err = os.ReadFile(path) //nolint:gosec
		if err != nil {
			return c, fmt.Errorf("config: %w", err)
		}
	} else {
		for _, location := range config_search_locations {
			var d, err = os.ReadFile(location)
			if err == nil {
				path = location
				data = d
				break
			}
		}

		if data == nil {
			return c, nil
		}
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}

	logger.Debug("configuration loaded", "path", path)

	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if _, err := LookupStandard(c.Modem.Standard); err != nil {
		errs = append(errs, err)
	}

	if _, err := LookupCodec(c.Modem.Codec); err != nil {
		errs = append(errs, err)
	}

	if _, err := LookupBitOrder(c.Modem.BitOrder); err != nil {
		errs = append(errs, err)
	}

	if c.Modem.Capacity < MESSAGE_OVERHEAD || c.Modem.Capacity > MAX_MESSAGE_LEN {
		errs = append(errs, fmt.Errorf("capacity %d not in range %d to %d", c.Modem.Capacity, MESSAGE_OVERHEAD, MAX_MESSAGE_LEN))
	}

	if c.Log.Dir != "" && c.Log.File != "" {
		errs = append(errs, errors.New("log dir and log file can't both be set"))
	}

	if c.MQTT.QoS > 2 {
		errs = append(errs, fmt.Errorf("mqtt qos %d not 0, 1 or 2", c.MQTT.QoS))
	}

	if len(errs) == 0 {
		if _, err := c.ModulatorConfig(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ModulatorConfig for the modem and transmit sections.
func (c Config) ModulatorConfig() (ModulatorConfig, error) {
	var standard, err = LookupStandard(c.Modem.Standard)
	if err != nil {
		return ModulatorConfig{}, err //nolint:exhaustruct
	}

	var order, oerr = LookupBitOrder(c.Modem.BitOrder)
	if oerr != nil {
		return ModulatorConfig{}, oerr //nolint:exhaustruct
	}

	var m = ModulatorConfig{
		Standard:         standard,
		SampleRate:       c.Modem.SampleRate,
		LevelDB:          c.Transmit.LevelDB,
		SeizeBits:        c.Transmit.SeizeBits,
		CarrierStartBits: c.Transmit.CarrierStartBits,
		CarrierStopBits:  c.Transmit.CarrierStopBits,
		BitOrder:         order,
	}

	return m, m.Validate()
}

// NewReceiver for the modem section.
func (c Config) NewReceiver() (*Receiver, error) {
	var standard, err = LookupStandard(c.Modem.Standard)
	if err != nil {
		return nil, err
	}

	return NewReceiver(standard, c.Modem.SampleRate, c.Modem.Capacity)
}

// Apply the log section.
func (c Config) ApplyLog() error {
	text_color_init(c.Log.Color)

	if err := SetLogLevel(c.Log.Level); err != nil {
		return err
	}

	if c.Log.Dir != "" {
		LogInit(true, c.Log.Dir)
	} else {
		LogInit(false, c.Log.File)
	}

	return nil
}
