package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDTracker  string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string

	// Topics
	TopicTagPose  string
	TopicTagFrame string

	// Frame source
	FrameWidth    int
	FrameHeight   int
	FrameSource   string // path to a raw YUV420 capture, or "synthetic"
	FrameLoop     bool
	FrameInterval int // milliseconds between frames

	// Tags
	TagFamily string
	// TagSize is the side length of the square black frame in meters.
	// Pose accuracy depends directly on this value.
	TagSize  float64
	CameraFx float64
	CameraFy float64
	CameraPx float64 // 0 means image center
	CameraPy float64 // 0 means image center

	// Serial (tag IDs to an attached microcontroller; empty port disables)
	SerialPort     string
	SerialBaudRate int

	// GPIO indicator (empty pin disables)
	IndicatorPin string

	// Web Server
	WebServerPort int

	// Detection log (empty path disables)
	StorePath string

	// Overlay / web frame publishing
	OverlayEnabled bool
	JPEGQuality    int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for initialization,
//     read lock for Get() allows multiple concurrent readers.
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		JPEGQuality: 80,
	}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_TRACKER":
		c.MQTTClientIDTracker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_TAG_POSE":
		c.TopicTagPose = value
	case "TOPIC_TAG_FRAME":
		c.TopicTagFrame = value

	// Frame source
	case "FRAME_WIDTH":
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FRAME_WIDTH %q: %w", value, err)
		}
		if w <= 0 || w%2 != 0 {
			return fmt.Errorf("FRAME_WIDTH must be positive and even, got %d", w)
		}
		c.FrameWidth = w
	case "FRAME_HEIGHT":
		h, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FRAME_HEIGHT %q: %w", value, err)
		}
		if h <= 0 || h%2 != 0 {
			return fmt.Errorf("FRAME_HEIGHT must be positive and even, got %d", h)
		}
		c.FrameHeight = h
	case "FRAME_SOURCE":
		c.FrameSource = value
	case "FRAME_LOOP":
		loop, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid FRAME_LOOP %q: %w", value, err)
		}
		c.FrameLoop = loop
	case "FRAME_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FRAME_INTERVAL %q: %w", value, err)
		}
		c.FrameInterval = interval

	// Tags
	case "TAG_FAMILY":
		c.TagFamily = value
	case "TAG_SIZE":
		size, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TAG_SIZE %q: %w", value, err)
		}
		if size <= 0 {
			return fmt.Errorf("TAG_SIZE must be positive, got %g", size)
		}
		c.TagSize = size
	case "CAMERA_FX":
		fx, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid CAMERA_FX %q: %w", value, err)
		}
		c.CameraFx = fx
	case "CAMERA_FY":
		fy, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid CAMERA_FY %q: %w", value, err)
		}
		c.CameraFy = fy
	case "CAMERA_PX":
		px, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid CAMERA_PX %q: %w", value, err)
		}
		c.CameraPx = px
	case "CAMERA_PY":
		py, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid CAMERA_PY %q: %w", value, err)
		}
		c.CameraPy = py

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// GPIO
	case "INDICATOR_PIN":
		c.IndicatorPin = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Detection log
	case "STORE_PATH":
		c.StorePath = value

	// Overlay
	case "OVERLAY_ENABLED":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid OVERLAY_ENABLED %q: %w", value, err)
		}
		c.OverlayEnabled = enabled
	case "JPEG_QUALITY":
		q, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid JPEG_QUALITY %q: %w", value, err)
		}
		if q < 1 || q > 100 {
			return fmt.Errorf("JPEG_QUALITY must be 1-100, got %d", q)
		}
		c.JPEGQuality = q

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicTagPose == "" {
		return fmt.Errorf("TOPIC_TAG_POSE is required")
	}
	if c.FrameWidth == 0 {
		return fmt.Errorf("FRAME_WIDTH is required")
	}
	if c.FrameHeight == 0 {
		return fmt.Errorf("FRAME_HEIGHT is required")
	}
	if c.FrameSource == "" {
		return fmt.Errorf("FRAME_SOURCE is required")
	}
	if c.FrameInterval == 0 {
		return fmt.Errorf("FRAME_INTERVAL is required")
	}
	if c.TagSize == 0 {
		return fmt.Errorf("TAG_SIZE is required")
	}
	if c.SerialPort != "" && c.SerialBaudRate == 0 {
		return fmt.Errorf("SERIAL_BAUD_RATE is required when SERIAL_PORT is set")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
