package app

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Indicator drives a GPIO line high while at least one tag is in view,
// for a status LED on the rig.
type Indicator struct {
	pin gpio.PinIO
	on  bool
}

// NewIndicator resolves the pin by name and parks it low.
func NewIndicator(pinName string) (*Indicator, error) {
	// Initialize periph host once.
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("indicator pin %q not found", pinName)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("indicator pin %q init: %w", pinName, err)
	}
	return &Indicator{pin: pin}, nil
}

// Set updates the line, skipping the write when the level is unchanged.
func (i *Indicator) Set(active bool) error {
	if active == i.on {
		return nil
	}
	i.on = active
	level := gpio.Low
	if active {
		level = gpio.High
	}
	return i.pin.Out(level)
}
