// Copyright (c) 2026 Aerolens Robotics
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/aerolens/tagtracker/internal/tags"
)

// SerialWriter sends detected tag IDs over a serial port, one line per
// detection, for a microcontroller listening on the other end.
type SerialWriter struct {
	port io.ReadWriteCloser
}

// NewSerialWriter opens the serial port 8N1 at the given baud rate.
func NewSerialWriter(portName string, baudRate uint) (*SerialWriter, error) {
	serialOpts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return &SerialWriter{port: port}, nil
}

// WriteDetections emits "ID <n>" per detection. The line protocol is
// what the microcontroller firmware parses; keep them in sync.
func (w *SerialWriter) WriteDetections(dets []tags.Detection) error {
	for _, d := range dets {
		if _, err := fmt.Fprintf(w.port, "ID %d\n", d.ID); err != nil {
			return fmt.Errorf("serial write: %w", err)
		}
	}
	return nil
}

func (w *SerialWriter) Close() error {
	return w.port.Close()
}
