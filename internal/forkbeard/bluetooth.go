// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forkbeard provides helper functions for interacting with
// Bluetooth devices.
package forkbeard

import (
	"errors"
	"fmt"

	"tinygo.org/x/bluetooth"
)

// ErrNoCharacteristic is returned when a connected device does not
// expose a requested characteristic.
var ErrNoCharacteristic = errors.New("device characteristic not found")

// Characteristic returns the bluetooth.DeviceCharacteristic identified by
// charID from any of the services exposed by dev.
func Characteristic(dev *bluetooth.Device, charID bluetooth.UUID) (bluetooth.DeviceCharacteristic, error) {
	srv, err := dev.DiscoverServices(nil)
	if err != nil {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("failed to discover services: %w", err)
	}
	services := make([]service, len(srv))
	for i := range srv {
		services[i] = &srv[i]
	}
	return findCharacteristic(services, charID)
}

// service is the characteristic discovery behaviour of a
// bluetooth.DeviceService.
type service interface {
	UUID() bluetooth.UUID
	DiscoverCharacteristics([]bluetooth.UUID) ([]bluetooth.DeviceCharacteristic, error)
}

func findCharacteristic(srv []service, charID bluetooth.UUID) (bluetooth.DeviceCharacteristic, error) {
	var errs []error
	for _, s := range srv {
		// Some stacks do not honour the UUID filter, so check each
		// returned characteristic.
		chars, err := s.DiscoverCharacteristics([]bluetooth.UUID{charID})
		if err != nil {
			errs = append(errs, fmt.Errorf("service %s: %w", s.UUID(), err))
			continue
		}
		for _, c := range chars {
			if c.UUID() == charID {
				return c, nil
			}
		}
	}
	return bluetooth.DeviceCharacteristic{}, errors.Join(fmt.Errorf("%w: %s", ErrNoCharacteristic, charID), errors.Join(errs...))
}
