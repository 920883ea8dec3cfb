// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remote

import (
	"errors"
	"fmt"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/azmuth/internal/forkbeard"
)

// Adapter is a Scanner and Connector backed by a host Bluetooth adapter.
type Adapter struct {
	adapter *bluetooth.Adapter
	char    bluetooth.UUID
}

// NewAdapter enables a and returns an Adapter that writes commands to
// the char characteristic of connected devices.
func NewAdapter(a *bluetooth.Adapter, char bluetooth.UUID) (*Adapter, error) {
	err := a.Enable()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to enable bluetooth: %w", ErrDiscovery, err)
	}
	return &Adapter{adapter: a, char: char}, nil
}

// Scan implements the Scanner interface.
func (a *Adapter) Scan(found func(Device)) error {
	return a.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
		found(Device{Address: r.Address, Name: r.LocalName()})
	})
}

// StopScan implements the Scanner interface.
func (a *Adapter) StopScan() error {
	return a.adapter.StopScan()
}

// Connect implements the Connector interface.
func (a *Adapter) Connect(d Device) (Conn, error) {
	dev, err := a.adapter.Connect(d.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, err
	}
	char, err := forkbeard.Characteristic(&dev, a.char)
	if err != nil {
		return nil, errors.Join(err, dev.Disconnect())
	}
	return &conn{dev: dev, char: char}, nil
}

type conn struct {
	dev  bluetooth.Device
	char bluetooth.DeviceCharacteristic
}

func (c *conn) Write(p []byte) error {
	_, err := c.char.WriteWithoutResponse(p)
	return err
}

func (c *conn) Close() error {
	return c.dev.Disconnect()
}
