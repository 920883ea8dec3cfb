// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remote

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Help is the default banner shown when a session starts. The peripheral
// decides what to do with each command; nothing here is enforced.
const Help = `Commands:
  volup, voldown, mute      volume
  play, stop, next, prev    media transport
  move <dx> <dy>            mouse movement
  exit, quit                end the session
`

// Connector establishes links to devices.
type Connector interface {
	Connect(Device) (Conn, error)
}

// Conn is a link to a device's command characteristic.
type Conn interface {
	// Write sends p to the command characteristic without
	// requesting a response from the peripheral.
	Write(p []byte) error
	// Close disconnects from the device.
	Close() error
}

// Session is a command session with a connected device. A Session is not
// safe for concurrent use.
type Session struct {
	dev   Device
	conn  Conn
	state State

	out    io.Writer
	prompt string
	banner string
	log    *slog.Logger
}

// Option is a Session configuration option.
type Option func(*Session)

// WithOutput sets the destination for status text. The default discards
// output.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithPrompt sets a prompt written before each command is read.
func WithPrompt(p string) Option {
	return func(s *Session) { s.prompt = p }
}

// WithBanner replaces the Help banner.
func WithBanner(b string) Option {
	return func(s *Session) { s.banner = b }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Open connects to dev and returns a Session owning the connection.
// The caller must call Close.
func Open(c Connector, dev Device, opts ...Option) (*Session, error) {
	s := &Session{
		dev:    dev,
		out:    io.Discard,
		banner: Help,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(s)
	}
	conn, err := c.Connect(dev)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnection, dev.Address, err)
	}
	s.conn = conn
	s.state = Connected
	s.log.Debug("connected", "device", dev.Name, "address", dev.Address.String())
	fmt.Fprintf(s.out, "connected to %s\n", dev)
	return s, nil
}

// Run opens a session with dev, reads commands from in until a quit
// command, the end of input or ctx is cancelled, and then disconnects.
func Run(ctx context.Context, c Connector, dev Device, in io.Reader, opts ...Option) (err error) {
	s, err := Open(c, dev, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return s.Run(ctx, in)
}

// State returns the current connection state.
func (s *Session) State() State { return s.state }

// Send writes cmd to the device. A failed write leaves the session
// connected.
func (s *Session) Send(cmd string) error {
	if s.conn == nil {
		return fmt.Errorf("%w: session closed", ErrWrite)
	}
	s.state = Sending
	err := s.conn.Write([]byte(cmd))
	s.state = Connected
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	s.log.Debug("sent command", "command", cmd)
	return nil
}

// Run writes the banner and then sends each line read from in as a
// command, after trimming surrounding white space. Run returns nil when
// an exit or quit line is read or in is exhausted. Failed writes are
// reported to the session output and do not end the session.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprint(s.out, s.banner)

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		// Lines are not length limited; any line is a command.
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-stop:
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					err = nil
				}
				readErr <- err
				return
			}
		}
	}()

	for {
		fmt.Fprint(s.out, s.prompt)
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			err := <-readErr
			if err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			s.log.Debug("end of input")
			return nil
		}

		cmd := strings.TrimSpace(line)
		if isQuit(cmd) {
			return nil
		}
		err := s.Send(cmd)
		if err != nil {
			s.log.Warn("command not sent", "command", cmd, "error", err)
			fmt.Fprintf(s.out, "failed to send %q: %v\n", cmd, err)
			continue
		}
		fmt.Fprintf(s.out, "command sent: %q\n", cmd)
	}
}

func isQuit(cmd string) bool {
	return strings.EqualFold(cmd, "exit") || strings.EqualFold(cmd, "quit")
}

// Close disconnects from the device. Only the first call has an effect.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	s.state = Disconnected
	err := conn.Close()
	if err != nil {
		return fmt.Errorf("failed to disconnect from %s: %w", s.dev.Address, err)
	}
	s.log.Debug("disconnected", "device", s.dev.Name)
	return nil
}
