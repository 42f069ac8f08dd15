// internal/transport/session.go
package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	// ErrConnection reports an unusable socket or failed connect.
	ErrConnection = errors.New("transport: connection error")

	// ErrTimeout reports no device response within the configured bound.
	ErrTimeout = errors.New("transport: timeout")

	// ErrProtocol reports a Modbus exception response from the device.
	ErrProtocol = errors.New("transport: protocol error")
)

// Config is the minimal transport configuration.
type Config struct {
	Host    string
	Port    int
	SlaveID uint8
	Timeout time.Duration
}

// Session owns one Modbus TCP connection. The connection is opened
// lazily on first use and reused across calls. On a transport failure
// the session reconnects once and retries the operation once; a second
// consecutive failure propagates to the caller. Exactly one request is
// in flight at a time; concurrent callers are serialized.
type Session struct {
	addr    string
	slaveID uint8
	timeout time.Duration
	logger  zerolog.Logger

	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// New creates a session. No connection is made until the first call.
func New(cfg Config, logger zerolog.Logger) *Session {
	return &Session{
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		slaveID: cfg.SlaveID,
		timeout: cfg.Timeout,
		logger:  logger.With().Str("component", "transport").Logger(),
	}
}

// ReadWords reads count holding registers starting at addr.
func (s *Session) ReadWords(ctx context.Context, addr, count uint16) ([]uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.withRetry(func(c modbus.Client) ([]byte, error) {
		return c.ReadHoldingRegisters(addr, count)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read %d words at %d", count, addr)
	}
	if len(raw) != int(count)*2 {
		return nil, errors.Wrapf(ErrProtocol,
			"read at %d: got %d bytes, want %d", addr, len(raw), count*2)
	}
	return unpackWords(raw), nil
}

// WriteWords writes words starting at addr. A single word uses the
// write-single-register function, more use write-multiple-registers.
func (s *Session) WriteWords(ctx context.Context, addr uint16, words []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(words) == 0 {
		return errors.New("transport: empty write")
	}

	_, err := s.withRetry(func(c modbus.Client) ([]byte, error) {
		if len(words) == 1 {
			return c.WriteSingleRegister(addr, words[0])
		}
		return c.WriteMultipleRegisters(addr, uint16(len(words)), packWords(words))
	})
	return errors.Wrapf(err, "write %d words at %d", len(words), addr)
}

// Close tears down the connection, if any.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropLocked()
}

// withRetry runs op, reconnecting once and retrying once on a transport
// failure. Device exceptions are deterministic and not retried.
// Retry policy beyond this single attempt belongs to the coordinator.
func (s *Session) withRetry(op func(modbus.Client) ([]byte, error)) ([]byte, error) {
	if err := s.connectLocked(); err != nil {
		return nil, err
	}

	raw, err := op(s.client)
	if err == nil {
		return raw, nil
	}

	kind := classify(err)
	if errors.Is(kind, ErrProtocol) {
		return nil, errors.Wrap(ErrProtocol, err.Error())
	}

	s.logger.Warn().Err(err).Msg("transport failure, reconnecting once")
	_ = s.dropLocked()
	if cerr := s.connectLocked(); cerr != nil {
		return nil, cerr
	}

	raw, err = op(s.client)
	if err != nil {
		_ = s.dropLocked()
		return nil, errors.Wrap(classify(err), err.Error())
	}
	return raw, nil
}

func (s *Session) connectLocked() error {
	if s.client != nil {
		return nil
	}

	h := modbus.NewTCPClientHandler(s.addr)
	h.Timeout = s.timeout
	h.SlaveId = s.slaveID

	if err := h.Connect(); err != nil {
		return errors.Wrapf(ErrConnection, "connect %s: %v", s.addr, err)
	}

	s.logger.Debug().Str("addr", s.addr).Msg("connected")
	s.handler = h
	s.client = modbus.NewClient(h)
	return nil
}

func (s *Session) dropLocked() error {
	if s.handler == nil {
		return nil
	}
	err := s.handler.Close()
	s.handler = nil
	s.client = nil
	return err
}

// classify maps a raw client error onto the flat error taxonomy.
func classify(err error) error {
	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return ErrProtocol
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrTimeout
	}
	return ErrConnection
}

func unpackWords(data []byte) []uint16 {
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

func packWords(words []uint16) []byte {
	out := make([]byte, len(words)*2)
	for i, w := range words {
		out[2*i] = byte(w >> 8)
		out[2*i+1] = byte(w)
	}
	return out
}
