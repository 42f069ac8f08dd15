// internal/transport/session_test.go
package transport

import (
	"context"
	"testing"
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tbrandon/mbserver"
)

const testAddr = "127.0.0.1:15502"

func startServer(t *testing.T) *mbserver.Server {
	t.Helper()
	srv := mbserver.NewServer()
	if err := srv.ListenTCP(testAddr); err != nil {
		t.Fatalf("mbserver listen: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func testSession(host string, port int) *Session {
	return New(Config{
		Host:    host,
		Port:    port,
		SlaveID: 1,
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestReadWords(t *testing.T) {
	srv := startServer(t)
	srv.HoldingRegisters[100] = 0x4248
	srv.HoldingRegisters[101] = 0x0000

	s := testSession("127.0.0.1", 15502)
	defer s.Close()

	words, err := s.ReadWords(context.Background(), 100, 2)
	if err != nil {
		t.Fatalf("ReadWords err=%v", err)
	}
	if words[0] != 0x4248 || words[1] != 0x0000 {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestWriteWords_SingleAndMultiple(t *testing.T) {
	srv := startServer(t)

	s := testSession("127.0.0.1", 15502)
	defer s.Close()
	ctx := context.Background()

	// one word -> write single register
	if err := s.WriteWords(ctx, 102, []uint16{225}); err != nil {
		t.Fatalf("WriteWords single err=%v", err)
	}
	if srv.HoldingRegisters[102] != 225 {
		t.Fatalf("register 102: got %d, want 225", srv.HoldingRegisters[102])
	}

	// two words -> write multiple registers
	if err := s.WriteWords(ctx, 300, []uint16{0x41B4, 0x0000}); err != nil {
		t.Fatalf("WriteWords multiple err=%v", err)
	}
	if srv.HoldingRegisters[300] != 0x41B4 || srv.HoldingRegisters[301] != 0x0000 {
		t.Fatalf("registers 300-301: got %d,%d",
			srv.HoldingRegisters[300], srv.HoldingRegisters[301])
	}

	// read back through the same lazily reused connection
	words, err := s.ReadWords(ctx, 300, 2)
	if err != nil {
		t.Fatalf("ReadWords err=%v", err)
	}
	if words[0] != 0x41B4 {
		t.Fatalf("read back: got %v", words)
	}
}

func TestReadWords_NoServer(t *testing.T) {
	s := New(Config{
		Host:    "127.0.0.1",
		Port:    15999, // nothing listens here
		SlaveID: 1,
		Timeout: 200 * time.Millisecond,
	}, zerolog.Nop())
	defer s.Close()

	_, err := s.ReadWords(context.Background(), 100, 1)
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestReadWords_CancelledContext(t *testing.T) {
	startServer(t)

	s := testSession("127.0.0.1", 15502)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.ReadWords(ctx, 100, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	if got := classify(errors.New("dial tcp: connection refused")); !errors.Is(got, ErrConnection) {
		t.Fatalf("plain error: got %v", got)
	}
	if got := classify(&modbus.ModbusError{FunctionCode: 0x83, ExceptionCode: 2}); !errors.Is(got, ErrProtocol) {
		t.Fatalf("modbus exception: got %v", got)
	}
	if got := classify(timeoutErr{}); !errors.Is(got, ErrTimeout) {
		t.Fatalf("net timeout: got %v", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
