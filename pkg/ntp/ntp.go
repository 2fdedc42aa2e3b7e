// Package ntp implements a minimal SNTP client: one 48-byte request,
// one 48-byte reply, strictly ordered multi-server fallback. It is
// deliberately not a full NTP implementation — the caller only needs a
// single trustworthy instant, not clock discipline.
package ntp

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/codeGROOVE-dev/truetime/pkg/constants"
)

// requestHeader is the first byte of a client request:
// LI=0, version 3, mode 3 (client). The rest of the packet is zero.
const requestHeader = 0x1B

const (
	transmitSecondsOffset  = 40
	transmitFractionOffset = 44
)

// UnavailableError reports that every configured server failed. The
// per-server failures are preserved in order.
type UnavailableError struct {
	Failures []string
}

func (e *UnavailableError) Error() string {
	return "network time unavailable: " + strings.Join(e.Failures, "; ")
}

// Client queries SNTP servers over UDP.
type Client struct {
	logger   *slog.Logger
	timeout  time.Duration
	attempts uint
}

// NewClient creates a Client with a per-attempt timeout and a per-server
// attempt budget. Attempts below 1 are treated as 1, keeping the server
// list ordering strict. A nil logger disables debug logging.
func NewClient(timeout time.Duration, attempts uint, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if attempts == 0 {
		attempts = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{logger: logger, timeout: timeout, attempts: attempts}
}

// Query asks a single server for its transmit timestamp and returns it
// as milliseconds since the Unix epoch. The server may be "host" or
// "host:port"; the standard port is assumed when absent.
func (c *Client) Query(ctx context.Context, server string) (int64, error) {
	addr := server
	if _, _, err := net.SplitHostPort(server); err != nil {
		addr = net.JoinHostPort(server, constants.NTPPort)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "udp", addr)
	if err != nil {
		return 0, fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, fmt.Errorf("setting deadline: %w", err)
	}

	request := make([]byte, constants.NTPPacketSize)
	request[0] = requestHeader
	if _, err := conn.Write(request); err != nil {
		return 0, fmt.Errorf("sending request to %s: %w", addr, err)
	}

	reply := make([]byte, constants.NTPPacketSize)
	n, err := conn.Read(reply)
	if err != nil {
		return 0, fmt.Errorf("reading reply from %s: %w", addr, err)
	}
	if n < constants.NTPPacketSize {
		return 0, fmt.Errorf("malformed reply from %s: %d bytes, want at least %d", addr, n, constants.NTPPacketSize)
	}

	return decodeTransmit(reply)
}

// decodeTransmit extracts the transmit timestamp from a 48-byte reply.
func decodeTransmit(reply []byte) (int64, error) {
	seconds := binary.BigEndian.Uint32(reply[transmitSecondsOffset : transmitSecondsOffset+4])
	fraction := binary.BigEndian.Uint32(reply[transmitFractionOffset : transmitFractionOffset+4])
	if seconds == 0 {
		return 0, errors.New("reply carries a zero transmit timestamp")
	}

	// Widen before subtracting the 1900→1970 delta so instants near
	// the 2036 wrap do not go negative.
	ms := (int64(seconds) - constants.NTPEpochOffsetSeconds) * 1000
	ms += int64(math.Round(float64(fraction) * 1000 / (1 << 32)))
	return ms, nil
}

// First queries the servers strictly in order and returns the first
// validated reply along with the server that produced it. Servers after
// the successful one are never contacted. When every server fails, the
// error lists each server's failure; there is no silent fallback to the
// system clock.
func (c *Client) First(ctx context.Context, servers []string) (int64, string, error) {
	if len(servers) == 0 {
		return 0, "", &UnavailableError{Failures: []string{"no servers configured"}}
	}

	var failures []string
	for _, server := range servers {
		var instantMs int64
		err := retry.Do(
			func() error {
				ms, queryErr := c.Query(ctx, server)
				if queryErr != nil {
					return queryErr
				}
				instantMs = ms
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(c.attempts),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				c.logger.Debug("retrying ntp server", "server", server, "attempt", n+1, "error", err)
			}),
		)
		if err == nil {
			c.logger.Debug("ntp reply accepted", "server", server, "instant_ms", instantMs)
			return instantMs, server, nil
		}
		c.logger.Debug("ntp server failed", "server", server, "error", err)
		failures = append(failures, fmt.Sprintf("%s: %v", server, err))
	}

	return 0, "", &UnavailableError{Failures: failures}
}
