package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"
)

// UDPListenerConfig configures a UDP packet listener.
type UDPListenerConfig struct {
	Address     string
	RcvBuf      int
	LogInterval time.Duration
}

// UDPListener receives telemetry packets over UDP, one space packet per
// datagram, and forwards them to a handler. Malformed datagrams are counted
// and dropped, never fatal.
type UDPListener struct {
	address     string
	rcvBuf      int
	logInterval time.Duration
	conn        *net.UDPConn
}

// NewUDPListener creates a listener from the given configuration.
func NewUDPListener(config UDPListenerConfig) *UDPListener {
	logInterval := config.LogInterval
	if logInterval == 0 {
		logInterval = time.Minute
	}
	return &UDPListener{
		address:     config.Address,
		rcvBuf:      config.RcvBuf,
		logInterval: logInterval,
	}
}

// Listen binds the UDP socket and delivers packets to handler until ctx is
// cancelled.
func (l *UDPListener) Listen(ctx context.Context, handler Handler) error {
	addr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("network: resolving %s: %w", l.address, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("network: listening on %s: %w", l.address, err)
	}
	l.conn = conn
	defer conn.Close()

	if l.rcvBuf > 0 {
		if err := conn.SetReadBuffer(l.rcvBuf); err != nil {
			log.Printf("[UDPListener] could not set receive buffer to %d: %v", l.rcvBuf, err)
		}
	}
	log.Printf("[UDPListener] listening on %s", l.address)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, 65535)
	var received, dropped int
	lastLog := time.Now()

	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				log.Printf("[UDPListener] stopped: %d packets received, %d dropped", received, dropped)
				return ctx.Err()
			}
			return fmt.Errorf("network: reading datagram: %w", err)
		}

		pkt, err := ParseDatagram(buf[:n])
		if err != nil {
			dropped++
			continue
		}
		handler(pkt)
		received++

		if time.Since(lastLog) >= l.logInterval {
			log.Printf("[UDPListener] %d packets received, %d dropped", received, dropped)
			lastLog = time.Now()
		}
	}
}
