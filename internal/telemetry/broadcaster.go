// Package telemetry pushes the full device state over UDP on a fixed
// interval. Delivery is best-effort: no acknowledgement, no retry — a
// receiver that misses a packet catches up on the next tick.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"domotica/internal/logger"
	"domotica/internal/service"
)

// Broadcaster serializes registry snapshots and emits one datagram per tick.
type Broadcaster struct {
	monitoring service.Monitoring
	log        *logger.Logger
	addr       string
}

// New builds a broadcaster targeting addr (a host:port, typically the
// subnet broadcast address).
func New(monitoring service.Monitoring, addr string, log *logger.Logger) *Broadcaster {
	return &Broadcaster{monitoring: monitoring, log: log, addr: addr}
}

// Run emits one snapshot per interval until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context, interval time.Duration) error {
	conn, err := net.Dial("udp", b.addr)
	if err != nil {
		return fmt.Errorf("dial udp %s: %w", b.addr, err)
	}
	defer func() { _ = conn.Close() }()

	b.log.Infow("telemetry broadcaster started", "addr", b.addr, "interval", interval.String())
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			b.log.Infow("telemetry broadcaster stopped")
			return nil
		case <-t.C:
			b.emit(conn)
		}
	}
}

// emit sends one snapshot. Failures are logged and dropped; the next tick
// sends a fresh snapshot anyway.
func (b *Broadcaster) emit(conn net.Conn) {
	snapshot := b.monitoring.Snapshot()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		b.log.Errorw("telemetry marshal failed", "err", err)
		return
	}
	if _, err := conn.Write(payload); err != nil {
		b.log.Errorw("telemetry send failed", "err", err)
		return
	}
	b.log.Debugw("telemetry broadcast sent", "devices", len(snapshot.Devices), "bytes", len(payload))
}
