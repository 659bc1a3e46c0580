// Package connwatch tracks established connections and periodically
// probes them for peer hangup.
package connwatch

import (
	"distkv-transport/internal/logger"
	"distkv-transport/internal/netaddr"
	"distkv-transport/internal/sockstat"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// HandleHangup is called for every connection a sweep finds hung up.
type HandleHangup func(id uuid.UUID, rec ConnRecord)

// ConnRecord ties a watched connection to its endpoint and the time it
// was registered.
type ConnRecord struct {
	Conn         net.Conn
	Endpoint     netaddr.Endpoint
	RegisteredAt time.Time
}

// Watcher is a registry of established connections probed for peer
// hangup. The watcher never closes a connection; owners learn about
// hangups through the sweep callback, and the connection is only
// dropped from the registry.
type Watcher struct {
	mu    sync.RWMutex
	log   *logger.Logger
	conns map[uuid.UUID]*ConnRecord

	isRunning bool
	stopChan  chan struct{}
}

func NewWatcher(log *logger.Logger) *Watcher {
	return &Watcher{
		log:      log,
		conns:    make(map[uuid.UUID]*ConnRecord),
		stopChan: make(chan struct{}),
	}
}

// Add registers conn under a fresh ID. Connections that do not expose
// their descriptor cannot be probed and are rejected.
func (w *Watcher) Add(conn net.Conn, ep netaddr.Endpoint) (uuid.UUID, error) {
	if _, ok := conn.(syscall.Conn); !ok {
		return uuid.Nil, fmt.Errorf("connection %T exposes no descriptor", conn)
	}

	id := uuid.New()
	w.mu.Lock()
	w.conns[id] = &ConnRecord{
		Conn:         conn,
		Endpoint:     ep,
		RegisteredAt: time.Now(),
	}
	w.mu.Unlock()

	w.log.Debug("[connwatch] watching %s (%s)", id, ep)
	return id, nil
}

// Remove drops a connection from the registry.
func (w *Watcher) Remove(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.conns, id)
}

// Get returns the record of a watched connection.
func (w *Watcher) Get(id uuid.UUID) (ConnRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if rec, ok := w.conns[id]; ok {
		return *rec, true
	}
	return ConnRecord{}, false
}

// Size returns the number of watched connections.
func (w *Watcher) Size() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.conns)
}

// Endpoints returns the endpoints of all watched connections.
func (w *Watcher) Endpoints() []netaddr.Endpoint {
	w.mu.RLock()
	defer w.mu.RUnlock()

	eps := make([]netaddr.Endpoint, 0, len(w.conns))
	for _, rec := range w.conns {
		eps = append(eps, rec.Endpoint)
	}
	return eps
}

// Sweep probes every watched connection once, drops the hung ones and
// reports each through onHangup. It returns the number dropped.
func (w *Watcher) Sweep(onHangup HandleHangup) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	dropped := 0
	for id, rec := range w.conns {
		sc, ok := rec.Conn.(syscall.Conn)
		if ok && !sockstat.HungUp(sc) {
			continue
		}

		if onHangup != nil {
			go onHangup(id, *rec)
		}
		delete(w.conns, id)
		w.log.Info("[connwatch] removed hung connection %s to %s (watched for %v)",
			id, rec.Endpoint, now.Sub(rec.RegisteredAt))
		dropped++
	}
	return dropped
}

// Start launches the periodic sweep loop.
func (w *Watcher) Start(interval time.Duration, onHangup HandleHangup) {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	w.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stopChan:
				return
			case <-ticker.C:
				w.Sweep(onHangup)
			}
		}
	}()

	w.log.Info("[connwatch] sweeping every %v", interval)
}

// Stop terminates the sweep loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	w.mu.Unlock()

	close(w.stopChan)
	w.log.Info("[connwatch] stopped")
}
