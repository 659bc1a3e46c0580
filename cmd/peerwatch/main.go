package main

import (
	"context"
	"distkv-transport/internal/announce"
	"distkv-transport/internal/config"
	"distkv-transport/internal/connwatch"
	"distkv-transport/internal/logger"
	"distkv-transport/internal/netaddr"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// daemon dials announced and configured peers, keeps the connections
// registered with a watcher and closes the ones that hang up.
type daemon struct {
	log     *logger.Logger
	cfg     *config.Config
	watcher *connwatch.Watcher

	mu      sync.Mutex
	tracked map[string]uuid.UUID
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		exit("Error: %v\n", err)
	}

	log := logger.New(cfg.LogLevel)

	d := &daemon{
		log:     log,
		cfg:     cfg,
		watcher: connwatch.NewWatcher(log),
		tracked: make(map[string]uuid.UUID),
	}

	d.watcher.Start(cfg.ProbeInterval, d.onHangup)

	listener := announce.NewListener(log)
	if err := listener.Start(cfg.AnnouncePort, d.onAnnounce); err != nil {
		exit("Error: %v\n", err)
	}

	for _, ep := range cfg.Peers {
		go d.connect(ep)
	}

	// Re-dial static peers that dropped out of the tracked set.
	go func() {
		ticker := time.NewTicker(cfg.ProbeInterval)
		defer ticker.Stop()

		for range ticker.C {
			for _, ep := range cfg.Peers {
				go d.connect(ep)
			}
		}
	}()

	log.Info("[peerwatch] watching %d static peers, announcements on port %d",
		len(cfg.Peers), cfg.AnnouncePort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("[peerwatch] shutting down")
	listener.Stop()
	d.watcher.Stop()
	d.closeAll()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

func (d *daemon) onAnnounce(m announce.Message, remoteAddr *net.UDPAddr) {
	ep := netaddr.Endpoint{Host: m.Addr.String(), Port: m.Port}
	d.log.Debug("[peerwatch] announcement from %s: node %s at %s", remoteAddr, m.NodeID, ep)
	go d.connect(ep)
}

func (d *daemon) connect(ep netaddr.Endpoint) {
	key := ep.String()

	// Reserve the key up front so a burst of announcements dials once.
	d.mu.Lock()
	if _, ok := d.tracked[key]; ok {
		d.mu.Unlock()
		return
	}
	d.tracked[key] = uuid.Nil
	d.mu.Unlock()

	id, err := d.dial(ep)
	d.mu.Lock()
	if err != nil {
		delete(d.tracked, key)
	} else {
		d.tracked[key] = id
	}
	d.mu.Unlock()

	if err != nil {
		d.log.Warn("[peerwatch] %v", err)
	}
}

func (d *daemon) dial(ep netaddr.Endpoint) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DialTimeout)
	defer cancel()

	addr, err := netaddr.Resolve(ctx, ep.Host)
	if err != nil {
		return uuid.Nil, err
	}

	target := netaddr.CombineAddressPort(addr.String(), ep.Port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return uuid.Nil, fmt.Errorf("dial %s: %w", target, err)
	}

	id, err := d.watcher.Add(conn, ep)
	if err != nil {
		conn.Close()
		return uuid.Nil, fmt.Errorf("watch %s: %w", target, err)
	}

	d.log.Info("[peerwatch] connected to %s (%s)", ep, target)
	return id, nil
}

// onHangup closes the connection: the watcher only reports, the daemon
// owns the conns it dialed.
func (d *daemon) onHangup(id uuid.UUID, rec connwatch.ConnRecord) {
	rec.Conn.Close()

	d.mu.Lock()
	delete(d.tracked, rec.Endpoint.String())
	d.mu.Unlock()

	d.log.Warn("[peerwatch] peer %s hung up", rec.Endpoint)
}

func (d *daemon) closeAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, id := range d.tracked {
		if rec, ok := d.watcher.Get(id); ok {
			rec.Conn.Close()
		}
		delete(d.tracked, key)
	}
}

func exit(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, msg, a...)
	os.Exit(1)
}
