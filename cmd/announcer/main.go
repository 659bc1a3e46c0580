package main

import (
	"context"
	"distkv-transport/internal/announce"
	"distkv-transport/internal/config"
	"distkv-transport/internal/netaddr"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

func main() {
	addr := flag.String("addr", "", "Address to advertise (hostname or IP literal)")
	nodePortRaw := flag.Uint("node-port", 0, "TCP port to advertise")
	announcePortRaw := flag.Uint("announce-port", config.DefaultAnnouncePort, "UDP port announcements are sent to")
	target := flag.String("target", "", "Unicast target for announcements (default: IPv4 broadcast)")
	interval := flag.Duration("interval", 2*time.Second, "Delay between announcements")
	once := flag.Bool("once", false, "Send a single announcement and exit")
	flag.Parse()

	if *addr == "" {
		exit("Error: -addr is required\n")
	}
	nodePort := validatePort(*nodePortRaw, "node-port")
	announcePort := validatePort(*announcePortRaw, "announce-port")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	inAddr, err := netaddr.Resolve(ctx, *addr)
	cancel()
	if err != nil {
		exit("Error: %v\n", err)
	}

	m := announce.Message{
		NodeID: uuid.New(),
		Addr:   inAddr,
		Port:   nodePort,
	}

	endpoint := netaddr.CombineAddressPort(inAddr.String(), nodePort)
	fmt.Printf("Announcing %s as node %s\n", endpoint, m.NodeID)

	for {
		if *target == "" {
			err = announce.Send(announcePort, m)
		} else {
			err = announce.SendTo(*target, announcePort, m)
		}
		if err != nil {
			exit("Error: %v\n", err)
		}

		fmt.Printf("Sent announcement for %s at %s\n", endpoint, time.Now().Format("15:04:05"))

		if *once {
			return
		}
		time.Sleep(*interval)
	}
}

func exit(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, msg, a...)
	os.Exit(1)
}

func validatePort(port uint, name string) uint16 {
	if port == 0 {
		exit("Error: -%s is required\n", name)
	}

	if port > 65535 {
		exit("Error: invalid -%s value: %d exceeds uint16 max (65535)\n", name, port)
	}

	return uint16(port)
}
