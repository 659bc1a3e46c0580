package main

import (
	"context"
	"distkv-transport/internal/netaddr"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

func main() {
	timeout := flag.Duration("timeout", 3*time.Second, "Resolution timeout per argument")
	service := flag.String("service", "", "Service to assume for arguments without one")
	flag.Parse()

	if flag.NArg() == 0 {
		exit("Usage: addrcheck [-timeout duration] [-service port] host[:port] ...\n")
	}

	failed := 0
	for _, arg := range flag.Args() {
		if err := check(arg, *service, *timeout); err != nil {
			fmt.Fprintf(os.Stderr, "addrcheck: %s: %v\n", arg, err)
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func check(arg, defaultService string, timeout time.Duration) error {
	host, service, err := netaddr.SplitEndpoint(arg)
	if err != nil {
		return err
	}

	if service == "" {
		service = defaultService
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	addr, err := netaddr.Resolve(ctx, host)
	if err != nil {
		return err
	}

	text := addr.String()
	if service == "" {
		fmt.Println(text)
		return nil
	}

	port, err := strconv.ParseUint(service, 10, 16)
	if err != nil {
		return fmt.Errorf("invalid service %q", service)
	}

	fmt.Printf("%s %s\n", text, netaddr.CombineAddressPort(text, uint16(port)))
	return nil
}

func exit(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, msg, a...)
	os.Exit(1)
}
