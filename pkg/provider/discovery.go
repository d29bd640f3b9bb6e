package provider

import (
	"context"
	"fmt"
	"net"

	"github.com/enbility/zeroconf/v3"
)

// mDNS service parameters for PlantView gateways.
const (
	// ServiceTypeGateway is the mDNS service type gateways advertise.
	ServiceTypeGateway = "_plantview-gw._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultGatewayPort is assumed when a gateway advertises no port.
	DefaultGatewayPort = 8086
)

// Gateway describes a discovered PlantView gateway.
type Gateway struct {
	// Name is the mDNS instance name.
	Name string

	// HostName is the advertised host name.
	HostName string

	// Addresses holds the resolved IP addresses.
	Addresses []net.IP

	// Port is the advertised API port.
	Port int
}

// BaseURL returns the gateway's API base URL, preferring IPv4 addresses.
func (g *Gateway) BaseURL() string {
	port := g.Port
	if port == 0 {
		port = DefaultGatewayPort
	}
	for _, addr := range g.Addresses {
		if v4 := addr.To4(); v4 != nil {
			return fmt.Sprintf("http://%s:%d", v4, port)
		}
	}
	if len(g.Addresses) > 0 {
		return fmt.Sprintf("http://[%s]:%d", g.Addresses[0], port)
	}
	return fmt.Sprintf("http://%s:%d", g.HostName, port)
}

// DiscoverGateways browses the local network for PlantView gateways until
// the context is done (pass a context with a timeout) and returns the
// gateways seen, aggregated by instance name. Entries for the same gateway
// may arrive once per network interface; their addresses are merged.
func DiscoverGateways(ctx context.Context) ([]Gateway, error) {
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	browseErr := make(chan error, 1)
	go func() {
		browseErr <- zeroconf.Browse(ctx, ServiceTypeGateway, Domain, entries, removed)
	}()

	seen := make(map[string]*Gateway)
	var order []string

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				entries = nil
				continue
			}
			g, found := seen[entry.Instance]
			if !found {
				g = &Gateway{
					Name:     entry.Instance,
					HostName: entry.HostName,
					Port:     entry.Port,
				}
				seen[entry.Instance] = g
				order = append(order, entry.Instance)
			}
			g.Addresses = mergeAddresses(g.Addresses, entry.AddrIPv4)
			g.Addresses = mergeAddresses(g.Addresses, entry.AddrIPv6)

		case _, ok := <-removed:
			// A gateway that disappears mid-browse stays listed and
			// simply fails at connect time.
			if !ok {
				removed = nil
			}

		case err := <-browseErr:
			if err != nil && ctx.Err() == nil {
				return nil, fmt.Errorf("gateway browse failed: %w", err)
			}
			out := make([]Gateway, 0, len(order))
			for _, name := range order {
				out = append(out, *seen[name])
			}
			return out, nil
		}
	}
}

// mergeAddresses appends addrs not already present in existing.
func mergeAddresses(existing, addrs []net.IP) []net.IP {
	for _, addr := range addrs {
		dup := false
		for _, have := range existing {
			if have.Equal(addr) {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, addr)
		}
	}
	return existing
}
