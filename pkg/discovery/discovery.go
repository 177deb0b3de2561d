// SPDX-FileCopyrightText: 2026 The hue-entertainment authors
// SPDX-License-Identifier: MIT

// Package discovery finds Hue bridges on the local network over mDNS.
package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/enbility/zeroconf/v3"
	"github.com/pion/logging"
)

// Service and domain bridges advertise themselves under.
const (
	ServiceType = "_hue._tcp"
	Domain      = "local."
)

// Bridge is one advertised bridge.
type Bridge struct {
	Instance  string
	Host      string
	Port      int
	Addresses []net.IP
	// ID and ModelID come from the bridgeid and modelid TXT records.
	ID      string
	ModelID string
}

// Address returns the address to stream to, preferring IPv4.
func (b *Bridge) Address() string {
	for _, ip := range b.Addresses {
		if ip.To4() != nil {
			return ip.String()
		}
	}
	if len(b.Addresses) > 0 {
		return b.Addresses[0].String()
	}

	return strings.TrimSuffix(b.Host, ".")
}

func (b *Bridge) String() string {
	id := b.ID
	if id == "" {
		id = b.Instance
	}

	return fmt.Sprintf("%s (%s) at %s", id, b.ModelID, b.Address())
}

// Config tunes a browse.
type Config struct {
	// Interface restricts the browse to one network interface.
	Interface     string
	LoggerFactory logging.LoggerFactory
}

type browseFunc func(ctx context.Context, entries, removed chan *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error

func browseZeroconf(ctx context.Context, entries, removed chan *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error {
	return zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
}

// Browser browses for bridges.
type Browser struct {
	cfg    Config
	log    logging.LeveledLogger
	browse browseFunc
}

// NewBrowser creates a Browser.
func NewBrowser(cfg Config) *Browser {
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &Browser{
		cfg:    cfg,
		log:    cfg.LoggerFactory.NewLogger("discovery"),
		browse: browseZeroconf,
	}
}

// Browse emits every bridge found until ctx is done. Each bridge is emitted
// once; addresses seen later on other interfaces are not reported.
func (b *Browser) Browse(ctx context.Context) (<-chan *Bridge, error) {
	opts, err := b.options()
	if err != nil {
		return nil, err
	}

	out := make(chan *Bridge)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		seen := map[string]struct{}{}
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				bridge := bridgeFromEntry(entry)
				if _, found := seen[bridge.Instance]; found {
					continue
				}
				seen[bridge.Instance] = struct{}{}
				b.log.Debugf("found bridge %s", bridge)

				select {
				case out <- bridge:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					removed = nil

					continue
				}
				delete(seen, entry.Instance)
				b.log.Debugf("bridge %s went away", entry.Instance)

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		if err := b.browse(ctx, entries, removed, opts...); err != nil {
			b.log.Warnf("mDNS browse for %s failed: %v", ServiceType, err)
		}
	}()

	return out, nil
}

// Collect browses until ctx is done and returns every bridge found.
func (b *Browser) Collect(ctx context.Context) ([]*Bridge, error) {
	found, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	var bridges []*Bridge
	for bridge := range found {
		bridges = append(bridges, bridge)
	}

	return bridges, nil
}

func (b *Browser) options() ([]zeroconf.ClientOption, error) {
	if b.cfg.Interface == "" {
		return nil, nil
	}

	iface, err := net.InterfaceByName(b.cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("discovery: interface %q: %w", b.cfg.Interface, err)
	}

	return []zeroconf.ClientOption{zeroconf.SelectIfaces([]net.Interface{*iface})}, nil
}

func bridgeFromEntry(entry *zeroconf.ServiceEntry) *Bridge {
	bridge := &Bridge{
		Instance: entry.Instance,
		Host:     entry.HostName,
		Port:     entry.Port,
	}
	bridge.Addresses = append(bridge.Addresses, entry.AddrIPv4...)
	bridge.Addresses = append(bridge.Addresses, entry.AddrIPv6...)

	for _, txt := range entry.Text {
		key, value, ok := strings.Cut(txt, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "bridgeid":
			bridge.ID = strings.ToLower(value)
		case "modelid":
			bridge.ModelID = value
		}
	}

	return bridge
}
