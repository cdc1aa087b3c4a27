// Command intentd runs one node of the intent-aware link-state routing
// daemon (spec.md §6). CLI wiring is grounded on
// postalsys-Muti-Metroo/cmd/muti-metroo/main.go's cobra root command.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/linkstate/intentd/daemon"
	"github.com/linkstate/intentd/metrics"
	"github.com/linkstate/intentd/topology"
	"github.com/linkstate/intentd/util/logger"
)

var (
	name         string
	links        []string
	stubNetworks []string
	bindAddr     string
	metricsAddr  string
)

func main() {
	root := &cobra.Command{
		Use:   "intentd",
		Short: "Intent-aware link-state routing daemon",
		Long: `intentd runs one router's control plane: neighbor liveness,
link-state flooding, constrained shortest-path computation, and
forwarding-table reconciliation.`,
		RunE: run,
	}

	root.Flags().StringVar(&name, "name", "", "this router's NodeId, e.g. r1 (required)")
	root.Flags().StringArrayVar(&links, "link", nil,
		"peer,peer_addr,prefix,cost,latency_ms,bandwidth_mbps,peer_port (repeatable)")
	root.Flags().StringArrayVar(&stubNetworks, "stub-network", nil, "prefix,cost (repeatable)")
	root.Flags().StringVar(&bindAddr, "bind", "0.0.0.0", "local IPv4 address to bind both endpoints on")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", ":9100", "address to serve Prometheus metrics on")
	_ = root.MarkFlagRequired("name")

	if err := root.Execute(); err != nil {
		logger.Errorf("%v", err)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	parsedLinks, err := parseLinks(links)
	if err != nil {
		return err
	}
	parsedStubs, err := parseStubNetworks(stubNetworks)
	if err != nil {
		return err
	}

	bindIP := net.ParseIP(bindAddr)
	if bindIP == nil {
		return fmt.Errorf("intentd: invalid --bind address %q", bindAddr)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	go serveMetrics(metricsAddr)

	node, err := daemon.New(daemon.Config{
		Self:    topology.NodeId(name),
		Links:   parsedLinks,
		Stubs:   parsedStubs,
		BindIP:  bindIP,
		Metrics: m,
	})
	if err != nil {
		return err
	}
	defer node.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Infof("intentd %s starting: %d link(s), %d stub network(s)", name, len(parsedLinks), len(parsedStubs))
	node.Run(ctx)
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warnf("metrics server stopped: %v", err)
	}
}

// parseLinks parses repeated --link flags, each a comma-joined group of
// 7 positional fields, the idiomatic Go rendering of
// original_source/router_script.py's argparse(nargs=7, action='append')
// (spec.md §6).
func parseLinks(raw []string) ([]topology.LocalLink, error) {
	out := make([]topology.LocalLink, 0, len(raw))
	for _, entry := range raw {
		fields := strings.Split(entry, ",")
		if len(fields) != 7 {
			return nil, fmt.Errorf("intentd: --link %q: expected 7 comma-separated fields, got %d", entry, len(fields))
		}

		cost, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("intentd: --link %q: bad cost: %w", entry, err)
		}
		latency, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("intentd: --link %q: bad latency: %w", entry, err)
		}
		bandwidth, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("intentd: --link %q: bad bandwidth: %w", entry, err)
		}
		port, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, fmt.Errorf("intentd: --link %q: bad peer_port: %w", entry, err)
		}

		out = append(out, topology.LocalLink{
			Peer:     topology.NodeId(fields[0]),
			PeerAddr: topology.TransportAddr(fields[1]),
			Prefix:   topology.Prefix(fields[2]),
			PeerPort: port,
			Metrics: topology.LinkMetrics{
				Cost:      cost,
				Latency:   latency,
				Bandwidth: bandwidth,
				// Every configured link starts up (mirrors
				// add_link_info's "up": True); it is cleared by a send
				// failure or staleness purge, not by waiting for the
				// peer to speak first.
				Up: true,
			},
		})
	}
	return out, nil
}

// parseStubNetworks parses repeated --stub-network flags, each
// "prefix,cost" (spec.md §6).
func parseStubNetworks(raw []string) ([]topology.StubNetwork, error) {
	out := make([]topology.StubNetwork, 0, len(raw))
	for _, entry := range raw {
		fields := strings.Split(entry, ",")
		if len(fields) != 2 {
			return nil, fmt.Errorf("intentd: --stub-network %q: expected 2 comma-separated fields, got %d", entry, len(fields))
		}
		cost, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("intentd: --stub-network %q: bad cost: %w", entry, err)
		}
		out = append(out, topology.StubNetwork{Prefix: topology.Prefix(fields[0]), Cost: cost})
	}
	return out, nil
}
