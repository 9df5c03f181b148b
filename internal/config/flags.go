package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-user device user name
//	-pc name of this PC
//	-state-dir identity store directory
//	-backend backend kind (file or sql)
//	-d backend database DSN
//	-f file backend data directory
//	-device-image device image file
//	-bridge pimbridge base URL
//	-request-timeout bridge request timeout (e.g., "10s")
//	-keepalive bridge keep-alive period (e.g., "30s")
//	-mode sync mode (hotsync, fullsync, palm-to-pc, pc-to-palm)
//	-policy conflict policy (palm-wins, pc-wins, duplicate, skip, ask-user, newest-wins)
//	-conduits comma separated conduit IDs
//	-detect-pc-changes detect PC-side edits by content hash
//	-sync-interval daemon sync period (e.g., "5m")
//	-watch-debounce backend watcher quiet period (e.g., "2s")
//	-a bridge listen address in format [host]:[port]
//	-daemon keep running with scheduled syncs
//	-reset clear sync state before running
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var userName, pcName string
	var stateDir, backendKind, databaseDSN, dataDir string
	var deviceImage, bridgeAddress string
	var requestTimeout, keepAlive time.Duration
	var mode, policy, conduits string
	var detectPCChanges bool
	var syncInterval, watchDebounce time.Duration
	var daemon, reset bool
	var jsonConfigPath string

	flag.StringVar(&userName, "user", "", "Device user name")
	flag.StringVar(&pcName, "pc", "", "Name of this PC")
	flag.StringVar(&stateDir, "state-dir", "", "Identity store directory")
	flag.StringVar(&backendKind, "backend", "", "Backend kind: file or sql")
	flag.StringVar(&databaseDSN, "d", "", "Backend database DSN")
	flag.StringVar(&dataDir, "f", "", "File backend data directory")
	flag.StringVar(&deviceImage, "device-image", "", "Device image file")
	flag.StringVar(&bridgeAddress, "bridge", "", "pimbridge base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Bridge request timeout (e.g., 10s)")
	flag.DurationVar(&keepAlive, "keepalive", 0, "Bridge keep-alive period (e.g., 30s)")
	flag.StringVar(&mode, "mode", "", "Sync mode: hotsync, fullsync, palm-to-pc, pc-to-palm")
	flag.StringVar(&policy, "policy", "", "Conflict policy: palm-wins, pc-wins, duplicate, skip, ask-user, newest-wins")
	flag.StringVar(&conduits, "conduits", "", "Comma separated conduit IDs")
	flag.BoolVar(&detectPCChanges, "detect-pc-changes", false, "Detect PC-side edits by content hash")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Daemon sync period (e.g., 5m)")
	flag.DurationVar(&watchDebounce, "watch-debounce", 0, "Backend watcher quiet period (e.g., 2s)")
	flag.Var(&serverAddress, "a", "Bridge listen address host:port")
	flag.BoolVar(&daemon, "daemon", false, "Keep running with scheduled syncs")
	flag.BoolVar(&reset, "reset", false, "Clear sync state before running")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Profile: Profile{
			UserName: userName,
			PCName:   pcName,
		},
		Storage: Storage{
			StateDir: stateDir,
			Backend: Backend{
				Kind:    backendKind,
				DSN:     databaseDSN,
				DataDir: dataDir,
			},
		},
		Device: Device{
			ImagePath:         deviceImage,
			BridgeAddress:     bridgeAddress,
			RequestTimeout:    requestTimeout,
			KeepAliveInterval: keepAlive,
		},
		Sync: Sync{
			Mode:            mode,
			ConflictPolicy:  policy,
			Conduits:        splitList(conduits),
			DetectPCChanges: detectPCChanges,
		},
		Workers: Workers{
			SyncInterval:  syncInterval,
			WatchDebounce: watchDebounce,
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		Run: Run{
			Daemon: daemon,
			Reset:  reset,
		},
		JSONFilePath: jsonConfigPath,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String returns host:port, or "" for a zero address.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses "host:port". The host must be "localhost", an IP address, or
// empty to listen on every interface.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("need address in a form `host:port`: %w", err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", rawPort, err)
	}
	if port < 1 || port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("incorrect IP-address provided: %q", host)
	}

	a.Host = host
	a.Port = port
	return nil
}
