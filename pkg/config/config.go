// Package config loads the handful of options the two binaries accept,
// following the teacher's flat options-struct idiom (pkg/game.NewGameManagerOptions)
// rather than a generic config file format: spec.md §6 names exactly five
// recognized options plus compiled-in tick-rate constants that are not
// user configurable.
package config

import (
	"flag"
	"fmt"

	"github.com/tankarena/arena/pkg/worldconst"
)

// TickInterval is the fixed simulation tick period (spec.md §4: "driven
// externally, typical 60 Hz"), identical for server and client per the
// Non-goals' "variable tick rates across clients".
const TickInterval = 1.0 / 60.0

// ServerOptions are the flags recognized by cmd/server (spec.md §6).
type ServerOptions struct {
	Port int
}

// ClientOptions are the flags recognized by cmd/client (spec.md §6).
type ClientOptions struct {
	ServerIP       string
	ServerPort     int
	PlayerName     string
	PreferredColor string
}

// ParseServerOptions reads cmd/server's flags from args (typically os.Args[1:]).
func ParseServerOptions(args []string) (*ServerOptions, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	port := fs.Int("port", 9999, "UDP port to listen on")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &ServerOptions{Port: *port}, nil
}

// ParseClientOptions reads cmd/client's flags from args. PlayerName and
// PreferredColor are validated against the same rules the server enforces
// on Join, so a caller catches a bad name/color before ever sending it.
func ParseClientOptions(args []string) (*ClientOptions, error) {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	serverIP := fs.String("server_ip", "127.0.0.1", "Server IP address")
	serverPort := fs.Int("server_port", 9999, "Server UDP port")
	playerName := fs.String("player_name", "Player", "Display name")
	color := fs.String("preferred_color", "blue", "Preferred tank color")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !worldconst.ValidateName(*playerName) {
		return nil, fmt.Errorf("invalid player_name %q", *playerName)
	}
	if !worldconst.ValidateColor(*color) {
		return nil, fmt.Errorf("invalid preferred_color %q", *color)
	}

	return &ClientOptions{
		ServerIP: *serverIP, ServerPort: *serverPort,
		PlayerName: *playerName, PreferredColor: *color,
	}, nil
}

// Addr formats the server's dial target for pkg/server.Dial.
func (c *ClientOptions) Addr() string {
	return fmt.Sprintf("%s:%d", c.ServerIP, c.ServerPort)
}
