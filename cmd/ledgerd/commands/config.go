package commands

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"
)

// CLIConfig is everything the run command needs, flattened into one
// struct the way the teacher's own CliConfig/CLIConfig does, so viper
// can unmarshal a config file, environment and flags into it in one
// pass.
type CLIConfig struct {
	DataDir         string        `mapstructure:"datadir"`
	BindAddr        string        `mapstructure:"listen"`
	AdvertiseAddr   string        `mapstructure:"advertise"`
	ServiceAddr     string        `mapstructure:"service-listen"`
	MaxPool         int           `mapstructure:"max-pool"`
	TCPTimeout      time.Duration `mapstructure:"timeout"`
	MaxProposalSize int           `mapstructure:"proposal-size"`
	ProposalDelay   time.Duration `mapstructure:"proposal-delay"`
	Store           bool          `mapstructure:"store"`
	LogLevel        string        `mapstructure:"log"`

	SignalRouter string `mapstructure:"signal-router"`
	SignalRealm  string `mapstructure:"signal-realm"`
	WebRTC       bool   `mapstructure:"webrtc"`
}

// NewDefaultCLIConfig mirrors the node package's own DefaultConfig,
// plus the handful of knobs that only make sense at the process level
// (where to listen for stats, where to keep the peer store).
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		DataDir:         defaultDataDir(),
		BindAddr:        "127.0.0.1:50051",
		ServiceAddr:     "127.0.0.1:8000",
		MaxPool:         2,
		TCPTimeout:      1 * time.Second,
		MaxProposalSize: 100,
		ProposalDelay:   200 * time.Millisecond,
		LogLevel:        "debug",
		SignalRealm:     "ledgerd",
	}
}

func defaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "LEDGERD")
	} else if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Roaming", "LEDGERD")
	}
	return filepath.Join(home, ".ledgerd")
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
