package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/csi-fh/arcafeed"
	"github.com/csi-fh/arcafeed/admin"
	"github.com/csi-fh/arcafeed/arbiter"
	"github.com/csi-fh/arcafeed/capture"
	"github.com/csi-fh/arcafeed/feed"
	"github.com/csi-fh/arcafeed/pub"
)

// Version is reported by -v. The admin GETVER_RESP reports admin.Version.
const Version = "1.0.0"

// defaultHome is used when FH_HOME is unset (§6 "Environment").
const defaultHome = "/opt/csi/fh"

// Config is the CLI-populated, in-process configuration for one feed
// handler run. Loading a config *file* is out of scope (§1, §6); Config is
// built here directly from flags, the way an embedder would build it in
// process.
type Config struct {
	ProcessName string
	Debug       bool
	Standalone  bool
	Home        string

	LineName      string
	PrimaryAddr   string
	SecondaryAddr string
	Interface     string
	FastMode      bool
	LineID        arcafeed.LineID

	AdminAddr string

	CapturePath string
	CaptureZstd bool
}

func (c *Config) validate() error {
	if c.LineName == "" {
		return fmt.Errorf("missing required --line")
	}
	if c.PrimaryAddr == "" || c.SecondaryAddr == "" {
		return fmt.Errorf("missing required --primary/--secondary multicast addresses")
	}
	if !c.Standalone && c.AdminAddr == "" {
		return fmt.Errorf("missing --admin (or pass --standalone to skip the management channel)")
	}
	return nil
}

func main() {
	var config Config
	var showHelp, showVersion bool
	var lineIDArg uint32

	pflag.BoolVarP(&showHelp, "help", "h", false, "Show usage")
	pflag.BoolVarP(&config.Debug, "debug", "d", false, "Console logging, verbosity up")
	pflag.BoolVarP(&config.Standalone, "standalone", "s", false, "Standalone mode (skip admin connection)")
	pflag.StringVarP(&config.ProcessName, "process", "p", "", "Named process config to run")
	pflag.BoolVarP(&showVersion, "version", "v", false, "Print version and exit")

	pflag.StringVar(&config.LineName, "line", "", "Line name, e.g. ARCA_LISTED_AC")
	pflag.StringVar(&config.PrimaryAddr, "primary", "", "Primary multicast group, host:port")
	pflag.StringVar(&config.SecondaryAddr, "secondary", "", "Secondary multicast group, host:port")
	pflag.StringVar(&config.Interface, "iface", "", "Network interface to join multicast on (default: system choice)")
	pflag.BoolVar(&config.FastMode, "fast", false, "Line carries FAST-compacted messages")
	pflag.Uint32Var(&lineIDArg, "line-id", 0, "Line-id quadrant (0-3) tagging this line's status words")
	pflag.StringVar(&config.AdminAddr, "admin", "", "Admin RPC listen address, e.g. 127.0.0.1:9001")
	pflag.StringVar(&config.CapturePath, "capture", "", "Optional raw-packet capture file (.zst for compressed)")
	pflag.BoolVar(&config.CaptureZstd, "capture-zstd", false, "Force zstd compression on --capture regardless of extension")

	pflag.Parse()

	if showHelp {
		fmt.Fprintf(os.Stdout, "usage: %s -p <process> --line <name> --primary <addr> --secondary <addr> [opts]\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", Version)
		os.Exit(0)
	}

	config.Home = os.Getenv("FH_HOME")
	if config.Home == "" {
		config.Home = defaultHome
	}
	config.LineID = arcafeed.LineID(lineIDArg << 30)

	if err := config.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run(config Config) error {
	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var iface *net.Interface
	if config.Interface != "" {
		found, err := net.InterfaceByName(config.Interface)
		if err != nil {
			return fmt.Errorf("failed to resolve --iface %q: %w", config.Interface, err)
		}
		iface = found
	}

	var recorder *capture.Recorder
	if config.CapturePath != "" {
		var err error
		recorder, err = capture.NewRecorder(config.CapturePath, config.CaptureZstd)
		if err != nil {
			return fmt.Errorf("failed to open capture file: %w", err)
		}
		defer recorder.Close()
	}

	facade := pub.New(pub.NullHooks{})
	group := feed.NewFeedGroup(config.LineName, config.LineID, config.FastMode, facade, logger)

	receiver := feed.NewReceiver(logger)
	if err := receiver.AddLine(group, iface, config.PrimaryAddr, config.SecondaryAddr); err != nil {
		return fmt.Errorf("failed to join multicast groups: %w", err)
	}
	defer receiver.Close()
	if recorder != nil {
		receiver.SetCaptureHook(func(raw []byte) {
			if err := recorder.Write(raw); err != nil {
				logger.Error("[main]", "msg", "capture write failed", "err", err)
			}
		})
	}

	registry := admin.NewRegistry(receiver.Stop)
	registry.Register(group)

	var adminServer *admin.Server
	if !config.Standalone {
		var err error
		adminServer, err = admin.Listen(config.AdminAddr, registry)
		if err != nil {
			return fmt.Errorf("failed to start admin server: %w", err)
		}
		defer adminServer.Close()
		go func() {
			if err := adminServer.Serve(); err != nil {
				logger.Error("[main]", "err", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("[main]", "msg", "signal received, stopping")
		receiver.Stop()
	}()

	logger.Info("[main]", "line", config.LineName, "primary", config.PrimaryAddr, "secondary", config.SecondaryAddr, "fast_mode", config.FastMode)
	runErr := receiver.Run()
	logFinalCounters(logger, group)
	return runErr
}

// logFinalCounters reports a human-readable summary of one line's lifetime
// counters on shutdown, the kind of operator-facing banner the CLI surface
// needs even though §1/§6 scope a full metrics/observability layer out.
func logFinalCounters(logger *slog.Logger, g *feed.FeedGroup) {
	p := g.Counters(arbiter.Primary)
	s := g.Counters(arbiter.Secondary)
	logger.Info("[main]", "msg", "shutdown summary",
		"line", g.Name,
		"primary_packets", humanize.Comma(int64(p.PacketsReceived)),
		"primary_bytes", humanize.Bytes(p.BytesReceived),
		"secondary_packets", humanize.Comma(int64(s.PacketsReceived)),
		"secondary_bytes", humanize.Bytes(s.BytesReceived),
	)
}
