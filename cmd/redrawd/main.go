// Copyright 2025 The redrawd Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the redrawd front-end core.

redrawd decodes Neovim's UI protocol, dispatches each redraw call to a sink
and folds the batch into one repaint instruction. The bundled sink is an
in-memory screen, so the binary is mostly useful to drive and inspect the
dispatcher.

# Usage

Serve msgpack-rpc on stdin and stdout, as a UI process spawned by a host:

	redrawd

Spawn Neovim and attach to it:

	redrawd -embed

Replay a captured msgpack-rpc stream and print the resulting screen:

	redrawd -replay session.bin
	nvim --embed < keys | redrawd -replay -

Type redraw events by hand:

	redrawd -c
	> resize [20, 4]
	> put ["h"]
	> :render

# Configuration

Settings live in a TOML file, created with defaults on first run:

	[ui]
	width = 80
	height = 24
	ext_popupmenu = true

	[nvim]
	path = "nvim"

	[clipboard]
	osc52 = false

	[log]
	level = "warn"

# Command Line Flags

	-config string
	    Path to a config file
	-d  Enable debug logging
	-c  Interactive prompt instead of the server
	-embed
	    Spawn Neovim as a child process
	-replay string
	    Replay a msgpack-rpc capture ("-" for stdin)
	-version
	    Show the version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/redrawd/internal/cli"
	"github.com/bastiangx/redrawd/internal/embed"
	"github.com/bastiangx/redrawd/internal/logger"
	"github.com/bastiangx/redrawd/pkg/clipboard"
	"github.com/bastiangx/redrawd/pkg/config"
	"github.com/bastiangx/redrawd/pkg/gui"
	"github.com/bastiangx/redrawd/pkg/redraw"
	"github.com/bastiangx/redrawd/pkg/screen"
	"github.com/bastiangx/redrawd/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "redrawd"
	gh      = "https://github.com/bastiangx/redrawd"
)

// sigHandler cancels the run on interrupt and exits if that does not
// stop it.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(1)
	}()
}

// main wires the packages together for the selected mode and owns no logic
// of its own.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	configPath := flag.String("config", "", "Path to a custom config file")
	cliMode := flag.Bool("c", false, "Run the interactive prompt -- useful for testing sinks")
	embedMode := flag.Bool("embed", false, "Spawn nvim and attach to it")
	replay := flag.String("replay", "", "Replay a captured msgpack-rpc stream (- for stdin) and print the screen")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logOpts := logger.Options{
		Level:     cfg.Log.ParseLevel(),
		Timestamp: cfg.Log.Timestamp,
		Caller:    cfg.Log.Caller,
	}
	if *debugMode {
		logOpts.Level = log.DebugLevel
		logOpts.Timestamp = true
	}
	logger.Setup(logOpts)
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedPath))

	var clipOpts []clipboard.Option
	if cfg.Clipboard.OSC52 {
		clipOpts = append(clipOpts, clipboard.WithOSC52(os.Stderr))
	}
	scr := screen.New(uint64(max(cfg.UI.Width, 1)), uint64(max(cfg.UI.Height, 1)),
		screen.WithClipboard(clipboard.NewStore(clipOpts...)),
		screen.WithRedrawHook(func(r redraw.Repaint) { log.Debug("batch done", "repaint", r) }),
	)
	scr.SetFont(cfg.UI.Font)

	shared := gui.NewShared[server.UI](scr)
	dispatcher := redraw.NewDispatcher(redraw.WithLogger(logger.New("redraw")))
	router := server.NewRouter(shared, dispatcher, logger.New("gui"))

	switch {
	case *cliMode:
		log.Debug("Input info:", "size", fmt.Sprintf("%dx%d", cfg.UI.Width, cfg.UI.Height))
		h := cli.NewInputHandler(router, scr, dispatcher.Table(), os.Stdin, os.Stdout)
		if err := h.Start(ctx); err != nil {
			log.Fatalf("CLI error: %v", err)
		}

	case *replay != "":
		if err := runReplay(ctx, *replay, router); err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		fmt.Println(scr.Render())

	case *embedMode:
		opts := embed.Options{
			Path:      cfg.Nvim.Path,
			Args:      cfg.Nvim.Args,
			Width:     cfg.UI.Width,
			Height:    cfg.UI.Height,
			UIOptions: cfg.UI.UIOptions(),
		}
		sess, err := embed.Start(ctx, opts, router, logger.New("nvim"))
		if err != nil {
			log.Fatalf("Failed to start nvim: %v", err)
		}
		shared.With(func(server.UI) { scr.Attach(sess.Nvim()) })
		if err := sess.Run(ctx, opts); err != nil {
			log.Fatalf("nvim session: %v", err)
		}

	default:
		log.Debug("spawning msgpack-rpc server")
		if err := server.NewServer(router, server.WithLogger(logger.New("rpc"))).Serve(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}

func runReplay(ctx context.Context, path string, h server.Handler) error {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	srv := server.NewServer(h, server.WithIO(in, io.Discard), server.WithLogger(logger.New("replay")))
	if err := srv.Serve(ctx); err != nil {
		return err
	}
	log.Debugf("Replayed %d messages", srv.Messages())
	return nil
}

// printVersion shows the banner in the styled log output.
func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{})
	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ "+AppName+" ] Neovim UI protocol dispatcher")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}
