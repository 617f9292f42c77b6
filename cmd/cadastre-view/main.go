// Command cadastre-view opens an Evil Cadastre world in an interactive viewer,
// either in the terminal or in a window.
//
//	cadastre-view [-bbg value] [-backend terminal|window] [-keymap default|legacy] [-catalog file] [-log file] <world>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chosenoffset.com/cadastre/internal/render"
	ebitenrender "chosenoffset.com/cadastre/internal/render/ebiten"
	tcellrender "chosenoffset.com/cadastre/internal/render/tcell"
	"chosenoffset.com/cadastre/internal/ui/viewer"
	"chosenoffset.com/cadastre/internal/world/catalog"
	"chosenoffset.com/cadastre/internal/world/maploader"
)

const goodbye = "^C caught, goodbye"

func main() {
	bbg := flag.String("bbg", "", "use the blink attribute for bright backgrounds (terminal backend)")
	backend := flag.String("backend", "terminal", "display backend: terminal or window")
	keymap := flag.String("keymap", "default", "key bindings: default or legacy")
	catalogPath := flag.String("catalog", "", "entity catalog YAML file (default: built-in catalog)")
	logPath := flag.String("log", "", "write logs to this file while the terminal is in use")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <world>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	world, err := maploader.LoadWorld(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load world: %v", err)
	}
	c, err := catalog.Open(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	total := world.TotalSize()
	log.Printf("Loaded world: %dx%d tiles, %d entities", total.X, total.Y, world.Len())

	config := viewer.DefaultConfig()
	config.Keymap = *keymap
	v, err := viewer.New(world, c, config)
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}

	switch *backend {
	case "terminal":
		closeLog, err := redirectLog(*logPath)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer closeLog()
		err = runTerminal(ctx, v, tcellrender.Options{BlinkBrightBackground: *bbg})
		exit(err)
	case "window":
		log.Println("Starting window...")
		exit(runWindow(ctx, v))
	default:
		log.Fatalf("Unknown backend %q (want terminal or window)", *backend)
	}
}

// redirectLog sends log output to path, or discards it when path is empty.
func redirectLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// runTerminal runs the viewer on the terminal. The terminal is restored before
// it returns.
func runTerminal(ctx context.Context, v *viewer.Viewer, opts tcellrender.Options) error {
	s, err := tcellrender.New(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	err = v.Run(ctx, s)
	log.Printf("Viewer stopped: %v", err)
	return err
}

// runWindow runs the viewer against a window. Ebiten needs the main goroutine,
// so the viewer loop runs on its own.
func runWindow(ctx context.Context, v *viewer.Viewer) error {
	s := ebitenrender.New(ebitenrender.DefaultOptions())

	errc := make(chan error, 1)
	go func() {
		err := v.Run(ctx, s)
		s.Close()
		errc <- err
	}()

	if err := s.Run(ctx); err != nil {
		return err
	}
	return <-errc
}

// exitMessage returns what to print for the error that ended the viewer and
// the process exit code.
func exitMessage(err error) (string, int) {
	switch {
	case err == nil:
		return "", 0
	case errors.Is(err, render.ErrInterrupted), errors.Is(err, render.ErrClosed),
		errors.Is(err, context.Canceled):
		return goodbye, 0
	default:
		return fmt.Sprintf("Error: %v", err), 1
	}
}

func exit(err error) {
	msg, code := exitMessage(err)
	if code != 0 {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(code)
	}
	if msg != "" {
		fmt.Println(msg)
	}
}
