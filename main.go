package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumipallolabs/diskscope/internal/core"
	"github.com/lumipallolabs/diskscope/internal/scanner"
	"github.com/lumipallolabs/diskscope/internal/ui"
)

func main() {
	depth := flag.Int("depth", 2, "scan depth, 1-4")
	full := flag.Bool("full", false, "comprehensive scan: accurate sizes, slower")
	hidden := flag.Bool("hidden", false, "include hidden entries")
	drives := flag.Bool("drives", false, "list mounted volumes and exit")
	plain := flag.Bool("plain", false, "plain output without the progress UI")
	flag.Parse()

	// Enable CPU profiling if CPUPROFILE env var is set
	if cpuProfile := os.Getenv("CPUPROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	ctrl := core.NewController()

	if *drives {
		list, err := ctrl.DriveInfo()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(ui.RenderDrives(list))
		return
	}

	path := flag.Arg(0)
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		path = cwd
	}

	// Depth is a caller-side constraint; the engine itself only treats
	// depth <= 0 specially
	if *depth < 1 {
		*depth = 1
	}
	if *depth > 4 {
		*depth = 4
	}

	cfg := ui.Config{
		Path:  path,
		Depth: *depth,
		Options: scanner.ScanOptions{
			FastMode:   !*full,
			SkipHidden: !*hidden,
		},
	}

	if *plain {
		runPlain(ctrl, cfg)
		return
	}

	p := tea.NewProgram(ui.NewApp(ctrl, cfg))
	m, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app := m.(ui.App)
	if app.Err() != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", app.Err())
		os.Exit(1)
	}
	if app.Root() != nil {
		fmt.Print(ui.RenderTree(app.Root()))
	}
}

// runPlain scans without the TUI, writing progress to stderr.
func runPlain(ctrl *core.Controller, cfg ui.Config) {
	go func() {
		for e := range ctrl.Events() {
			if pe, ok := e.(core.ScanProgressEvent); ok {
				fmt.Fprintf(os.Stderr, "\r%6.1f%%  %d items", pe.Progress.Percent, pe.Progress.ProcessedItems)
			}
		}
	}()

	root, err := ctrl.ScanDirectory(context.Background(), cfg.Path, cfg.Depth, cfg.Options)
	fmt.Fprint(os.Stderr, "\r\033[K")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(ui.RenderTree(root))
}
