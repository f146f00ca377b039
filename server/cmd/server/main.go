package main

import (
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/beamarena/assets/arenas"
	"github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/server/core"
	"github.com/automoto/beamarena/shared/arenadata"
	"github.com/automoto/beamarena/shared/netconfig"
	"github.com/automoto/beamarena/shared/protocol"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config override")
	port := flag.Uint("port", netconfig.DefaultPort, "Server port")
	tickRate := flag.Int("tickrate", netconfig.DefaultTickRate, "Snapshot rate (updates per second)")
	name := flag.String("name", netconfig.DefaultName, "Server display name")
	version := flag.String("version", netconfig.ProtocolVersion, "Required client version (empty = accept any)")
	arenaDir := flag.String("arenas", "", "Directory to load arena maps from (default: built-in)")
	arenaFile := flag.String("arena", arenas.Default, "Arena map file")
	flag.Parse()

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Printf("[server] config override ignored: %v", err)
		}
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	var fsys fs.FS = arenas.FS
	if *arenaDir != "" {
		fsys = os.DirFS(*arenaDir)
	}
	arena, err := arenadata.Load(fsys, *arenaFile)
	if err != nil {
		log.Printf("[server] arena unavailable, spawning at fallback: %v", err)
	}

	fb := config.Arena.Fallback
	server := core.NewServer(core.Options{
		Name:     *name,
		Version:  *version,
		TickRate: *tickRate,
		Arena:    arena,
		Fallback: arenadata.Point{X: fb.X, Y: fb.Y, Z: fb.Z},
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting %q on port %d (tick rate: %d/s, version: %s)",
		*name, *port, *tickRate, *version)
	if err := server.Start(*port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
