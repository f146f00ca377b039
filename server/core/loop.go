package core

import (
	"log"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
)

// GameLoop drains client commands and broadcasts a snapshot at a fixed rate.
type GameLoop struct {
	server   *Server
	tickRate int
	stopChan chan struct{}
	stopped  chan struct{}
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	defer close(g.stopped)
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("[server] loop started at %d ticks/second", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			log.Println("[server] loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// Stop ends the loop and waits for the current tick to finish.
func (g *GameLoop) Stop() {
	close(g.stopChan)
	<-g.stopped
}

func (g *GameLoop) tick() {
	g.server.ProcessCommands()

	if err := srvsync.DoSync(); err != nil {
		log.Printf("[server] sync error: %v", err)
	}
}
