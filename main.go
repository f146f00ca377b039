package main

import (
	"flag"
	"image"
	"log"

	"github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/fonts"
	"github.com/automoto/beamarena/prefs"
	"github.com/automoto/beamarena/scenes"
	"github.com/automoto/beamarena/shared/netconfig"
	"github.com/automoto/beamarena/shared/protocol"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
	quit   bool
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

// Quit ends the game after the current frame.
func (g *Game) Quit() {
	g.quit = true
}

func NewGame(store *prefs.Store) *Game {
	g := &Game{
		bounds: image.Rectangle{},
	}
	g.scene = scenes.NewConnectScene(g, store, "")
	return g
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	configPath := flag.String("config", "", "optional YAML file overriding the built-in settings")
	server := flag.String("server", "", "server address to pre-fill on the connect screen")
	flag.Parse()

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Printf("Warning: using default settings: %v", err)
		}
	}
	if *server != "" {
		config.Network.ServerAddress = *server
	}

	// Register network components for client-side deserialization
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register network components: %v", err)
	}

	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	store, err := prefs.Open("beamarena")
	if err != nil {
		// The name just won't be remembered between runs.
		log.Printf("Warning: could not open preferences: %v", err)
	}

	ebiten.SetWindowSize(config.C.Width*2, config.C.Height*2)
	ebiten.SetWindowTitle(netconfig.DefaultName)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)

	if err := ebiten.RunGame(NewGame(store)); err != nil {
		log.Fatal(err)
	}
}
