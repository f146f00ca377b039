package scenes

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"sync"

	cfg "github.com/automoto/beamarena/config"
	"github.com/automoto/beamarena/network"
	"github.com/automoto/beamarena/prefs"
	"github.com/automoto/beamarena/shared/netconfig"
	"github.com/automoto/beamarena/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

// ConnectScene asks for a display name and a server, then joins.
type ConnectScene struct {
	sceneChanger SceneChanger
	store        *prefs.Store
	connectUI    *ui.ConnectUI
	netClient    *network.Client
	status       string
	once         sync.Once
}

// NewConnectScene opens the connect screen showing status, which is empty
// on first launch and explains why the player is back otherwise.
func NewConnectScene(sc SceneChanger, store *prefs.Store, status string) *ConnectScene {
	return &ConnectScene{sceneChanger: sc, store: store, status: status}
}

func (s *ConnectScene) Update() {
	s.once.Do(s.configure)

	s.connectUI.Update()

	if s.netClient == nil {
		return
	}

	switch s.netClient.State() {
	case network.StateJoinedGame:
		s.connectUI.SetStatus("Joined! Loading arena...")
		client := s.netClient
		s.netClient = nil
		s.sceneChanger.ChangeScene(NewArenaScene(s.sceneChanger, s.store, client))

	case network.StateError:
		errMsg := "Connection failed"
		if err := s.netClient.LastError(); err != nil {
			errMsg = err.Error()
		}
		s.connectUI.SetStatus(errMsg)
		s.connectUI.SetConnecting(false)
		s.netClient.Disconnect()
		s.netClient = nil

	case network.StateConnecting:
		s.connectUI.SetStatus("Connecting...")

	case network.StateConnected:
		s.connectUI.SetStatus("Connected, joining arena...")

	case network.StateDisconnected:
		s.connectUI.SetStatus("Disconnected")
		s.connectUI.SetConnecting(false)
		s.netClient = nil
	}
}

func (s *ConnectScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	if s.connectUI == nil {
		return
	}

	s.connectUI.UI.Draw(screen)
}

func (s *ConnectScene) configure() {
	s.connectUI = ui.NewConnectUI(
		s.store.PlayerName(),
		cfg.Network.ServerAddress,
		s.onConnect,
		s.sceneChanger.Quit,
	)
	s.connectUI.SetStatus(s.status)
}

func (s *ConnectScene) onConnect(name, address string) {
	if err := s.store.SetPlayerName(name); err != nil {
		switch {
		case errors.Is(err, prefs.ErrEmptyName):
			s.connectUI.SetStatus("Enter a name first")
			return
		case errors.Is(err, prefs.ErrNameTooLong):
			s.connectUI.SetStatus(fmt.Sprintf("Name is longer than %d characters", netconfig.MaxPlayerName))
			return
		}
		// Not fatal: the name is still used for this session.
		log.Printf("[connect] %v", err)
	}

	if s.netClient != nil {
		s.netClient.Disconnect()
	}

	s.connectUI.SetStatus("Connecting...")
	s.connectUI.SetConnecting(true)

	s.netClient = network.NewClient()
	s.netClient.Connect(address, netconfig.ProtocolVersion, name)
}
