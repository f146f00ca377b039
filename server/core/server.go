package core

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/automoto/beamarena/shared/arenadata"
	"github.com/automoto/beamarena/shared/messages"
	"github.com/automoto/beamarena/shared/netcomponents"
	"github.com/automoto/beamarena/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

var (
	ErrVersionMismatch = errors.New("client version mismatch")
	ErrEmptyName       = errors.New("player name is required")
	ErrNameTooLong     = errors.New("player name is too long")
	ErrAlreadyJoined   = errors.New("already joined")
	ErrPayloadTooLarge = errors.New("stream payload too large")
)

// MaxPayload bounds a single replication payload. Avatar payloads are a few
// bytes; anything near this is a misbehaving client.
const MaxPayload = 1024

// Peer is the connection a message arrived on. *router.NetworkClient
// satisfies it.
type Peer interface {
	Id() string
	SendMessage(msg any) error
}

// Options configures a relay server.
type Options struct {
	Name     string
	Version  string // required client version, empty accepts any
	TickRate int
	Arena    *arenadata.Arena
	Fallback arenadata.Point
}

type player struct {
	peer    Peer
	entity  donburi.Entity
	netID   esync.NetworkId
	name    string
	lastSeq uint32
	seen    bool
}

// Server relays each owner's replication stream to every other client. It
// never decodes payloads; it only enforces that a client writes to its own
// avatar.
type Server struct {
	world     donburi.World
	loop      *GameLoop
	transport *transports.WsServerTransport
	opts      Options

	mu      sync.Mutex
	pending []command

	// Only touched from the loop goroutine.
	players map[string]*player
	joins   int
}

// NewServer creates a new relay server and installs the router callbacks.
func NewServer(opts Options) *Server {
	if opts.TickRate <= 0 {
		opts.TickRate = netconfig.DefaultTickRate
	}
	if opts.Name == "" {
		opts.Name = netconfig.DefaultName
	}

	world := donburi.NewWorld()
	s := &Server{
		world:   world,
		opts:    opts,
		players: make(map[string]*player),
	}
	s.loop = NewGameLoop(s, opts.TickRate)

	srvsync.UseEsync(world)
	s.setupRouterCallbacks()

	return s
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("[server] client %s disconnected with error: %v", client.Id(), err)
		} else {
			log.Printf("[server] client %s disconnected", client.Id())
		}
		s.enqueue(leaveCommand{peer: client})
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.enqueue(joinCommand{peer: client, req: req})
	})

	router.On(func(client *router.NetworkClient, upd messages.StreamUpdate) {
		s.enqueue(streamCommand{peer: client, upd: upd})
	})

	router.On(func(client *router.NetworkClient, _ messages.LeaveRequest) {
		s.enqueue(leaveCommand{peer: client})
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

func (s *Server) enqueue(c command) {
	s.mu.Lock()
	s.pending = append(s.pending, c)
	s.mu.Unlock()
}

// ProcessCommands applies queued client messages in arrival order. It runs
// on the loop goroutine, before the snapshot is taken.
func (s *Server) ProcessCommands() {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, c := range batch {
		c.apply(s)
	}
}

func (s *Server) join(peer Peer, req messages.JoinRequest) error {
	id := peer.Id()
	if _, ok := s.players[id]; ok {
		return ErrAlreadyJoined
	}
	if s.opts.Version != "" && req.Version != s.opts.Version {
		return fmt.Errorf("%w: server wants %q, client sent %q", ErrVersionMismatch, s.opts.Version, req.Version)
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > netconfig.MaxPlayerName {
		return ErrNameTooLong
	}

	spawn := s.opts.Arena.Spawn(s.joins, s.opts.Fallback)
	s.joins++

	entity := s.world.Create(
		netcomponents.NetAvatar,
		netcomponents.NetStream,
		netcomponents.NetTransform,
	)
	entry := s.world.Entry(entity)
	netcomponents.NetAvatar.SetValue(entry, netcomponents.NetAvatarData{Name: name})
	netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{
		X: spawn.X, Y: spawn.Y, Z: spawn.Z,
	})

	if err := srvsync.NetworkSync(s.world, &entity,
		srvsync.WithInterp(netcomponents.NetTransform),
		netcomponents.NetAvatar,
		netcomponents.NetStream,
	); err != nil {
		s.world.Remove(entity)
		return fmt.Errorf("network sync: %w", err)
	}

	nid := esync.GetNetworkId(entry)
	if nid == nil {
		s.world.Remove(entity)
		return fmt.Errorf("network sync: no network id assigned")
	}

	s.players[id] = &player{peer: peer, entity: entity, netID: *nid, name: name}
	log.Printf("[server] %q joined as %d (client %s)", name, *nid, id)

	err := peer.SendMessage(messages.JoinAccepted{
		NetworkID:  *nid,
		ServerName: s.opts.Name,
		TickRate:   s.opts.TickRate,
		Arena:      s.arenaName(),
		SpawnX:     spawn.X,
		SpawnY:     spawn.Y,
		SpawnZ:     spawn.Z,
	})
	if err != nil {
		// The disconnect callback will clean the avatar up.
		log.Printf("[server] failed to send join acceptance to %s: %v", id, err)
	}
	return nil
}

// stream stores an owner's upload on its own avatar. Uploads from clients
// that have not joined, and stale sequence numbers, are dropped.
func (s *Server) stream(peer Peer, upd messages.StreamUpdate) bool {
	p, ok := s.players[peer.Id()]
	if !ok || !s.world.Valid(p.entity) {
		return false
	}
	if p.seen && !seqNewer(upd.Seq, p.lastSeq) {
		return false
	}
	if len(upd.Payload) > MaxPayload {
		log.Printf("[server] %q: %v (%d bytes)", p.name, ErrPayloadTooLarge, len(upd.Payload))
		return false
	}
	p.lastSeq, p.seen = upd.Seq, true

	entry := s.world.Entry(p.entity)
	netcomponents.NetStream.SetValue(entry, netcomponents.NetStreamData{
		Payload: append([]byte(nil), upd.Payload...),
		Seq:     upd.Seq,
	})
	netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{
		X: upd.X, Y: upd.Y, Z: upd.Z, Yaw: upd.Yaw,
	})
	return true
}

// leave removes the peer's avatar. The next snapshot omits it, which is how
// every other client learns the avatar is gone.
func (s *Server) leave(peer Peer) bool {
	id := peer.Id()
	p, ok := s.players[id]
	if !ok {
		return false
	}
	delete(s.players, id)
	if s.world.Valid(p.entity) {
		s.world.Remove(p.entity)
	}
	log.Printf("[server] %q (%d) left", p.name, p.netID)
	return true
}

// seqNewer reports whether a is after b, allowing for wrap-around.
func seqNewer(a, b uint32) bool {
	return int32(a-b) > 0
}

func (s *Server) arenaName() string {
	if s.opts.Arena == nil {
		return ""
	}
	return s.opts.Arena.Name
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of joined players. Loop goroutine only.
func (s *Server) PlayerCount() int {
	return len(s.players)
}
