package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/beamarena/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

var ErrNotConnected = errors.New("not connected")

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateLeaving
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateLeaving:
		return "leaving"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

// Welcome is what the server told us when it accepted the join.
type Welcome struct {
	ServerName string
	TickRate   int
	Arena      string
	SpawnX     float64
	SpawnY     float64
	SpawnZ     float64
}

// Client manages a WebSocket connection to the relay server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
//
// It is the session collaborator of the local avatar: it decides which
// network ids are local and performs the leave when the avatar runs out of
// health.
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	networkID esync.NetworkId
	joined    bool
	welcome   Welcome
	conn      *websocket.Conn

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins
}

func NewClient() *Client {
	return &Client{
		state:      StateDisconnected,
		snapshotCh: make(chan esync.WorldSnapshot, 1),
	}
}

// Connect dials the server in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.joined = false
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.SendMessage(messages.JoinRequest{
			Version:    version,
			PlayerName: playerName,
		})
		if err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: networkID=%d server=%s tickRate=%d arena=%s",
			msg.NetworkID, msg.ServerName, msg.TickRate, msg.Arena)
		c.acceptJoin(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		c.pushSnapshot(snapshot)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) acceptJoin(msg messages.JoinAccepted) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkID = msg.NetworkID
	c.joined = true
	c.welcome = Welcome{
		ServerName: msg.ServerName,
		TickRate:   msg.TickRate,
		Arena:      msg.Arena,
		SpawnX:     msg.SpawnX,
		SpawnY:     msg.SpawnY,
		SpawnZ:     msg.SpawnZ,
	}
	c.state = StateJoinedGame
}

func (c *Client) pushSnapshot(snapshot esync.WorldSnapshot) {
	select { // drain stale, push latest
	case <-c.snapshotCh:
	default:
	}
	c.snapshotCh <- snapshot
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.joined = false
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

// IsLocal reports whether id is the avatar this client joined as. It is
// false for every id until the join is accepted.
func (c *Client) IsLocal(id uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.joined && uint(c.networkID) == id
}

// LeaveRoom asks the server to remove our avatar. Calling it again while
// the leave is in flight does nothing.
func (c *Client) LeaveRoom() {
	c.mu.Lock()
	if c.state != StateJoinedGame {
		c.mu.Unlock()
		return
	}
	c.state = StateLeaving
	c.mu.Unlock()

	log.Println("[client] leaving the arena")
	if err := c.SendMessage(messages.LeaveRequest{}); err != nil {
		log.Printf("[client] leave request failed, dropping connection: %v", err)
		c.Disconnect()
	}
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

func (c *Client) Welcome() Welcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.welcome
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.welcome.TickRate
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}
