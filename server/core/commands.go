package core

import (
	"log"

	"github.com/automoto/beamarena/shared/messages"
)

// command is a client message waiting for the loop goroutine.
type command interface {
	apply(s *Server)
}

type joinCommand struct {
	peer Peer
	req  messages.JoinRequest
}

func (c joinCommand) apply(s *Server) {
	if err := s.join(c.peer, c.req); err != nil {
		log.Printf("[server] join from %s rejected: %v", c.peer.Id(), err)
		if sendErr := c.peer.SendMessage(messages.JoinRejected{Reason: err.Error()}); sendErr != nil {
			log.Printf("[server] failed to send rejection to %s: %v", c.peer.Id(), sendErr)
		}
	}
}

type streamCommand struct {
	peer Peer
	upd  messages.StreamUpdate
}

func (c streamCommand) apply(s *Server) {
	s.stream(c.peer, c.upd)
}

type leaveCommand struct {
	peer Peer
}

func (c leaveCommand) apply(s *Server) {
	s.leave(c.peer)
}
