package rpc

import (
	"errors"
	"net"
	"net/rpc"

	"github.com/wfunc/snake/logger"
	"github.com/wfunc/snake/models"
	"github.com/wfunc/snake/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
	rpc      *rpc.Server
}

// NewServer listens on addr. Services are added with Register before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  listener.Addr().String(),
		rpc:      rpc.NewServer(),
	}, nil
}

func (s *Server) Addr() string {
	return s.address
}

func (s *Server) Register(service interface{}) error {
	return s.rpc.Register(service)
}

// Start begins listening for RPC requests. It blocks until Stop.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// GameService is the struct that exposes RPC methods.
type GameService struct {
	scores *services.ScoreService
}

func NewGameService(scores *services.ScoreService) *GameService {
	return &GameService{scores: scores}
}

type HighScoresArgs struct {
	Limit int
}

type HighScoresReply struct {
	Records []models.GameRecord
}

// GetHighScores follows the net/rpc signature: exported method, exported
// arguments, pointer reply, error return.
func (gs *GameService) GetHighScores(args *HighScoresArgs, reply *HighScoresReply) error {
	records, err := gs.scores.HighScores(args.Limit)
	if err != nil {
		return err
	}
	reply.Records = records
	return nil
}
