package rpc

import (
	"errors"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/wfunc/snake/logger"
)

// ServiceName is the name reported by the health service besides "".
const ServiceName = "snake.Game"

// HealthServer serves grpc.health.v1.Health for load balancers and probes.
type HealthServer struct {
	listener net.Listener
	grpc     *grpc.Server
	health   *health.Server
}

func NewHealthServer(addr string) (*HealthServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{listener: listener, grpc: gs, health: hs}, nil
}

func (h *HealthServer) Addr() string {
	return h.listener.Addr().String()
}

// SetServing flips the status of both the overall and the game service.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}

// Start blocks until Stop.
func (h *HealthServer) Start() {
	logger.Log.Infof("gRPC health server listening on %s", h.Addr())
	if err := h.grpc.Serve(h.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		logger.Log.Errorf("gRPC health server error: %v", err)
	}
}

func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
}
