package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"vkolc-backend/internal/api/grpc/interceptor"
)

// ServiceName is the name the back-office API reports its health under.
const ServiceName = "vkolc.backoffice"

// HealthServer is the gRPC endpoint used by liveness probes.
type HealthServer struct {
	Server *grpc.Server
	health *health.Server
}

// NewHealthServer builds a gRPC server carrying the standard health service
// and reflection. Both the overall and the back-office status start SERVING.
func NewHealthServer() *HealthServer {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.NewLoggingInterceptor().Unary()),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)

	// Register reflection service for grpcurl
	reflection.Register(s)

	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &HealthServer{Server: s, health: h}
}

// Shutdown reports NOT_SERVING to watchers and stops the server once
// in-flight RPCs finish.
func (s *HealthServer) Shutdown() {
	s.health.Shutdown()
	s.Server.GracefulStop()
}
