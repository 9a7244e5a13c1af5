package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/trustcall/trustcall-directory-service/internal/config"
	"github.com/trustcall/trustcall-directory-service/internal/phone"
	"github.com/trustcall/trustcall-directory-service/internal/ratelimit"
	"github.com/trustcall/trustcall-directory-service/internal/service"
)

// GrpcServer wraps the gRPC server and its health service.
type GrpcServer struct {
	srv    *grpc.Server
	health *health.Server
	log    zerolog.Logger
}

// NewGrpcServer registers DirectoryService, the standard health service and reflection.
// The listener uses mutual TLS when the certificate paths are configured. A nil limiter
// disables per-requester throttling.
func NewGrpcServer(svc service.DirectoryService, limiter ratelimit.Limiter, cfg *config.Config, log zerolog.Logger) (*GrpcServer, error) {
	interceptors := []grpc.UnaryServerInterceptor{UnaryInterceptor(log)}
	if limiter != nil {
		interceptors = append(interceptors, RateLimitInterceptor(limiter, log))
	}
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(interceptors...)}
	if cfg.TLSEnabled() {
		creds, err := loadServerTLS(cfg.CertPath, cfg.KeyPath, cfg.CaPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(creds))
	} else {
		log.Warn().Msg("gRPC listener running without TLS")
	}

	srv := grpc.NewServer(opts...)
	RegisterDirectoryServer(srv, NewHandler(svc, phone.NewNormalizer(cfg.DefaultRegion), log))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &GrpcServer{srv: srv, health: hs, log: log}, nil
}

// Serve accepts connections on lis until Stop is called.
func (s *GrpcServer) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Start listens on port and serves until Stop is called.
func Start(s *GrpcServer, port string) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	if err := s.Serve(listener); err != nil {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	return nil
}

// Stop marks the service as not serving and drains in-flight calls.
func Stop(s *GrpcServer) {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func loadServerTLS(certPath, keyPath, caPath string) (credentials.TransportCredentials, error) {
	certificate, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}
	caCert, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to add CA certificate to pool")
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{certificate},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    caPool,
		MinVersion:   tls.VersionTLS12,
	}
	return credentials.NewTLS(tlsConfig), nil
}
