package server

import "google.golang.org/grpc"

// Registrar attaches one service implementation to a gRPC server.
// Services take their dependencies from the AppContext they were built with.
type Registrar interface {
	Register(s grpc.ServiceRegistrar)
}
