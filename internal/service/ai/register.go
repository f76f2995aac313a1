package ai

import (
	"google.golang.org/grpc"

	aiv1 "github.com/oggyb/sportly/internal/api/ai"
	"github.com/oggyb/sportly/internal/app"
	"github.com/oggyb/sportly/internal/provider"
	"github.com/oggyb/sportly/internal/quota"
)

// Registrar ties the AI service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
	ledger *quota.Ledger
	gen    provider.Generator
}

// NewRegistrar creates a new Registrar for the AI service
func NewRegistrar(appCtx *app.AppContext, ledger *quota.Ledger, gen provider.Generator) *Registrar {
	return &Registrar{appCtx: appCtx, ledger: ledger, gen: gen}
}

// Register attaches the AI service implementation to the gRPC server
func (r *Registrar) Register(s grpc.ServiceRegistrar) {
	aiv1.RegisterAIServiceServer(s, NewAIService(r.appCtx, r.ledger, r.gen))
}
