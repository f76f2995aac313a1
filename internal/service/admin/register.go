package admin

import (
	"google.golang.org/grpc"

	adminv1 "github.com/oggyb/sportly/internal/api/admin"
	"github.com/oggyb/sportly/internal/app"
	"github.com/oggyb/sportly/internal/quota"
)

// Registrar ties the Admin service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
	ledger *quota.Ledger
}

// NewRegistrar creates a new Registrar for the Admin service
func NewRegistrar(appCtx *app.AppContext, ledger *quota.Ledger) *Registrar {
	return &Registrar{appCtx: appCtx, ledger: ledger}
}

// Register attaches the Admin service implementation to the gRPC server
func (r *Registrar) Register(s grpc.ServiceRegistrar) {
	adminv1.RegisterAdminServiceServer(s, NewAdminService(r.appCtx, r.ledger))
}
