package tenant

import (
	"go.uber.org/fx"

	"github.com/pgdesk/pgdesk/internal/tenant/repository"
	"github.com/pgdesk/pgdesk/internal/tenant/service"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
