package dashboard

import (
	"go.uber.org/fx"

	"github.com/pgdesk/pgdesk/internal/dashboard/repository"
	"github.com/pgdesk/pgdesk/internal/dashboard/service"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
