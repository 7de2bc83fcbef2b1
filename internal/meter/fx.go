package meter

import (
	"go.uber.org/fx"

	"github.com/pgdesk/pgdesk/internal/meter/repository"
	"github.com/pgdesk/pgdesk/internal/meter/service"
)

var Module = fx.Module("meter.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
