package rent

import (
	"go.uber.org/fx"

	"github.com/pgdesk/pgdesk/internal/rent/repository"
	"github.com/pgdesk/pgdesk/internal/rent/service"
)

var Module = fx.Module("rent.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
