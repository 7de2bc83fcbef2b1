package complaint

import (
	"go.uber.org/fx"

	"github.com/pgdesk/pgdesk/internal/complaint/repository"
	"github.com/pgdesk/pgdesk/internal/complaint/service"
)

var Module = fx.Module("complaint.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
