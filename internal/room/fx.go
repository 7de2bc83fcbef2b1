package room

import (
	"go.uber.org/fx"

	"github.com/pgdesk/pgdesk/internal/room/repository"
	"github.com/pgdesk/pgdesk/internal/room/service"
)

var Module = fx.Module("room.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
