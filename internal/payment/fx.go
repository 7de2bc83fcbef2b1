package payment

import (
	"go.uber.org/fx"

	"github.com/pgdesk/pgdesk/internal/payment/repository"
	"github.com/pgdesk/pgdesk/internal/payment/service"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
