package migration

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	complaintdomain "github.com/pgdesk/pgdesk/internal/complaint/domain"
	"github.com/pgdesk/pgdesk/internal/config"
	meterdomain "github.com/pgdesk/pgdesk/internal/meter/domain"
	paymentdomain "github.com/pgdesk/pgdesk/internal/payment/domain"
	rentdomain "github.com/pgdesk/pgdesk/internal/rent/domain"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	"github.com/pgdesk/pgdesk/internal/seed"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are development conveniences; gorm derives
			// their schema from the models.
			if err := conn.AutoMigrate(
				&seed.Owner{},
				&roomdomain.Room{},
				&roomdomain.EditHistory{},
				&tenantdomain.Tenant{},
				&paymentdomain.Payment{},
				&rentdomain.RentRecord{},
				&meterdomain.Meter{},
				&meterdomain.Reading{},
				&complaintdomain.Complaint{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultOwnerID != 0 {
			return seed.EnsureDefaultOwnerWithID(conn, snowflake.ID(cfg.DefaultOwnerID))
		}
		return seed.EnsureDefaultOwner(conn)
	}),
)
