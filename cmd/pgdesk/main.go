package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/pgdesk/pgdesk/internal/clock"
	"github.com/pgdesk/pgdesk/internal/migration"
	"github.com/pgdesk/pgdesk/internal/observability"
	"github.com/pgdesk/pgdesk/internal/server"
	"github.com/pgdesk/pgdesk/pkg/db"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
