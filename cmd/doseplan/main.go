package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/doseplan/internal/clock"
	"github.com/smallbiznis/doseplan/internal/config"
	"github.com/smallbiznis/doseplan/internal/migration"
	"github.com/smallbiznis/doseplan/internal/observability"
	"github.com/smallbiznis/doseplan/internal/server"
	"github.com/smallbiznis/doseplan/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema and baseline data before the server takes traffic.
		migration.Module,

		// HTTP surface plus the domain modules it serves.
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
