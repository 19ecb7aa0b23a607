package migration

import (
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	"github.com/smallbiznis/doseplan/internal/config"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	"github.com/smallbiznis/doseplan/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
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
			// sqlite and mysql rely on the model definitions directly.
			if err := conn.AutoMigrate(
				&medicationdomain.Medication{},
				&pharmacydomain.Pharmacy{},
				&pharmacydomain.ShippingRule{},
				&catalogdomain.Product{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureBaseline(conn)
	}),
)
