package pharmacy

import (
	"github.com/smallbiznis/doseplan/internal/pharmacy/repository"
	"github.com/smallbiznis/doseplan/internal/pharmacy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pharmacy.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
