package medication

import (
	"github.com/smallbiznis/doseplan/internal/medication/repository"
	"github.com/smallbiznis/doseplan/internal/medication/service"
	"go.uber.org/fx"
)

var Module = fx.Module("medication.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
