package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          catalogdomain.Repository
	PharmacySvc   pharmacydomain.Service
	MedicationSvc medicationdomain.Service
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          catalogdomain.Repository
	pharmacySvc   pharmacydomain.Service
	medicationSvc medicationdomain.Service
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("catalog.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		pharmacySvc:   p.PharmacySvc,
		medicationSvc: p.MedicationSvc,
	}
}

func (s *Service) Create(ctx context.Context, req catalogdomain.CreateRequest) (*catalogdomain.Product, error) {
	pharmacyID, err := snowflake.ParseString(strings.TrimSpace(req.PharmacyID))
	if err != nil {
		return nil, catalogdomain.ErrInvalidPharmacy
	}

	medication, err := s.medicationSvc.GetByCode(ctx, req.MedicationCode)
	if err != nil {
		return nil, catalogdomain.ErrInvalidMedication
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	entity := &catalogdomain.Product{
		ID:              s.genID.Generate(),
		PharmacyID:      pharmacyID,
		MedicationCode:  medication.Code,
		Name:            strings.TrimSpace(req.Name),
		Concentration:   req.Concentration,
		FillVolume:      req.FillVolume,
		UnitCost:        req.UnitCost,
		UnitRetailPrice: req.UnitRetailPrice,
		Active:          active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Metadata != nil {
		entity.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := catalogdomain.Validate(entity); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*catalogdomain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, catalogdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, catalogdomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context, medicationCode string) ([]catalogdomain.Item, error) {
	medication, err := s.medicationSvc.GetByCode(ctx, medicationCode)
	if err != nil {
		return nil, catalogdomain.ErrInvalidMedication
	}
	return s.repo.ListActiveByMedication(ctx, s.db, medication.Code)
}

func (s *Service) ListForState(ctx context.Context, medicationCode, stateCode string) ([]catalogdomain.Item, error) {
	medication, err := s.medicationSvc.GetByCode(ctx, medicationCode)
	if err != nil {
		return nil, catalogdomain.ErrInvalidMedication
	}

	eligible, err := s.pharmacySvc.EligiblePharmacyIDs(ctx, stateCode)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListActiveByMedication(ctx, s.db, medication.Code)
	if err != nil {
		return nil, err
	}

	return catalogdomain.FilterByPharmacy(items, eligible), nil
}
