package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	"github.com/smallbiznis/doseplan/internal/titration"
	"github.com/smallbiznis/doseplan/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  medicationdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  medicationdomain.Repository
}

func New(p Params) medicationdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("medication.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req medicationdomain.CreateRequest) (*medicationdomain.Medication, error) {
	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, medicationdomain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, medicationdomain.ErrInvalidName
	}

	form, err := parseForm(req.Form)
	if err != nil {
		return nil, err
	}
	unit, err := parsePeriodUnit(req.PeriodUnit)
	if err != nil {
		return nil, err
	}

	preset := strings.TrimSpace(req.TitrationPreset)
	if _, ok := titration.LadderByName(preset); !ok {
		return nil, medicationdomain.ErrInvalidPreset
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	entity := &medicationdomain.Medication{
		ID:              s.genID.Generate(),
		Code:            code,
		Name:            name,
		Form:            form,
		PeriodUnit:      unit,
		TitrationPreset: preset,
		Active:          active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, medicationdomain.ErrDuplicateCode
		}
		return nil, err
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context) ([]medicationdomain.Medication, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*medicationdomain.Medication, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, medicationdomain.ErrInvalidCode
	}

	entity, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, medicationdomain.ErrNotFound
	}
	return entity, nil
}

func parseForm(value medicationdomain.Form) (medicationdomain.Form, error) {
	switch strings.ToUpper(strings.TrimSpace(string(value))) {
	case string(medicationdomain.Injectable):
		return medicationdomain.Injectable, nil
	case string(medicationdomain.Topical):
		return medicationdomain.Topical, nil
	default:
		return "", medicationdomain.ErrInvalidForm
	}
}

func parsePeriodUnit(value medicationdomain.PeriodUnit) (medicationdomain.PeriodUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(string(value))) {
	case string(medicationdomain.Week):
		return medicationdomain.Week, nil
	case string(medicationdomain.Day):
		return medicationdomain.Day, nil
	default:
		return "", medicationdomain.ErrInvalidUnit
	}
}
