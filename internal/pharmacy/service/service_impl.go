package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	"github.com/smallbiznis/doseplan/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  pharmacydomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  pharmacydomain.Repository
}

func New(p Params) pharmacydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("pharmacy.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreatePharmacy(ctx context.Context, req pharmacydomain.CreatePharmacyRequest) (*pharmacydomain.PharmacyResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pharmacydomain.ErrInvalidName
	}
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug == "" {
		return nil, pharmacydomain.ErrInvalidSlug
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	entity := &pharmacydomain.Pharmacy{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Metadata != nil {
		entity.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.InsertPharmacy(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, pharmacydomain.ErrDuplicateSlug
		}
		return nil, err
	}

	return toResponse(entity), nil
}

func (s *Service) ListPharmacies(ctx context.Context) ([]pharmacydomain.PharmacyResponse, error) {
	items, err := s.repo.ListPharmacies(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]pharmacydomain.PharmacyResponse, 0, len(items))
	for i := range items {
		resp = append(resp, *toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ListShippingRules(ctx context.Context, pharmacyID string) ([]pharmacydomain.ShippingRule, error) {
	id, err := parseID(pharmacyID)
	if err != nil {
		return nil, pharmacydomain.ErrInvalidID
	}
	return s.repo.ListRulesByPharmacy(ctx, s.db, id)
}

func (s *Service) UpsertShippingRule(ctx context.Context, req pharmacydomain.UpsertRuleRequest) (*pharmacydomain.ShippingRule, error) {
	pharmacyID, err := parseID(req.PharmacyID)
	if err != nil {
		return nil, pharmacydomain.ErrInvalidPharmacy
	}

	state := normalizeState(req.StateCode)
	if state == "" {
		return nil, pharmacydomain.ErrInvalidState
	}

	pharmacy, err := s.repo.FindPharmacyByID(ctx, s.db, pharmacyID)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil {
		return nil, pharmacydomain.ErrNotFound
	}

	now := time.Now().UTC()
	rule := &pharmacydomain.ShippingRule{
		ID:         s.genID.Generate(),
		PharmacyID: pharmacyID,
		StateCode:  state,
		CanShip:    req.CanShip,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.UpsertRule(ctx, s.db, rule); err != nil {
		return nil, err
	}

	s.log.Info("shipping rule upserted",
		zap.String("pharmacy_id", pharmacyID.String()),
		zap.String("state", state),
		zap.Bool("can_ship", req.CanShip),
	)

	return rule, nil
}

func (s *Service) Eligibility(ctx context.Context, stateCode string) ([]pharmacydomain.StateEligibility, error) {
	state := normalizeState(stateCode)
	if state == "" {
		return nil, pharmacydomain.ErrInvalidState
	}

	pharmacies, err := s.repo.ListPharmacies(ctx, s.db)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.ListRules(ctx, s.db)
	if err != nil {
		return nil, err
	}

	byPharmacy := groupRules(rules)

	resp := make([]pharmacydomain.StateEligibility, 0, len(pharmacies))
	for _, p := range pharmacies {
		pharmacyRules := byPharmacy[p.ID]
		entry := pharmacydomain.StateEligibility{
			PharmacyID:   p.ID,
			PharmacyName: p.Name,
			StateCode:    state,
			CanShip:      p.Active && pharmacydomain.CanShipTo(pharmacyRules, state),
		}
		for i := range pharmacyRules {
			if pharmacyRules[i].StateCode == state {
				entry.Notes = pharmacyRules[i].Notes
			}
		}
		resp = append(resp, entry)
	}
	return resp, nil
}

func (s *Service) EligiblePharmacyIDs(ctx context.Context, stateCode string) (map[snowflake.ID]bool, error) {
	verdicts, err := s.Eligibility(ctx, stateCode)
	if err != nil {
		return nil, err
	}

	eligible := make(map[snowflake.ID]bool, len(verdicts))
	for _, v := range verdicts {
		if v.CanShip {
			eligible[v.PharmacyID] = true
		}
	}
	return eligible, nil
}

func groupRules(rules []pharmacydomain.ShippingRule) map[snowflake.ID][]pharmacydomain.ShippingRule {
	grouped := make(map[snowflake.ID][]pharmacydomain.ShippingRule)
	for _, r := range rules {
		grouped[r.PharmacyID] = append(grouped[r.PharmacyID], r)
	}
	return grouped
}

func toResponse(p *pharmacydomain.Pharmacy) *pharmacydomain.PharmacyResponse {
	return &pharmacydomain.PharmacyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

func normalizeState(value string) string {
	state := strings.ToUpper(strings.TrimSpace(value))
	if len(state) != 2 {
		return ""
	}
	return state
}
