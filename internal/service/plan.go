package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	"github.com/sellerdesk/backoffice/internal/cache"
	"github.com/sellerdesk/backoffice/internal/domain/feature"
	"github.com/sellerdesk/backoffice/internal/domain/plan"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
)

// PlanService manages the plan catalog and the premium features plans grant
type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	GetPlanByCode(ctx context.Context, code string) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context, activeOnly bool) (*dto.ListPlansResponse, error)
	UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	SetStandardPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	GetStandardPlan(ctx context.Context) (*dto.PlanResponse, error)

	CreateFeature(ctx context.Context, req dto.CreateFeatureRequest) (*dto.FeatureResponse, error)
	GetFeature(ctx context.Context, id string) (*dto.FeatureResponse, error)
	ListFeatures(ctx context.Context) (*dto.ListFeaturesResponse, error)
	UpdateFeature(ctx context.Context, id string, req dto.UpdateFeatureRequest) (*dto.FeatureResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{
		ServiceParams: params,
	}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureFeaturesExist(ctx, p.FeatureIDs); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created plan",
		"plan_id", p.ID,
		"code", p.Code,
		"billing_cycle", p.BillingCycle,
	)

	s.invalidatePlanCache(ctx)

	return dto.NewPlanResponse(p), nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	if id == "" {
		return nil, ierr.NewError("plan ID is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	cacheKey := cache.GenerateKey(cache.PrefixPlan, id)
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if resp, ok := cached.(*dto.PlanResponse); ok {
			return resp, nil
		}
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewPlanResponse(p)
	s.Cache.Set(ctx, cacheKey, resp)
	return resp, nil
}

func (s *planService) GetPlanByCode(ctx context.Context, code string) (*dto.PlanResponse, error) {
	if code == "" {
		return nil, ierr.NewError("plan code is required").
			WithHint("Plan code is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PlanRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p), nil
}

func (s *planService) ListPlans(ctx context.Context, activeOnly bool) (*dto.ListPlansResponse, error) {
	var plans []*plan.Plan
	var err error
	if activeOnly {
		plans, err = s.PlanRepo.ListActive(ctx)
	} else {
		plans, err = s.PlanRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	items := lo.Map(plans, func(p *plan.Plan, _ int) *dto.PlanResponse {
		return dto.NewPlanResponse(p)
	})

	resp := types.NewListResponse(items, len(items), len(items), 0)
	return &resp, nil
}

func (s *planService) UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureFeaturesExist(ctx, p.FeatureIDs); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated plan", "plan_id", p.ID, "code", p.Code)
	s.invalidatePlanCache(ctx)

	return dto.NewPlanResponse(p), nil
}

func (s *planService) SetStandardPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.Active {
		return nil, ierr.NewError("inactive plan cannot be the standard plan").
			WithHint("Activate the plan before marking it standard").
			WithReportableDetails(map[string]any{
				"plan_id": id,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.PlanRepo.SetStandard(ctx, id); err != nil {
		return nil, err
	}
	p.Standard = true

	s.Logger.Infow("set standard plan", "plan_id", p.ID, "code", p.Code)
	s.invalidatePlanCache(ctx)

	return dto.NewPlanResponse(p), nil
}

func (s *planService) GetStandardPlan(ctx context.Context) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.GetStandard(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p), nil
}

func (s *planService) CreateFeature(ctx context.Context, req dto.CreateFeatureRequest) (*dto.FeatureResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f := req.ToFeature(ctx)
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if err := s.FeatureRepo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.Logger.Infow("created feature", "feature_id", f.ID, "code", f.Code)
	s.invalidatePlanCache(ctx)

	return dto.NewFeatureResponse(f), nil
}

func (s *planService) GetFeature(ctx context.Context, id string) (*dto.FeatureResponse, error) {
	if id == "" {
		return nil, ierr.NewError("feature ID is required").
			WithHint("Feature ID is required").
			Mark(ierr.ErrValidation)
	}

	f, err := s.FeatureRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewFeatureResponse(f), nil
}

func (s *planService) ListFeatures(ctx context.Context) (*dto.ListFeaturesResponse, error) {
	features, err := s.FeatureRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := lo.Map(features, func(f *feature.Feature, _ int) *dto.FeatureResponse {
		return dto.NewFeatureResponse(f)
	})

	resp := types.NewListResponse(items, len(items), len(items), 0)
	return &resp, nil
}

func (s *planService) UpdateFeature(ctx context.Context, id string, req dto.UpdateFeatureRequest) (*dto.FeatureResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f, err := s.FeatureRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(f)
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if err := s.FeatureRepo.Update(ctx, f); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated feature", "feature_id", f.ID, "code", f.Code)
	s.invalidatePlanCache(ctx)

	return dto.NewFeatureResponse(f), nil
}

// ensureFeaturesExist verifies every referenced feature id resolves
func (s *planService) ensureFeaturesExist(ctx context.Context, featureIDs []string) error {
	if len(featureIDs) == 0 {
		return nil
	}

	found, err := s.FeatureRepo.ListByIDs(ctx, featureIDs)
	if err != nil {
		return err
	}

	foundIDs := lo.Map(found, func(f *feature.Feature, _ int) string { return f.ID })
	missing, _ := lo.Difference(lo.Uniq(featureIDs), foundIDs)
	if len(missing) > 0 {
		return ierr.NewError("plan references unknown features").
			WithHint("One or more feature ids do not exist").
			WithReportableDetails(map[string]any{
				"missing_feature_ids": missing,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (s *planService) invalidatePlanCache(ctx context.Context) {
	s.Cache.DeleteByPrefix(ctx, cache.PrefixPlan)
	s.Cache.DeleteByPrefix(ctx, cache.PrefixPlanFeatures)
}
