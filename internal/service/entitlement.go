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

// EntitlementService resolves which premium features a tenant may use right
// now. Only an ACTIVE subscription grants its plan's features; otherwise the
// tenant falls back to the standard plan, or to nothing.
type EntitlementService interface {
	GetEntitlements(ctx context.Context) (*dto.EntitlementResponse, error)
}

type entitlementService struct {
	ServiceParams
}

func NewEntitlementService(params ServiceParams) EntitlementService {
	return &entitlementService{
		ServiceParams: params,
	}
}

func (s *entitlementService) GetEntitlements(ctx context.Context) (*dto.EntitlementResponse, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	p, source, err := s.resolvePlan(ctx)
	if err != nil {
		return nil, err
	}

	if p == nil {
		return &dto.EntitlementResponse{
			Source:   dto.EntitlementSourceNone,
			Features: []*dto.FeatureResponse{},
		}, nil
	}

	features, err := s.activeFeatures(ctx, p)
	if err != nil {
		return nil, err
	}

	return &dto.EntitlementResponse{
		PlanID:   p.ID,
		PlanCode: p.Code,
		Source:   source,
		Features: features,
	}, nil
}

// resolvePlan finds the plan governing the tenant's entitlements. A nil plan
// with a nil error means the tenant has no entitlements at all.
func (s *entitlementService) resolvePlan(ctx context.Context) (*plan.Plan, dto.EntitlementSource, error) {
	sub, err := s.SubRepo.GetLive(ctx)
	if err == nil && sub.SubscriptionStatus == types.SubscriptionStatusActive {
		p, err := s.PlanRepo.Get(ctx, sub.PlanID)
		if err != nil {
			return nil, "", err
		}
		return p, dto.EntitlementSourceSubscription, nil
	}
	if err != nil && !ierr.IsNotFound(err) {
		return nil, "", err
	}

	p, err := s.standardPlan(ctx)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, dto.EntitlementSourceNone, nil
		}
		return nil, "", err
	}
	return p, dto.EntitlementSourceStandard, nil
}

// standardPlan returns the platform's fallback plan: the one flagged standard,
// or the one named by the default_plan_code platform config.
func (s *entitlementService) standardPlan(ctx context.Context) (*plan.Plan, error) {
	p, err := s.PlanRepo.GetStandard(ctx)
	if err == nil {
		return p, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	configService := NewPlatformConfigService(s.ServiceParams)
	code := configService.ResolveValue(ctx, types.ConfigKeyDefaultPlanCode, "")
	if code == "" {
		return nil, err
	}

	return s.PlanRepo.GetByCode(ctx, code)
}

// activeFeatures loads the plan's features, drops the inactive ones and orders
// them by display order. Results are cached per plan; plan and feature admin
// writes invalidate the cache.
func (s *entitlementService) activeFeatures(ctx context.Context, p *plan.Plan) ([]*dto.FeatureResponse, error) {
	cacheKey := cache.GenerateKey(cache.PrefixPlanFeatures, p.ID)
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if features, ok := cached.([]*dto.FeatureResponse); ok {
			return features, nil
		}
	}

	if len(p.FeatureIDs) == 0 {
		return []*dto.FeatureResponse{}, nil
	}

	// ListByIDs returns features sorted by display order
	found, err := s.FeatureRepo.ListByIDs(ctx, p.FeatureIDs)
	if err != nil {
		return nil, err
	}

	active := lo.Filter(found, func(f *feature.Feature, _ int) bool { return f.Active })
	features := lo.Map(active, func(f *feature.Feature, _ int) *dto.FeatureResponse {
		return dto.NewFeatureResponse(f)
	})

	s.Cache.Set(ctx, cacheKey, features)
	return features, nil
}
