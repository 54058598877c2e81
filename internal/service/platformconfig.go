package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	"github.com/sellerdesk/backoffice/internal/cache"
	"github.com/sellerdesk/backoffice/internal/domain/platformconfig"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
)

// PlatformConfigService manages platform-wide key/value overrides such as the
// default wallet currency and the standard plan code.
type PlatformConfigService interface {
	GetConfig(ctx context.Context, key types.ConfigKey) (*dto.PlatformConfigResponse, error)
	SetConfig(ctx context.Context, req dto.SetPlatformConfigRequest) (*dto.PlatformConfigResponse, error)
	ListConfigs(ctx context.Context) ([]*dto.PlatformConfigResponse, error)
	DeleteConfig(ctx context.Context, key types.ConfigKey) error

	// ResolveValue returns the configured value for the key, or the fallback
	// when no row exists. Lookup errors other than not-found fall back too but
	// are logged.
	ResolveValue(ctx context.Context, key types.ConfigKey, fallback string) string
}

type platformConfigService struct {
	ServiceParams
}

func NewPlatformConfigService(params ServiceParams) PlatformConfigService {
	return &platformConfigService{
		ServiceParams: params,
	}
}

func (s *platformConfigService) GetConfig(ctx context.Context, key types.ConfigKey) (*dto.PlatformConfigResponse, error) {
	if key == "" {
		return nil, ierr.NewError("config key is required").
			WithHint("Config key is required").
			Mark(ierr.ErrValidation)
	}

	cacheKey := cache.GenerateKey(cache.PrefixPlatformConfig, key)
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if resp, ok := cached.(*dto.PlatformConfigResponse); ok {
			return resp, nil
		}
	}

	c, err := s.PlatformConfigRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	resp := dto.NewPlatformConfigResponse(c)
	s.Cache.Set(ctx, cacheKey, resp)
	return resp, nil
}

func (s *platformConfigService) SetConfig(ctx context.Context, req dto.SetPlatformConfigRequest) (*dto.PlatformConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToConfig(ctx)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.PlatformConfigRepo.Upsert(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("set platform config", "key", c.Key)
	s.Cache.DeleteByPrefix(ctx, cache.PrefixPlatformConfig)

	return dto.NewPlatformConfigResponse(c), nil
}

func (s *platformConfigService) ListConfigs(ctx context.Context) ([]*dto.PlatformConfigResponse, error) {
	configs, err := s.PlatformConfigRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(configs, func(c *platformconfig.Config, _ int) *dto.PlatformConfigResponse {
		return dto.NewPlatformConfigResponse(c)
	}), nil
}

func (s *platformConfigService) DeleteConfig(ctx context.Context, key types.ConfigKey) error {
	if key == "" {
		return ierr.NewError("config key is required").
			WithHint("Config key is required").
			Mark(ierr.ErrValidation)
	}

	if err := s.PlatformConfigRepo.Delete(ctx, key); err != nil {
		return err
	}

	s.Logger.Infow("deleted platform config", "key", key)
	s.Cache.DeleteByPrefix(ctx, cache.PrefixPlatformConfig)
	return nil
}

func (s *platformConfigService) ResolveValue(ctx context.Context, key types.ConfigKey, fallback string) string {
	resp, err := s.GetConfig(ctx, key)
	if err != nil {
		if !ierr.IsNotFound(err) {
			s.Logger.Warnw("platform config lookup failed, using fallback",
				"key", key,
				"error", err,
			)
		}
		return fallback
	}
	return resp.Value
}
