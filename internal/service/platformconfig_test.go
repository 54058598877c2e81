package service

import (
	"testing"

	"github.com/sellerdesk/backoffice/internal/api/dto"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/testutil"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/stretchr/testify/suite"
)

type PlatformConfigServiceSuite struct {
	testutil.BaseServiceTestSuite
	configService PlatformConfigService
}

func TestPlatformConfigService(t *testing.T) {
	suite.Run(t, new(PlatformConfigServiceSuite))
}

func (s *PlatformConfigServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.configService = NewPlatformConfigService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *PlatformConfigServiceSuite) TestSetAndGet() {
	set, err := s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:         types.ConfigKeyDefaultCurrency,
		Value:       "eur",
		Description: "platform currency",
	})
	s.NoError(err)
	s.Equal("eur", set.Value)

	got, err := s.configService.GetConfig(s.GetContext(), types.ConfigKeyDefaultCurrency)
	s.NoError(err)
	s.Equal("eur", got.Value)
	s.Equal("platform currency", got.Description)
}

func (s *PlatformConfigServiceSuite) TestSetOverwrites() {
	_, err := s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:   types.ConfigKeyDefaultCurrency,
		Value: "eur",
	})
	s.Require().NoError(err)

	_, err = s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:   types.ConfigKeyDefaultCurrency,
		Value: "gbp",
	})
	s.NoError(err)

	got, err := s.configService.GetConfig(s.GetContext(), types.ConfigKeyDefaultCurrency)
	s.NoError(err)
	s.Equal("gbp", got.Value)

	list, err := s.configService.ListConfigs(s.GetContext())
	s.NoError(err)
	s.Len(list, 1)
}

func (s *PlatformConfigServiceSuite) TestGetUnknownKey() {
	_, err := s.configService.GetConfig(s.GetContext(), types.ConfigKey("nonexistent"))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PlatformConfigServiceSuite) TestDelete() {
	_, err := s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:   types.ConfigKeyDefaultPlanCode,
		Value: "free",
	})
	s.Require().NoError(err)

	err = s.configService.DeleteConfig(s.GetContext(), types.ConfigKeyDefaultPlanCode)
	s.NoError(err)

	_, err = s.configService.GetConfig(s.GetContext(), types.ConfigKeyDefaultPlanCode)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	err = s.configService.DeleteConfig(s.GetContext(), types.ConfigKeyDefaultPlanCode)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PlatformConfigServiceSuite) TestResolveValue() {
	s.Equal("usd", s.configService.ResolveValue(s.GetContext(), types.ConfigKeyDefaultCurrency, "usd"))

	_, err := s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:   types.ConfigKeyDefaultCurrency,
		Value: "eur",
	})
	s.Require().NoError(err)

	s.Equal("eur", s.configService.ResolveValue(s.GetContext(), types.ConfigKeyDefaultCurrency, "usd"))
}

func (s *PlatformConfigServiceSuite) TestCacheInvalidatedOnWrite() {
	_, err := s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:   types.ConfigKeyDefaultCurrency,
		Value: "eur",
	})
	s.Require().NoError(err)

	// Prime the cache
	_, err = s.configService.GetConfig(s.GetContext(), types.ConfigKeyDefaultCurrency)
	s.Require().NoError(err)

	_, err = s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:   types.ConfigKeyDefaultCurrency,
		Value: "gbp",
	})
	s.Require().NoError(err)

	got, err := s.configService.GetConfig(s.GetContext(), types.ConfigKeyDefaultCurrency)
	s.NoError(err)
	s.Equal("gbp", got.Value)
}
