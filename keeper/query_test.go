package keeper_test

import (
	"errors"

	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/strategy/simulation"
	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils/query"
)

func (s *TestSuite) TestGetStrategyInfo() {
	s.setRate("1.5")
	s.deposit(s.alice, 150)

	info, err := s.k.GetStrategyInfo(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(strategyID, info.ID)
	s.Require().Equal(s.k.GetAddress(), info.Address)
	s.Require().Equal(types.VariantStable, info.Variant)
	s.Require().Equal(token, info.Token)
	s.Require().Equal(types.PositionStateActive, info.State)
	s.Require().Equal("150", info.TotalShares.String())
	s.Require().Equal("100", info.Staked.String())
	s.Require().Equal("150", info.TotalValue.String())
	s.Require().Equal(dec18("1").String(), info.ShareValue.String())
	s.Require().Equal(dec18("1.5").String(), info.Rate.String())

	s.Require().NoError(s.venue.AccrueFees(s.ctx, ratio("0.1")))
	info, err = s.k.GetStrategyInfo(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("165", info.TotalValue.String())
	s.Require().Equal(dec18("1.1").String(), info.ShareValue.String())
}

func (s *TestSuite) TestGetStrategyInfo_Empty() {
	info, err := s.k.GetStrategyInfo(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(types.PositionStateEmpty, info.State)
	s.Require().True(info.TotalValue.IsZero())
	s.Require().True(info.ShareValue.IsZero())
}

func (s *TestSuite) TestPreviewsMatchExecution() {
	s.setRate("1.5")
	s.deposit(s.alice, 150)
	s.Require().NoError(s.venue.AccrueFees(s.ctx, ratio("0.1")))

	shares, err := s.k.PreviewJoin(s.ctx, sdkmath.NewInt(33))
	s.Require().NoError(err)
	s.Require().Equal("30", shares.String())

	released, burned, err := s.k.PreviewExit(s.ctx, sdkmath.NewInt(150), ratio("0.5"))
	s.Require().NoError(err)
	s.Require().Equal("82", released.String())
	s.Require().Equal("75", burned.String())

	res, err := s.k.Exit(s.ctx, s.alice, sdkmath.NewInt(150), ratio("0.5"))
	s.Require().NoError(err)
	s.Require().Equal(released.String(), res.ReleasedValue.String())
	s.Require().Equal(burned.String(), res.BurnedShares.String())
	s.assertPosition(75, 50)
}

func (s *TestSuite) TestPreviewJoin_EmptyAppliesGuards() {
	cfg := types.DefaultConfig(strategyID, token)
	cfg.MinInitialDeposit = "100"
	cfg.LockedShares = "10"
	s.setup(cfg)

	shares, err := s.k.PreviewJoin(s.ctx, sdkmath.NewInt(100))
	s.Require().NoError(err)
	s.Require().Equal("90", shares.String())

	_, err = s.k.PreviewJoin(s.ctx, sdkmath.NewInt(99))
	s.Require().ErrorIs(err, types.ErrInvalidInput)
}

func (s *TestSuite) TestPreviewExit_Empty() {
	released, burned, err := s.k.PreviewExit(s.ctx, sdkmath.NewInt(10), ratio("1"))
	s.Require().NoError(err)
	s.Require().True(released.IsZero())
	s.Require().True(burned.IsZero())

	_, _, err = s.k.PreviewExit(s.ctx, sdkmath.NewInt(10), ratio("2"))
	s.Require().ErrorIs(err, types.ErrInvalidInput)
}

func (s *TestSuite) TestConfigAccessors() {
	cfg := types.DefaultConfig(strategyID, token)
	cfg.PoolID = "0x06df3b2bbb68adc8b0e302443692037ed9f91b42000000000000000000000063"
	cfg.MetadataURI = "ipfs://strategy/stable-usdc.json"
	cfg.Slippage = "0.005"
	s.setup(cfg)

	s.Require().Equal(token, s.k.GetToken())
	s.Require().Equal(cfg.PoolID, s.k.GetPoolID())
	s.Require().Equal(cfg.MetadataURI, s.k.GetMetadataURI())
	s.Require().Equal("0.005000000000000000", s.k.GetSlippage().String())
	s.Require().Equal(types.GetStrategyAddress(strategyID), s.k.GetAddress())
	s.Require().Equal(cfg, s.k.GetConfig())
}

func (s *TestSuite) TestGetClaimableRewards() {
	rewards, err := s.k.GetClaimableRewards(s.ctx)
	s.Require().NoError(err)
	s.Require().True(rewards.IsZero())

	s.Require().NoError(s.venue.AddRewards(s.ctx, sdkmath.NewInt(7)))
	rewards, err = s.k.GetClaimableRewards(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("7", rewards.String())

	s.venue.FailOn(simulation.OpRewards, errors.New("gauge unavailable"))
	_, err = s.k.GetClaimableRewards(s.ctx)
	s.Require().ErrorIs(err, types.ErrExternalVenue)
	var venueErr *types.VenueError
	s.Require().True(errors.As(err, &venueErr))
	s.Require().Equal("claimable_rewards", venueErr.Op)
}

func (s *TestSuite) TestStateAccessors() {
	s.deposit(s.alice, 100)

	shares, err := s.k.GetStrategyShares(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("100", shares.String())

	staked, err := s.k.GetStakedBalance(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("100", staked.String())

	s.fund(3)
	idle, err := s.k.GetIdleBalance(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("3", idle.String())

	err = s.k.SetPosition(s.ctx, types.Position{TotalShares: sdkmath.NewInt(-1), StakedBalance: sdkmath.ZeroInt()})
	s.Require().Error(err)
}

func (s *TestSuite) TestValueReads() {
	boom := errors.New("rpc unavailable")
	defer s.venue.FailOn(simulation.OpExchangeRate, nil)

	fundedAt := func(rate string, amount int64, fee string) func() {
		return func() {
			s.setRate(rate)
			s.deposit(s.alice, amount)
			if fee != "" {
				s.Require().NoError(s.venue.AccrueFees(s.ctx, ratio(fee)))
			}
		}
	}

	query.RunTestCases(s, query.TestDef[sdkmath.Int]{
		QueryName: "GetTotalValue",
		Query:     s.k.GetTotalValue,
		Equal:     sdkmath.Int.Equal,
	}, []query.TestCase[sdkmath.Int]{
		{Name: "empty", Expected: sdkmath.ZeroInt()},
		{Name: "deposit at 1.5", Setup: fundedAt("1.5", 150, ""), Expected: sdkmath.NewInt(150)},
		{Name: "fees accrued", Setup: fundedAt("1.5", 150, "0.1"), Expected: sdkmath.NewInt(165)},
		{Name: "idle balance excluded", Setup: func() { s.deposit(s.alice, 100); s.fund(40) }, Expected: sdkmath.NewInt(100)},
		{
			Name:               "rate read fails",
			Setup:              func() { s.venue.FailOn(simulation.OpExchangeRate, boom) },
			ExpectedErrSubstrs: []string{"exchange_rate", "rpc unavailable"},
		},
	})
	s.venue.FailOn(simulation.OpExchangeRate, nil)

	query.RunTestCases(s, query.TestDef[sdkmath.Int]{
		QueryName: "GetStrategyShareValue",
		Query:     s.k.GetStrategyShareValue,
		Equal:     sdkmath.Int.Equal,
	}, []query.TestCase[sdkmath.Int]{
		{Name: "empty", Expected: sdkmath.ZeroInt()},
		{Name: "deposit at 1.5", Setup: fundedAt("1.5", 150, ""), Expected: dec18("1")},
		{Name: "fees accrued", Setup: fundedAt("1.5", 150, "0.1"), Expected: dec18("1.1")},
	})

	// Cases run on cached contexts and leave no state behind.
	s.assertPosition(0, 0)
}
