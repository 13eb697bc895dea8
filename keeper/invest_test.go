package keeper_test

import (
	"errors"

	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/strategy/simulation"
	"github.com/provlabs/strategy/types"
)

func (s *TestSuite) TestInvest_ReceiptAirdropAccruesToHolders() {
	s.deposit(s.alice, 100)
	s.Require().NoError(s.venue.AirdropReceipt(s.ctx, sdkmath.NewInt(10)))

	staked, err := s.k.Invest(s.ctx, token)
	s.Require().NoError(err)
	s.Require().Equal("10", staked.String())
	s.assertPosition(100, 110)

	shareValue, err := s.k.GetStrategyShareValue(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(dec18("1.1").String(), shareValue.String())
}

func (s *TestSuite) TestInvest_NothingToInvest() {
	s.deposit(s.alice, 100)

	_, err := s.k.Invest(s.ctx, token)
	s.Require().ErrorIs(err, types.ErrNothingToInvest)
	s.assertPosition(100, 100)
}

func (s *TestSuite) TestInvest_DustStaysIdle() {
	s.setRate("2")
	s.deposit(s.alice, 100)
	s.fund(1)

	_, err := s.k.Invest(s.ctx, token)
	s.Require().ErrorIs(err, types.ErrNothingToInvest)
	s.assertIdle(1)
	s.assertPosition(100, 50)
}

func (s *TestSuite) TestInvest_WrongToken() {
	s.fund(100)

	_, err := s.k.Invest(s.ctx, "nhash")
	s.Require().ErrorIs(err, types.ErrInvalidInput)
	s.Require().ErrorContains(err, "strategy stable-usdc does not invest nhash")
	s.assertIdle(100)
}

func (s *TestSuite) TestInvest_PoolJoinFailure() {
	s.fund(100)
	s.venue.FailOn(simulation.OpPoolJoin, errors.New("pool paused"))

	_, err := s.k.Invest(s.ctx, token)
	s.Require().ErrorIs(err, types.ErrExternalVenue)

	var venueErr *types.VenueError
	s.Require().True(errors.As(err, &venueErr))
	s.Require().Equal(simulation.OpPoolJoin, venueErr.Op)
	s.assertIdle(100)
	s.assertPosition(0, 0)
}

func (s *TestSuite) TestDivest() {
	s.deposit(s.alice, 1_000)
	s.resetEvents()

	out, err := s.k.Divest(s.ctx, sdkmath.NewInt(100))
	s.Require().NoError(err)
	s.Require().Equal("100", out.String())
	s.Require().True(s.hasEvent(types.EventTypeDivest), "divest event")
	s.assertPosition(1_000, 900)
	s.assertIdle(100)

	// Idle value is folded back by the next invest without minting shares.
	_, err = s.k.Invest(s.ctx, token)
	s.Require().NoError(err)
	s.assertPosition(1_000, 1_000)
	s.assertIdle(0)
}

func (s *TestSuite) TestDivest_RoundsReceiptUp() {
	s.setRate("1.5")
	s.deposit(s.alice, 1_500)
	s.assertPosition(1_500, 1_000)

	// 10 / 1.5 = 6.67 receipt, rounded up to 7.
	out, err := s.k.Divest(s.ctx, sdkmath.NewInt(10))
	s.Require().NoError(err)
	s.Require().Equal("10", out.String())
	s.assertPosition(1_500, 993)
}

func (s *TestSuite) TestDivest_CappedAtStakedBalance() {
	s.deposit(s.alice, 100)

	out, err := s.k.Divest(s.ctx, sdkmath.NewInt(1_000))
	s.Require().NoError(err)
	s.Require().Equal("100", out.String())
	s.assertPosition(100, 0)
	s.assertIdle(100)
}

func (s *TestSuite) TestDivest_InvalidInputs() {
	_, err := s.k.Divest(s.ctx, sdkmath.ZeroInt())
	s.Require().ErrorIs(err, types.ErrInvalidInput)
	s.Require().ErrorContains(err, "divest target must be positive")

	_, err = s.k.Divest(s.ctx, sdkmath.NewInt(10))
	s.Require().ErrorIs(err, types.ErrInvalidInput)
	s.Require().ErrorContains(err, "nothing staked to divest 10")
}

func (s *TestSuite) TestDivest_PoolExitFailureRollsBack() {
	s.deposit(s.alice, 100)
	s.venue.FailOn(simulation.OpPoolExit, errors.New("pool paused"))

	_, err := s.k.Divest(s.ctx, sdkmath.NewInt(50))
	s.Require().ErrorIs(err, types.ErrExternalVenue)
	s.assertPosition(100, 100)

	staked, err := s.venue.Staked.Get(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal("100", staked.String())
}

func (s *TestSuite) TestInvestAmount_StakesLooseReceipt() {
	ctx, _ := s.ctx.CacheContext()

	_, err := s.k.TestAccessor_investAmount(s.T(), ctx, sdkmath.ZeroInt())
	s.Require().ErrorIs(err, types.ErrNothingToInvest, "no deposit and no loose receipt")

	s.Require().NoError(s.venue.AirdropReceipt(ctx, sdkmath.NewInt(25)))
	staked, err := s.k.TestAccessor_investAmount(s.T(), ctx, sdkmath.ZeroInt())
	s.Require().NoError(err)
	s.Require().Equal("25", staked.String())

	pos, err := s.k.GetPosition(ctx)
	s.Require().NoError(err)
	s.Require().Equal("25", pos.StakedBalance.String())
}

func (s *TestSuite) TestDivestInternal_ExitSlippage() {
	s.deposit(s.alice, 1_000)
	s.venue.SetExitFee(ratio("0.02"))
	ctx, _ := s.ctx.CacheContext()

	_, err := s.k.TestAccessor_divest(s.T(), ctx, sdkmath.NewInt(500))
	s.Require().ErrorIs(err, types.ErrSlippage)
	s.Require().ErrorContains(err, "pool exit returned 490, minimum 495")
}
