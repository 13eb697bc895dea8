package keeper_test

import (
	"errors"

	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/strategy/simulation"
	"github.com/provlabs/strategy/types"
)

func (s *TestSuite) TestGetExchangeRate_Table() {
	cases := []struct {
		name                  string
		setup                 func()
		expected              sdkmath.Int
		expectedErrorContains string
	}{
		{
			name:     "fresh pool trades at one",
			expected: dec18("1"),
		},
		{
			name:     "rate set by the pool",
			setup:    func() { s.setRate("1.07") },
			expected: dec18("1.07"),
		},
		{
			name: "fees compound on the current rate",
			setup: func() {
				s.setRate("1.2")
				s.Require().NoError(s.venue.AccrueFees(s.ctx, ratio("0.5")))
			},
			expected: dec18("1.8"),
		},
		{
			name:                  "zero rate is a venue failure",
			setup:                 func() { s.Require().NoError(s.venue.SetRate(s.ctx, sdkmath.ZeroInt())) },
			expectedErrorContains: "exchange_rate: non-positive rate 0",
		},
		{
			name:                  "read failure",
			setup:                 func() { s.venue.FailOn(simulation.OpExchangeRate, errors.New("node syncing")) },
			expectedErrorContains: "exchange_rate: node syncing",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()
			if tc.setup != nil {
				tc.setup()
			}
			rate, err := s.k.GetExchangeRate(s.ctx)
			if tc.expectedErrorContains != "" {
				s.Require().ErrorIs(err, types.ErrExternalVenue)
				s.Require().ErrorContains(err, tc.expectedErrorContains)
				return
			}
			s.Require().NoError(err)
			s.Require().Equal(tc.expected.String(), rate.String())
		})
	}
}

func (s *TestSuite) TestWeightedVariantPricesReceiptFromPoolValue() {
	cfg := types.DefaultConfig("weighted-usdc", token)
	cfg.Variant = types.VariantWeighted
	s.setup(cfg)

	// A pool with no receipt supply prices at one whatever its spot rate.
	s.setRate("3")
	rate, err := s.k.GetExchangeRate(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(dec18("1").String(), rate.String(), "empty pool")
	s.setRate("1")

	s.deposit(s.alice, 1_000)
	s.Require().NoError(s.venue.AccrueFees(s.ctx, ratio("0.25")))

	rate, err = s.k.GetExchangeRate(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(dec18("1.25").String(), rate.String(), "pool value over receipt supply")
	s.assertTotalValue(1_250)

	res := s.deposit(s.bob, 500)
	s.Require().Equal("400", res.Shares.String())
	s.assertPosition(1_400, 1_400)

	shareValue, err := s.k.GetStrategyShareValue(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(dec18("1.25").String(), shareValue.String())
}
