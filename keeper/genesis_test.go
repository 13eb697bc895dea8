package keeper_test

import (
	"encoding/json"

	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils/mocks"
)

func (s *TestSuite) requireGenesisEqual(expected, actual *types.GenesisState) {
	s.T().Helper()
	want, err := json.Marshal(expected)
	s.Require().NoError(err)
	got, err := json.Marshal(actual)
	s.Require().NoError(err)
	s.Require().JSONEq(string(want), string(got))
}

func (s *TestSuite) TestGenesis_DefaultAnchorsAtCurrentBlock() {
	gen := s.k.ExportGenesis(s.ctx)

	s.Require().True(gen.Position.TotalShares.IsZero())
	s.Require().True(gen.Position.StakedBalance.IsZero())
	s.Require().Equal(uint64(1), gen.RateSnapshot.LastBlock)
	s.Require().True(gen.RateSnapshot.LastRate.IsZero())
	s.Require().Len(gen.Checkpoints, 1)
}

func (s *TestSuite) TestGenesis_ExportImportRoundTrip() {
	s.deposit(s.alice, 1_000)
	s.setRate("1.25")
	s.atHeight(7)
	_, err := s.k.ObserveRate(s.ctx)
	s.Require().NoError(err)

	exported := s.k.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	s.Require().Equal("1000", exported.Position.TotalShares.String())
	s.Require().Equal(uint64(7), exported.RateSnapshot.LastBlock)
	s.Require().Len(exported.Checkpoints, 2)

	ctx, k, _ := mocks.NewStrategyKeeper(s.T(), s.cfg)
	k.InitGenesis(ctx, exported)
	s.requireGenesisEqual(exported, k.ExportGenesis(ctx))

	acc, err := k.AccumulatedAt(ctx, 9)
	s.Require().NoError(err)
	s.Require().Equal(dec18("8.5").String(), acc.String(), "1*(7-1) + 1.25*(9-7)")
}

func (s *TestSuite) TestGenesis_InvalidPanics() {
	tests := []struct {
		name string
		gen  *types.GenesisState
	}{
		{
			name: "negative shares",
			gen: &types.GenesisState{
				Position:     types.Position{TotalShares: sdkmath.NewInt(-1), StakedBalance: sdkmath.ZeroInt()},
				RateSnapshot: types.NewRateSnapshot(1),
			},
		},
		{
			name: "checkpoint after snapshot",
			gen: &types.GenesisState{
				Position:     types.NewPosition(),
				RateSnapshot: types.NewRateSnapshot(1),
				Checkpoints:  []types.RateSnapshot{types.NewRateSnapshot(5)},
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Require().Panics(func() {
				s.k.InitGenesis(s.ctx, tc.gen)
			})
		})
	}
}
