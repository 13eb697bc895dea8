package keeper_test

import (
	"bytes"
	"errors"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/strategy/simulation"
	"github.com/provlabs/strategy/types"
)

func (s *TestSuite) countEvents(eventType string) int {
	n := 0
	for _, e := range s.ctx.EventManager().Events() {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func (s *TestSuite) observe(height int64, expectChanged bool) {
	s.atHeight(height)
	changed, err := s.k.ObserveRate(s.ctx)
	s.Require().NoError(err, "observe at %d", height)
	s.Require().Equal(expectChanged, changed, "checkpoint written at %d", height)
}

func (s *TestSuite) TestObserveRate_CheckpointsOnlyOnChange() {
	s.observe(1, true)
	s.observe(3, false)

	s.setRate("2")
	s.observe(5, true)
	s.observe(8, false)

	s.setRate("3")
	s.observe(10, true)

	s.Require().Equal(3, s.countEvents(types.EventTypeRateCheckpoint))

	snap, err := s.k.GetRateSnapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(dec18("3").String(), snap.LastRate.String())
	s.Require().Equal(dec18("14").String(), snap.Accumulated.String(), "1*(5-1) + 2*(10-5)")
	s.Require().Equal(uint64(10), snap.LastBlock)

	var blocks []uint64
	err = s.k.Checkpoints.Walk(s.ctx, nil, func(block uint64, _ types.RateSnapshot) (bool, error) {
		blocks = append(blocks, block)
		return false, nil
	})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{1, 5, 10}, blocks)
}

func (s *TestSuite) TestAccumulatedAt() {
	s.observe(1, true)
	s.setRate("2")
	s.observe(5, true)
	s.setRate("3")
	s.observe(10, true)

	tests := []struct {
		name     string
		block    uint64
		expected string
		errMsg   string
	}{
		{name: "first checkpoint", block: 1, expected: "0"},
		{name: "between checkpoints", block: 7, expected: "8"},
		{name: "on a checkpoint", block: 10, expected: "14"},
		{name: "after the last checkpoint", block: 20, expected: "44"},
		{name: "before any checkpoint", block: 0, errMsg: "no rate checkpoint at or before block 0"},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			acc, err := s.k.AccumulatedAt(s.ctx, tc.block)
			if tc.errMsg != "" {
				s.Require().ErrorIs(err, types.ErrInvalidInput)
				s.Require().ErrorContains(err, tc.errMsg)
				return
			}
			s.Require().NoError(err)
			s.Require().Equal(dec18(tc.expected).String(), acc.String())
		})
	}
}

func (s *TestSuite) TestProjectedAccumulated() {
	s.observe(1, true)
	s.setRate("2")
	s.observe(10, true)

	acc, err := s.k.ProjectedAccumulated(s.ctx, 12)
	s.Require().NoError(err)
	s.Require().Equal(dec18("13").String(), acc.String())

	snap, err := s.k.GetRateSnapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(uint64(10), snap.LastBlock, "projection does not write")

	_, err = s.k.ProjectedAccumulated(s.ctx, 9)
	s.Require().ErrorIs(err, types.ErrInvalidInput)
}

func (s *TestSuite) TestJoinAndExit_CheckpointRate() {
	s.atHeight(4)
	s.deposit(s.alice, 100)

	snap, err := s.k.GetRateSnapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(uint64(4), snap.LastBlock)
	s.Require().Equal(dec18("1").String(), snap.LastRate.String())

	s.setRate("1.5")
	s.atHeight(6)
	_, err = s.k.Exit(s.ctx, s.alice, sdkmath.NewInt(100), ratio("0.5"))
	s.Require().NoError(err)

	snap, err = s.k.GetRateSnapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(uint64(6), snap.LastBlock)
	s.Require().Equal(dec18("2").String(), snap.Accumulated.String())
}

func (s *TestSuite) TestBeginBlocker_ObservesRate() {
	s.atHeight(2)
	s.Require().NoError(s.k.BeginBlocker(s.ctx))

	snap, err := s.k.GetRateSnapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), snap.LastBlock)
	s.Require().Equal(dec18("1").String(), snap.LastRate.String())
}

func (s *TestSuite) TestBeginBlocker_LogsRateFailure() {
	var buf bytes.Buffer
	s.ctx = s.ctx.WithLogger(log.NewLogger(&buf, log.ColorOption(false)))
	s.venue.FailOn(simulation.OpExchangeRate, errors.New("rpc timeout"))

	s.atHeight(2)
	s.Require().NoError(s.k.BeginBlocker(s.ctx), "block processing continues")
	s.Require().Contains(buf.String(), "failed to observe rate")
	s.Require().Contains(buf.String(), "rpc timeout")

	snap, err := s.k.GetRateSnapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), snap.LastBlock, "nothing written")
}

func (s *TestSuite) TestEndBlocker_AutoInvest() {
	tests := []struct {
		name       string
		autoInvest bool
		staked     int64
		idle       int64
	}{
		{name: "disabled leaves idle balance", autoInvest: false, staked: 100, idle: 50},
		{name: "enabled folds idle balance", autoInvest: true, staked: 150, idle: 0},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			cfg := types.DefaultConfig(strategyID, token)
			cfg.AutoInvest = tc.autoInvest
			s.setup(cfg)

			s.deposit(s.alice, 100)
			s.fund(50)

			s.Require().NoError(s.k.EndBlocker(s.ctx))
			s.assertPosition(100, tc.staked)
			s.assertIdle(tc.idle)

			// A second block with nothing idle is a no-op.
			s.Require().NoError(s.k.EndBlocker(s.ctx))
			s.assertPosition(100, tc.staked)
		})
	}
}
