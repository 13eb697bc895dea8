package query

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDef is the definition of a keeper read to be tested.
// S is the type the read returns.
type TestDef[S any] struct {
	// QueryName is the name of the read being tested.
	QueryName string
	// Query is the read to invoke.
	Query func(ctx context.Context) (S, error)
	// Equal compares the expected and actual results. Defaults to assert.Equal.
	Equal func(expected, actual S) bool
	// PostCheck runs followup assertions after a successful read.
	PostCheck func(expected, actual S)
}

// TestCase is a test case for a keeper read.
type TestCase[S any] struct {
	// Name is the name of the test case.
	Name string
	// Setup is a function that does any needed state setup.
	// A cached context is used for tests, so this setup will not carry over between test cases.
	Setup func()
	// Expected is the expected result of the read.
	Expected S
	// ExpectedErrSubstrs is the strings that are expected to be in the error returned by the read.
	// If empty, that error is expected to be nil.
	ExpectedErrSubstrs []string
}

type TestSuiter interface {
	Context() sdk.Context
	SetContext(ctx sdk.Context)
	Require() *require.Assertions
	Assert() *assert.Assertions
}

// RunTestCase runs a unit test on a keeper read.
// A cached context is used so each test case won't affect the others.
func RunTestCase[S any](s TestSuiter, td TestDef[S], tc TestCase[S]) {
	origCtx := s.Context()
	defer func() {
		s.SetContext(origCtx)
	}()
	ctx, _ := s.Context().CacheContext()
	s.SetContext(ctx)

	if tc.Setup != nil {
		tc.Setup()
	}

	name := td.QueryName + " " + tc.Name
	var resp S
	var err error
	testFunc := func() {
		resp, err = td.Query(s.Context())
	}
	s.Require().NotPanics(testFunc, name)

	if len(tc.ExpectedErrSubstrs) != 0 {
		s.Assert().Errorf(err, "%s error", name)
		for _, substr := range tc.ExpectedErrSubstrs {
			s.Assert().ErrorContainsf(err, substr, "%s error missing expected substring", name)
		}
		return
	}

	s.Assert().NoErrorf(err, "%s error", name)
	if td.Equal != nil {
		s.Assert().Truef(td.Equal(tc.Expected, resp), "%s result: expected %v, got %v", name, tc.Expected, resp)
	} else {
		s.Assert().Equalf(tc.Expected, resp, "%s result", name)
	}

	if td.PostCheck != nil {
		td.PostCheck(tc.Expected, resp)
	}
}

// RunTestCases runs every case in tcs in order.
func RunTestCases[S any](s TestSuiter, td TestDef[S], tcs []TestCase[S]) {
	for _, tc := range tcs {
		RunTestCase(s, td, tc)
	}
}
