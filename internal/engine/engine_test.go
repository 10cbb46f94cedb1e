package engine_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamlet/domain/core"
	"hamlet/internal/bins"
	"hamlet/internal/config"
	"hamlet/internal/engine"
	"hamlet/internal/testkit"
)

func testConfig(tests ...string) *config.Config {
	return &config.Config{
		Run: config.RunConfig{Parallel: false},
		Tests: config.TestsConfig{
			Order: tests,
			Likelihood: config.LikelihoodConfig{
				Method:            config.MethodPoisson,
				NIters:            200,
				InvestigationTime: 40,
				NotModeledVal:     0,
				DefaultLikelihood: 1.0,
			},
			MaxMag:   config.MaxMagConfig{AppendCheck: true, Warn: false},
			ModelMFD: config.ModelMFDConfig{InvestigationTime: 40},
		},
	}
}

func TestEngine_StateMachine(t *testing.T) {
	cfg := testConfig(config.TestLikelihood)
	e := engine.New(cfg, testkit.RNG(1), nil)
	assert.Equal(t, engine.StateConfigured, e.State())

	// Scoring and reporting before bins are loaded is a caller bug.
	assert.Error(t, e.Score(context.Background()))
	assert.Error(t, e.MarkReported())

	col := testkit.Collection(testkit.Bin("a", map[float64]float64{6.0: 0.1}))
	require.NoError(t, e.LoadBins(col))
	assert.Equal(t, engine.StateBinsLoaded, e.State())

	// Transitions only move forward.
	assert.Error(t, e.LoadBins(col))

	require.NoError(t, e.Score(context.Background()))
	assert.Equal(t, engine.StateScored, e.State())

	require.NoError(t, e.MarkReported())
	assert.Equal(t, engine.StateReported, e.State())
	assert.Error(t, e.MarkReported())
}

func TestEngine_RejectsEmptyCollection(t *testing.T) {
	e := engine.New(testConfig(config.TestLikelihood), testkit.RNG(1), nil)
	assert.Error(t, e.LoadBins(nil))
	assert.Error(t, e.LoadBins(bins.NewCollection()))
}

func TestEngine_UnknownTestName(t *testing.T) {
	e := engine.New(testConfig("bogus"), testkit.RNG(1), nil)
	require.NoError(t, e.LoadBins(testkit.Collection(testkit.Bin("a", nil))))
	assert.Error(t, e.Score(context.Background()))
}

func TestPoissonLikelihood_NoObservedEvents(t *testing.T) {
	// One rupture at M6.0 with rate lambda and nothing observed: the M6.0
	// bin contributes log P(0) = -lambda*T, every other magnitude bin has
	// zero rate and zero events and contributes log(1) = 0. The bin score
	// is the mean over the 11 magnitude bins.
	const lambda, invTime = 0.05, 40.0
	cfg := testConfig(config.TestLikelihood)
	cfg.Tests.Likelihood.InvestigationTime = invTime

	e := engine.New(cfg, testkit.RNG(1), nil)
	col := testkit.Collection(testkit.Bin("a", map[float64]float64{6.0: lambda}))
	require.NoError(t, e.LoadBins(col))
	require.NoError(t, e.Score(context.Background()))

	row, _ := col.Get("a")
	require.True(t, row.HasLogLike)
	nBins := float64(testkit.Binning().NumBins())
	assert.InDelta(t, -lambda*invTime/nBins, row.LogLike, 1e-12)
}

func TestPoissonLikelihood_NonSourceBinKeepsDefault(t *testing.T) {
	cfg := testConfig(config.TestLikelihood)
	cfg.Tests.Likelihood.DefaultLikelihood = 1.0

	e := engine.New(cfg, testkit.RNG(1), nil)
	empty := testkit.Bin("empty", nil)
	testkit.Observe(empty, 6.5)
	col := testkit.Collection(testkit.Bin("src", map[float64]float64{6.0: 0.1}), empty)
	require.NoError(t, e.LoadBins(col))
	require.NoError(t, e.Score(context.Background()))

	// Bins without ruptures are not scored; they keep the default fill
	// even when they hold observed events.
	row, _ := col.Get("empty")
	require.True(t, row.HasLogLike)
	assert.Equal(t, 1.0, row.LogLike)
}

func TestPoissonLikelihood_EventOutsideModeledBins(t *testing.T) {
	// An observed event in a magnitude bin with zero modeled rate routes
	// through the not-modeled value instead of failing the run. With the
	// strict default of zero the bin score is -Inf.
	cfg := testConfig(config.TestLikelihood)

	b := testkit.Bin("a", map[float64]float64{6.0: 0.1})
	testkit.Observe(b, 7.5)
	e := engine.New(cfg, testkit.RNG(1), nil)
	require.NoError(t, e.LoadBins(testkit.Collection(b)))
	require.NoError(t, e.Score(context.Background()))

	row, _ := e.Collection().Get("a")
	assert.True(t, math.IsInf(row.LogLike, -1))

	// A forgiving not-modeled value keeps the score finite.
	cfg2 := testConfig(config.TestLikelihood)
	cfg2.Tests.Likelihood.NotModeledVal = 0.5

	b2 := testkit.Bin("a", map[float64]float64{6.0: 0.1})
	testkit.Observe(b2, 7.5)
	e2 := engine.New(cfg2, testkit.RNG(1), nil)
	require.NoError(t, e2.LoadBins(testkit.Collection(b2)))
	require.NoError(t, e2.Score(context.Background()))

	row2, _ := e2.Collection().Get("a")
	assert.False(t, math.IsInf(row2.LogLike, -1))
	assert.Less(t, row2.LogLike, 0.0)
}

func TestEmpiricalLikelihood(t *testing.T) {
	cfg := testConfig(config.TestLikelihood)
	cfg.Tests.Likelihood.Method = config.MethodEmpirical
	cfg.Tests.Likelihood.NIters = 500

	// Low rate over 40 years: a zero count is sampled often, so a bin with
	// no observed events scores finitely even with not_modeled_val = 0.
	b := testkit.Bin("a", map[float64]float64{6.0: 0.01})
	e := engine.New(cfg, testkit.RNG(7), nil)
	require.NoError(t, e.LoadBins(testkit.Collection(b)))
	require.NoError(t, e.Score(context.Background()))

	row, _ := e.Collection().Get("a")
	require.True(t, row.HasLogLike)
	assert.False(t, math.IsInf(row.LogLike, -1))
	assert.LessOrEqual(t, row.LogLike, 0.0)
}

func TestEmpiricalLikelihood_ParallelMatchesSequential(t *testing.T) {
	build := func() *bins.Collection {
		return testkit.Collection(
			testkit.Bin("a", map[float64]float64{6.0: 0.05, 7.0: 0.01}),
			testkit.Bin("b", map[float64]float64{6.4: 0.02}),
		)
	}
	score := func(parallel bool) []float64 {
		cfg := testConfig(config.TestLikelihood)
		cfg.Tests.Likelihood.Method = config.MethodEmpirical
		cfg.Run.Parallel = parallel
		cfg.Run.Workers = 4

		e := engine.New(cfg, testkit.RNG(42), nil)
		col := build()
		require.NoError(t, e.LoadBins(col))
		require.NoError(t, e.Score(context.Background()))
		return col.LogLikes()
	}

	assert.Equal(t, score(false), score(true))
}

func TestMaxMagCheck(t *testing.T) {
	cfg := testConfig(config.TestMaxMagCheck)
	e := engine.New(cfg, testkit.RNG(1), nil)

	within := testkit.Bin("within", map[float64]float64{7.5: 0.1})
	testkit.Observe(within, 6.5)

	exceeds := testkit.Bin("exceeds", map[float64]float64{6.5: 0.1})
	testkit.Observe(exceeds, 7.5)

	noRuptures := testkit.Bin("no-ruptures", nil)
	testkit.Observe(noRuptures, 6.5)

	quiet := testkit.Bin("quiet", map[float64]float64{7.0: 0.1})

	col := testkit.Collection(within, exceeds, noRuptures, quiet)
	require.NoError(t, e.LoadBins(col))
	require.NoError(t, e.Score(context.Background()))

	expect := map[string]bool{
		"within":      false,
		"exceeds":     true,
		"no-ruptures": true,
		"quiet":       false,
	}
	for cell, want := range expect {
		row, ok := col.Get(core.CellID(cell))
		require.True(t, ok)
		require.True(t, row.HasMaxMagCheck, "cell %s", cell)
		assert.Equal(t, want, row.MaxMagExceeded, "cell %s", cell)
	}
}

func TestModelMFDComparison(t *testing.T) {
	cfg := testConfig(config.TestModelMFD)
	e := engine.New(cfg, testkit.RNG(1), nil)

	a := testkit.Bin("a", map[float64]float64{6.0: 0.5})
	testkit.Observe(a, 6.1)
	b := testkit.Bin("b", map[float64]float64{6.0: 0.3, 7.0: 0.1})

	require.NoError(t, e.LoadBins(testkit.Collection(a, b)))
	require.NoError(t, e.Score(context.Background()))

	comp := e.MFDComparison()
	require.NotNil(t, comp)
	require.Len(t, comp.Keys, testkit.Binning().NumBins())

	// Modeled rates sum across bins; observed counts annualize over the
	// investigation time.
	assert.InDelta(t, 0.8, comp.Modeled[0], 1e-12)
	assert.InDelta(t, 1.0/40, comp.Observed[0], 1e-12)

	// The cumulative form holds the rate of each magnitude and above, so
	// its first entry is the grand total.
	assert.InDelta(t, 0.9, comp.ModeledCum[0], 1e-12)
	assert.InDelta(t, 1.0/40, comp.ObservedCum[0], 1e-12)
}

func TestRunRecord(t *testing.T) {
	cfg := testConfig(config.TestLikelihood, config.TestMaxMagCheck)
	e := engine.New(cfg, testkit.RNG(1), nil)
	col := testkit.Collection(
		testkit.Bin("a", map[float64]float64{6.0: 0.1}),
		testkit.Bin("b", nil),
	)
	require.NoError(t, e.LoadBins(col))
	require.NoError(t, e.Score(context.Background()))

	rec := e.RunRecord()
	assert.Equal(t, e.RunID(), rec.RunID)
	assert.Equal(t, config.MethodPoisson, rec.Method)
	assert.Equal(t, 2, rec.NumBins)
	require.Len(t, rec.Scores, 2)
	for _, s := range rec.Scores {
		assert.True(t, s.HasLogLike)
		assert.True(t, s.HasMaxMagCheck)
	}
}
