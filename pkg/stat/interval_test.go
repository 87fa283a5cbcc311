package stat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalIntervalCoversEstimate(t *testing.T) {
	iv := Normal(2.5, 0.5, 0.95)
	assert.Less(t, iv.Low, 2.5)
	assert.Greater(t, iv.High, 2.5)

	// 1.96 is the familiar 95% normal quantile
	assert.InDelta(t, 2.5-1.96*0.5, iv.Low, 1e-3)
	assert.InDelta(t, 2.5+1.96*0.5, iv.High, 1e-3)
}

func TestIntervalWidthGrowsWithLevel(t *testing.T) {
	narrow := Normal(0, 1, 0.95)
	wide := Normal(0, 1, 0.99)
	assert.Greater(t, wide.High-wide.Low, narrow.High-narrow.Low)

	narrowT := T(0, 1, 10, 0.95)
	wideT := T(0, 1, 10, 0.99)
	assert.Greater(t, wideT.High-wideT.Low, narrowT.High-narrowT.Low)
}

func TestTIntervalWiderThanNormal(t *testing.T) {
	// Heavy tails at low df
	n := Normal(0, 1, 0.95)
	tv := T(0, 1, 3, 0.95)
	assert.Greater(t, tv.High-tv.Low, n.High-n.Low)
}

func TestTIntervalFallsBackToNormal(t *testing.T) {
	assert.Equal(t, Normal(1, 2, 0.9), T(1, 2, 0, 0.9))
	assert.Equal(t, Normal(1, 2, 0.9), T(1, 2, -5, 0.9))
}

func TestPValuesAreTwoSidedAndBounded(t *testing.T) {
	for _, stat := range []float64{-3, -0.5, 0, 0.5, 3} {
		p := PValueNormal(stat)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		assert.InDelta(t, p, PValueNormal(-stat), 1e-12)

		pt := PValueT(stat, 8)
		assert.GreaterOrEqual(t, pt, 0.0)
		assert.LessOrEqual(t, pt, 1.0)
	}

	assert.InDelta(t, 1.0, PValueNormal(0), 1e-12)
	assert.Less(t, PValueNormal(3), PValueNormal(1))
}

func TestPValueFUpperTail(t *testing.T) {
	p := PValueF(10, 2, 20)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 0.05)

	assert.Greater(t, PValueF(0.1, 2, 20), PValueF(5, 2, 20))
	assert.True(t, math.IsNaN(PValueF(1, 0, 20)))
}
