package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/table"
)

func TestNormalizeNilReceiver(t *testing.T) {
	var opts *Options
	norm, err := opts.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfLevel, norm.ConfLevel)
	assert.False(t, norm.ConfInt)
}

func TestNormalizeAppliesDefaultLevel(t *testing.T) {
	norm, err := (&Options{ConfInt: true}).Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfLevel, norm.ConfLevel)
}

func TestNormalizeDoesNotModifyReceiver(t *testing.T) {
	opts := &Options{ConfInt: true}
	_, err := opts.Normalize()
	require.NoError(t, err)
	assert.Zero(t, opts.ConfLevel)
}

func TestNormalizeRejectsOutOfRangeLevel(t *testing.T) {
	for _, level := range []float64{-0.5, 1.0, 1.5, 99} {
		_, err := (&Options{ConfInt: true, ConfLevel: level}).Normalize()
		require.Error(t, err, "level %v", level)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	}
}

func TestNormalizeIgnoresLevelWithoutConfInt(t *testing.T) {
	// Without ConfInt an out-of-range level is not an error
	norm, err := (&Options{ConfLevel: 42}).Normalize()
	require.NoError(t, err)
	assert.Equal(t, 42.0, norm.ConfLevel)
}

func TestNormalizeQuickWinsOverConfInt(t *testing.T) {
	norm, err := (&Options{Quick: true, ConfInt: true}).Normalize()
	require.NoError(t, err)
	assert.True(t, norm.Quick)
	assert.False(t, norm.ConfInt)

	// With the interval request dropped, its level is no longer validated
	norm, err = (&Options{Quick: true, ConfInt: true, ConfLevel: 1.5}).Normalize()
	require.NoError(t, err)
	assert.False(t, norm.ConfInt)
}

func TestNormalizeNewDataWins(t *testing.T) {
	d1, err := table.New(table.Float("x", 1))
	require.NoError(t, err)
	d2, err := table.New(table.Float("x", 2))
	require.NoError(t, err)

	norm, err := (&Options{Data: d1, NewData: d2}).Normalize()
	require.NoError(t, err)
	assert.Nil(t, norm.Data)
	assert.Same(t, d2, norm.NewData)
}

func TestExtraAccessors(t *testing.T) {
	opts := &Options{Extra: map[string]interface{}{
		"method": "wald",
		"robust": true,
	}}

	s, ok := opts.ExtraString("method")
	assert.True(t, ok)
	assert.Equal(t, "wald", s)

	b, ok := opts.ExtraBool("robust")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = opts.ExtraString("missing")
	assert.False(t, ok)
	_, ok = opts.ExtraBool("method") // wrong type
	assert.False(t, ok)

	var nilOpts *Options
	_, ok = nilOpts.ExtraString("method")
	assert.False(t, ok)
}
