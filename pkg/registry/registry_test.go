package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism-stats/prism/pkg/align"
	"github.com/prism-stats/prism/pkg/config"
	"github.com/prism-stats/prism/pkg/convention"
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/model"
	"github.com/prism-stats/prism/pkg/table"
)

func oneRow(name string, value float64) GlanceFunc {
	return func(_ model.Model, _ *config.Options) (*table.Table, error) {
		return table.New(table.Float(name, value))
	}
}

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	r.RegisterGlance("widget", oneRow("nobs", 1))

	fn, err := r.ResolveGlance([]string{"widget"})
	require.NoError(t, err)
	out, err := fn(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.RowCount())
}

func TestResolveWalksHierarchyMostSpecificFirst(t *testing.T) {
	r := NewRegistry()
	r.RegisterGlance("base", oneRow("nobs", 1))
	r.RegisterGlance("derived", oneRow("nobs", 2))

	// Most specific tag wins when registered
	fn, err := r.ResolveGlance([]string{"derived", "base"})
	require.NoError(t, err)
	out, _ := fn(nil, nil)
	col, _ := out.Column("nobs")
	assert.Equal(t, 2.0, col.Get(0))

	// Falls back to the ancestor tag otherwise
	fn, err = r.ResolveGlance([]string{"unregistered", "base"})
	require.NoError(t, err)
	out, _ = fn(nil, nil)
	col, _ = out.Column("nobs")
	assert.Equal(t, 1.0, col.Get(0))
}

func TestResolveMissIsNoAdapterError(t *testing.T) {
	r := NewRegistry()

	_, err := r.ResolveTidy([]string{"widget"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNoAdapter))
	assert.Contains(t, err.Error(), "tidy")
	assert.Contains(t, err.Error(), "widget")
}

func TestResolveEmptyTagsIsInputError(t *testing.T) {
	r := NewRegistry()
	r.RegisterGlance("widget", oneRow("nobs", 1))

	_, err := r.ResolveGlance(nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))

	_, err = r.ResolveTidy([]string{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))

	_, err = r.ResolveAugment(nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.RegisterGlance("widget", oneRow("nobs", 1))
	r.RegisterGlance("widget", oneRow("nobs", 9))

	fn, err := r.ResolveGlance([]string{"widget"})
	require.NoError(t, err)
	out, _ := fn(nil, nil)
	col, _ := out.Column("nobs")
	assert.Equal(t, 9.0, col.Get(0))
}

func TestKindsAndListTypeTags(t *testing.T) {
	r := NewRegistry()
	r.RegisterGlance("widget", oneRow("nobs", 1))
	r.RegisterTidy("widget", func(_ model.Model, _ *config.Options) (*table.Table, error) {
		return table.New(
			table.Strings(convention.Term, "a"),
			table.Float(convention.Estimate, 1),
		)
	})
	r.RegisterAugment("gadget", func(_ model.Model, _ *config.Options) (*align.Derivation, error) {
		return nil, nil
	})

	assert.Equal(t, []convention.Kind{convention.KindGlance, convention.KindTidy}, r.Kinds("widget"))
	assert.Equal(t, []convention.Kind{convention.KindAugment}, r.Kinds("gadget"))
	assert.Empty(t, r.Kinds("unknown"))
	assert.Equal(t, []string{"gadget", "widget"}, r.ListTypeTags())
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	r.RegisterGlance("widget", oneRow("nobs", 1))
	r.Clear()

	_, err := r.ResolveGlance([]string{"widget"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeNoAdapter))
	assert.Empty(t, r.ListTypeTags())
}

func TestGlobalRegistry(t *testing.T) {
	RegisterGlance("registry_test_global", oneRow("nobs", 3))
	defer GetRegistry().Clear()

	fn, err := ResolveGlance([]string{"registry_test_global"})
	require.NoError(t, err)
	assert.NotNil(t, fn)
	assert.Contains(t, ListTypeTags(), "registry_test_global")
}
