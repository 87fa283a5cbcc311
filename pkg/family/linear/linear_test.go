package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	json "github.com/goccy/go-json"

	"github.com/prism-stats/prism/pkg/config"
	"github.com/prism-stats/prism/pkg/convention"
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/family"
	"github.com/prism-stats/prism/pkg/summary"
	"github.com/prism-stats/prism/pkg/table"
)

// fixture is a fit of y on x over a 10-row dataset where rows 3 and 7 were
// excluded. The estimated line is y = 1 + 2x.
func fixture(t *testing.T) (*Model, *table.Table) {
	t.Helper()

	x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	y := make([]float64, len(x))
	for i, xv := range x {
		y[i] = 1 + 2*xv
	}
	data, err := table.New(table.Float("x", x...), table.Float("y", y...))
	require.NoError(t, err)

	used := []int{0, 1, 2, 4, 5, 6, 8, 9}
	fitted := make([]float64, len(used))
	resid := make([]float64, len(used))
	for i, row := range used {
		fitted[i] = 1 + 2*x[row]
		if i%2 == 0 {
			resid[i] = 0.5
		} else {
			resid[i] = -0.5
		}
	}

	m := &Model{
		Terms:        []string{InterceptTerm, "x"},
		Coefficients: []float64{1, 2},
		StdErrors:    []float64{0.5, 0.25},
		Response:     "y",
		DFResidual:   6,
		NObs:         8,
		RSquared:     0.98,
		AdjRSquared:  0.975,
		Sigma:        0.53,
		FStatistic:   294,
		DF:           1,
		LogLik:       -5.9,
		AIC:          17.8,
		BIC:          18.0,
		Deviance:     1.7,
		Fitted:       fitted,
		Residuals:    resid,
		UsedRows:     used,
	}
	require.NoError(t, m.check())
	return m, data
}

func TestLoadRoundTrip(t *testing.T) {
	payload := []byte(`{
		"family": "linear",
		"model": {
			"terms": ["(Intercept)", "x"],
			"coefficients": [1, 2],
			"std_errors": [0.5, 0.25],
			"response": "y",
			"df_residual": 2,
			"nobs": 4,
			"r_squared": 0.9,
			"fitted": [1, 3, 5, 7],
			"residuals": [0.1, -0.1, 0.1, -0.1],
			"training": {
				"columns": [
					{"name": "x", "type": "float", "values": [0, 1, 2, 3]},
					{"name": "y", "type": "float", "values": [1.1, 2.9, 5.1, 6.9]}
				]
			}
		}
	}`)

	m, err := family.Decode(payload)
	require.NoError(t, err)
	lm, ok := m.(*Model)
	require.True(t, ok)
	assert.Equal(t, TypeTag, lm.TypeTag())
	assert.Equal(t, []float64{1, 2}, lm.Coefficients)

	training, err := lm.ReconstructData()
	require.NoError(t, err)
	assert.Equal(t, 4, training.RowCount())
}

func TestLoadRejectsInconsistentModel(t *testing.T) {
	cases := map[string]string{
		"no terms":           `{"terms": [], "coefficients": [], "std_errors": []}`,
		"coefficient count":  `{"terms": ["x"], "coefficients": [1, 2], "std_errors": [0.1]}`,
		"std error count":    `{"terms": ["x"], "coefficients": [1], "std_errors": []}`,
		"residual count":     `{"terms": ["x"], "coefficients": [1], "std_errors": [0.1], "fitted": [1, 2], "residuals": [0.1]}`,
		"used row count":     `{"terms": ["x"], "coefficients": [1], "std_errors": [0.1], "fitted": [1], "residuals": [0.1], "used_rows": [0, 1]}`,
		"not even an object": `[1, 2, 3]`,
	}

	for name, raw := range cases {
		_, err := Load([]byte(raw))
		require.Error(t, err, name)
		assert.True(t, errors.IsType(err, errors.ErrorTypeData), name)
	}
}

func TestGlance(t *testing.T) {
	m, _ := fixture(t)

	out, err := summary.Glance(m, nil)
	require.NoError(t, err)
	require.Equal(t, 1, out.RowCount())

	r2, _ := out.Column(convention.RSquared)
	assert.Equal(t, 0.98, r2.Get(0))

	nobs, _ := out.Column(convention.NObs)
	assert.Equal(t, int64(8), nobs.Get(0))

	p, _ := out.Column(convention.PValue)
	assert.Less(t, p.Get(0).(float64), 0.001)

	// Canonical order: r.squared leads
	assert.Equal(t, convention.RSquared, out.ColumnNames()[0])
}

func TestGlanceStableColumns(t *testing.T) {
	m, _ := fixture(t)

	first, err := summary.Glance(m, nil)
	require.NoError(t, err)
	second, err := summary.Glance(m, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ColumnNames(), second.ColumnNames())
}

func TestTidy(t *testing.T) {
	m, _ := fixture(t)

	out, err := summary.Tidy(m, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
	assert.Equal(t, []string{
		convention.Term, convention.Estimate, convention.StdError,
		convention.Statistic, convention.PValue,
	}, out.ColumnNames())

	term, _ := out.Column(convention.Term)
	assert.Equal(t, InterceptTerm, term.Get(0))
	assert.Equal(t, "x", term.Get(1))

	est, _ := out.Column(convention.Estimate)
	assert.Equal(t, 2.0, est.Get(1))

	stat, _ := out.Column(convention.Statistic)
	assert.InDelta(t, 8.0, stat.Get(1).(float64), 1e-12) // 2 / 0.25

	p, _ := out.Column(convention.PValue)
	assert.Less(t, p.Get(1).(float64), 0.001)
}

func TestTidyConfidenceIntervals(t *testing.T) {
	m, _ := fixture(t)

	out, err := summary.Tidy(m, &config.Options{ConfInt: true})
	require.NoError(t, err)
	require.True(t, out.Has(convention.ConfLow))
	require.True(t, out.Has(convention.ConfHigh))

	est, _ := out.Column(convention.Estimate)
	low, _ := out.Column(convention.ConfLow)
	high, _ := out.Column(convention.ConfHigh)
	for i := 0; i < out.RowCount(); i++ {
		assert.Less(t, low.Get(i).(float64), est.Get(i).(float64))
		assert.Greater(t, high.Get(i).(float64), est.Get(i).(float64))
	}

	// A higher level widens the interval
	wider, err := summary.Tidy(m, &config.Options{ConfInt: true, ConfLevel: 0.99})
	require.NoError(t, err)
	wlow, _ := wider.Column(convention.ConfLow)
	whigh, _ := wider.Column(convention.ConfHigh)
	assert.Greater(t,
		whigh.Get(1).(float64)-wlow.Get(1).(float64),
		high.Get(1).(float64)-low.Get(1).(float64))
}

func TestTidyExponentiate(t *testing.T) {
	m, _ := fixture(t)

	out, err := summary.Tidy(m, &config.Options{Exponentiate: true, ConfInt: true})
	require.NoError(t, err)

	est, _ := out.Column(convention.Estimate)
	assert.InDelta(t, 7.389056, est.Get(1).(float64), 1e-5) // e^2

	// Bounds are transformed along with the estimate
	low, _ := out.Column(convention.ConfLow)
	high, _ := out.Column(convention.ConfHigh)
	assert.Greater(t, low.Get(1).(float64), 0.0)
	assert.Greater(t, high.Get(1).(float64), est.Get(1).(float64))
}

func TestTidyQuick(t *testing.T) {
	m, _ := fixture(t)

	out, err := summary.Tidy(m, &config.Options{Quick: true})
	require.NoError(t, err)
	assert.Equal(t, []string{convention.Term, convention.Estimate}, out.ColumnNames())

	// Quick wins when an interval is requested alongside it
	out, err = summary.Tidy(m, &config.Options{Quick: true, ConfInt: true})
	require.NoError(t, err)
	assert.Equal(t, []string{convention.Term, convention.Estimate}, out.ColumnNames())
}

func TestAugmentPreservesInputRows(t *testing.T) {
	m, data := fixture(t)

	out, err := summary.Augment(m, &config.Options{Data: data})
	require.NoError(t, err)
	require.Equal(t, data.RowCount(), out.RowCount())

	// Input columns come through untouched, ahead of derived ones
	assert.Equal(t, "x", out.ColumnNames()[0])
	assert.Equal(t, "y", out.ColumnNames()[1])
	require.True(t, out.Has(convention.Fitted))
	require.True(t, out.Has(convention.Resid))
	require.True(t, out.Has(convention.StdResid))

	fitted, _ := out.Column(convention.Fitted)
	resid, _ := out.Column(convention.Resid)

	// Rows the fit excluded carry missing markers
	for _, row := range []int{3, 7} {
		assert.True(t, fitted.IsNA(row), "row %d", row)
		assert.True(t, resid.IsNA(row), "row %d", row)
	}

	// Used rows carry their model values in input order
	assert.Equal(t, 1.0, fitted.Get(0))  // x=0
	assert.Equal(t, 9.0, fitted.Get(4))  // x=4
	assert.Equal(t, 19.0, fitted.Get(9)) // x=9
}

func TestAugmentReconstructsTrainingData(t *testing.T) {
	raw := `{
		"terms": ["(Intercept)", "x"],
		"coefficients": [1, 2],
		"std_errors": [0.5, 0.25],
		"df_residual": 2,
		"nobs": 4,
		"fitted": [1, 3, 5, 7],
		"residuals": [0.1, -0.1, 0.1, -0.1],
		"training": {
			"columns": [
				{"name": "x", "type": "float", "values": [0, 1, 2, 3]},
				{"name": "y", "type": "float", "values": [1.1, 2.9, 5.1, 6.9]}
			]
		}
	}`
	m, err := Load([]byte(raw))
	require.NoError(t, err)

	out, err := summary.Augment(m, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, out.RowCount())
	assert.True(t, out.Has(convention.Fitted))
}

func TestAugmentWithoutAnyDataIsInputError(t *testing.T) {
	m, _ := fixture(t) // no training table attached

	_, err := summary.Augment(m, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
}

func TestAugmentNewDataPredicts(t *testing.T) {
	m, _ := fixture(t)

	newData := table.NewColumn("x", table.ColumnTypeFloat)
	require.NoError(t, newData.Append(10.0))
	newData.AppendNA()
	require.NoError(t, newData.Append(-1.0))
	data, err := table.New(newData)
	require.NoError(t, err)

	out, err := summary.Augment(m, &config.Options{NewData: data})
	require.NoError(t, err)
	require.Equal(t, 3, out.RowCount())

	fitted, _ := out.Column(convention.Fitted)
	assert.Equal(t, 21.0, fitted.Get(0)) // 1 + 2*10
	assert.True(t, fitted.IsNA(1))       // missing predictor cell
	assert.Equal(t, -1.0, fitted.Get(2)) // 1 + 2*(-1)

	// No residuals for new data
	assert.False(t, out.Has(convention.Resid))
}

func TestAugmentNewDataMissingPredictor(t *testing.T) {
	m, _ := fixture(t)
	data, err := table.New(table.Float("z", 1, 2))
	require.NoError(t, err)

	_, err = summary.Augment(m, &config.Options{NewData: data})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
	assert.Contains(t, err.Error(), `"x"`)
}

func TestAugmentNewDataWinsOverData(t *testing.T) {
	m, data := fixture(t)
	newData, err := table.New(table.Float("x", 100))
	require.NoError(t, err)

	out, err := summary.Augment(m, &config.Options{Data: data, NewData: newData})
	require.NoError(t, err)
	assert.Equal(t, 1, out.RowCount())

	fitted, _ := out.Column(convention.Fitted)
	assert.Equal(t, 201.0, fitted.Get(0))
}

func TestModelSerializationIsStable(t *testing.T) {
	m, _ := fixture(t)

	raw, err := json.Marshal(m)
	require.NoError(t, err)
	reloaded, err := Load(raw)
	require.NoError(t, err)

	out, err := summary.Tidy(reloaded, nil)
	require.NoError(t, err)
	est, _ := out.Column(convention.Estimate)
	assert.Equal(t, 2.0, est.Get(1))
}
