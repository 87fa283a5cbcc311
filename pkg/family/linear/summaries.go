package linear

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/prism-stats/prism/pkg/align"
	"github.com/prism-stats/prism/pkg/config"
	"github.com/prism-stats/prism/pkg/convention"
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/model"
	"github.com/prism-stats/prism/pkg/stat"
	"github.com/prism-stats/prism/pkg/table"
)

func glance(m model.Model, _ *config.Options) (*table.Table, error) {
	lm := m.(*Model)

	return table.New(
		table.Float(convention.RSquared, lm.RSquared),
		table.Float(convention.AdjRSquared, lm.AdjRSquared),
		table.Float(convention.Sigma, lm.Sigma),
		table.Float(convention.Statistic, lm.FStatistic),
		table.Float(convention.PValue, stat.PValueF(lm.FStatistic, lm.DF, lm.DFResidual)),
		table.Float(convention.DF, lm.DF),
		table.Float(convention.LogLik, lm.LogLik),
		table.Float(convention.AIC, lm.AIC),
		table.Float(convention.BIC, lm.BIC),
		table.Float(convention.Deviance, lm.Deviance),
		table.Float(convention.DFResidual, lm.DFResidual),
		table.Int(convention.NObs, lm.NObs),
	)
}

func tidy(m model.Model, opts *config.Options) (*table.Table, error) {
	lm := m.(*Model)
	k := len(lm.Terms)

	estimates := make([]float64, k)
	copy(estimates, lm.Coefficients)

	if opts.Quick {
		if opts.Exponentiate {
			for i := range estimates {
				estimates[i] = math.Exp(estimates[i])
			}
		}
		return table.New(
			table.Strings(convention.Term, lm.Terms...),
			table.Float(convention.Estimate, estimates...),
		)
	}

	statistics := make([]float64, k)
	pvalues := make([]float64, k)
	for i := range lm.Terms {
		statistics[i] = lm.Coefficients[i] / lm.StdErrors[i]
		pvalues[i] = stat.PValueT(statistics[i], lm.DFResidual)
	}

	var low, high []float64
	if opts.ConfInt {
		low = make([]float64, k)
		high = make([]float64, k)
		for i := range lm.Terms {
			ci := stat.T(lm.Coefficients[i], lm.StdErrors[i], lm.DFResidual, opts.ConfLevel)
			low[i], high[i] = ci.Low, ci.High
		}
	}

	if opts.Exponentiate {
		for i := range estimates {
			estimates[i] = math.Exp(estimates[i])
		}
		for i := range low {
			low[i] = math.Exp(low[i])
			high[i] = math.Exp(high[i])
		}
	}

	out, err := table.New(
		table.Strings(convention.Term, lm.Terms...),
		table.Float(convention.Estimate, estimates...),
		table.Float(convention.StdError, lm.StdErrors...),
		table.Float(convention.Statistic, statistics...),
		table.Float(convention.PValue, pvalues...),
	)
	if err != nil {
		return nil, err
	}
	if opts.ConfInt {
		if err := out.AddColumn(table.Float(convention.ConfLow, low...)); err != nil {
			return nil, err
		}
		if err := out.AddColumn(table.Float(convention.ConfHigh, high...)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func augment(m model.Model, opts *config.Options) (*align.Derivation, error) {
	lm := m.(*Model)

	if opts.NewData != nil {
		return predict(lm, opts.NewData)
	}

	data := opts.Data
	if data == nil {
		var err error
		data, err = lm.ReconstructData()
		if err != nil {
			return nil, err
		}
	}

	fitted := table.Float(convention.Fitted, lm.Fitted...)
	resid := table.Float(convention.Resid, lm.Residuals...)

	d := &align.Derivation{
		Data:     data,
		UsedRows: lm.UsedRows,
		Columns:  []*table.Column{fitted, resid},
	}

	if sd, err := stats.StandardDeviation(lm.Residuals); err == nil && sd > 0 {
		std := table.NewColumn(convention.StdResid, table.ColumnTypeFloat)
		for _, r := range lm.Residuals {
			if err := std.Append(r / sd); err != nil {
				return nil, err
			}
		}
		d.Columns = append(d.Columns, std)
	}

	return d, nil
}

// predict computes fitted values for new data. Rows with a missing predictor
// get a missing marker; a predictor column absent from the data entirely is
// an input error.
func predict(lm *Model, data *table.Table) (*align.Derivation, error) {
	type predictor struct {
		col  *table.Column
		coef float64
	}

	intercept := 0.0
	preds := make([]predictor, 0, len(lm.Terms))
	for i, term := range lm.Terms {
		if term == InterceptTerm {
			intercept = lm.Coefficients[i]
			continue
		}
		col, ok := data.Column(term)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeInput,
				"new data lacks predictor column %q", term)
		}
		preds = append(preds, predictor{col: col, coef: lm.Coefficients[i]})
	}

	fitted := table.NewColumn(convention.Fitted, table.ColumnTypeFloat)
	for row := 0; row < data.RowCount(); row++ {
		value := intercept
		missing := false
		for _, p := range preds {
			x, ok := cellFloat(p.col, row)
			if !ok {
				missing = true
				break
			}
			value += p.coef * x
		}
		if missing {
			fitted.AppendNA()
		} else if err := fitted.Append(value); err != nil {
			return nil, err
		}
	}

	return &align.Derivation{
		Data:    data,
		Columns: []*table.Column{fitted},
	}, nil
}

// cellFloat reads a numeric cell, reporting false on missing or non-numeric
func cellFloat(col *table.Column, row int) (float64, bool) {
	switch v := col.Get(row).(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
