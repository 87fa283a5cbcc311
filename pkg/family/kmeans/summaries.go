package kmeans

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/prism-stats/prism/pkg/align"
	"github.com/prism-stats/prism/pkg/config"
	"github.com/prism-stats/prism/pkg/convention"
	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/model"
	"github.com/prism-stats/prism/pkg/table"
)

func missingFeature(name string) error {
	return errors.Newf(errors.ErrorTypeInput, "new data lacks feature column %q", name)
}

func glance(m model.Model, _ *config.Options) (*table.Table, error) {
	km := m.(*Model)

	totWithin, err := stats.Sum(km.WithinSS)
	if err != nil {
		return nil, err
	}

	between := km.BetweenSS
	if between == 0 && km.TotSS > 0 {
		between = km.TotSS - totWithin
	}

	var nobs int64
	for _, size := range km.Sizes {
		nobs += size
	}

	return table.New(
		table.Float(convention.TotSS, km.TotSS),
		table.Float(convention.TotWithinSS, totWithin),
		table.Float(convention.BetweenSS, between),
		table.Int(convention.Iter, km.Iter),
		table.Int(convention.NObs, nobs),
	)
}

// tidy reports one row per cluster. The cluster label is the component
// identifier and the within-cluster sum of squares is its point estimate;
// sizes and center coordinates follow as extras.
func tidy(m model.Model, opts *config.Options) (*table.Table, error) {
	km := m.(*Model)
	k := len(km.Centers)

	terms := make([]string, k)
	for c := 0; c < k; c++ {
		terms[c] = clusterLabel(c)
	}

	out, err := table.New(
		table.Strings(convention.Term, terms...),
		table.Float(convention.Estimate, km.WithinSS...),
	)
	if err != nil {
		return nil, err
	}
	if opts.Quick {
		return out, nil
	}

	if opts.ConfInt {
		// A partition has no sampling distribution to build an interval
		// from; the columns are owed when requested, so they carry missing
		// markers rather than fabricated values.
		low := table.NewColumn(convention.ConfLow, table.ColumnTypeFloat)
		high := table.NewColumn(convention.ConfHigh, table.ColumnTypeFloat)
		for c := 0; c < k; c++ {
			low.AppendNA()
			high.AppendNA()
		}
		if err := out.AddColumn(low); err != nil {
			return nil, err
		}
		if err := out.AddColumn(high); err != nil {
			return nil, err
		}
	}

	if err := out.AddColumn(table.Int("size", km.Sizes...)); err != nil {
		return nil, err
	}
	for j, feature := range km.Features {
		coords := make([]float64, k)
		for c := 0; c < k; c++ {
			coords[c] = km.Centers[c][j]
		}
		if err := out.AddColumn(table.Float(feature, coords...)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func augment(m model.Model, opts *config.Options) (*align.Derivation, error) {
	km := m.(*Model)

	if opts.NewData != nil {
		return assign(km, opts.NewData)
	}

	data := opts.Data
	if data == nil {
		var err error
		data, err = km.ReconstructData()
		if err != nil {
			return nil, err
		}
	}

	cluster := table.NewColumn(convention.Cluster, table.ColumnTypeLabel)
	for _, c := range km.Assignments {
		if err := cluster.Append(clusterLabel(c)); err != nil {
			return nil, err
		}
	}

	return &align.Derivation{
		Data:     data,
		UsedRows: km.UsedRows,
		Columns:  []*table.Column{cluster},
	}, nil
}

// assign labels new data with the nearest center. Rows missing any feature
// get a missing marker; a feature column absent entirely is an input error.
func assign(km *Model, data *table.Table) (*align.Derivation, error) {
	cols := make([]*table.Column, len(km.Features))
	for j, feature := range km.Features {
		col, ok := data.Column(feature)
		if !ok {
			return nil, missingFeature(feature)
		}
		cols[j] = col
	}

	cluster := table.NewColumn(convention.Cluster, table.ColumnTypeLabel)
	point := make([]float64, len(km.Features))
	for row := 0; row < data.RowCount(); row++ {
		missing := false
		for j, col := range cols {
			x, ok := cellFloat(col, row)
			if !ok {
				missing = true
				break
			}
			point[j] = x
		}
		if missing {
			cluster.AppendNA()
			continue
		}
		if err := cluster.Append(clusterLabel(nearest(km.Centers, point))); err != nil {
			return nil, err
		}
	}

	return &align.Derivation{
		Data:    data,
		Columns: []*table.Column{cluster},
	}, nil
}

// nearest returns the index of the center closest to point
func nearest(centers [][]float64, point []float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		dist := 0.0
		for j := range point {
			d := point[j] - center[j]
			dist += d * d
		}
		if dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

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
