// Package kmeans provides the summarization adapters for fitted k-means
// partitions. Models arrive already fitted; no clustering happens here.
package kmeans

import (
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/model"
	"github.com/prism-stats/prism/pkg/table"
)

// TypeTag is the dispatch tag for k-means models
const TypeTag = "kmeans"

// Model is a fitted k-means partition in already-estimated form
type Model struct {
	// Features names the coordinate columns; Centers is k rows of
	// len(Features) coordinates.
	Features []string    `json:"features"`
	Centers  [][]float64 `json:"centers"`

	Sizes    []int64   `json:"sizes"`
	WithinSS []float64 `json:"withinss"`

	TotSS     float64 `json:"totss"`
	BetweenSS float64 `json:"betweenss"`
	Iter      int64   `json:"iter"`

	// Assignments is the 0-based cluster index per observation the fit used
	Assignments []int `json:"assignments"`

	// UsedRows maps those observations to row positions of the fitting
	// data; nil means every row was used, in order.
	UsedRows []int `json:"used_rows,omitempty"`

	training *table.Table
}

type modelJSON struct {
	Model
	Training json.RawMessage `json:"training,omitempty"`
}

// Load decodes a serialized fitted k-means model
func Load(raw []byte) (model.Model, error) {
	var mj modelJSON
	if err := json.Unmarshal(raw, &mj); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed kmeans model")
	}

	m := mj.Model
	if err := m.check(); err != nil {
		return nil, err
	}

	if len(mj.Training) > 0 {
		training, err := table.DecodeJSON(mj.Training)
		if err != nil {
			return nil, err
		}
		m.training = training
	}
	return &m, nil
}

func (m *Model) check() error {
	k := len(m.Centers)
	if k == 0 {
		return errors.New(errors.ErrorTypeData, "kmeans model has no centers")
	}
	for i, center := range m.Centers {
		if len(center) != len(m.Features) {
			return errors.Newf(errors.ErrorTypeData,
				"center %d has %d coordinates for %d features", i, len(center), len(m.Features))
		}
	}
	if len(m.Sizes) != k || len(m.WithinSS) != k {
		return errors.Newf(errors.ErrorTypeData,
			"sizes and withinss must each have one entry per %d clusters", k)
	}
	for i, c := range m.Assignments {
		if c < 0 || c >= k {
			return errors.Newf(errors.ErrorTypeData,
				"observation %d assigned to cluster %d of %d", i, c, k)
		}
	}
	if m.UsedRows != nil && len(m.UsedRows) != len(m.Assignments) {
		return errors.Newf(errors.ErrorTypeData,
			"%d used rows for %d assignments", len(m.UsedRows), len(m.Assignments))
	}
	return nil
}

// TypeTag implements model.Model
func (m *Model) TypeTag() string { return TypeTag }

// Classes places kmeans in the partition capability hierarchy, so adapters
// registered for the generic "partition" tag apply when no kmeans-specific
// adapter exists.
func (m *Model) Classes() []string { return []string{TypeTag, "partition"} }

// ReconstructData rebuilds the fitting data carried with the model
func (m *Model) ReconstructData() (*table.Table, error) {
	if m.training == nil {
		return nil, errors.New(errors.ErrorTypeInput,
			"no data supplied and the model carries no training data")
	}
	return m.training, nil
}

// clusterLabel renders a 0-based cluster index as the conventional 1-based
// label.
func clusterLabel(c int) string {
	return strconv.Itoa(c + 1)
}
