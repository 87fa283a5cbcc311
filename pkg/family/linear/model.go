// Package linear provides the summarization adapters for fitted
// least-squares linear models. Models arrive already fitted; no estimation
// happens here.
package linear

import (
	json "github.com/goccy/go-json"

	"github.com/prism-stats/prism/pkg/errors"
	"github.com/prism-stats/prism/pkg/model"
	"github.com/prism-stats/prism/pkg/table"
)

// TypeTag is the dispatch tag for linear models
const TypeTag = "lm"

// InterceptTerm is the conventional name of the intercept component
const InterceptTerm = "(Intercept)"

// Model is a fitted linear model in already-estimated form
type Model struct {
	// Terms names the coefficients, including the intercept when present
	Terms        []string  `json:"terms"`
	Coefficients []float64 `json:"coefficients"`
	StdErrors    []float64 `json:"std_errors"`

	// Response is the response column name in the fitting data
	Response string `json:"response"`

	DFResidual float64 `json:"df_residual"`
	NObs       int64   `json:"nobs"`

	RSquared    float64 `json:"r_squared"`
	AdjRSquared float64 `json:"adj_r_squared"`
	Sigma       float64 `json:"sigma"`
	FStatistic  float64 `json:"f_statistic"`
	DF          float64 `json:"df"`
	LogLik      float64 `json:"log_lik"`
	AIC         float64 `json:"aic"`
	BIC         float64 `json:"bic"`
	Deviance    float64 `json:"deviance"`

	// Fitted and Residuals carry one value per observation the fit used
	Fitted    []float64 `json:"fitted"`
	Residuals []float64 `json:"residuals"`

	// UsedRows maps those observations to row positions of the fitting
	// data; nil means every row was used, in order.
	UsedRows []int `json:"used_rows,omitempty"`

	training *table.Table
}

// modelJSON is the serialized form; training data rides along column-oriented
type modelJSON struct {
	Model
	Training json.RawMessage `json:"training,omitempty"`
}

// Load decodes a serialized fitted linear model
func Load(raw []byte) (model.Model, error) {
	var mj modelJSON
	if err := json.Unmarshal(raw, &mj); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "malformed linear model")
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
	if len(m.Terms) == 0 {
		return errors.New(errors.ErrorTypeData, "linear model has no terms")
	}
	if len(m.Coefficients) != len(m.Terms) {
		return errors.Newf(errors.ErrorTypeData,
			"%d coefficients for %d terms", len(m.Coefficients), len(m.Terms))
	}
	if len(m.StdErrors) != len(m.Terms) {
		return errors.Newf(errors.ErrorTypeData,
			"%d standard errors for %d terms", len(m.StdErrors), len(m.Terms))
	}
	if len(m.Residuals) != len(m.Fitted) {
		return errors.Newf(errors.ErrorTypeData,
			"%d residuals for %d fitted values", len(m.Residuals), len(m.Fitted))
	}
	if m.UsedRows != nil && len(m.UsedRows) != len(m.Fitted) {
		return errors.Newf(errors.ErrorTypeData,
			"%d used rows for %d fitted values", len(m.UsedRows), len(m.Fitted))
	}
	return nil
}

// TypeTag implements model.Model
func (m *Model) TypeTag() string { return TypeTag }

// ReconstructData rebuilds the fitting data carried with the model.
// Best-effort: models serialized without training data cannot reconstruct.
func (m *Model) ReconstructData() (*table.Table, error) {
	if m.training == nil {
		return nil, errors.New(errors.ErrorTypeInput,
			"no data supplied and the model carries no training data")
	}
	return m.training, nil
}
