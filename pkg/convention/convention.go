// Package convention encodes the column-naming policy shared by every model
// family: the canonical column vocabulary, the reserved prefix that keeps
// derived columns from colliding with caller data, and the canonical column
// order per summarization kind. It is pure static data; nothing here fails.
package convention

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Kind identifies one of the three summarization views
type Kind string

const (
	// KindGlance is the per-model view: exactly one row
	KindGlance Kind = "glance"
	// KindTidy is the per-component view: one row per component
	KindTidy Kind = "tidy"
	// KindAugment is the per-observation view: one row per input row
	KindAugment Kind = "augment"
)

// DerivedPrefix marks columns added by the framework or an adapter, keeping
// them distinct from caller-supplied data columns.
const DerivedPrefix = "."

// Canonical tidy column names
const (
	Term      = "term"
	Estimate  = "estimate"
	StdError  = "std.error"
	Statistic = "statistic"
	PValue    = "p.value"
	ConfLow   = "conf.low"
	ConfHigh  = "conf.high"
)

// Canonical glance column names
const (
	RSquared    = "r.squared"
	AdjRSquared = "adj.r.squared"
	Sigma       = "sigma"
	DF          = "df"
	LogLik      = "logLik"
	AIC         = "AIC"
	BIC         = "BIC"
	Deviance    = "deviance"
	DFResidual  = "df.residual"
	NObs        = "nobs"
	TotSS       = "totss"
	TotWithinSS = "tot.withinss"
	BetweenSS   = "betweenss"
	Iter        = "iter"
)

// Canonical derived (dot-prefixed) column names
const (
	RowNames = ".rownames"
	Fitted   = ".fitted"
	Resid    = ".resid"
	StdResid = ".std.resid"
	Hat      = ".hat"
	SigmaCol = ".sigma"
	CooksD   = ".cooksd"
	Cluster  = ".cluster"
	SE       = ".se.fit"
)

// SemanticType is the semantic value type of a canonical column
type SemanticType string

const (
	TypeNumeric SemanticType = "numeric"
	TypeString  SemanticType = "string"
	TypeLabel   SemanticType = "label"
	TypeInteger SemanticType = "integer"
)

// ColumnSpec describes a canonical column
type ColumnSpec struct {
	Type        SemanticType
	Description string
}

// vocabulary maps every canonical column name to its semantic type and
// description. Adapter-specific extras are allowed beyond this set as long
// as they do not carry the reserved prefix.
var vocabulary = map[string]ColumnSpec{
	Term:      {TypeString, "name of the model component"},
	Estimate:  {TypeNumeric, "point estimate of the component"},
	StdError:  {TypeNumeric, "standard error of the estimate"},
	Statistic: {TypeNumeric, "value of the test statistic"},
	PValue:    {TypeNumeric, "two-sided p-value of the test statistic"},
	ConfLow:   {TypeNumeric, "lower bound of the confidence interval"},
	ConfHigh:  {TypeNumeric, "upper bound of the confidence interval"},

	RSquared:    {TypeNumeric, "coefficient of determination"},
	AdjRSquared: {TypeNumeric, "r.squared adjusted for model complexity"},
	Sigma:       {TypeNumeric, "estimated residual standard deviation"},
	DF:          {TypeNumeric, "degrees of freedom used by the model"},
	LogLik:      {TypeNumeric, "log-likelihood of the model"},
	AIC:         {TypeNumeric, "Akaike information criterion"},
	BIC:         {TypeNumeric, "Bayesian information criterion"},
	Deviance:    {TypeNumeric, "model deviance"},
	DFResidual:  {TypeNumeric, "residual degrees of freedom"},
	NObs:        {TypeInteger, "number of observations used in fitting"},
	TotSS:       {TypeNumeric, "total sum of squares"},
	TotWithinSS: {TypeNumeric, "total within-cluster sum of squares"},
	BetweenSS:   {TypeNumeric, "between-cluster sum of squares"},
	Iter:        {TypeInteger, "iterations until convergence"},

	RowNames: {TypeString, "row label carried over from the input dataset"},
	Fitted:   {TypeNumeric, "fitted or predicted value"},
	Resid:    {TypeNumeric, "response minus fitted value"},
	StdResid: {TypeNumeric, "standardized residual"},
	Hat:      {TypeNumeric, "leverage (diagonal of the hat matrix)"},
	SigmaCol: {TypeNumeric, "residual standard deviation when this row is dropped"},
	CooksD:   {TypeNumeric, "Cook's distance"},
	Cluster:  {TypeLabel, "assigned cluster"},
	SE:       {TypeNumeric, "standard error of the fitted value"},
}

// canonicalOrder fixes the relative order of canonical columns per kind.
// Columns an adapter does not produce are simply absent; extras follow the
// canonical set in adapter-defined order.
var canonicalOrder = map[Kind][]string{
	KindTidy: {
		Term, Estimate, StdError, Statistic, PValue, ConfLow, ConfHigh,
	},
	KindGlance: {
		RSquared, AdjRSquared, Sigma, Statistic, PValue, DF,
		TotSS, TotWithinSS, BetweenSS, Iter,
		LogLik, AIC, BIC, Deviance, DFResidual, NObs,
	},
	KindAugment: {
		RowNames, Fitted, SE, Resid, Hat, SigmaCol, CooksD, StdResid, Cluster,
	},
}

// IsReserved reports whether name carries the derived-column prefix
func IsReserved(name string) bool {
	return strings.HasPrefix(name, DerivedPrefix)
}

// IsCanonical reports whether name belongs to the canonical vocabulary
func IsCanonical(name string) bool {
	_, ok := vocabulary[name]
	return ok
}

// Lookup returns the spec of a canonical column
func Lookup(name string) (ColumnSpec, bool) {
	spec, ok := vocabulary[name]
	return spec, ok
}

// CanonicalOrder returns the canonical column order for a kind. The returned
// slice is a copy; callers may mutate it.
func CanonicalOrder(kind Kind) []string {
	order := canonicalOrder[kind]
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Rank returns the position of name in the canonical order for kind, and
// whether the name is part of that order at all.
func Rank(kind Kind, name string) (int, bool) {
	for i, n := range canonicalOrder[kind] {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns the canonical vocabulary, sorted, for diagnostics and docs
func Names() []string {
	names := make([]string, 0, len(vocabulary))
	for name := range vocabulary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fingerprint hashes an ordered column set. The dispatcher uses it to detect
// glance column sets drifting across calls for the same type tag.
func Fingerprint(names []string) uint64 {
	d := xxhash.New()
	for _, name := range names {
		_, _ = d.WriteString(name)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
