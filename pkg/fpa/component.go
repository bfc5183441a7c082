// Package fpa implements IFPUG-style Function Point Analysis: component
// complexity classification and function point aggregation.
// All functions are pure and deterministic.
package fpa

// Kind identifies the FPA component type being counted.
type Kind string

// The five IFPUG component kinds.
const (
	// InternalFile (ALI) is an internal logical data store.
	InternalFile Kind = "ALI"
	// ExternalFile (AIE) is an external interface data store.
	ExternalFile Kind = "AIE"
	// ExternalInput (EI) is a transaction that writes data into the system.
	ExternalInput Kind = "EI"
	// ExternalOutput (EO) is a transaction that presents derived data.
	ExternalOutput Kind = "EO"
	// ExternalQuery (EQ) is a retrieval transaction with an input and an output side.
	ExternalQuery Kind = "EQ"
)

// IsData reports whether the kind is a data component (counted by record
// types x data elements rather than file types referenced).
func (k Kind) IsData() bool {
	return k == InternalFile || k == ExternalFile
}

// IsTransactional reports whether the kind is a transactional component.
func (k Kind) IsTransactional() bool {
	return k == ExternalInput || k == ExternalOutput || k == ExternalQuery
}

// Valid reports whether the kind is one of the five recognized kinds.
func (k Kind) Valid() bool {
	return k.IsData() || k.IsTransactional()
}

// Tier is the complexity classification of a component.
type Tier string

// Complexity tiers, ordered Low < Average < High.
const (
	Low     Tier = "low"
	Average Tier = "average"
	High    Tier = "high"
)

// rank gives each tier an ordinal for comparisons. Unknown tiers rank below Low.
func (t Tier) rank() int {
	switch t {
	case Low:
		return 1
	case Average:
		return 2
	case High:
		return 3
	default:
		return 0
	}
}

// maxTier returns the tier with the higher ordinal.
func maxTier(a, b Tier) Tier {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// QuerySide holds the counts for one side of an external query.
type QuerySide struct {
	FileTypesReferenced int `json:"file_types_referenced" yaml:"file_types_referenced"`
	DataElements        int `json:"data_elements" yaml:"data_elements"`
}

// Component is one structural unit being counted.
//
// Data kinds (ALI/AIE) use RecordTypes and DataElements. Transactional kinds
// use FileTypesReferenced and DataElements. An EQ component may instead carry
// paired Input/Output sides; its complexity is the higher of the two sides.
type Component struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Name is optional caller-supplied identification. It plays no part in
	// classification and is carried through untouched.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	RecordTypes         int `json:"record_types,omitempty" yaml:"record_types,omitempty"`
	FileTypesReferenced int `json:"file_types_referenced,omitempty" yaml:"file_types_referenced,omitempty"`
	DataElements        int `json:"data_elements,omitempty" yaml:"data_elements,omitempty"`

	// Paired sides for EQ components. When both are set they take precedence
	// over the flat FileTypesReferenced/DataElements counts.
	Input  *QuerySide `json:"input,omitempty" yaml:"input,omitempty"`
	Output *QuerySide `json:"output,omitempty" yaml:"output,omitempty"`
}

// Classified is a component together with its derived complexity tier and
// function point weight. The derived fields are never supplied by callers;
// they are recomputed from the counts on every classification.
type Classified struct {
	Component
	Tier   Tier `json:"tier"`
	Points int  `json:"points"`
}

// weights maps kind and tier to the fixed IFPUG function point contribution.
var weights = map[Kind]map[Tier]int{
	InternalFile:   {Low: 7, Average: 10, High: 15},
	ExternalFile:   {Low: 5, Average: 7, High: 10},
	ExternalInput:  {Low: 3, Average: 4, High: 6},
	ExternalOutput: {Low: 4, Average: 5, High: 7},
	ExternalQuery:  {Low: 3, Average: 4, High: 6},
}

// Weight returns the function point contribution for a kind at a tier.
// It is zero for unknown kinds or tiers.
func Weight(k Kind, t Tier) int {
	return weights[k][t]
}
