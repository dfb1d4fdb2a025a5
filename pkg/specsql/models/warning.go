package models

// Warning records a column that resolved to an empty literal because its
// cell could not be read.
type Warning struct {
	Sheet  string `json:"sheet"`
	Table  string `json:"table"`
	Column string `json:"column"`
	Row    int    `json:"row"`
	Ref    string `json:"ref,omitempty"`
	Reason string `json:"reason"`
}
