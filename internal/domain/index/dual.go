package index

// Dual pairs the two reference-population indices: All spans the entire
// population, High is restricted to members flagged high-value. Both are
// built by the offline step and only read afterwards.
type Dual struct {
	All  *Flat
	High *Flat
}

// NewDual creates an empty index pair sharing one dimensionality.
func NewDual(dim int) *Dual {
	return &Dual{All: NewFlat(dim), High: NewFlat(dim)}
}
