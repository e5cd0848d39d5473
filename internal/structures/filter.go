package structures

// Filter narrows the records a parser exposes. Zero values mean "no filter".
type Filter struct {
	Year    int
	Profile string
}

func (f Filter) HasYear() bool {
	return f.Year != 0
}
