package editor

import "github.com/trezcool/shule/core/catalog"

// Component is a single placed widget instance on a page.
type Component struct {
	ID    string        `json:"id" bson:"id"`
	Type  string        `json:"type" bson:"type"`
	Props catalog.Props `json:"props" bson:"props"`
	Order int           `json:"order" bson:"order"`
}

// Clone returns a copy of c that shares no props with it.
func (c Component) Clone() Component {
	c.Props = c.Props.Clone()
	if c.Props == nil {
		c.Props = make(catalog.Props)
	}
	return c
}

// CloneComponents deep copies a list of components.
func CloneComponents(comps []Component) []Component {
	cp := make([]Component, 0, len(comps))
	for _, c := range comps {
		cp = append(cp, c.Clone())
	}
	return cp
}
