// Package headmerge implements the head-tag composition point: nested page
// content declares head tags (title overrides, extra metas) through a
// Collector, and Merge folds them into the document's default head tags
// with a defined override precedence.
package headmerge

// Tag kind constants for head contributions.
const (
	KindTitle = "title"
	KindMeta  = "meta"
	KindLink  = "link"
)

// Contribution is a single declared head tag: a kind (tag name),
// attributes, and optional text content (used by title).
type Contribution struct {
	Kind  string
	Attrs map[string]string
	Text  string
}

// Collector accumulates head contributions in declaration order.
// The zero value is ready to use.
type Collector struct {
	contribs []Contribution
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a contribution.
func (c *Collector) Add(contrib Contribution) {
	c.contribs = append(c.contribs, contrib)
}

// AddTitle declares a title override.
func (c *Collector) AddTitle(text string) {
	c.Add(Contribution{Kind: KindTitle, Text: text})
}

// AddMeta declares a meta tag.
func (c *Collector) AddMeta(attrs map[string]string) {
	c.Add(Contribution{Kind: KindMeta, Attrs: attrs})
}

// AddLink declares a link tag.
func (c *Collector) AddLink(attrs map[string]string) {
	c.Add(Contribution{Kind: KindLink, Attrs: attrs})
}

// Contributions returns the contributions in declaration order.
func (c *Collector) Contributions() []Contribution {
	return c.contribs
}

// identity returns the merge identity of a contribution. Contributions
// sharing an identity replace each other (later wins); contributions
// without one are always appended.
func identity(c Contribution) (string, bool) {
	switch c.Kind {
	case KindTitle:
		return "title", true
	case KindMeta:
		if name := c.Attrs["name"]; name != "" {
			return "meta:name=" + name, true
		}
		if property := c.Attrs["property"]; property != "" {
			return "meta:property=" + property, true
		}
	case KindLink:
		if rel := c.Attrs["rel"]; rel != "" {
			return "link:rel=" + rel, true
		}
	}
	return "", false
}

// Merge folds contributions into the defaults. A contribution whose
// identity matches an existing entry replaces it in place, preserving the
// defaults' tag order; everything else is appended in declaration order.
func Merge(defaults []Contribution, contribs []Contribution) []Contribution {
	merged := make([]Contribution, len(defaults))
	copy(merged, defaults)

	positions := make(map[string]int, len(merged))
	for i, d := range merged {
		if id, ok := identity(d); ok {
			positions[id] = i
		}
	}

	for _, c := range contribs {
		id, ok := identity(c)
		if !ok {
			merged = append(merged, c)
			continue
		}

		if pos, exists := positions[id]; exists {
			merged[pos] = c
			continue
		}

		positions[id] = len(merged)
		merged = append(merged, c)
	}

	return merged
}
