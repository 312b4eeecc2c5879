package document

import (
	"sort"

	"golang.org/x/net/html"

	"github.com/iknowcss/htmlshell/internal/shell/headmerge"
	"github.com/iknowcss/htmlshell/pkg/types"
)

// preferredAttrOrder fixes the serialization order of well-known
// attributes so rendered output is deterministic and reads naturally.
// Remaining attributes follow in sorted order.
var preferredAttrOrder = []string{"charset", "name", "property", "http-equiv", "rel", "content", "href"}

// defaultHeadTags builds the document's own head contributions:
// title always, description meta and canonical link only when set.
func defaultHeadTags(opts types.DocumentOptions) []headmerge.Contribution {
	tags := []headmerge.Contribution{
		{Kind: headmerge.KindTitle, Text: opts.Title},
	}

	if opts.Description != "" {
		tags = append(tags, headmerge.Contribution{
			Kind:  headmerge.KindMeta,
			Attrs: map[string]string{"name": "description", "content": opts.Description},
		})
	}

	if opts.Canonical != "" {
		tags = append(tags, headmerge.Contribution{
			Kind:  headmerge.KindLink,
			Attrs: map[string]string{"rel": "canonical", "href": opts.Canonical},
		})
	}

	return tags
}

// buildHeadChildren merges page contributions into the default head tags
// and materializes the result as element nodes.
func buildHeadChildren(opts types.DocumentOptions, contribs []headmerge.Contribution) []*html.Node {
	merged := headmerge.Merge(defaultHeadTags(opts), contribs)

	nodes := make([]*html.Node, 0, len(merged))
	for _, tag := range merged {
		nodes = append(nodes, contributionNode(tag))
	}
	return nodes
}

// contributionNode converts a head contribution into an element node.
func contributionNode(tag headmerge.Contribution) *html.Node {
	node := element(tag.Kind, orderedAttrs(tag.Attrs)...)
	if tag.Text != "" {
		node.AppendChild(text(tag.Text))
	}
	return node
}

// orderedAttrs converts an attribute map into a deterministic slice:
// preferred keys first, then the rest alphabetically.
func orderedAttrs(attrs map[string]string) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}

	result := make([]html.Attribute, 0, len(attrs))
	seen := make(map[string]bool, len(attrs))

	for _, key := range preferredAttrOrder {
		if val, ok := attrs[key]; ok {
			result = append(result, html.Attribute{Key: key, Val: val})
			seen[key] = true
		}
	}

	rest := make([]string, 0, len(attrs))
	for key := range attrs {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	for _, key := range rest {
		result = append(result, html.Attribute{Key: key, Val: attrs[key]})
	}
	return result
}
