// Package document renders the outer HTML document shell: the
// <html>/<head>/<body> structure, default head tags, bootstrap scripts,
// and an opaque content fragment. Rendering is a pure, single-pass
// transformation from options plus content to a markup tree.
package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iknowcss/htmlshell/internal/shell/headmerge"
	"github.com/iknowcss/htmlshell/pkg/types"
)

// Build constructs the document tree:
// <html><head>{head tags}</head><body>{scripts}{children}</body></html>.
// Bootstrap scripts always precede the rendered children.
func Build(opts types.DocumentOptions, body string, contribs []headmerge.Contribution) (*html.Node, error) {
	headNode := element("head")
	for _, child := range buildHeadChildren(opts, contribs) {
		headNode.AppendChild(child)
	}

	bodyNode := element("body")

	scripts, err := bootstrapScripts(opts)
	if err != nil {
		return nil, err
	}
	for _, script := range scripts {
		bodyNode.AppendChild(script)
	}

	if body != "" {
		children, err := parseFragment(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse body fragment: %w", err)
		}
		for _, child := range children {
			bodyNode.AppendChild(child)
		}
	}

	htmlNode := element("html")
	htmlNode.AppendChild(headNode)
	htmlNode.AppendChild(bodyNode)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(htmlNode)
	return doc, nil
}

// Render writes the rendered document shell to w.
func Render(w io.Writer, opts types.DocumentOptions, body string, contribs []headmerge.Contribution) error {
	doc, err := Build(opts, body, contribs)
	if err != nil {
		return err
	}
	return html.Render(w, doc)
}

// RenderBytes renders the document shell to a byte slice.
func RenderBytes(opts types.DocumentOptions, body string, contribs []headmerge.Contribution) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, opts, body, contribs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContributionsFromTags converts wire-form head tags into collector
// contributions.
func ContributionsFromTags(tags []types.HeadTag) []headmerge.Contribution {
	if len(tags) == 0 {
		return nil
	}

	contribs := make([]headmerge.Contribution, 0, len(tags))
	for _, tag := range tags {
		contribs = append(contribs, headmerge.Contribution{
			Kind:  strings.ToLower(tag.Kind),
			Attrs: tag.Attrs,
			Text:  tag.Text,
		})
	}
	return contribs
}

// parseFragment parses an opaque HTML fragment in body context.
func parseFragment(fragment string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	return html.ParseFragment(strings.NewReader(fragment), context)
}

// element builds an element node for the given tag.
func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// text builds a text node.
func text(content string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: content,
	}
}
