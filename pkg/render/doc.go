// Package render converts vdom trees into HTML.
//
// Output is deterministic: attributes are sorted, text and attribute values
// are escaped, void elements have no closing tag, and boolean attributes are
// rendered by name only. Identical trees always produce identical bytes, which
// is what makes a view's Render idempotent end to end.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	err := renderer.RenderPage(w, render.PageData{
//	    Title: "octocat",
//	    Body:  view.Render(),
//	})
//
// # Security
//
// All text content is escaped. KindRaw nodes are written verbatim and must
// only carry sanitized or trusted markup.
package render
