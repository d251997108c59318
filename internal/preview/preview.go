// Package preview renders a finished report as a standalone HTML page.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-incidentmd/internal/assets"
	"github.com/alnah/go-incidentmd/internal/frontmatter"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultTitle is used when the report has no title field.
const DefaultTitle = "Incident Report"

// HTMLConverter abstracts report to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, report string) (string, error)
}

// page is the data passed to the page template.
type page struct {
	Title    string
	Date     string
	Category string
	Severity string
	Tags     []string
	CSS      template.CSS
	Body     template.HTML
}

// GoldmarkConverter converts reports to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md   goldmark.Markdown
	tmpl *template.Template
	css  template.CSS
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM tables and
// class-based syntax highlighting, styled with the named stylesheet.
func NewGoldmarkConverter(loader assets.Loader, style string) (*GoldmarkConverter, error) {
	css, err := loader.LoadStyle(style)
	if err != nil {
		return nil, err
	}
	src, err := loader.LoadTemplate(assets.DefaultTemplate)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(assets.DefaultTemplate).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // styled by the embedded stylesheet
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Raw HTML in notes is not trusted: WithUnsafe() stays off.
		),
	)

	return &GoldmarkConverter{md: md, tmpl: tmpl, css: template.CSS(css)}, nil // #nosec G203 -- stylesheet is embedded
}

// ToHTML renders the report body as an HTML5 page. The frontmatter supplies
// the page title and header line and is not rendered itself.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, report string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		out, err := c.render(report)
		done <- result{html: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

func (c *GoldmarkConverter) render(report string) (string, error) {
	meta, body, _ := frontmatter.Extract(report)

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	p := pageFrom(meta)
	p.CSS = c.css
	p.Body = template.HTML(buf.String()) // #nosec G203 -- goldmark output with raw HTML disabled

	var out bytes.Buffer
	if err := c.tmpl.Execute(&out, p); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return out.String(), nil
}

func pageFrom(meta frontmatter.Metadata) page {
	p := page{Title: DefaultTitle}
	if v, ok := meta.Get("title"); ok && v.Scalar() != "" {
		p.Title = v.Scalar()
	}
	if v, ok := meta.Get("date"); ok {
		p.Date = v.Scalar()
	}
	if v, ok := meta.Get("category"); ok {
		p.Category = v.Scalar()
	}
	if v, ok := meta.Get("severity"); ok {
		p.Severity = v.Scalar()
	}
	if v, ok := meta.Get("tags"); ok {
		p.Tags = v.Items()
	}
	return p
}
