// Package pipeline drives a document from source text to a laid-out box
// tree: parse, run scripts, cascade styles, lay out.
package pipeline

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"boxtree/internal/config"
	"boxtree/pkg/css"
	"boxtree/pkg/html"
	"boxtree/pkg/js"
	"boxtree/pkg/layout"
	"boxtree/pkg/text"
)

// Result is the outcome of one run.
type Result struct {
	Document *html.Document
	View     *layout.View
	// ScriptErr is the first script failure, if any. Layout still ran
	// against the DOM as the scripts left it.
	ScriptErr error
}

// Pipeline lays out documents with one configuration. It holds no
// per-document state and may be reused.
type Pipeline struct {
	cfg      config.Config
	logger   *log.Logger
	measurer text.Measurer
	root     *css.Style
}

// New prepares a pipeline for cfg. A nil logger discards output. It fails
// when cfg names a font that cannot be loaded.
func New(cfg config.Config, logger *log.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &Pipeline{cfg: cfg, logger: logger, measurer: text.FixedMeasurer{CharWidth: cfg.CharWidth}}
	if cfg.FontPath != "" {
		m, err := text.NewFontMeasurer(cfg.FontPath)
		if err != nil {
			return nil, err
		}
		p.measurer = m
		logger.Debug("measuring with font", "path", cfg.FontPath)
	}

	// A unitless line-height inherits as a ratio, so every box scales it
	// by its own font size.
	p.root = css.NewStyle()
	p.root.Set("line-height", strconv.FormatFloat(cfg.LineHeight, 'f', -1, 64))
	return p, nil
}

// Layout parses src and lays it out.
func (p *Pipeline) Layout(src string) (*Result, error) {
	doc, err := html.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return p.LayoutDocument(doc), nil
}

// LayoutDocument runs scripts (when enabled) and lays out doc. Script
// errors are logged and recorded on the result; they never stop layout.
func (p *Pipeline) LayoutDocument(doc *html.Document) *Result {
	res := &Result{Document: doc}
	if p.cfg.RunScripts && len(doc.Scripts) > 0 {
		engine := js.New(js.WithLogger(p.logger.WithPrefix("js")))
		if err := engine.Execute(doc); err != nil {
			p.logger.Warn("script failed, laying out current DOM", "err", err)
			res.ScriptErr = err
		}
	}

	res.View = layout.NewView(doc.Root, css.NewDocumentCascade(doc).WithRoot(p.root),
		layout.WithContentWidth(p.cfg.ContentWidth),
		layout.WithMeasurer(p.measurer),
		layout.WithLogger(p.logger),
	)
	return res
}
