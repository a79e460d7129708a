package js

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"boxtree/pkg/html"
)

// Engine executes JavaScript against an HTML document's DOM.
type Engine struct {
	vm     *goja.Runtime
	logger *log.Logger
}

// Option configures New.
type Option func(*Engine)

// WithLogger routes console output and script diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a new JS engine with a fresh goja runtime.
func New(opts ...Option) *Engine {
	e := &Engine{vm: goja.New(), logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(e)
	}
	c := &consoleAPI{logger: e.logger}
	c.register(e.vm)
	return e
}

// Execute runs the document's scripts in order against its DOM. It stops at
// the first script that throws; the DOM keeps whatever mutations ran before
// the error.
func (e *Engine) Execute(doc *html.Document) error {
	registerDocument(e.vm, doc)
	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		e.logger.Debug("ran script", "index", i, "bytes", len(script))
	}
	return nil
}
