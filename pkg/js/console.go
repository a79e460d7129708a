package js

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
)

// consoleAPI implements console.log, console.warn, and console.error on top
// of a structured logger.
type consoleAPI struct {
	logger *log.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.emit(log.InfoLevel))
	console.Set("info", c.emit(log.InfoLevel))
	console.Set("warn", c.emit(log.WarnLevel))
	console.Set("error", c.emit(log.ErrorLevel))
	vm.Set("console", console)
}

func (c *consoleAPI) emit(level log.Level) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		c.logger.Log(level, formatArgs(call.Arguments), "source", "console")
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
