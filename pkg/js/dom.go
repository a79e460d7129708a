package js

import (
	"errors"
	"sort"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"boxtree/pkg/css"
	"boxtree/pkg/html"
)

// domContext holds the node-to-proxy mapping for one execution, so the same
// JS object is returned for the same *html.Node and === holds.
type domContext struct {
	vm    *goja.Runtime
	doc   *html.Document
	cache map[*html.Node]*goja.Object
	nodes map[*goja.Object]*html.Node
}

func newDOMContext(vm *goja.Runtime, doc *html.Document) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		cache: make(map[*html.Node]*goja.Object),
		nodes: make(map[*goja.Object]*html.Node),
	}
}

var errNotAChild = errors.New("removeChild: node is not a child of this element")

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := newDOMContext(vm, doc)

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		return ctx.proxyOrNull(getElementByID(doc.Root, call.Arguments[0].String()))
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		return ctx.elementArray(getElementsByTagName(doc.Root, strings.ToLower(call.Arguments[0].String())))
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		return ctx.elementArray(getElementsByClassName(doc.Root, call.Arguments[0].String()))
	})
	docObj.Set("querySelector", ctx.querySelector(doc.Root, false))
	docObj.Set("querySelectorAll", ctx.querySelector(doc.Root, true))
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("createElement: 1 argument required"))
		}
		return ctx.elementProxy(html.NewElement(call.Arguments[0].String(), nil))
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.elementProxy(html.NewText(text))
	})
	docObj.DefineAccessorProperty("body", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.proxyOrNull(getFirstByTag(doc.Root, "body"))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	docObj.DefineAccessorProperty("documentElement", vm.ToValue(func(goja.FunctionCall) goja.Value {
		return ctx.proxyOrNull(getFirstByTag(doc.Root, "html"))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	vm.Set("document", docObj)
	return ctx
}

func getElementByID(node *html.Node, id string) *html.Node {
	if node.Type == html.ElementNode {
		if val, ok := node.GetAttribute("id"); ok && val == id {
			return node
		}
	}
	for _, child := range node.Children {
		if found := getElementByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

func getFirstByTag(node *html.Node, tag string) *html.Node {
	if node.Type == html.ElementNode && node.TagName == tag {
		return node
	}
	for _, child := range node.Children {
		if found := getFirstByTag(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// getElementsByTagName collects the elements below node (node included)
// with the given tag name; "*" matches every element.
func getElementsByTagName(node *html.Node, tag string) []*html.Node {
	var result []*html.Node
	walkElements(node, func(n *html.Node) {
		if tag == "*" || n.TagName == tag {
			result = append(result, n)
		}
	})
	return result
}

func getElementsByClassName(node *html.Node, cls string) []*html.Node {
	var result []*html.Node
	walkElements(node, func(n *html.Node) {
		classes, _ := n.GetAttribute("class")
		for _, c := range strings.Fields(classes) {
			if c == cls {
				result = append(result, n)
				return
			}
		}
	})
	return result
}

func walkElements(node *html.Node, fn func(*html.Node)) {
	if node.Type == html.ElementNode {
		fn(node)
	}
	for _, child := range node.Children {
		walkElements(child, fn)
	}
}

// querySelector returns querySelector (all=false) or querySelectorAll
// scoped to the descendants of root.
func (ctx *domContext) querySelector(root *html.Node, all bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("querySelector: 1 argument required"))
		}
		selectors, err := css.ParseSelectorGroup(call.Arguments[0].String())
		if err != nil {
			panic(ctx.vm.NewTypeError(err.Error()))
		}
		var matches []*html.Node
		for _, child := range root.Children {
			walkElements(child, func(n *html.Node) {
				if !all && len(matches) > 0 {
					return
				}
				for _, sel := range selectors {
					if css.MatchesSelector(n, sel) {
						matches = append(matches, n)
						return
					}
				}
			})
		}
		if all {
			return ctx.elementArray(matches)
		}
		if len(matches) == 0 {
			return goja.Null()
		}
		return ctx.elementProxy(matches[0])
	}
}

func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	items := make([]any, len(nodes))
	for i, n := range nodes {
		items[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(items...)
}

func (ctx *domContext) proxyOrNull(node *html.Node) goja.Value {
	if node == nil || node.Type == html.DocumentNode {
		return goja.Null()
	}
	return ctx.elementProxy(node)
}

// elementProxy creates (or retrieves from cache) a JS object wrapping node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	ctx.nodes[v] = node
	return v
}

// unwrapNode returns the node behind a proxy, or nil for anything else.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	return ctx.nodes[obj]
}

// elementAccessor implements goja.DynamicObject over one DOM node.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"tagName", "nodeName", "nodeType", "id", "className", "textContent",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "childNodes", "parentNode", "firstChild", "nextSibling",
	"style", "appendChild", "removeChild", "remove",
	"querySelector", "querySelectorAll",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	isText := e.node.Type == html.TextNode

	switch key {
	case "nodeType":
		if isText {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "nodeName", "tagName":
		if isText {
			if key == "nodeName" {
				return vm.ToValue("#text")
			}
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "id":
		id, _ := e.node.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := e.node.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(e.node.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := e.node.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) >= 2 && !isText {
				e.node.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
			}
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := e.node.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 && !isText {
				e.node.RemoveAttribute(call.Arguments[0].String())
			}
			return goja.Undefined()
		})
	case "children":
		var elements []*html.Node
		for _, child := range e.node.Children {
			if child.Type == html.ElementNode {
				elements = append(elements, child)
			}
		}
		return e.ctx.elementArray(elements)
	case "childNodes":
		return e.ctx.elementArray(e.node.Children)
	case "parentNode":
		return e.ctx.proxyOrNull(e.node.Parent)
	case "firstChild":
		return e.ctx.proxyOrNull(e.node.FirstChild())
	case "nextSibling":
		return e.ctx.proxyOrNull(e.node.NextSibling())
	case "style":
		if isText {
			return goja.Undefined()
		}
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: e.node})
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("appendChild: 1 argument required"))
			}
			child := e.ctx.unwrapNode(call.Arguments[0])
			if child == nil {
				panic(vm.NewTypeError("appendChild: argument is not a node"))
			}
			for n := e.node; n != nil; n = n.Parent {
				if n == child {
					panic(vm.NewTypeError("appendChild: the new child is an ancestor of the parent"))
				}
			}
			if child.Parent != nil {
				child.Parent.RemoveChild(child)
			}
			e.node.AddChild(child)
			return call.Arguments[0]
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("removeChild: 1 argument required"))
			}
			child := e.ctx.unwrapNode(call.Arguments[0])
			if child == nil || e.node.RemoveChild(child) == nil {
				panic(vm.NewGoError(errNotAChild))
			}
			return call.Arguments[0]
		})
	case "remove":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			if e.node.Parent != nil {
				e.node.Parent.RemoveChild(e.node)
			}
			return goja.Undefined()
		})
	case "querySelector":
		return vm.ToValue(e.ctx.querySelector(e.node, false))
	case "querySelectorAll":
		return vm.ToValue(e.ctx.querySelector(e.node, true))
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	if e.node.Type == html.TextNode {
		if key == "textContent" {
			e.node.Text = val.String()
			return true
		}
		return false
	}
	switch key {
	case "textContent":
		for len(e.node.Children) > 0 {
			e.node.RemoveChild(e.node.Children[0])
		}
		e.node.AppendText(val.String())
	case "className":
		e.node.SetAttribute("class", val.String())
	case "id":
		e.node.SetAttribute("id", val.String())
	default:
		return false
	}
	return true
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(string) bool { return false }

func (e *elementAccessor) Keys() []string { return elementKeys }

// styleAccessor maps camelCase property access on element.style to
// kebab-case declarations in the element's style attribute.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	styles := parseInlineStyle(s.attr())
	return s.vm.ToValue(styles[camelToKebab(key)])
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	styles := parseInlineStyle(s.attr())
	if v := val.String(); v == "" {
		delete(styles, camelToKebab(key))
	} else {
		styles[camelToKebab(key)] = v
	}
	s.node.SetAttribute("style", serializeInlineStyle(styles))
	return true
}

func (s *styleAccessor) Has(string) bool { return true }

func (s *styleAccessor) Delete(key string) bool {
	styles := parseInlineStyle(s.attr())
	delete(styles, camelToKebab(key))
	s.node.SetAttribute("style", serializeInlineStyle(styles))
	return true
}

func (s *styleAccessor) Keys() []string {
	styles := parseInlineStyle(s.attr())
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *styleAccessor) attr() string {
	v, _ := s.node.GetAttribute("style")
	return v
}

// parseInlineStyle parses a style attribute into a property map.
func parseInlineStyle(s string) map[string]string {
	result := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop != "" {
			result[prop] = strings.TrimSpace(val)
		}
	}
	return result
}

// serializeInlineStyle writes declarations sorted by property.
func serializeInlineStyle(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m[k]
	}
	return strings.Join(parts, "; ")
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
