// Package parser extracts declaration models from C# sources using tree-sitter
package parser

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/QTest-hq/qskel/pkg/model"
)

// Parser parses C# source files. A Parser is not safe for concurrent use.
type Parser struct {
	csParser *sitter.Parser
}

// NewParser creates a new C# parser
func NewParser() *Parser {
	csParser := sitter.NewParser()
	csParser.SetLanguage(csharp.GetLanguage())

	return &Parser{csParser: csParser}
}

// Load reads a declaration model from path: a directory of C# sources, a
// single .cs file, or a YAML/JSON model file
func (p *Parser) Load(ctx context.Context, path string) (*model.DeclarationModel, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return p.ParseDirectory(ctx, path)
	}

	switch DetectLanguage(path) {
	case LanguageCSharp:
		return p.ParseFile(ctx, path)
	case LanguageYAML, LanguageJSON:
		return model.LoadFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}
}

// ParseFile parses a single C# file
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*model.DeclarationModel, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	entities, err := p.parseEntities(ctx, filePath, content)
	if err != nil {
		return nil, err
	}
	return newModel(entities), nil
}

// ParseContent parses C# source content
func (p *Parser) ParseContent(ctx context.Context, filePath string, content []byte) (*model.DeclarationModel, error) {
	entities, err := p.parseEntities(ctx, filePath, content)
	if err != nil {
		return nil, err
	}
	return newModel(entities), nil
}

// ParseDirectory parses every C# source under root, in lexical path order.
// Test files, entry points and build output directories are skipped.
func (p *Parser) ParseDirectory(ctx context.Context, root string) (*model.DeclarationModel, error) {
	var entities []model.Entity

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if DetectLanguage(path) != LanguageCSharp || SkipFile(path) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		found, err := p.parseEntities(ctx, path, content)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		entities = append(entities, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return newModel(entities), nil
}

// newModel merges partial declarations and fingerprints the result
func newModel(entities []model.Entity) *model.DeclarationModel {
	m := &model.DeclarationModel{}
	index := make(map[string]int)
	for _, e := range entities {
		key := e.Namespace + "." + e.Name
		if i, ok := index[key]; ok {
			m.Entities[i].Members = append(m.Entities[i].Members, e.Members...)
			m.Entities[i].Static = m.Entities[i].Static || e.Static
			m.Entities[i].Abstract = m.Entities[i].Abstract || e.Abstract
			continue
		}
		index[key] = len(m.Entities)
		m.Entities = append(m.Entities, e)
	}
	for _, e := range m.Entities {
		if e.Namespace != "" {
			m.Namespace = e.Namespace
			break
		}
	}
	m.ID = model.Fingerprint(m)
	return m
}

func (p *Parser) parseEntities(ctx context.Context, filePath string, content []byte) ([]model.Entity, error) {
	tree, err := p.csParser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	defer tree.Close()

	x := &extractor{source: content, file: filePath}
	x.visitChildren(tree.RootNode(), "")
	return x.entities, nil
}

// extractor collects entities from one syntax tree
type extractor struct {
	source   []byte
	file     string
	entities []model.Entity
}

// visitChildren walks declarations in document order. A file-scoped
// namespace applies to every declaration after it.
func (x *extractor) visitChildren(node *sitter.Node, ns string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "namespace_declaration":
			if body := child.ChildByFieldName("body"); body != nil {
				x.visitChildren(body, joinNamespace(ns, x.name(child)))
			}
		case "file_scoped_namespace_declaration":
			ns = joinNamespace(ns, x.name(child))
			x.visitChildren(child, ns)
		case "class_declaration", "struct_declaration", "record_declaration", "record_struct_declaration":
			x.visitType(child, ns)
		case "declaration_list":
			x.visitChildren(child, ns)
		}
	}
}

func (x *extractor) visitType(node *sitter.Node, ns string) {
	name := x.name(node)
	if name == "" || childOfType(node, "type_parameter_list") != nil {
		return
	}

	mods := x.modifiers(node)
	if mods["private"] || mods["protected"] || mods["file"] {
		return
	}

	e := model.Entity{
		Name:      name,
		Namespace: ns,
		File:      x.file,
		Static:    mods["static"],
		Abstract:  mods["abstract"],
	}

	// primary constructors; positional records also declare init-only
	// properties
	if params := childOfType(node, "parameter_list"); params != nil {
		parameters := x.parameters(params)
		e.Members = append(e.Members, model.Member{Kind: model.MemberConstructor, Parameters: parameters})
		if strings.HasPrefix(node.Type(), "record") {
			for _, param := range parameters {
				e.Members = append(e.Members, model.Member{Kind: model.MemberProperty, Name: pascalCase(param.Name), Type: param.Type})
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		body = childOfType(node, "declaration_list")
	}
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			switch child.Type() {
			case "constructor_declaration":
				if m, ok := x.constructor(child); ok {
					e.Members = append(e.Members, m)
				}
			case "property_declaration":
				if m, ok := x.property(child); ok {
					e.Members = append(e.Members, m)
				}
			case "method_declaration":
				if m, ok := x.method(child); ok {
					e.Members = append(e.Members, m)
				}
			}
			// nested types are skipped: generated tests could only name
			// them through the enclosing type
		}
	}

	x.entities = append(x.entities, e)
}

func (x *extractor) constructor(node *sitter.Node) (model.Member, bool) {
	mods := x.modifiers(node)
	if !mods["public"] || mods["static"] {
		return model.Member{}, false
	}
	return model.Member{
		Kind:       model.MemberConstructor,
		Parameters: x.parameters(node.ChildByFieldName("parameters")),
	}, true
}

func (x *extractor) property(node *sitter.Node) (model.Member, bool) {
	mods := x.modifiers(node)
	name := x.name(node)
	if !mods["public"] || name == "" || skipMember(name) {
		return model.Member{}, false
	}

	m := model.Member{
		Kind:   model.MemberProperty,
		Name:   name,
		Type:   model.ParseSignature(x.content(node.ChildByFieldName("type"))),
		Static: mods["static"],
	}

	accessors := node.ChildByFieldName("accessors")
	if accessors == nil {
		accessors = childOfType(node, "accessor_list")
	}
	if accessors != nil {
		for i := 0; i < int(accessors.NamedChildCount()); i++ {
			acc := accessors.NamedChild(i)
			if acc.Type() != "accessor_declaration" {
				continue
			}
			accMods := x.modifiers(acc)
			if accMods["private"] || accMods["protected"] {
				continue
			}
			if x.accessorKind(acc) == "set" {
				m.Mutable = true
			}
		}
	}
	return m, true
}

func (x *extractor) method(node *sitter.Node) (model.Member, bool) {
	mods := x.modifiers(node)
	name := x.name(node)
	if !mods["public"] || name == "" || skipMember(name) {
		return model.Member{}, false
	}

	returns := node.ChildByFieldName("returns")
	if returns == nil {
		returns = node.ChildByFieldName("type")
	}

	return model.Member{
		Kind:       model.MemberMethod,
		Name:       name,
		Parameters: x.parameters(node.ChildByFieldName("parameters")),
		ReturnType: model.ParseSignature(x.content(returns)),
		Async:      mods["async"],
		Static:     mods["static"],
	}, true
}

func (x *extractor) parameters(node *sitter.Node) []model.Parameter {
	if node == nil {
		return nil
	}

	var params []model.Parameter
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "parameter" {
			continue
		}
		typ := x.content(child.ChildByFieldName("type"))
		name := x.content(child.ChildByFieldName("name"))
		if typ == "" || name == "" {
			continue
		}
		params = append(params, model.Param(name, typ))
	}
	return params
}

// accessorKind returns "get", "set", "init" or "" for an accessor
func (x *extractor) accessorKind(node *sitter.Node) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return x.content(name)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		switch t := node.Child(i).Type(); t {
		case "get", "set", "init":
			return t
		}
	}
	return ""
}

func (x *extractor) modifiers(node *sitter.Node) map[string]bool {
	mods := make(map[string]bool)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "modifier" {
			mods[strings.TrimSpace(child.Content(x.source))] = true
		}
	}
	return mods
}

func (x *extractor) name(node *sitter.Node) string {
	return x.content(node.ChildByFieldName("name"))
}

func (x *extractor) content(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.Content(x.source))
}

func childOfType(node *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == typ {
			return child
		}
	}
	return nil
}

func joinNamespace(outer, inner string) string {
	if outer == "" {
		return inner
	}
	if inner == "" {
		return outer
	}
	return outer + "." + inner
}

func pascalCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
