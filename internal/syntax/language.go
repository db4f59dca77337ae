package syntax

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// KindSet is a set of tree-sitter node kinds.
type KindSet map[string]struct{}

func kinds(names ...string) KindSet {
	s := make(KindSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether kind is in the set.
func (s KindSet) Has(kind string) bool {
	_, ok := s[kind]
	return ok
}

// Language describes a tree-sitter grammar and the node kinds that matter
// when deciding where line breakpoints go.
type Language struct {
	Name       string
	Extensions []string

	grammar *sitter.Language

	Comments     KindSet // comment tokens
	Statements   KindSet // executable statements, always breakable
	Declarations KindSet // breakable only with an initializer
	Denied       KindSet // never breakable
	Blocks       KindSet // bodies and else branches, neutral
	Functions    KindSet // named callables with bodies
	Lambdas      KindSet // anonymous callables
	Strings      KindSet // literals that may span lines
}

var languages = []*Language{
	{
		Name:       "java",
		Extensions: []string{".java"},
		grammar:    sitter.NewLanguage(java.Language()),
		Comments:   kinds("line_comment", "block_comment"),
		Statements: kinds(
			"expression_statement", "local_variable_declaration", "return_statement",
			"if_statement", "for_statement", "enhanced_for_statement", "while_statement",
			"do_statement", "throw_statement", "try_statement", "try_with_resources_statement",
			"switch_expression", "break_statement", "continue_statement", "yield_statement",
			"assert_statement", "synchronized_statement", "labeled_statement",
			"explicit_constructor_invocation",
		),
		Declarations: kinds("field_declaration", "constant_declaration"),
		Denied: kinds(
			"package_declaration", "import_declaration", "module_declaration",
			"class_declaration", "interface_declaration", "enum_declaration",
			"record_declaration", "annotation_type_declaration",
		),
		Blocks:    kinds("block", "class_body", "constructor_body", "switch_block", "interface_body", "enum_body"),
		Functions: kinds("method_declaration", "constructor_declaration", "compact_constructor_declaration"),
		Lambdas:   kinds("lambda_expression"),
		Strings:   kinds("string_literal"),
	},
	{
		Name:       "c",
		Extensions: []string{".c", ".h"},
		grammar:    sitter.NewLanguage(c.Language()),
		Comments:   kinds("comment"),
		Statements: kinds(
			"expression_statement", "return_statement", "if_statement", "for_statement",
			"while_statement", "do_statement", "switch_statement", "break_statement",
			"continue_statement", "goto_statement", "labeled_statement",
		),
		Declarations: kinds("declaration"),
		Denied: kinds(
			"preproc_include", "preproc_def", "preproc_function_def", "type_definition",
			"struct_specifier", "enum_specifier", "union_specifier",
		),
		Blocks:    kinds("compound_statement", "field_declaration_list", "enumerator_list", "else_clause"),
		Functions: kinds("function_definition"),
		Lambdas:   kinds(),
		Strings:   kinds("string_literal", "concatenated_string", "raw_string_literal"),
	},
	{
		Name:       "php",
		Extensions: []string{".php"},
		grammar:    sitter.NewLanguage(php.LanguagePHP()),
		Comments:   kinds("comment"),
		Statements: kinds(
			"expression_statement", "return_statement", "if_statement", "for_statement",
			"foreach_statement", "while_statement", "do_statement", "echo_statement",
			"try_statement", "switch_statement", "break_statement", "continue_statement",
			"unset_statement",
		),
		Declarations: kinds("property_declaration", "const_declaration"),
		Denied: kinds(
			"php_tag", "namespace_definition", "namespace_use_declaration",
			"class_declaration", "interface_declaration", "trait_declaration", "enum_declaration",
		),
		Blocks:    kinds("compound_statement", "declaration_list", "else_clause"),
		Functions: kinds("function_definition", "method_declaration"),
		Lambdas:   kinds("anonymous_function", "arrow_function"),
		Strings:   kinds("string", "encapsed_string", "heredoc", "nowdoc"),
	},
	{
		Name:       "python",
		Extensions: []string{".py"},
		grammar:    sitter.NewLanguage(python.Language()),
		Comments:   kinds("comment"),
		Statements: kinds(
			"expression_statement", "return_statement", "if_statement", "for_statement",
			"while_statement", "try_statement", "with_statement", "raise_statement",
			"assert_statement", "pass_statement", "break_statement", "continue_statement",
			"delete_statement", "print_statement", "match_statement",
		),
		Declarations: kinds(),
		Denied: kinds(
			"import_statement", "import_from_statement", "future_import_statement",
			"class_definition", "global_statement", "nonlocal_statement",
		),
		Blocks:    kinds("block", "else_clause"),
		Functions: kinds("function_definition"),
		Lambdas:   kinds("lambda"),
		Strings:   kinds("string", "concatenated_string"),
	},
	{
		Name:       "ruby",
		Extensions: []string{".rb"},
		grammar:    sitter.NewLanguage(ruby.Language()),
		Comments:   kinds("comment"),
		Statements: kinds(
			"assignment", "operator_assignment", "call", "return", "if", "unless",
			"while", "until", "for", "case", "begin", "yield", "break", "next",
			"if_modifier", "unless_modifier",
		),
		Declarations: kinds(),
		Denied:       kinds("class", "module"),
		Blocks:       kinds("body_statement", "block_body", "else", "ensure"),
		Functions:    kinds("method", "singleton_method"),
		Lambdas:      kinds("lambda", "block", "do_block"),
		Strings:      kinds("string", "heredoc_body", "regex", "subshell", "string_array", "symbol_array"),
	},
	{
		Name:         "rust",
		Extensions:   []string{".rs"},
		grammar:      sitter.NewLanguage(rust.Language()),
		Comments:     kinds("line_comment", "block_comment"),
		Statements:   kinds("expression_statement", "let_declaration"),
		Declarations: kinds("const_item", "static_item"),
		Denied: kinds(
			"use_declaration", "mod_item", "struct_item", "enum_item", "trait_item",
			"impl_item", "type_item", "attribute_item", "inner_attribute_item",
			"extern_crate_declaration",
		),
		Blocks:    kinds("block", "declaration_list", "field_declaration_list", "else_clause"),
		Functions: kinds("function_item"),
		Lambdas:   kinds("closure_expression"),
		Strings:   kinds("string_literal", "raw_string_literal"),
	},
	{
		Name:       "typescript",
		Extensions: []string{".ts", ".js", ".mjs", ".cjs"},
		grammar:    sitter.NewLanguage(typescript.LanguageTypescript()),
		Comments:   kinds("comment"),
		Statements: kinds(
			"expression_statement", "lexical_declaration", "variable_declaration",
			"return_statement", "if_statement", "for_statement", "for_in_statement",
			"while_statement", "do_statement", "throw_statement", "try_statement",
			"switch_statement", "break_statement", "continue_statement",
		),
		Declarations: kinds("public_field_definition"),
		Denied: kinds(
			"import_statement", "class_declaration", "abstract_class_declaration",
			"interface_declaration", "type_alias_declaration", "enum_declaration",
		),
		Blocks:    kinds("statement_block", "class_body", "interface_body", "object_type", "else_clause"),
		Functions: kinds("function_declaration", "generator_function_declaration", "method_definition"),
		Lambdas:   kinds("arrow_function", "function_expression"),
		Strings:   kinds("string", "template_string"),
	},
}

var byExtension = func() map[string]*Language {
	m := make(map[string]*Language)
	for _, lang := range languages {
		for _, ext := range lang.Extensions {
			m[ext] = lang
		}
	}
	// TSX shares the TypeScript rules with its own grammar.
	tsx := *m[".ts"]
	tsx.Name = "tsx"
	tsx.Extensions = []string{".tsx", ".jsx"}
	tsx.grammar = sitter.NewLanguage(typescript.LanguageTSX())
	for _, ext := range tsx.Extensions {
		m[ext] = &tsx
	}
	return m
}()

// ForPath returns the language used for path, chosen by file extension.
func ForPath(path string) (*Language, bool) {
	lang, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// ByName returns the language with the given name.
func ByName(name string) (*Language, bool) {
	for _, lang := range languages {
		if lang.Name == name {
			return lang, true
		}
	}
	if lang := byExtension[".tsx"]; lang.Name == name {
		return lang, true
	}
	return nil, false
}
