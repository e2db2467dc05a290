// Package parser provides an error-tolerant parser for C3 source code.
//
// # Overview
//
// The parser turns source text into a concrete syntax tree whose nodes
// carry a kind, an optional field name and an exact source span. It is
// designed for editors, linters and other tooling where incomplete or
// malformed input is common, so it never rejects a file: problems become
// error nodes and diagnostics, and parsing carries on.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │   Context   │     │   Trivia    │
//	                    │   Scanner   │     │ Doc comments│
//	                    └─────────────┘     └─────────────┘
//
// The Lexer classifies bytes into tokens. For block comments, doc
// comments and real literals it calls a ContextScanner, which receives and
// returns an explicit ScanState. The Parser consumes the significant
// tokens by recursive descent, with binary operators handled by
// precedence climbing over a static table. Whitespace and comments are
// kept on a side list and attached to the token that follows them.
//
// # Entry Points
//
//	// ParseSourceFile parses a whole compilation unit.
//	func ParseSourceFile(r io.Reader, opts ...Option) *Parser
//
//	// ParseExpression parses a single expression.
//	func ParseExpression(r io.Reader, opts ...Option) *Parser
//
//	// Parse is ParseSourceFile(bytes.NewReader(src), opts...).Finish().
//	func Parse(src []byte, opts ...Option) *Tree
//
// Finish always returns a Tree. IsComplete tells a caller feeding an
// editor buffer whether the input stops in the middle of a construct.
//
// # Ambiguity
//
// Several constructs share a prefix. Each has one fixed resolution:
//
//   - `(T)x` is a cast when T is shaped like a type and x can start an
//     operand; `(T){...}` is a typed initializer; anything else is a
//     parenthesised expression.
//   - `a ? b : c` is a ternary only when a matching `:` follows at the same
//     depth; otherwise `?` is the optional suffix.
//   - `f{int}` is a generic instantiation when `{...}` parses as generic
//     arguments; after a call, `{` opens the trailing macro body.
//   - A slot in a `for` header or a condition is a declaration when a type
//     is followed by a name, and an expression otherwise.
//
// # Error Recovery
//
// The parser never panics on malformed input. On an unexpected token it
// builds an error node and skips tokens at the current nesting level until
// a `;`, a closing `}`, or a top-level keyword. A statement that fails
// becomes a single error node, so the statements around it still parse.
//
// Example tree with error:
//
//	source_file
//	└── func_definition
//	    └── body: compound_stmt
//	        ├── declaration_stmt
//	        ├── ERROR: expected expression, got ";"
//	        └── return_stmt
//
// # Resource Limits
//
// WithMaxDepth, WithMaxNodes and WithContext bound a parse. Exceeding a
// bound stops the parse with a DiagResource diagnostic and sets
// Tree.Aborted, which keeps "stopped early" apart from "parsed cleanly".
//
// # Thread Safety
//
// A Parser instance is not safe for concurrent use. Separate Parsers
// share no state and may run in parallel.
//
// # Example Usage
//
//	tree := parser.Parse(src, parser.WithFile("main.c3"))
//	for _, d := range tree.Diagnostics {
//	    fmt.Println(d)
//	}
//	fmt.Print(tree.Root)
package parser
