package parser

type NodeKind int

const (
	KindError NodeKind = iota

	KindSourceFile

	// Leaves
	KindIdent
	KindConstIdent
	KindTypeIdent
	KindCtIdent
	KindCtConstIdent
	KindCtTypeIdent
	KindAtIdent
	KindAtTypeIdent
	KindHashIdent
	KindBuiltin
	KindQualifiedIdent
	KindOperator
	KindKeyword
	KindModifier
	KindEllipsis

	// Literals
	KindIntegerLiteral
	KindRealLiteral
	KindCharLiteral
	KindStringLiteral
	KindRawStringLiteral
	KindBytesLiteral
	KindBoolLiteral
	KindNullLiteral
	KindStringExpr
	KindBytesExpr

	// Declarations
	KindModuleDeclaration
	KindModulePath
	KindGenericModuleParameters
	KindImportDeclaration
	KindFuncDefinition
	KindFuncDeclaration
	KindFnParameterList
	KindParameter
	KindMacroDeclaration
	KindMacroParameterList
	KindTrailingBlockParam
	KindLambdaDeclaration
	KindLambdaExpr
	KindImpliesBody
	KindStructDeclaration
	KindUnionDeclaration
	KindStructBody
	KindStructMemberDeclaration
	KindBitstructDeclaration
	KindBitstructBody
	KindBitstructMemberDeclaration
	KindEnumDeclaration
	KindEnumSpec
	KindEnumParamList
	KindEnumBody
	KindEnumConstant
	KindFaultdefDeclaration
	KindInterfaceDeclaration
	KindInterfaceBody
	KindInterfaceImpl
	KindTypedefDeclaration
	KindAliasDeclaration
	KindFuncSignature
	KindAttrdefDeclaration
	KindConstDeclaration
	KindGlobalDeclaration
	KindAttributes
	KindAttribute
	KindOverloadOperator

	// Statements
	KindCompoundStmt
	KindEmptyStmt
	KindExprStmt
	KindDeclarationStmt
	KindLocalDecl
	KindVarStmt
	KindVarDecl
	KindIfStmt
	KindElsePart
	KindLabel
	KindParenCond
	KindTryUnwrap
	KindTryUnwrapChain
	KindCatchUnwrap
	KindSwitchStmt
	KindSwitchBody
	KindCaseStmt
	KindDefaultStmt
	KindForStmt
	KindExprList
	KindForeachStmt
	KindForeachVar
	KindWhileStmt
	KindDoStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindNextcaseStmt
	KindDeferStmt
	KindAssertStmt
	KindAsmBlockStmt
	KindAsmStmt
	KindAsmAddr
	KindCtAssertStmt
	KindCtErrorStmt
	KindCtEchoStmt
	KindCtIncludeStmt
	KindCtExecStmt
	KindCtIfStmt
	KindCtElseStmt
	KindCtSwitchStmt
	KindCtCaseStmt
	KindCtForStmt
	KindCtForeachStmt
	KindCtStmtBody

	// Expressions
	KindBinaryExpr
	KindAssignmentExpr
	KindTernaryExpr
	KindElvisOrelseExpr
	KindUnaryExpr
	KindCastExpr
	KindTypedInitializer
	KindParenExpr
	KindCallExpr
	KindCallInvocation
	KindArg
	KindSplatExpr
	KindSubscriptExpr
	KindRangeExpr
	KindFieldExpr
	KindUpdateExpr
	KindRethrowExpr
	KindOptionalExpr
	KindTrailingGenericExpr
	KindGenericArguments
	KindInitializerList
	KindDesignatedInitializer
	KindDesignator
	KindTypeAccessExpr
	KindCtCallExpr
	KindCtArgExpr

	// Types
	KindType
	KindOptionalType
	KindBaseType
	KindTypeSuffix
	KindCtTypeExpr

	// Doc comments
	KindDocComment
	KindDocCommentText
	KindDocCommentContract
	KindMutabilityContract
)

var nodeKindNames = map[NodeKind]string{
	KindError:                      "ERROR",
	KindSourceFile:                 "source_file",
	KindIdent:                      "ident",
	KindConstIdent:                 "const_ident",
	KindTypeIdent:                  "type_ident",
	KindCtIdent:                    "ct_ident",
	KindCtConstIdent:               "ct_const_ident",
	KindCtTypeIdent:                "ct_type_ident",
	KindAtIdent:                    "at_ident",
	KindAtTypeIdent:                "at_type_ident",
	KindHashIdent:                  "hash_ident",
	KindBuiltin:                    "builtin",
	KindQualifiedIdent:             "qualified_ident",
	KindOperator:                   "operator",
	KindKeyword:                    "keyword",
	KindModifier:                   "modifier",
	KindEllipsis:                   "ellipsis",
	KindIntegerLiteral:             "integer_literal",
	KindRealLiteral:                "real_literal",
	KindCharLiteral:                "char_literal",
	KindStringLiteral:              "string_literal",
	KindRawStringLiteral:           "raw_string_literal",
	KindBytesLiteral:               "bytes_literal",
	KindBoolLiteral:                "bool_literal",
	KindNullLiteral:                "null_literal",
	KindStringExpr:                 "string_expr",
	KindBytesExpr:                  "bytes_expr",
	KindModuleDeclaration:          "module_declaration",
	KindModulePath:                 "module_path",
	KindGenericModuleParameters:    "generic_module_parameters",
	KindImportDeclaration:          "import_declaration",
	KindFuncDefinition:             "func_definition",
	KindFuncDeclaration:            "func_declaration",
	KindFnParameterList:            "fn_parameter_list",
	KindParameter:                  "parameter",
	KindMacroDeclaration:           "macro_declaration",
	KindMacroParameterList:         "macro_parameter_list",
	KindTrailingBlockParam:         "trailing_block_param",
	KindLambdaDeclaration:          "lambda_declaration",
	KindLambdaExpr:                 "lambda_expr",
	KindImpliesBody:                "implies_body",
	KindStructDeclaration:          "struct_declaration",
	KindUnionDeclaration:           "union_declaration",
	KindStructBody:                 "struct_body",
	KindStructMemberDeclaration:    "struct_member_declaration",
	KindBitstructDeclaration:       "bitstruct_declaration",
	KindBitstructBody:              "bitstruct_body",
	KindBitstructMemberDeclaration: "bitstruct_member_declaration",
	KindEnumDeclaration:            "enum_declaration",
	KindEnumSpec:                   "enum_spec",
	KindEnumParamList:              "enum_param_list",
	KindEnumBody:                   "enum_body",
	KindEnumConstant:               "enum_constant",
	KindFaultdefDeclaration:        "faultdef_declaration",
	KindInterfaceDeclaration:       "interface_declaration",
	KindInterfaceBody:              "interface_body",
	KindInterfaceImpl:              "interface_impl",
	KindTypedefDeclaration:         "typedef_declaration",
	KindAliasDeclaration:           "alias_declaration",
	KindFuncSignature:              "func_signature",
	KindAttrdefDeclaration:         "attrdef_declaration",
	KindConstDeclaration:           "const_declaration",
	KindGlobalDeclaration:          "global_declaration",
	KindAttributes:                 "attributes",
	KindAttribute:                  "attribute",
	KindOverloadOperator:           "overload_operator",
	KindCompoundStmt:               "compound_stmt",
	KindEmptyStmt:                  "empty_stmt",
	KindExprStmt:                   "expr_stmt",
	KindDeclarationStmt:            "declaration_stmt",
	KindLocalDecl:                  "local_decl",
	KindVarStmt:                    "var_stmt",
	KindVarDecl:                    "var_decl",
	KindIfStmt:                     "if_stmt",
	KindElsePart:                   "else_part",
	KindLabel:                      "label",
	KindParenCond:                  "paren_cond",
	KindTryUnwrap:                  "try_unwrap",
	KindTryUnwrapChain:             "try_unwrap_chain",
	KindCatchUnwrap:                "catch_unwrap",
	KindSwitchStmt:                 "switch_stmt",
	KindSwitchBody:                 "switch_body",
	KindCaseStmt:                   "case_stmt",
	KindDefaultStmt:                "default_stmt",
	KindForStmt:                    "for_stmt",
	KindExprList:                   "expr_list",
	KindForeachStmt:                "foreach_stmt",
	KindForeachVar:                 "foreach_var",
	KindWhileStmt:                  "while_stmt",
	KindDoStmt:                     "do_stmt",
	KindReturnStmt:                 "return_stmt",
	KindBreakStmt:                  "break_stmt",
	KindContinueStmt:               "continue_stmt",
	KindNextcaseStmt:               "nextcase_stmt",
	KindDeferStmt:                  "defer_stmt",
	KindAssertStmt:                 "assert_stmt",
	KindAsmBlockStmt:               "asm_block_stmt",
	KindAsmStmt:                    "asm_stmt",
	KindAsmAddr:                    "asm_addr",
	KindCtAssertStmt:               "ct_assert_stmt",
	KindCtErrorStmt:                "ct_error_stmt",
	KindCtEchoStmt:                 "ct_echo_stmt",
	KindCtIncludeStmt:              "ct_include_stmt",
	KindCtExecStmt:                 "ct_exec_stmt",
	KindCtIfStmt:                   "ct_if_stmt",
	KindCtElseStmt:                 "ct_else_stmt",
	KindCtSwitchStmt:               "ct_switch_stmt",
	KindCtCaseStmt:                 "ct_case_stmt",
	KindCtForStmt:                  "ct_for_stmt",
	KindCtForeachStmt:              "ct_foreach_stmt",
	KindCtStmtBody:                 "ct_stmt_body",
	KindBinaryExpr:                 "binary_expr",
	KindAssignmentExpr:             "assignment_expr",
	KindTernaryExpr:                "ternary_expr",
	KindElvisOrelseExpr:            "elvis_orelse_expr",
	KindUnaryExpr:                  "unary_expr",
	KindCastExpr:                   "cast_expr",
	KindTypedInitializer:           "typed_initializer_list",
	KindParenExpr:                  "paren_expr",
	KindCallExpr:                   "call_expr",
	KindCallInvocation:             "call_invocation",
	KindArg:                        "arg",
	KindSplatExpr:                  "splat_expr",
	KindSubscriptExpr:              "subscript_expr",
	KindRangeExpr:                  "range_expr",
	KindFieldExpr:                  "field_expr",
	KindUpdateExpr:                 "update_expr",
	KindRethrowExpr:                "rethrow_expr",
	KindOptionalExpr:               "optional_expr",
	KindTrailingGenericExpr:        "trailing_generic_expr",
	KindGenericArguments:           "generic_arguments",
	KindInitializerList:            "initializer_list",
	KindDesignatedInitializer:      "designated_initializer",
	KindDesignator:                 "designator",
	KindTypeAccessExpr:             "type_access_expr",
	KindCtCallExpr:                 "ct_call_expr",
	KindCtArgExpr:                  "ct_arg_expr",
	KindType:                       "type",
	KindOptionalType:               "optional_type",
	KindBaseType:                   "base_type",
	KindTypeSuffix:                 "type_suffix",
	KindCtTypeExpr:                 "ct_type_expr",
	KindDocComment:                 "doc_comment",
	KindDocCommentText:             "doc_comment_text",
	KindDocCommentContract:         "doc_comment_contract",
	KindMutabilityContract:         "mutability_contract",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Field names attached to children. Consumers match on these.
const (
	FieldName               = "name"
	FieldPath               = "path"
	FieldType               = "type"
	FieldReturnType         = "return_type"
	FieldMethodType         = "method_type"
	FieldBody               = "body"
	FieldLeft               = "left"
	FieldOperator           = "operator"
	FieldRight              = "right"
	FieldCondition          = "condition"
	FieldConsequence        = "consequence"
	FieldAlternative        = "alternative"
	FieldArgument           = "argument"
	FieldFunction           = "function"
	FieldArguments          = "arguments"
	FieldTrailing           = "trailing"
	FieldIndex              = "index"
	FieldRange              = "range"
	FieldField              = "field"
	FieldValue              = "value"
	FieldCollection         = "collection"
	FieldInitializer        = "initializer"
	FieldUpdate             = "update"
	FieldLabel              = "label"
	FieldTarget             = "target"
	FieldArgs               = "args"
	FieldLambdaBody         = "lambda_body"
	FieldIdent              = "ident"
	FieldMutabilityContract = "mutability_contract"
	FieldDescription        = "description"
	FieldAttributes         = "attributes"
)

// Node is one element of the syntax tree. Leaves carry the Token they
// were built from; error nodes carry an Error.
type Node struct {
	Kind     NodeKind
	Field    string
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// AddField appends child under the given field name.
func (n *Node) AddField(field string, child *Node) {
	if child != nil {
		child.Field = field
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) ChildByField(field string) *Node {
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenByField(field string) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Field == field {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Walk calls fn for n and its descendants in source order. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// HasError reports whether n or any descendant is an error node.
func (n *Node) HasError() bool {
	found := false
	n.Walk(func(c *Node) bool {
		if c.IsError() {
			found = true
		}
		return !found
	})
	return found
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	result := prefix
	if n.Field != "" {
		result += n.Field + ": "
	}
	result += n.Kind.String()
	if showPositions {
		result += " [" + n.Span.lineCols() + "]"
	}
	if n.Token != nil {
		result += " " + n.Token.Literal
	}
	if n.Error != nil {
		result += " ERROR: " + n.Error.Message
	}
	result += "\n"

	for _, child := range n.Children {
		result += child.stringIndent(indent+1, showPositions)
	}
	return result
}
