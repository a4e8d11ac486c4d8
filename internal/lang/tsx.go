package lang

func init() {
	Register(&LanguageSpec{
		Language:       TSX,
		FileExtensions: []string{".tsx"},
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"method_definition",
			"function_signature",
		},
		CallNodeTypes:  []string{"call_expression"},
		LoopNodeTypes:  []string{"for_statement", "for_in_statement"},
		BlockNodeTypes: []string{"statement_block"},
		CatchNodeTypes: []string{"catch_clause"},
	})
}
