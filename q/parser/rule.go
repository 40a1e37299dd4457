package parser

// Rule identifies a grammar production. Every syntax tree node is tagged with
// the rule that produced it.
type Rule int

const (
	RuleError Rule = iota
	RuleToken

	// Entry points and transparent productions
	RuleQuery
	RuleVariableDeclaration
	RuleStorageType
	RuleVariableName

	// Expression precedence chain, loosest first
	RuleExpression
	RuleOrExpression
	RuleAndExpression
	RuleEqualityExpression
	RuleAdditiveExpression
	RuleMultiplicativeExpression
	RuleUnaryExpression
	RulePrimaryExpression

	// Primary alternatives
	RuleNumberLiteral
	RuleStringLiteral
	RuleParenExpression

	// Built-in call forms follow, one rule per catalogue entry.
	firstBuiltinRule
)

var ruleNames = map[Rule]string{
	RuleError:                    "Error",
	RuleToken:                    "Token",
	RuleQuery:                    "Query",
	RuleVariableDeclaration:      "VariableDeclaration",
	RuleStorageType:              "StorageType",
	RuleVariableName:             "VariableName",
	RuleExpression:               "Expression",
	RuleOrExpression:             "OrExpression",
	RuleAndExpression:            "AndExpression",
	RuleEqualityExpression:       "EqualityExpression",
	RuleAdditiveExpression:       "AdditiveExpression",
	RuleMultiplicativeExpression: "MultiplicativeExpression",
	RuleUnaryExpression:          "UnaryExpression",
	RulePrimaryExpression:        "PrimaryExpression",
	RuleNumberLiteral:            "NumberLiteral",
	RuleStringLiteral:            "StringLiteral",
	RuleParenExpression:          "ParenExpression",
}

// String returns the grammar production name of r.
func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	if b, ok := BuiltinForRule(r); ok {
		return b.Production()
	}
	return "Unknown"
}

// IsBuiltin reports whether r is the rule of a built-in call form.
func (r Rule) IsBuiltin() bool {
	_, ok := BuiltinForRule(r)
	return ok
}

// NumRules returns the number of rule identifiers, including one per
// built-in. Valid rules are in [0, NumRules()).
func NumRules() int {
	return int(firstBuiltinRule) + len(builtins)
}

// RuleForProduction returns the rule whose production is called name.
func RuleForProduction(name string) (Rule, bool) {
	r, ok := productionRules[name]
	return r, ok
}

var productionRules = indexProductions()

func indexProductions() map[string]Rule {
	m := make(map[string]Rule, len(ruleNames)+len(builtins))
	for r, name := range ruleNames {
		if r == RuleError || r == RuleToken {
			continue
		}
		m[name] = r
	}
	for _, b := range builtins {
		m[b.Production()] = b.Rule
	}
	return m
}
