package cli

// Default values for CLI flags and output.
const (
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// ruleExprName names ad-hoc expressions in eval output.
	ruleExprName = "expr"
)
