// Package rules evaluates user conditions against a classification. A rule is
// a Tengo expression such as
//
//	is_os("GENERIC_BSD") && bits == 64 && compiler_satisfies(">= 12")
//
// that must evaluate to a bool.
package rules

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/parser"
	"github.com/d5/tengo/v2/stdlib"
)

// resultVar receives the value of the wrapped expression.
const resultVar = "__result"

// Rule is a named condition.
type Rule struct {
	Name string `yaml:"name" json:"name"`
	Expr string `yaml:"expr" json:"expr"`
}

// Result is the outcome of one rule.
type Result struct {
	Name    string `yaml:"name" json:"name"`
	Expr    string `yaml:"expr" json:"expr"`
	Matched bool   `yaml:"matched" json:"matched"`
}

type compiledRule struct {
	Rule
	compiled *tengo.Compiled
}

// Evaluator compiles rules against one classification and runs them.
type Evaluator struct {
	classification detect.Classification
	rules          []compiledRule
	mutex          sync.RWMutex
}

// NewEvaluator returns an Evaluator bound to cl.
func NewEvaluator(cl detect.Classification) *Evaluator {
	return &Evaluator{classification: cl}
}

// AddRule compiles r and appends it, replacing any rule with the same name.
func (e *Evaluator) AddRule(r Rule) error {
	compiled, err := compile(r.Expr, e.classification)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()
	for i := range e.rules {
		if e.rules[i].Name == r.Name {
			e.rules[i] = compiledRule{Rule: r, compiled: compiled}
			return nil
		}
	}
	e.rules = append(e.rules, compiledRule{Rule: r, compiled: compiled})
	return nil
}

// RemoveRule drops the rule called name.
func (e *Evaluator) RemoveRule(name string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	for i := range e.rules {
		if e.rules[i].Name == name {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			return
		}
	}
}

// HasRule reports whether a rule called name is registered.
func (e *Evaluator) HasRule(name string) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	for _, r := range e.rules {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Rules returns the registered rules in insertion order.
func (e *Evaluator) Rules() []Rule {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	out := make([]Rule, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.Rule
	}
	return out
}

// Eval compiles and runs a single expression.
func (e *Evaluator) Eval(ctx context.Context, expr string) (bool, error) {
	compiled, err := compile(expr, e.classification)
	if err != nil {
		return false, err
	}
	return run(ctx, compiled)
}

// Check runs every registered rule in order and stops at the first error.
func (e *Evaluator) Check(ctx context.Context) ([]Result, error) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	results := make([]Result, 0, len(e.rules))
	for _, r := range e.rules {
		matched, err := run(ctx, r.compiled.Clone())
		if err != nil {
			return results, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		results = append(results, Result{Name: r.Name, Expr: r.Expr, Matched: matched})
	}
	return results, nil
}

// Validate checks that expr compiles. It does not run it.
func Validate(expr string) error {
	_, err := compile(expr, detect.Classification{})
	return err
}

func compile(expr string, cl detect.Classification) (*tengo.Compiled, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: empty expression", errors.ErrRuleCompile)
	}
	if err := singleExpression(expr); err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(resultVar + " := (" + expr + ")"))
	script.SetImports(stdlib.GetModuleMap("math", "text", "enum"))

	for name, value := range variables(cl) {
		if err := script.Add(name, value); err != nil {
			return nil, fmt.Errorf("failed to add %s to rule: %w", name, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrRuleCompile, err)
	}
	return compiled, nil
}

// singleExpression parses expr on its own and rejects anything but one
// expression statement, so it cannot escape the result assignment.
func singleExpression(expr string) error {
	src := []byte(expr)
	file := parser.NewFileSet().AddFile("rule", -1, len(src))
	parsed, err := parser.NewParser(file, src, nil).ParseFile()
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrRuleCompile, err)
	}
	if len(parsed.Stmts) != 1 {
		return fmt.Errorf("%w: expected a single expression, found %d statements", errors.ErrRuleCompile, len(parsed.Stmts))
	}
	if _, ok := parsed.Stmts[0].(*parser.ExprStmt); !ok {
		return fmt.Errorf("%w: expected an expression, found %s", errors.ErrRuleCompile, parsed.Stmts[0])
	}
	return nil
}

func run(ctx context.Context, compiled *tengo.Compiled) (bool, error) {
	if err := compiled.RunContext(ctx); err != nil {
		return false, fmt.Errorf("%w: %w", errors.ErrRuleExecution, err)
	}
	result, ok := compiled.Get(resultVar).Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %s", errors.ErrRuleResult, compiled.Get(resultVar).ValueType())
	}
	return result, nil
}

// variables exposes the classification to rule expressions.
func variables(cl detect.Classification) map[string]interface{} {
	groups := make([]interface{}, 0, 4)
	for _, id := range cl.OS.Groups.IDs() {
		groups = append(groups, id)
	}

	return map[string]interface{}{
		"compiler":         cl.Compiler.Kind.ID(),
		"compiler_name":    cl.Compiler.Name,
		"compiler_version": cl.Compiler.Version.String(),
		"compiler_major":   int64(cl.Compiler.Version.Major()),
		"compiler_minor":   int64(cl.Compiler.Version.Minor()),
		"compiler_patch":   int64(cl.Compiler.Version.Patch()),
		"os":               cl.OS.Kind.ID(),
		"os_name":          cl.OS.Name,
		"os_groups":        groups,
		"linux_compatible": cl.OS.LinuxCompatible,
		"arch":             cl.Arch.Kind.ID(),
		"arch_name":        cl.Arch.Name,
		"arch_variant":     cl.Arch.Variant.ID(),
		"sub_version":      int64(cl.Arch.SubVersion),
		"bits":             int64(cl.Arch.Bits),

		"is_compiler":        predicate("is_compiler", cl.IsCompiler),
		"is_os":              predicate("is_os", cl.IsOS),
		"is_arch":            predicate("is_arch", cl.IsArch),
		"compiler_satisfies": satisfies(cl.Compiler.Version),
	}
}

func predicate(name string, fn func(string) bool) *tengo.UserFunction {
	return &tengo.UserFunction{
		Name: name,
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			arg, err := stringArg(args)
			if err != nil {
				return nil, err
			}
			return boolObject(fn(arg)), nil
		},
	}
}

func satisfies(v detect.Version) *tengo.UserFunction {
	return &tengo.UserFunction{
		Name: "compiler_satisfies",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			constraint, err := stringArg(args)
			if err != nil {
				return nil, err
			}
			ok, err := v.Satisfies(constraint)
			if err != nil {
				return nil, err
			}
			return boolObject(ok), nil
		},
	}
}

func stringArg(args []tengo.Object) (string, error) {
	if len(args) != 1 {
		return "", tengo.ErrWrongNumArguments
	}
	s, ok := tengo.ToString(args[0])
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: "first", Expected: "string", Found: args[0].TypeName()}
	}
	return s, nil
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
