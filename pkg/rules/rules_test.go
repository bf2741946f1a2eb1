package rules_test

import (
	"context"
	"testing"

	"github.com/cperrin88/gendetect/pkg/detect"
	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/rules"
	"github.com/cperrin88/gendetect/pkg/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeBSDClang() detect.Classification {
	return detect.Classify(signal.New(map[string]string{
		"__clang__": "1", "__clang_major__": "16", "__clang_minor__": "0", "__clang_patchlevel__": "6",
		"__GNUC__": "4", "__FreeBSD__": "14", "__amd64__": "1", "__LP64__": "1",
	}), detect.Options{NoDiagnostics: true})
}

func TestEvaluator_Eval(t *testing.T) {
	e := rules.NewEvaluator(freeBSDClang())
	ctx := context.Background()

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr error
	}{
		{name: "compiler variable", expr: `compiler == "CLANG"`, want: true},
		{name: "compiler predicate", expr: `is_compiler("gcc")`, want: false},
		{name: "group predicate", expr: `is_os("GENERIC_BSD") && !is_os("GENERIC_APPLE")`, want: true},
		{name: "bits", expr: `bits == 64 && arch == "X86_64"`, want: true},
		{name: "version fields", expr: `compiler_major >= 16 && compiler_minor == 0`, want: true},
		{name: "version string", expr: `compiler_version == "16.0.6"`, want: true},
		{name: "constraint", expr: `compiler_satisfies(">= 15, < 17")`, want: true},
		{name: "constraint miss", expr: `compiler_satisfies("~> 17.0")`, want: false},
		{name: "group list", expr: `len(os_groups) == 2 && os_groups[1] == "GENERIC_BSD"`, want: true},
		{name: "stdlib import", expr: `import("text").has_suffix(os_name, "BSD")`, want: true},
		{name: "not linux", expr: `linux_compatible`, want: false},
		{name: "non bool result", expr: `bits + 1`, wantErr: errors.ErrRuleResult},
		{name: "syntax error", expr: `compiler ==`, wantErr: errors.ErrRuleCompile},
		{name: "unknown identifier", expr: `kernel == "linux"`, wantErr: errors.ErrRuleCompile},
		{name: "bad constraint", expr: `compiler_satisfies("soon")`, wantErr: errors.ErrRuleExecution},
		{name: "wrong arity", expr: `is_os()`, wantErr: errors.ErrRuleExecution},
		{name: "empty", expr: "  ", wantErr: errors.ErrRuleCompile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(ctx, tt.expr)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_Check(t *testing.T) {
	e := rules.NewEvaluator(freeBSDClang())

	require.NoError(t, e.AddRule(rules.Rule{Name: "bsd", Expr: `is_os("GENERIC_BSD")`}))
	require.NoError(t, e.AddRule(rules.Rule{Name: "msvc", Expr: `is_compiler("MSVC")`}))
	require.NoError(t, e.AddRule(rules.Rule{Name: "wide", Expr: `bits >= 64`}))

	results, err := e.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []rules.Result{
		{Name: "bsd", Expr: `is_os("GENERIC_BSD")`, Matched: true},
		{Name: "msvc", Expr: `is_compiler("MSVC")`, Matched: false},
		{Name: "wide", Expr: `bits >= 64`, Matched: true},
	}, results)

	// Rules are reusable.
	again, err := e.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, results, again)
}

func TestEvaluator_RuleManagement(t *testing.T) {
	e := rules.NewEvaluator(freeBSDClang())

	assert.False(t, e.HasRule("bsd"))
	require.NoError(t, e.AddRule(rules.Rule{Name: "bsd", Expr: `is_os("GENERIC_BSD")`}))
	assert.True(t, e.HasRule("bsd"))

	require.NoError(t, e.AddRule(rules.Rule{Name: "bsd", Expr: `is_os("FREEBSD")`}))
	assert.Equal(t, []rules.Rule{{Name: "bsd", Expr: `is_os("FREEBSD")`}}, e.Rules())

	e.RemoveRule("bsd")
	assert.False(t, e.HasRule("bsd"))
	assert.Empty(t, e.Rules())

	err := e.AddRule(rules.Rule{Name: "broken", Expr: `(`})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRuleCompile)
	assert.Contains(t, err.Error(), `"broken"`)
	assert.False(t, e.HasRule("broken"))
}

func TestEvaluator_CheckRuntimeError(t *testing.T) {
	e := rules.NewEvaluator(freeBSDClang())
	require.NoError(t, e.AddRule(rules.Rule{Name: "ok", Expr: `true`}))
	require.NoError(t, e.AddRule(rules.Rule{Name: "bad", Expr: `compiler_satisfies("later")`}))

	results, err := e.Check(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRuleExecution)
	assert.Len(t, results, 1)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, rules.Validate(`is_arch("I686") || bits == 32`))
	assert.ErrorIs(t, rules.Validate(`is_arch(`), errors.ErrRuleCompile)
}

func TestValidate_SingleExpressionOnly(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "closes the wrapper", expr: `true); __result = (false`},
		{name: "trailing statement", expr: `bits == 64; bits = 32`},
		{name: "two lines", expr: "true\nfalse"},
		{name: "assignment", expr: `x := 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, rules.Validate(tt.expr), errors.ErrRuleCompile)
		})
	}
}

func TestEvaluator_EvalRejectsInjectedStatements(t *testing.T) {
	e := rules.NewEvaluator(freeBSDClang())

	_, err := e.Eval(context.Background(), `false); __result = (true`)
	assert.ErrorIs(t, err, errors.ErrRuleCompile)

	matched, err := e.Eval(context.Background(), `(bits == 64) && (os == "FREEBSD")`)
	require.NoError(t, err)
	assert.True(t, matched)
}
