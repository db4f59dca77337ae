package breakpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Variants:
// - Line with one lambda → line, lambda 0, all
// - Line with two lambdas → line, lambda 0, lambda 1, all (ordinal 2)
// - Lambda whose body continues on later lines is not offered
// - Line without lambdas → no variants
// - Module-level lambda without an enclosing function → lambda variant only
// - Python lambda inside a call counts once; the lambda keyword is not a lambda
// - TypeScript function header: the function keyword is not a lambda
// - TypeScript one-line function: the arrow function gets ordinal 0

func TestVariants_SingleLambda(t *testing.T) {
	t.Parallel()

	f := parse(t, "A.java", javaSample)
	variants := Variants(f, 2)
	require.Len(t, variants, 3)

	assert.Equal(t, VariantLine, variants[0].Kind)
	assert.Equal(t, LineOrdinal, variants[0].Ordinal)
	assert.Equal(t, "expression_statement", variants[0].Anchor.Kind())

	assert.Equal(t, VariantLambda, variants[1].Kind)
	assert.Equal(t, 0, variants[1].Ordinal)
	assert.Equal(t, "x -> System.out.println(x)", variants[1].Anchor.Text())

	assert.Equal(t, VariantAll, variants[2].Kind)
	assert.Equal(t, 1, variants[2].Ordinal)
}

func TestVariants_TwoLambdas(t *testing.T) {
	t.Parallel()

	f := parse(t, "A.java", javaSample)
	variants := Variants(f, 3)
	require.Len(t, variants, 4)

	assert.Equal(t, LineOrdinal, variants[0].Ordinal)
	assert.Equal(t, "x -> x + 1", variants[1].Anchor.Text())
	assert.Equal(t, "x -> x > 2", variants[2].Anchor.Text())
	assert.Equal(t, VariantAll, variants[3].Kind)
	assert.Equal(t, 2, variants[3].Ordinal)
}

func TestVariants_MultiLineLambdaSkipped(t *testing.T) {
	t.Parallel()

	f := parse(t, "A.java", javaSample)
	assert.Empty(t, LambdasAtLine(f, 4))
	assert.Empty(t, Variants(f, 4))
}

func TestVariants_NoLambdas(t *testing.T) {
	t.Parallel()

	f := parse(t, "A.java", javaSample)
	assert.Empty(t, Variants(f, 8))
	assert.Empty(t, Variants(f, 7))
	assert.Empty(t, Variants(f, 99))
}

func TestVariants_ModuleLevelLambda(t *testing.T) {
	t.Parallel()

	f := parse(t, "m.py", "square = lambda v: v * v\n")
	variants := Variants(f, 0)
	require.Len(t, variants, 1)
	assert.Equal(t, VariantLambda, variants[0].Kind)
	assert.Equal(t, 0, variants[0].Ordinal)
}

func TestVariants_PythonLambdaInCall(t *testing.T) {
	t.Parallel()

	f := parse(t, "m.py", "def h(xs):\n    return map(lambda v: v * v, xs)\n")

	lambdas := LambdasAtLine(f, 1)
	require.Len(t, lambdas, 1)
	assert.Equal(t, "lambda v: v * v", lambdas[0].Text())

	variants := Variants(f, 1)
	require.Len(t, variants, 3)
	assert.Equal(t, VariantLine, variants[0].Kind)
	assert.Equal(t, 0, variants[1].Ordinal)
	assert.Equal(t, VariantAll, variants[2].Kind)
	assert.Equal(t, 1, variants[2].Ordinal)
}

func TestVariants_TypeScriptFunctionHeader(t *testing.T) {
	t.Parallel()

	f := parse(t, "f.ts", "function f(xs: number[]) {\n  return xs.map(x => x * 2);\n}\n")

	assert.False(t, IsApplicable(f, 0))
	assert.Empty(t, LambdasAtLine(f, 0))
	assert.Empty(t, Variants(f, 0))

	variants := Variants(f, 1)
	require.Len(t, variants, 3)
	assert.Equal(t, "x => x * 2", variants[1].Anchor.Text())
}

func TestVariants_TypeScriptOneLineFunction(t *testing.T) {
	t.Parallel()

	f := parse(t, "g.ts", "function g() { return [1].map(x => x); }\n")

	variants := Variants(f, 0)
	require.Len(t, variants, 3)
	assert.Equal(t, LineOrdinal, variants[0].Ordinal)
	assert.Equal(t, VariantLambda, variants[1].Kind)
	assert.Equal(t, 0, variants[1].Ordinal)
	assert.Equal(t, "x => x", variants[1].Anchor.Text())
	assert.Equal(t, 1, variants[2].Ordinal)
}
