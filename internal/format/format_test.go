package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyStyles(t *testing.T) {
	words := []string{"my", "variable", "name"}
	tests := []struct {
		style string
		want  string
	}{
		{style: "proper", want: "MyVariableName"},
		{style: "camel", want: "myVariableName"},
		{style: "relpath", want: "my/variable/name"},
		{style: "winpath", want: `my\variable\name`},
		{style: "score", want: "my_variable_name"},
		{style: "sentence", want: "My variable name"},
		{style: "scoped", want: "my::variable::name"},
		{style: "jumble", want: "myvariablename"},
		{style: "dotword", want: "my.variable.name"},
		{style: "dashword", want: "my-variable-name"},
		{style: "natword", want: "my variable name"},
		{style: "snakeword", want: "My_variable_name"},
		{style: "narrative", want: "My variable name."},
	}

	require.Len(t, tests, len(Names()))
	for _, tc := range tests {
		t.Run(tc.style, func(t *testing.T) {
			got, err := Apply(tc.style, QualifierNone, words)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestApplyUnknownStyle(t *testing.T) {
	_, err := Apply("shouting", QualifierNone, []string{"hello"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "shouting")
}

func TestPreprocessQualifiers(t *testing.T) {
	raw := []string{"Hello", "World"}

	require.Equal(t, []string{"hello", "world"}, Preprocess(raw, QualifierNone))
	require.Equal(t, []string{"HELLO", "WORLD"}, Preprocess(raw, QualifierUpper))
	require.Equal(t, []string{"Hello", "World"}, Preprocess(raw, QualifierNatural))
}

func TestPreprocessStripsPronunciationAndHyphens(t *testing.T) {
	raw := []string{`Dentist\dentist`, "x-ray", "re-enter now", "-"}
	require.Equal(t, []string{"dentist", "xray", "reenter", "now"}, Preprocess(raw, QualifierNone))
}

func TestPassThroughStylesIdempotentOnSingleWord(t *testing.T) {
	for _, style := range []string{"dotword", "dashword", "natword", "score", "scoped", "relpath", "winpath", "jumble", "camel"} {
		t.Run(style, func(t *testing.T) {
			got, err := Apply(style, QualifierNatural, []string{"value"})
			require.NoError(t, err)
			require.Equal(t, "value", got)

			again, err := Apply(style, QualifierNatural, []string{got})
			require.NoError(t, err)
			require.Equal(t, got, again)
		})
	}
}

func TestParseQualifier(t *testing.T) {
	q, ok := ParseQualifier("Upper")
	require.True(t, ok)
	require.Equal(t, QualifierUpper, q)
	require.Equal(t, "upper", q.String())

	q, ok = ParseQualifier("natural")
	require.True(t, ok)
	require.Equal(t, QualifierNatural, q)

	_, ok = ParseQualifier("lower")
	require.False(t, ok)
}

func TestEmptyWordLists(t *testing.T) {
	for _, name := range Names() {
		got, err := Apply(name, QualifierNone, nil)
		require.NoError(t, err)
		require.Empty(t, got, name)
	}
}
