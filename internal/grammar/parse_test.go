package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultGrammar(t *testing.T) *Grammar {
	t.Helper()
	g, err := Compile(Default())
	require.NoError(t, err)
	return g
}

func chord(t *testing.T, spec string) Chord {
	t.Helper()
	c, err := ParseChord(spec)
	require.NoError(t, err)
	return c
}

func TestParseSingleKeystroke(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("troll archie")
	require.NoError(t, err)
	require.Equal(t, RuleRepeat, m.Rule)
	require.Len(t, m.Actions, 1)

	ks, ok := m.Actions[0].(Keystroke)
	require.True(t, ok)
	require.Equal(t, []Modifier{Control}, ks.Modifiers)
	require.Equal(t, "a", ks.Base.Key)
	require.Equal(t, 1, ks.Count)
	require.Equal(t, []Command{PressCommand(Chord{Modifiers: []Modifier{Control}, Key: "a"})}, m.Commands())
}

func TestParseRepeatCounts(t *testing.T) {
	g := defaultGrammar(t)
	want := PressCommand(chord(t, "c-a"))

	tests := []struct {
		utterance string
		count     int
	}{
		{utterance: "troll archie", count: 1},
		{utterance: "troll archie twice", count: 2},
		{utterance: "troll archie two ice", count: 2},
		{utterance: "troll archie thrice", count: 3},
		{utterance: "troll archie three times", count: 3},
		{utterance: "troll archie twenty one ice", count: 21},
		{utterance: "troll archie forty-two ice", count: 42},
		{utterance: "troll archie 7 ice", count: 7},
		{utterance: "troll archie one hundred ice", count: 100},
		{utterance: "troll archie hundred times", count: 100},
	}

	for _, tc := range tests {
		t.Run(tc.utterance, func(t *testing.T) {
			m, err := g.Parse(tc.utterance)
			require.NoError(t, err)
			require.Len(t, m.Actions, 1)

			commands := m.Commands()
			require.Len(t, commands, tc.count)
			for _, cmd := range commands {
				require.Equal(t, want, cmd)
			}
		})
	}
}

func TestParseRejectsOutOfRangeRepeat(t *testing.T) {
	g := defaultGrammar(t)

	for _, utterance := range []string{"troll archie zero ice", "troll archie 0 ice", "troll archie 101 ice"} {
		t.Run(utterance, func(t *testing.T) {
			_, err := g.Parse(utterance)
			require.ErrorIs(t, err, ErrNoMatch)
		})
	}
}

func TestParseModifierOrderFollowsSpeech(t *testing.T) {
	g := defaultGrammar(t)
	spoken := map[string]Modifier{
		"troll": Control,
		"alter": Alt,
		"super": Super,
		"shift": Shift,
		"big":   Shift,
	}

	for first, m1 := range spoken {
		for second, m2 := range spoken {
			if m1 == m2 {
				continue
			}
			utterance := first + " " + second + " bravo"
			t.Run(utterance, func(t *testing.T) {
				m, err := g.Parse(utterance)
				require.NoError(t, err)
				require.Equal(t, []Command{PressCommand(Chord{Modifiers: []Modifier{m1, m2}, Key: "b"})}, m.Commands())
			})
		}
	}
}

func TestParseSpokenModifiersPrecedeEntryModifiers(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("shift drop")
	require.NoError(t, err)
	require.Equal(t, "sc-d", m.Commands()[0].Chord.String())

	m, err = g.Parse("troll drop")
	require.NoError(t, err)
	require.Equal(t, "c-d", m.Commands()[0].Chord.String())
}

func TestParseFormatDictation(t *testing.T) {
	g := defaultGrammar(t)

	tests := []struct {
		utterance string
		want      string
	}{
		{utterance: "snake my variable name", want: "my_variable_name"},
		{utterance: "upper snake my variable", want: "MY_VARIABLE"},
		{utterance: "natural say Hello World", want: "Hello World"},
		{utterance: "say Hello World", want: "hello world"},
		{utterance: "camel get user id", want: "getUserId"},
		{utterance: "studley http server", want: "HttpServer"},
		{utterance: `say Dentist\dentist`, want: "dentist"},
		{utterance: "dashword x-ray vision", want: "xray-vision"},
	}

	for _, tc := range tests {
		t.Run(tc.utterance, func(t *testing.T) {
			m, err := g.Parse(tc.utterance)
			require.NoError(t, err)
			require.Equal(t, []Command{TextCommand(tc.want)}, m.Commands())
		})
	}
}

func TestParseDictationStopsAtNextElement(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("say hello world slap")
	require.NoError(t, err)
	require.Equal(t, []Command{
		TextCommand("hello world"),
		PressCommand(chord(t, "enter")),
	}, m.Commands())

	m, err = g.Parse("snake foo bar camel baz qux")
	require.NoError(t, err)
	require.Equal(t, []Command{TextCommand("foo_bar"), TextCommand("bazQux")}, m.Commands())
}

func TestParseDictationAbsorbsUnparseableTail(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("say hello slap there")
	require.NoError(t, err)
	require.Equal(t, []Command{TextCommand("hello slap there")}, m.Commands())
}

func TestParseLiteralIsNotInterrupted(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("literal say slap troll archie")
	require.NoError(t, err)
	require.Equal(t, RuleLiteral, m.Rule)
	require.Equal(t, []Command{TextCommand("slap troll archie")}, m.Commands())

	m, err = g.Parse("literal upper snake go up")
	require.NoError(t, err)
	require.Equal(t, []Command{TextCommand("GO_UP")}, m.Commands())
}

func TestParseVocabularyKeySequencesAndCommands(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("py deaf")
	require.NoError(t, err)
	require.Equal(t, []Command{TextCommand("def")}, m.Commands())

	m, err = g.Parse("save buffer")
	require.NoError(t, err)
	require.Equal(t, []Command{
		PressCommand(chord(t, "a-m")),
		PressCommand(chord(t, "f")),
		PressCommand(chord(t, "s")),
	}, m.Commands())

	m, err = g.Parse("find file")
	require.NoError(t, err)
	require.Equal(t, []Command{
		PressCommand(chord(t, "a-colon")),
		TextCommand("(call-interactively 'helm-find-files)"),
		PressCommand(chord(t, "enter")),
	}, m.Commands())
}

func TestParseMixedSequenceKeepsRecognitionOrder(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("troll archie twice snake foo bar slap for loop")
	require.NoError(t, err)
	require.Equal(t, RuleRepeat, m.Rule)
	require.Equal(t, []string{"keystroke", "format", "keystroke", "text"}, kinds(m))
	require.Equal(t, []Command{
		PressCommand(chord(t, "c-a")),
		PressCommand(chord(t, "c-a")),
		TextCommand("foo_bar"),
		PressCommand(chord(t, "enter")),
		TextCommand("for"),
	}, m.Commands())
}

func TestParseSequenceBound(t *testing.T) {
	g := defaultGrammar(t)
	letters := []string{"archie", "bravo", "charlie", "delta", "echo", "fox", "gang", "hotel",
		"indy", "julie", "kilo", "lima", "mike", "nova", "oscar", "papa", "queen"}

	m, err := g.Parse(strings.Join(letters[:MaxActions], " "))
	require.NoError(t, err)
	require.Len(t, m.Actions, MaxActions)
	for i, cmd := range m.Commands() {
		require.Equal(t, string(rune('a'+i)), cmd.Chord.Key)
	}

	_, err = g.Parse(strings.Join(letters, " "))
	require.ErrorIs(t, err, ErrSequenceTooLong)
}

func TestParsePrefixRule(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("workspace two")
	require.NoError(t, err)
	require.Equal(t, RulePrefix, m.Rule)
	require.Equal(t, []Command{PressCommand(chord(t, "w-2"))}, m.Commands())

	m, err = g.Parse("open file then say hello world")
	require.NoError(t, err)
	require.Equal(t, RulePrefix, m.Rule)
	require.Equal(t, []string{"command", "format"}, kinds(m))
	cmds := m.Commands()
	require.Equal(t, TextCommand("(call-interactively 'helm-find-files)"), cmds[1])
	require.Equal(t, TextCommand("hello world"), cmds[len(cmds)-1])

	m, err = g.Parse("close window slap")
	require.NoError(t, err)
	require.Equal(t, []Command{PressCommand(chord(t, "w-q")), PressCommand(chord(t, "enter"))}, m.Commands())

	m, err = g.Parse("get status slap")
	require.NoError(t, err)
	require.Equal(t, []Command{TextCommand("git status"), PressCommand(chord(t, "enter"))}, m.Commands())
}

func TestParseNoMatch(t *testing.T) {
	g := defaultGrammar(t)

	_, err := g.Parse("archie banana")
	require.ErrorIs(t, err, ErrNoMatch)
	require.Contains(t, err.Error(), "banana")

	_, err = g.Parse("troll")
	require.ErrorIs(t, err, ErrNoMatch)

	_, err = g.Parse("open file then")
	require.ErrorIs(t, err, ErrNoMatch)
	require.Contains(t, err.Error(), `nothing follows "then"`)

	_, err = g.Parse("workspace one then")
	require.ErrorIs(t, err, ErrNoMatch)
	require.Contains(t, err.Error(), `nothing follows "then"`)
	require.NotContains(t, err.Error(), `at "workspace"`)

	_, err = g.Parse("  ,, ")
	require.ErrorIs(t, err, ErrEmptyUtterance)
}

func TestParseIsCaseAndPunctuationInsensitive(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("Troll Archie, twice.")
	require.NoError(t, err)
	require.Len(t, m.Commands(), 2)
}

func TestMatchPlan(t *testing.T) {
	g := defaultGrammar(t)

	m, err := g.Parse("troll archie twice snake my name")
	require.NoError(t, err)
	require.Equal(t, []string{
		"keystroke c-a x2",
		`format score "my name" -> "my_name"`,
	}, m.Plan())
}

func kinds(m Match) []string {
	out := make([]string, len(m.Actions))
	for i, action := range m.Actions {
		out[i] = action.Kind()
	}
	return out
}
