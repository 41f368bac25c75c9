package grammar

// Default returns the built-in vocabulary revision.
func Default() Definition {
	return Definition{
		Revision: 1,
		Keys: Mapping{
			// motions
			"up":        {"up"},
			"down":      {"down"},
			"right":     {"right"},
			"left":      {"left"},
			"pgup":      {"page up"},
			"pgdown":    {"page down"},
			"home":      {"home"},
			"end":       {"end"},
			"escape":    {"scape"},
			"tab":       {"tab"},
			"backspace": {"scratch"},

			// vim style scrolling
			"c-d": {"drop"},
			"c-u": {"(gopa|go up|gope)"},
			"c-y": {"scroll up"},
			"c-e": {"scroll down"},

			// special characters
			"space":      {"space"},
			"enter":      {"slap"},
			"bang":       {"bang"},
			"at":         {"atta"},
			"hash":       {"hash"},
			"dollar":     {"(dollar|doll)"},
			"percent":    {"percent"},
			"caret":      {"caret"},
			"asterisk":   {"star"},
			"lparen":     {"lepa"},
			"rparen":     {"repa"},
			"minus":      {"(minus|hyphen)"},
			"underscore": {"underscore"},
			"plus":       {"plus"},
			"backtick":   {"backtick"},
			"tilde":      {"tilde"},
			"lbracket":   {"lacket"},
			"rbracket":   {"racket"},
			"lbrace":     {"lace"},
			"rbrace":     {"race"},
			"backslash":  {"backslash"},
			"ampersand":  {"bit and"},
			"bar":        {"bit or"},
			"colon":      {"colon"},
			"semicolon":  {"semicolon"},
			"squote":     {"apostrophe"},
			"dquote":     {"quote"},
			"comma":      {"comma"},
			"dot":        {"dot"},
			"slash":      {"slash"},
			"langle":     {"langle"},
			"rangle":     {"rangle"},
			"question":   {"question"},
			"equal":      {"(equal|equals)"},

			// letters
			"a": {"archie"},
			"b": {"bravo"},
			"c": {"charlie"},
			"d": {"delta"},
			"e": {"echo"},
			"f": {"(foxtrot|fox)"},
			"g": {"(gang|gamma)"},
			"h": {"hotel"},
			"i": {"indy"},
			"j": {"(juliet|julie)"},
			"k": {"kilo"},
			"l": {"lima"},
			"m": {"(mike|mama)"},
			"n": {"(november|nova)"},
			"o": {"oscar"},
			"p": {"(poppa|pop|papa)"},
			"q": {"(quiche|queen)"},
			"r": {"(romeo|roma)"},
			"s": {"(sierra|sigma)"},
			"t": {"tango"},
			"u": {"(uniform|uncle)"},
			"v": {"victor"},
			"w": {"whiskey"},
			"x": {"x-ray"},
			"y": {"yankee"},
			"z": {"zulu"},

			// digits
			"0": {"zero"},
			"1": {"one"},
			"2": {"two"},
			"3": {"three"},
			"4": {"four"},
			"5": {"five"},
			"6": {"six"},
			"7": {"seven"},
			"8": {"eight"},
			"9": {"nine"},
		},
		Modifiers: Mapping{
			"c": {"troll"},
			"a": {"alter"},
			"w": {"super"},
			"s": {"(shift|big)"},
		},
		Formats: Mapping{
			"natword":  {"say"},
			"score":    {"snake"},
			"proper":   {"studley"},
			"camel":    {"camel"},
			"jumble":   {"jumble"},
			"dotword":  {"dotword"},
			"dashword": {"dashword"},
			"sentence": {"sentence"},

			"relpath":   {"path"},
			"winpath":   {"backpath"},
			"scoped":    {"scope"},
			"snakeword": {"snakeword"},
			"narrative": {"narrate"},
		},
		Vocabulary: Mapping{
			"def": {"py deaf"},
			"for": {"for loop"},
		},
		KeySequences: Mapping{
			"a-m,f,s": {"save buffer"},
			"a-m,v":   {"highlight"},
			"c-g":     {"quit"},
			"a-x":     {"altex"},
		},
		Commands: Mapping{
			"helm-find-files":                 {"find file"},
			"helm-swoop":                      {"helm swoop"},
			"copy-to-register":                {"rej save"},
			"insert-register":                 {"rej pop"},
			"helm-mini":                       {"buffer list"},
			"evil-avy-goto-char-in-line":      {"avy char"},
			"evil-avy-goto-word-or-subword-1": {"avy word"},
		},
		Prefix: PrefixDefinition{
			Keys: Mapping{
				"w-1":   {"workspace one"},
				"w-2":   {"workspace two"},
				"w-3":   {"workspace three"},
				"w-4":   {"workspace four"},
				"w-5":   {"workspace five"},
				"w-q":   {"close window"},
				"w-f":   {"full screen"},
				"w-tab": {"switch window"},
			},
			Commands: Mapping{
				"helm-find-files": {"open file"},
				"save-buffer":     {"write file"},
				"kill-buffer":     {"close buffer"},
			},
			Text: Mapping{
				"git status": {"get status"},
				"git diff":   {"get diff"},
			},
		},
		// Avoid helm-M-x: it needs a delay before accepting input.
		CommandTemplate: TemplateSpec{
			Before: "a-colon",
			Text:   "(call-interactively '%s)",
			After:  "enter",
		},
		Words: RuleWords{
			Literal:   "literal",
			Connector: "then",
			Twice:     "twice",
			Thrice:    "thrice",
			Times:     []string{"ice", "times"},
		},
	}
}
