package grammar

import (
	"strconv"
	"strings"
)

var unitWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
}

var teenWords = map[string]int{
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

type numberHit struct {
	value int
	words int
}

// spokenNumbers returns every integer reading of words[start:], longest first.
// Values outside [1,MaxRepeat] are still returned so callers can reject them.
func spokenNumbers(words []string, start int) []numberHit {
	if start >= len(words) {
		return nil
	}
	first := words[start]
	var hits []numberHit

	if n, err := strconv.Atoi(first); err == nil && n >= 0 {
		return []numberHit{{value: n, words: 1}}
	}

	if first == "hundred" {
		return []numberHit{{value: 100, words: 1}}
	}
	if (first == "one" || first == "a") && start+1 < len(words) && words[start+1] == "hundred" {
		hits = append(hits, numberHit{value: 100, words: 2})
	}

	if tens, ok := tensWords[first]; ok {
		if start+1 < len(words) {
			if unit, ok := unitWords[words[start+1]]; ok && unit > 0 {
				hits = append(hits, numberHit{value: tens + unit, words: 2})
			}
		}
		return append(hits, numberHit{value: tens, words: 1})
	}
	if tens, unit, ok := hyphenatedNumber(first); ok {
		return append(hits, numberHit{value: tens + unit, words: 1})
	}
	if n, ok := teenWords[first]; ok {
		return append(hits, numberHit{value: n, words: 1})
	}
	if n, ok := unitWords[first]; ok {
		return append(hits, numberHit{value: n, words: 1})
	}
	return hits
}

func hyphenatedNumber(word string) (int, int, bool) {
	head, tail, found := strings.Cut(word, "-")
	if !found {
		return 0, 0, false
	}
	tens, ok := tensWords[head]
	if !ok {
		return 0, 0, false
	}
	unit, ok := unitWords[tail]
	if !ok || unit == 0 {
		return 0, 0, false
	}
	return tens, unit, true
}
