package pipeline

import "strings"

// stopwords is a compact English function-word list. Participants found
// here do not get their importance score bumped; they carry no topical
// salience of their own.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a an the and or but if then else when while of to in on at by
		for with about against between into through during before after
		above below from up down out off over under again further once
		here there all any both each few more most other some such no
		nor not only own same so than too very can will just should now
		i me my we our you your he him his she her it its they them
		their what which who whom this that these those am is are was
		were be been being have has had having do does did doing
	`) {
		stopwords[w] = struct{}{}
	}
}

// isStopword reports whether the (lowercased) word is a function word.
func isStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}
