package envcfg

import (
	"github.com/sahilm/fuzzy"
)

// suggestField returns the recognized field most likely intended by an
// unknown field name.
//
// A field matches when the unknown name is a fuzzy subsequence of it
// ("insubcommands", "val") or when it is a fuzzy subsequence of the unknown
// name ("forced", "Values").
func suggestField(unknown string) (string, bool) {
	if unknown == "" {
		return "", false
	}

	if m := fuzzy.Find(unknown, Fields()); len(m) > 0 {
		return m[0].Str, true
	}

	best, score := "", 0

	for _, field := range Fields() {
		m := fuzzy.Find(field, []string{unknown})
		if len(m) > 0 && (best == "" || m[0].Score > score) {
			best, score = field, m[0].Score
		}
	}

	return best, best != ""
}
