package intent

import "strings"

// Classifier matches utterances against an ordered rule set.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over the default catalog.
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules}
}

// NewClassifierWithRules returns a classifier over a custom rule set,
// evaluated in the given order.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify lowercases the utterance and returns the first matching
// intent. The second return is false when no rule matches.
func (c *Classifier) Classify(utterance string) (Intent, bool) {
	lowered := strings.ToLower(utterance)
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(lowered) {
			return rule.Intent, true
		}
	}
	return "", false
}
