package categorize

import (
	"fintrend/internal/core"
	"fintrend/internal/log"
)

// Categorizer runs the two-stage classification: keyword rules first, then
// the optional trained model, then the Uncategorized fallback.
type Categorizer struct {
	rules  *RuleSet
	model  Model
	logger *log.Logger
}

// New creates a categorizer. model may be nil when no trained artifact
// exists; the fallback stage is skipped in that case.
func New(rules *RuleSet, model Model, logger *log.Logger) *Categorizer {
	if rules == nil {
		rules = &RuleSet{}
	}
	return &Categorizer{rules: rules, model: model, logger: logger}
}

// Apply assigns a category to every transaction in place. A record never
// stays uncategorized: rule match, model prediction, or Uncategorized.
func (c *Categorizer) Apply(txs []core.Transaction) {
	for i := range txs {
		txs[i].Category = c.categorize(txs[i].Description)
	}
}

func (c *Categorizer) categorize(description string) string {
	if cat, ok := c.rules.Match(description); ok {
		return cat
	}
	if c.model != nil {
		cat, err := c.model.Predict(description)
		if err == nil && cat != "" {
			return cat
		}
		if err != nil && c.logger != nil {
			c.logger.Debug("model prediction failed, using fallback",
				log.FieldError, err.Error())
		}
	}
	return Uncategorized
}
