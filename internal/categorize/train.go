package categorize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jbrukh/bayesian"
)

// Sample is one labeled training example.
type Sample struct {
	Description string
	Category    string
}

// minTokenDocFreq is the minimum number of training documents a token must
// appear in to count as predictive. One-off merchant strings would otherwise
// dominate the model.
const minTokenDocFreq = 2

// Train fits a TF-IDF naive Bayes classifier from labeled samples and
// persists the bundle (classifier plus label vocabulary sidecar) at path.
//
// Training fails when fewer than two distinct categories remain after
// discarding samples with empty descriptions or labels.
func Train(samples []Sample, path string) error {
	byLabel := make(map[string][][]string)
	docFreq := make(map[string]int)

	for _, s := range samples {
		if s.Category == "" {
			continue
		}
		tokens := Tokenize(s.Description)
		if len(tokens) == 0 {
			continue
		}
		byLabel[s.Category] = append(byLabel[s.Category], tokens)
		for _, tok := range uniqueTokens(tokens) {
			docFreq[tok]++
		}
	}

	if len(byLabel) < 2 {
		return fmt.Errorf("training needs at least 2 distinct categories, got %d", len(byLabel))
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	classes := make([]bayesian.Class, len(labels))
	for i, label := range labels {
		classes[i] = bayesian.Class(label)
	}

	classifier := bayesian.NewClassifierTfIdf(classes...)
	for i, label := range labels {
		for _, tokens := range byLabel[label] {
			kept := filterByDocFreq(tokens, docFreq)
			if len(kept) == 0 {
				continue
			}
			classifier.Learn(kept, classes[i])
		}
	}
	classifier.ConvertTermsFreqToTfIdf()

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model directory: %w", err)
		}
	}
	if err := classifier.WriteToFile(path); err != nil {
		return fmt.Errorf("write classifier: %w", err)
	}

	data, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("marshal label vocabulary: %w", err)
	}
	if err := os.WriteFile(labelsPath(path), data, 0o644); err != nil {
		return fmt.Errorf("write label vocabulary: %w", err)
	}
	return nil
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

func filterByDocFreq(tokens []string, docFreq map[string]int) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if docFreq[tok] >= minTokenDocFreq {
			kept = append(kept, tok)
		}
	}
	return kept
}
