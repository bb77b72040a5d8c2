package categorize

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jbrukh/bayesian"
)

// Model is the optional statistical fallback classifier. A nil Model means
// the capability is absent, which is a normal state, not an error.
type Model interface {
	// Predict returns a category label for a description.
	Predict(description string) (string, error)
}

// ErrNoTokens is returned when a description has nothing predictive in it.
var ErrNoTokens = errors.New("no usable tokens in description")

// bayesModel wraps a TF-IDF naive Bayes classifier plus its label
// vocabulary. The vocabulary is persisted in a JSON sidecar so the
// class-index order survives the round trip.
type bayesModel struct {
	classifier *bayesian.Classifier
	labels     []string
}

func labelsPath(path string) string {
	return path + ".labels.json"
}

// LoadModel loads a trained bundle from disk. A missing bundle returns
// (nil, nil): the caller simply skips the fallback stage.
func LoadModel(path string) (Model, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	classifier, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load classifier %s: %w", path, err)
	}

	data, err := os.ReadFile(labelsPath(path))
	if err != nil {
		return nil, fmt.Errorf("load label vocabulary: %w", err)
	}
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parse label vocabulary: %w", err)
	}
	if len(labels) < 2 {
		return nil, fmt.Errorf("label vocabulary has %d classes, need at least 2", len(labels))
	}

	return &bayesModel{classifier: classifier, labels: labels}, nil
}

func (m *bayesModel) Predict(description string) (string, error) {
	tokens := Tokenize(description)
	if len(tokens) == 0 {
		return "", ErrNoTokens
	}
	_, inx, _ := m.classifier.LogScores(tokens)
	if inx < 0 || inx >= len(m.labels) {
		return "", fmt.Errorf("classifier returned class index %d outside vocabulary", inx)
	}
	return m.labels[inx], nil
}
