package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/usecase"
)

// ScoringRules is the on-disk shape of the classifier vocabulary and reranker
// boost rules. Fields left empty in the file keep their built-in defaults, so
// a partial override file is fine.
type ScoringRules struct {
	Classifier struct {
		Keywords    []string `yaml:"keywords"`
		UnitPattern string   `yaml:"unit_pattern"`
	} `yaml:"classifier"`
	Boost struct {
		Keywords         []string `yaml:"keywords"`
		KeywordIncrement float64  `yaml:"keyword_increment"`
		OverlapWeight    float64  `yaml:"overlap_weight"`
		TorqueTerms      []string `yaml:"torque_terms"`
		TorqueUnits      []string `yaml:"torque_units"`
		ConjunctiveBonus float64  `yaml:"conjunctive_bonus"`
	} `yaml:"boost"`
}

// LoadScoringRules reads the YAML rules file when path is non-empty and
// merges it over the defaults. An empty path returns the defaults unchanged.
func LoadScoringRules(path string) (usecase.ClassifierRules, usecase.BoostRules, error) {
	classifier := usecase.DefaultClassifierRules()
	boost := usecase.DefaultBoostRules()
	if path == "" {
		return classifier, boost, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return classifier, boost, fmt.Errorf("read scoring rules: %w", err)
	}

	var file ScoringRules
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return classifier, boost, fmt.Errorf("parse scoring rules: %w", err)
	}

	if len(file.Classifier.Keywords) > 0 {
		classifier.Keywords = file.Classifier.Keywords
	}
	if file.Classifier.UnitPattern != "" {
		pattern, err := regexp.Compile(file.Classifier.UnitPattern)
		if err != nil {
			return classifier, boost, fmt.Errorf("compile unit pattern: %w", err)
		}
		classifier.UnitPattern = pattern
	}

	if len(file.Boost.Keywords) > 0 {
		boost.Keywords = file.Boost.Keywords
	}
	if file.Boost.KeywordIncrement > 0 {
		boost.KeywordIncrement = file.Boost.KeywordIncrement
	}
	if file.Boost.OverlapWeight > 0 {
		boost.OverlapWeight = file.Boost.OverlapWeight
	}
	if len(file.Boost.TorqueTerms) > 0 {
		boost.TorqueTerms = file.Boost.TorqueTerms
	}
	if len(file.Boost.TorqueUnits) > 0 {
		boost.TorqueUnits = file.Boost.TorqueUnits
	}
	if file.Boost.ConjunctiveBonus > 0 {
		boost.ConjunctiveBonus = file.Boost.ConjunctiveBonus
	}

	return classifier, boost, nil
}
