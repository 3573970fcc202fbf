package usecase

import (
	"regexp"
	"strings"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

// ClassifierRules is the data the query classifier matches against. Keeping
// the vocabulary as data means the scoring behavior can be tuned from config
// without touching code.
type ClassifierRules struct {
	Keywords    []string
	UnitPattern *regexp.Regexp
}

// High-precision specification indicators for service manuals.
var defaultSpecKeywords = []string{
	"torque", "tighten", "tightening", "bolt", "nut", "screw",
	"clearance", "gap", "stroke", "play", "pressure", "psi", "bar",
	"capacity", "volume", "oil", "fuel", "coolant", "level",
	"dimension", "length", "width", "height", "thickness",
	"rpm", "speed", "voltage", "current", "amp", "amps", "watt",
	"power", "resistance", "ohm",
}

// Numeric value followed by a measurement unit, e.g. "35 Nm" or "23 psi".
var defaultUnitPattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(nm|ft-lb|lb-ft|in-lb|psi|mm|cm|inch|in|amp|ohm|bar|kg|l)\b`)

func DefaultClassifierRules() ClassifierRules {
	return ClassifierRules{
		Keywords:    defaultSpecKeywords,
		UnitPattern: defaultUnitPattern,
	}
}

// ClassifyQuery labels a query as spec-lookup or general. Pure and
// deterministic; empty or ambiguous input defaults to general.
func ClassifyQuery(query string, rules ClassifierRules) domain.QueryType {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.QueryTypeGeneral
	}

	for _, keyword := range rules.Keywords {
		if keyword != "" && strings.Contains(q, keyword) {
			return domain.QueryTypeSpec
		}
	}
	if rules.UnitPattern != nil && rules.UnitPattern.MatchString(q) {
		return domain.QueryTypeSpec
	}
	return domain.QueryTypeGeneral
}
