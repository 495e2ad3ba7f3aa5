package visualization

import (
	"github.com/ahrav/go-stratagem/internal/domain"
)

type obj = map[string]any

type arr = []any

// validPayloads holds one structurally valid, rubric-passing data payload per
// canonical framework.
func validPayloads() map[string]obj {
	return map[string]obj{
		"swot_analysis": {
			"quadrants": obj{
				"strengths":     arr{obj{"label": "Loyal enterprise customers", "weight": 0.8}},
				"weaknesses":    arr{obj{"label": "Slow release cadence", "weight": 0.5}},
				"opportunities": arr{obj{"label": "Mid-market expansion", "weight": 0.7}},
				"threats":       arr{obj{"label": "Open-source substitutes", "weight": 0.4}},
			},
		},
		"eisenhower_matrix": {
			"quadrants": obj{
				"do_first":  arr{obj{"task": "Patch the auth outage", "urgency": 0.95, "importance": 0.9}},
				"schedule":  arr{obj{"task": "Plan the data migration", "urgency": 0.3, "importance": 0.85}},
				"delegate":  arr{obj{"task": "Renew vendor contracts", "urgency": 0.7, "importance": 0.3}},
				"eliminate": arr{obj{"task": "Weekly status deck", "urgency": 0.1, "importance": 0.1}},
			},
		},
		"bcg_matrix": {
			"quadrants": obj{
				"star":          "Invest to lead",
				"cash_cow":      "Harvest margin",
				"question_mark": "Test and decide",
				"dog":           "Divest",
			},
			"points": arr{
				obj{"name": "Analytics suite", "market_growth": 0.8, "market_share": 0.7, "quadrant": "star"},
				obj{"name": "Legacy billing", "market_growth": 0.1, "market_share": 0.8, "quadrant": "cash_cow"},
				obj{"name": "Mobile companion", "market_growth": 0.7, "market_share": 0.1, "quadrant": "question_mark"},
			},
		},
		"stakeholder_mapping": {
			"stakeholders": arr{
				obj{"name": "Chief financial officer", "power": 0.9, "interest": 0.6, "stance": "supporter"},
				obj{"name": "Works council", "power": 0.6, "interest": 0.9, "stance": "opponent"},
				obj{"name": "Regional sales leads", "power": 0.3, "interest": 0.7, "stance": "neutral"},
			},
		},
		"monte_carlo_simulation": {
			"bins": arr{
				obj{"start": 0.0, "end": 10.0, "count": 40},
				obj{"start": 10.0, "end": 20.0, "count": 180},
				obj{"start": 20.0, "end": 30.0, "count": 420},
				obj{"start": 30.0, "end": 40.0, "count": 260},
				obj{"start": 40.0, "end": 50.0, "count": 100},
			},
			"percentiles": obj{"p10": 12.5, "p50": 26.0, "p90": 41.0},
			"iterations":  1000,
			"metric":      "Net present value",
			"drivers":     arr{"Adoption rate", "Churn"},
		},
		"thomas_kilmann": {
			"modes": arr{
				obj{"mode": "competing", "fit": 0.2},
				obj{"mode": "collaborating", "fit": 0.9},
				obj{"mode": "compromising", "fit": 0.6},
				obj{"mode": "avoiding", "fit": 0.1},
				obj{"mode": "accommodating", "fit": 0.4},
			},
		},
		"pre_mortem": {
			"failure_modes": arr{
				obj{"cause": "Key engineer attrition", "likelihood": 0.4, "impact": 0.8, "mitigation": "Retention grants"},
				obj{"cause": "Vendor API deprecation", "likelihood": 0.3, "impact": 0.6, "mitigation": "Abstraction layer"},
				obj{"cause": "Scope creep from sales", "likelihood": 0.7, "impact": 0.5, "mitigation": "Change control board"},
			},
		},
		"pestle_analysis": {
			"factors": obj{
				"political":     arr{"Subsidy program renewal"},
				"economic":      arr{"Rising interest rates"},
				"social":        arr{"Remote work adoption"},
				"technological": arr{"On-device inference"},
				"legal":         arr{"Data residency rules"},
				"environmental": arr{"Scope 3 reporting"},
			},
		},
		"decision_matrix": {
			"options": arr{"Build in-house", "Buy platform"},
			"criteria": arr{
				obj{"name": "Total cost", "weight": 0.6},
				obj{"name": "Time to market", "weight": 0.4},
			},
			"scores": arr{
				arr{0.4, 0.3},
				arr{0.7, 0.9},
			},
		},
		"second_order_effects": {
			"horizons": arr{
				obj{"label": "First quarter", "effects": arr{"Support tickets spike"}},
				obj{"label": "First year", "effects": arr{"Churn drops in SMB"}},
				obj{"label": "Three years", "effects": arr{"Partner ecosystem forms"}},
			},
		},
		"porters_five_forces": {
			"forces": obj{
				"rivalry":        obj{"intensity": 0.8, "driver": "Price wars among incumbents"},
				"new_entrants":   obj{"intensity": 0.4, "driver": "High switching costs"},
				"substitutes":    obj{"intensity": 0.6, "driver": "Spreadsheet workflows"},
				"buyer_power":    obj{"intensity": 0.7, "driver": "Consolidated procurement"},
				"supplier_power": obj{"intensity": 0.2, "driver": "Commodity cloud capacity"},
			},
		},
		"sensitivity_analysis": {
			"baseline": 120.0,
			"variables": arr{
				obj{"name": "Price per seat", "low": 90.0, "high": 150.0},
				obj{"name": "Churn rate", "low": 100.0, "high": 135.0},
				obj{"name": "Sales cycle length", "low": 110.0, "high": 128.0},
			},
		},
	}
}

func validSpec(frameworkID string) domain.VisualizationSpec {
	ct, _ := ExpectedChartType(frameworkID)
	return domain.VisualizationSpec{
		ChartType:     ct,
		Title:         "Analysis",
		SchemaVersion: domain.CanonicalSchemaVersion,
		Data:          validPayloads()[frameworkID],
	}
}
