package visualization

import (
	"sort"
)

// Chart types a canonical payload may declare.
const (
	ChartQuadrant    = "quadrant"
	ChartScatter     = "scatter"
	ChartHistogram   = "histogram"
	ChartBar         = "bar"
	ChartCategorical = "categorical"
	ChartHeatmap     = "heatmap"
	ChartTimeline    = "timeline"
	ChartRadar       = "radar"
	ChartTornado     = "tornado"
)

// dataPath prefixes every issue raised against the payload data.
const dataPath = "data"

// contract is the structural schema of one canonical framework kind.
type contract struct {
	chartType string
	shape     string // prose description of data, used in generation prompts
	check     func(c *checker, data map[string]any)
}

var contracts = map[string]contract{
	"swot_analysis": {
		chartType: ChartQuadrant,
		shape: `"quadrants": object with exactly the keys strengths, weaknesses, opportunities, threats; ` +
			`each an array of at least one {"label": string, "weight": number 0-1}.`,
		check: checkSWOT,
	},
	"eisenhower_matrix": {
		chartType: ChartQuadrant,
		shape: `"quadrants": object with exactly the keys do_first, schedule, delegate, eliminate; ` +
			`each an array of {"task": string, "urgency": number 0-1, "importance": number 0-1}; at least 4 tasks in total.`,
		check: checkEisenhower,
	},
	"bcg_matrix": {
		chartType: ChartScatter,
		shape: `"quadrants": object with exactly the keys star, cash_cow, question_mark, dog, each a short strategy string; ` +
			`"points": array of at least 3 {"name": string, "market_growth": number 0-1, "market_share": number 0-1, "quadrant": one of the quadrant keys}.`,
		check: checkBCG,
	},
	"stakeholder_mapping": {
		chartType: ChartScatter,
		shape: `"stakeholders": array of at least 3 {"name": string, "power": number 0-1, "interest": number 0-1, ` +
			`"stance": "supporter" | "neutral" | "opponent"}.`,
		check: checkStakeholders,
	},
	"monte_carlo_simulation": {
		chartType: ChartHistogram,
		shape: `"bins": array of at least 5 {"start": number, "end": number greater than start, "count": integer >= 0}; ` +
			`"percentiles": {"p10", "p50", "p90"} numbers in ascending order; "iterations": integer >= 100; ` +
			`"metric": string naming the simulated outcome; "drivers": array of at least 2 strings naming the uncertain inputs.`,
		check: checkMonteCarlo,
	},
	"thomas_kilmann": {
		chartType: ChartBar,
		shape: `"modes": array of exactly 5 {"mode": string, "fit": number 0-1}, one per mode: ` +
			`competing, collaborating, compromising, avoiding, accommodating.`,
		check: checkThomasKilmann,
	},
	"pre_mortem": {
		chartType: ChartCategorical,
		shape: `"failure_modes": array of at least 3 {"cause": string, "likelihood": number 0-1, "impact": number 0-1, "mitigation": string}.`,
		check: checkPreMortem,
	},
	"pestle_analysis": {
		chartType: ChartCategorical,
		shape: `"factors": object with exactly the keys political, economic, social, technological, legal, environmental; ` +
			`each an array of at least one string.`,
		check: checkPESTLE,
	},
	"decision_matrix": {
		chartType: ChartHeatmap,
		shape: `"options": array of at least 2 strings; "criteria": array of at least 2 {"name": string, "weight": number 0-1}; ` +
			`"scores": one array per option holding one number 0-1 per criterion.`,
		check: checkDecisionMatrix,
	},
	"second_order_effects": {
		chartType: ChartTimeline,
		shape: `"horizons": array of at least 3 {"label": string, "effects": array of at least one string}.`,
		check: checkSecondOrder,
	},
	"porters_five_forces": {
		chartType: ChartRadar,
		shape: `"forces": object with exactly the keys rivalry, new_entrants, substitutes, buyer_power, supplier_power; ` +
			`each {"intensity": number 0-1, "driver": string}.`,
		check: checkFiveForces,
	},
	"sensitivity_analysis": {
		chartType: ChartTornado,
		shape: `"baseline": number; "variables": array of at least 3 {"name": string, "low": number, "high": number >= low}.`,
		check: checkSensitivity,
	},
}

// CanonicalFrameworks returns the ids of every framework with a contract, sorted.
func CanonicalFrameworks() []string {
	ids := make([]string, 0, len(contracts))
	for id := range contracts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExpectedChartType returns the single chart type a canonical framework must
// declare, and false for non-canonical frameworks.
func ExpectedChartType(frameworkID string) (string, bool) {
	ct, ok := contracts[frameworkID]
	return ct.chartType, ok
}

var (
	swotQuadrants       = []string{"strengths", "weaknesses", "opportunities", "threats"}
	eisenhowerQuadrants = []string{"do_first", "schedule", "delegate", "eliminate"}
	bcgQuadrants        = []string{"star", "cash_cow", "question_mark", "dog"}
	stakeholderStances  = []string{"supporter", "neutral", "opponent"}
	conflictModes       = []string{"competing", "collaborating", "compromising", "avoiding", "accommodating"}
	pestleFactors       = []string{"political", "economic", "social", "technological", "legal", "environmental"}
	competitiveForces   = []string{"rivalry", "new_entrants", "substitutes", "buyer_power", "supplier_power"}
)

// Minimum sizes of list-shaped payload fields.
const (
	minEisenhowerTasks = 4
	minScatterPoints   = 3
	minHistogramBins   = 5
	minIterations      = 100
	minSimDrivers      = 2
	minFailureModes    = 3
	minMatrixAxis      = 2
	minHorizons        = 3
	minTornadoVars     = 3
)

func checkSWOT(c *checker, data map[string]any) {
	quadrants, ok := c.object(data, dataPath, "quadrants")
	if !ok {
		return
	}
	path := join(dataPath, "quadrants")
	c.exactKeys(quadrants, path, swotQuadrants)
	for _, q := range swotQuadrants {
		if !hasKey(quadrants, q) {
			continue
		}
		items, ok := c.list(quadrants, path, q, 1)
		if !ok {
			continue
		}
		qPath := join(path, q)
		for i := range items {
			item, ok := c.element(items, qPath, i)
			if !ok {
				continue
			}
			c.text(item, index(qPath, i), "label")
			c.unit(item, index(qPath, i), "weight")
		}
	}
}

func checkEisenhower(c *checker, data map[string]any) {
	quadrants, ok := c.object(data, dataPath, "quadrants")
	if !ok {
		return
	}
	path := join(dataPath, "quadrants")
	c.exactKeys(quadrants, path, eisenhowerQuadrants)

	total := 0
	for _, q := range eisenhowerQuadrants {
		if !hasKey(quadrants, q) {
			continue
		}
		items, ok := c.list(quadrants, path, q, 0)
		if !ok {
			continue
		}
		total += len(items)
		qPath := join(path, q)
		for i := range items {
			item, ok := c.element(items, qPath, i)
			if !ok {
				continue
			}
			c.text(item, index(qPath, i), "task")
			c.unit(item, index(qPath, i), "urgency")
			c.unit(item, index(qPath, i), "importance")
		}
	}
	if total < minEisenhowerTasks {
		c.addf("%s must hold at least %d tasks in total, got %d", path, minEisenhowerTasks, total)
	}
}

func checkBCG(c *checker, data map[string]any) {
	if quadrants, ok := c.object(data, dataPath, "quadrants"); ok {
		path := join(dataPath, "quadrants")
		c.exactKeys(quadrants, path, bcgQuadrants)
		for _, q := range bcgQuadrants {
			if hasKey(quadrants, q) {
				c.text(quadrants, path, q)
			}
		}
	}

	points, ok := c.list(data, dataPath, "points", minScatterPoints)
	if !ok {
		return
	}
	path := join(dataPath, "points")
	for i := range points {
		p, ok := c.element(points, path, i)
		if !ok {
			continue
		}
		c.text(p, index(path, i), "name")
		c.unit(p, index(path, i), "market_growth")
		c.unit(p, index(path, i), "market_share")
		c.oneOf(p, index(path, i), "quadrant", bcgQuadrants)
	}
}

func checkStakeholders(c *checker, data map[string]any) {
	items, ok := c.list(data, dataPath, "stakeholders", minScatterPoints)
	if !ok {
		return
	}
	path := join(dataPath, "stakeholders")
	for i := range items {
		s, ok := c.element(items, path, i)
		if !ok {
			continue
		}
		c.text(s, index(path, i), "name")
		c.unit(s, index(path, i), "power")
		c.unit(s, index(path, i), "interest")
		c.oneOf(s, index(path, i), "stance", stakeholderStances)
	}
}

func checkMonteCarlo(c *checker, data map[string]any) {
	if bins, ok := c.list(data, dataPath, "bins", minHistogramBins); ok {
		path := join(dataPath, "bins")
		for i := range bins {
			b, ok := c.element(bins, path, i)
			if !ok {
				continue
			}
			start, okStart := c.number(b, index(path, i), "start")
			end, okEnd := c.number(b, index(path, i), "end")
			if okStart && okEnd && start >= end {
				c.addf("%s start must be less than end", index(path, i))
			}
			c.count(b, index(path, i), "count", 0)
		}
	}

	if pct, ok := c.object(data, dataPath, "percentiles"); ok {
		path := join(dataPath, "percentiles")
		p10, ok10 := c.number(pct, path, "p10")
		p50, ok50 := c.number(pct, path, "p50")
		p90, ok90 := c.number(pct, path, "p90")
		if ok10 && ok50 && ok90 && (p10 > p50 || p50 > p90) {
			c.addf("%s must satisfy p10 <= p50 <= p90", path)
		}
	}

	c.count(data, dataPath, "iterations", minIterations)
	c.text(data, dataPath, "metric")
	c.stringList(data["drivers"], join(dataPath, "drivers"), minSimDrivers, hasKey(data, "drivers"))
}

func checkThomasKilmann(c *checker, data map[string]any) {
	modes, ok := c.list(data, dataPath, "modes", len(conflictModes))
	if !ok {
		return
	}
	path := join(dataPath, "modes")
	if len(modes) > len(conflictModes) {
		c.addf("%s must have exactly %d items, got %d", path, len(conflictModes), len(modes))
	}

	seen := make(map[string]int, len(conflictModes))
	for i := range modes {
		m, ok := c.element(modes, path, i)
		if !ok {
			continue
		}
		if name, ok := c.oneOf(m, index(path, i), "mode", conflictModes); ok {
			seen[name]++
		}
		c.unit(m, index(path, i), "fit")
	}
	for _, mode := range conflictModes {
		switch n := seen[mode]; {
		case n == 0:
			c.addf("%s is missing mode %q", path, mode)
		case n > 1:
			c.addf("%s lists mode %q %d times", path, mode, n)
		}
	}
}

func checkPreMortem(c *checker, data map[string]any) {
	modes, ok := c.list(data, dataPath, "failure_modes", minFailureModes)
	if !ok {
		return
	}
	path := join(dataPath, "failure_modes")
	for i := range modes {
		m, ok := c.element(modes, path, i)
		if !ok {
			continue
		}
		c.text(m, index(path, i), "cause")
		c.unit(m, index(path, i), "likelihood")
		c.unit(m, index(path, i), "impact")
		c.text(m, index(path, i), "mitigation")
	}
}

func checkPESTLE(c *checker, data map[string]any) {
	factors, ok := c.object(data, dataPath, "factors")
	if !ok {
		return
	}
	path := join(dataPath, "factors")
	c.exactKeys(factors, path, pestleFactors)
	for _, f := range pestleFactors {
		if hasKey(factors, f) {
			c.stringList(factors[f], join(path, f), 1, true)
		}
	}
}

func checkDecisionMatrix(c *checker, data map[string]any) {
	options, okOptions := c.list(data, dataPath, "options", minMatrixAxis)
	if okOptions {
		c.stringList(options, join(dataPath, "options"), 0, true)
	}

	criteria, okCriteria := c.list(data, dataPath, "criteria", minMatrixAxis)
	if okCriteria {
		path := join(dataPath, "criteria")
		for i := range criteria {
			cr, ok := c.element(criteria, path, i)
			if !ok {
				continue
			}
			c.text(cr, index(path, i), "name")
			c.unit(cr, index(path, i), "weight")
		}
	}

	rows, ok := c.list(data, dataPath, "scores", 0)
	if !ok {
		return
	}
	path := join(dataPath, "scores")
	if okOptions && len(rows) != len(options) {
		c.addf("%s must have one row per option: got %d rows for %d options", path, len(rows), len(options))
	}
	for i, r := range rows {
		row, ok := r.([]any)
		if !ok {
			c.addf("%s must be an array", index(path, i))
			continue
		}
		if okCriteria && len(row) != len(criteria) {
			c.addf("%s must have one score per criterion: got %d for %d criteria", index(path, i), len(row), len(criteria))
		}
		for j, v := range row {
			if f, ok := toFloat(v); !ok || f < 0 || f > 1 {
				c.addf("%s must be a number in [0, 1]", index(index(path, i), j))
			}
		}
	}
}

func checkSecondOrder(c *checker, data map[string]any) {
	horizons, ok := c.list(data, dataPath, "horizons", minHorizons)
	if !ok {
		return
	}
	path := join(dataPath, "horizons")
	for i := range horizons {
		h, ok := c.element(horizons, path, i)
		if !ok {
			continue
		}
		c.text(h, index(path, i), "label")
		c.stringList(h["effects"], join(index(path, i), "effects"), 1, hasKey(h, "effects"))
	}
}

func checkFiveForces(c *checker, data map[string]any) {
	forces, ok := c.object(data, dataPath, "forces")
	if !ok {
		return
	}
	path := join(dataPath, "forces")
	c.exactKeys(forces, path, competitiveForces)
	for _, f := range competitiveForces {
		if !hasKey(forces, f) {
			continue
		}
		force, ok := c.object(forces, path, f)
		if !ok {
			continue
		}
		c.unit(force, join(path, f), "intensity")
		c.text(force, join(path, f), "driver")
	}
}

func checkSensitivity(c *checker, data map[string]any) {
	c.number(data, dataPath, "baseline")

	vars, ok := c.list(data, dataPath, "variables", minTornadoVars)
	if !ok {
		return
	}
	path := join(dataPath, "variables")
	for i := range vars {
		v, ok := c.element(vars, path, i)
		if !ok {
			continue
		}
		c.text(v, index(path, i), "name")
		low, okLow := c.number(v, index(path, i), "low")
		high, okHigh := c.number(v, index(path, i), "high")
		if okLow && okHigh && low > high {
			c.addf("%s low must not exceed high", index(path, i))
		}
	}
}
