package registry

import "github.com/Shimizu-Technology/exam-tools-cli/internal/models"

// Built-in chapter tables for AP Calculus, keyed to the College Board
// course outline. BC covers everything in AB and adds chapters 9-10.
//
// Keywords are matched case-insensitively as substrings anywhere in a
// question's text, so they stay short and specific.
var defaultABChapters = []models.Chapter{
	{ID: 1, Title: "Limits and Continuity",
		Keywords: []string{"limit", "continuity", "asymptote", "discontinuity", "intermediate value"}},
	{ID: 2, Title: "Differentiation: Definition and Fundamental Properties",
		Keywords: []string{"derivative", "rate of change", "tangent line", "differentiable", "power rule"}},
	{ID: 3, Title: "Differentiation: Composite, Implicit, and Inverse Functions",
		Keywords: []string{"chain rule", "implicit differentiation", "inverse function", "composite"}},
	{ID: 4, Title: "Contextual Applications of Differentiation",
		Keywords: []string{"related rates", "motion", "velocity", "acceleration", "optimization"}},
	{ID: 5, Title: "Analytical Applications of Differentiation",
		Keywords: []string{"mean value theorem", "critical point", "extrema", "increasing", "decreasing", "concavity", "inflection"}},
	{ID: 6, Title: "Integration and Accumulation of Change",
		Keywords: []string{"integral", "antiderivative", "riemann sum", "accumulation", "fundamental theorem"}},
	{ID: 7, Title: "Differential Equations",
		Keywords: []string{"differential equation", "slope field", "exponential growth", "separation of variables"}},
	{ID: 8, Title: "Applications of Integration",
		Keywords: []string{"area", "volume", "disk", "washer", "average value"}},
}

var defaultBCAdditional = []models.Chapter{
	{ID: 9, Title: "Parametric Equations, Polar Coordinates, and Vector-Valued Functions",
		Keywords: []string{"parametric", "polar", "vector"}},
	{ID: 10, Title: "Infinite Sequences and Series",
		Keywords: []string{"series", "sequence", "convergence", "divergence", "taylor", "maclaurin"}},
}
