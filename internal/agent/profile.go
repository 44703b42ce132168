package agent

// profile prepends analyst context and answering guidance to a query.
type profile struct {
	Preface string
	Hints   string
}

var profiles = map[string]profile{
	"pfas": {
		Preface: "You are an environmental engineering analyst. Focus on PFAS drinking water guidance, " +
			"treatment (GAC, IX, RO), EBCT/design factors, lifecycle costs, and recent policy changes.",
		Hints: `When answering:
- Distinguish PFOA/PFOS vs total PFAS limits by region and date.
- Compare GAC vs Ion Exchange (resin type, EBCT, breakthrough, Opex/Capex).
- Note any 2023-2025 regulation updates (UK DWI, EU, US EPA).
- Summarize 2-3 vendor datasheets or case studies when available.
- Provide bullet points + short table-style comparisons when useful.
- Cite URLs inline.`,
	},
}

// ApplyProfile wraps the query in the named profile's preface and guidance.
// Unknown or empty names leave the query untouched.
func ApplyProfile(name, query string) string {
	p, ok := profiles[name]
	if !ok {
		return query
	}
	return p.Preface + "\n\nUser question: " + query + "\n\nGuidance:\n" + p.Hints
}
