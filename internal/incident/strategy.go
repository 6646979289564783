package incident

// Strategy is one of a fixed catalog of rhetorical approaches used to vary
// generated content across repeated submissions about one incident.
type Strategy string

// Strategy constants, in catalog order. Order matters: SelectStrategy cycles
// through this list by prior submission count.
const (
	StrategyCorrection     Strategy = "correction"
	StrategyTraining       Strategy = "training"
	StrategyPolicy         Strategy = "policy"
	StrategyInvestigation  Strategy = "investigation"
	StrategyAccountability Strategy = "accountability"
)

// StrategyCatalog is the ordered, fixed set of variation strategies.
var StrategyCatalog = []Strategy{
	StrategyCorrection,
	StrategyTraining,
	StrategyPolicy,
	StrategyInvestigation,
	StrategyAccountability,
}

// StrategyProfile describes how a strategy shapes the generated document.
type StrategyProfile struct {
	Emphasis        string
	ActionRequested string
}

var strategyProfiles = map[Strategy]StrategyProfile{
	StrategyCorrection: {
		Emphasis:        "Request a public correction and clarification of the misinformation",
		ActionRequested: "publish a correction, update online content, and clarify in future coverage",
	},
	StrategyTraining: {
		Emphasis:        "Request staff training on economic literacy fundamentals",
		ActionRequested: "provide training to journalists and presenters on government finance fundamentals",
	},
	StrategyPolicy: {
		Emphasis:        "Request a review of editorial policies regarding economic reporting",
		ActionRequested: "review editorial guidelines to ensure accurate economic reporting",
	},
	StrategyInvestigation: {
		Emphasis:        "Request an internal investigation into the accuracy of the reporting",
		ActionRequested: "investigate how this misinformation was broadcast and implement quality controls",
	},
	StrategyAccountability: {
		Emphasis:        "Emphasize the outlet's accountability to the public and regulatory standards",
		ActionRequested: "acknowledge the error and commit to higher standards of economic reporting",
	},
}

// SelectStrategy picks the strategy for the (priorCount+1)th submission about
// an incident. priorCount is the number of submissions sharing the incident
// key created strictly before this one, so assignment is a pure function of
// persisted prior state: submissions 0..4 each get a distinct strategy and
// submission 5 wraps back to the first.
func SelectStrategy(priorCount int) Strategy {
	if priorCount < 0 {
		priorCount = 0
	}
	return StrategyCatalog[priorCount%len(StrategyCatalog)]
}

// Profile returns the rhetorical profile for a strategy. Unknown strategies
// fall back to the correction profile.
func (s Strategy) Profile() StrategyProfile {
	if p, ok := strategyProfiles[s]; ok {
		return p
	}
	return strategyProfiles[StrategyCorrection]
}

// Valid reports whether s is a catalog strategy.
func (s Strategy) Valid() bool {
	_, ok := strategyProfiles[s]
	return ok
}

// Tone is an independent, user-chosen stylistic parameter. It passes through
// from the submission unchanged and is never derived from the incident.
type Tone string

// Tone constants.
const (
	ToneProfessional Tone = "professional"
	ToneAcademic     Tone = "academic"
	TonePassionate   Tone = "passionate"
)

// ToneProfile describes the register a tone sets in the generated document.
type ToneProfile struct {
	Style    string
	Greeting string
	Closing  string
}

var toneProfiles = map[Tone]ToneProfile{
	ToneProfessional: {
		Style:    "formal, measured, business-like",
		Greeting: "Dear Sir/Madam",
		Closing:  "Yours faithfully",
	},
	ToneAcademic: {
		Style:    "scholarly, evidence-focused, pedagogical",
		Greeting: "To the Editorial Team",
		Closing:  "Respectfully submitted",
	},
	TonePassionate: {
		Style:    "assertive, concerned citizen, direct",
		Greeting: "To whom it may concern",
		Closing:  "Sincerely concerned",
	},
}

// Profile returns the tone profile, defaulting to professional for unknown
// tones rather than failing generation.
func (t Tone) Profile() ToneProfile {
	if p, ok := toneProfiles[t]; ok {
		return p
	}
	return toneProfiles[ToneProfessional]
}

// Valid reports whether t is a supported tone.
func (t Tone) Valid() bool {
	_, ok := toneProfiles[t]
	return ok
}
