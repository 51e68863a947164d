// Package scenario classifies free-form user requests into a fixed set of
// document-generation scenarios. The router is stateless and total: any
// input, including the empty string, yields a well-formed classification.
package scenario

// Scenario identifies one of the canonical assistant workflows.
type Scenario string

const (
	CounterpartyCheck   Scenario = "counterparty_check"
	RiskTable           Scenario = "risk_table"
	ClaimResponse       Scenario = "claim_response"
	ContractAgentRF     Scenario = "contract_agent_rf"
	DisputePreparation  Scenario = "dispute_preparation"
	LegalOpinion        Scenario = "legal_opinion"
	CaseLawAnalytics    Scenario = "case_law_analytics"
	DocumentStructuring Scenario = "legal_document_structuring"
	ClientExplanation   Scenario = "client_explanation"
	BusinessContext     Scenario = "business_context"
)

// Default is returned when the input is empty or nothing scores above zero.
const Default = DocumentStructuring

// All lists every routable scenario in gate-priority order.
func All() []Scenario {
	out := make([]Scenario, 0, len(priority))
	out = append(out, priority...)
	return out
}

// priority is the explicit tie-break order for both hard gates and equal
// soft scores. The counterparty check comes first so that a tax identifier
// in the text is never shadowed by document keywords.
var priority = []Scenario{
	CounterpartyCheck,
	RiskTable,
	ClaimResponse,
	ContractAgentRF,
	DisputePreparation,
	LegalOpinion,
	CaseLawAnalytics,
	DocumentStructuring,
	ClientExplanation,
	BusinessContext,
}

// Classification is the router output. Confidence is always within [0, 1].
type Classification struct {
	Scenario    Scenario
	Confidence  float64
	MatchedRule string
}

// Context carries request signals that raise soft-scoring confidence.
type Context struct {
	HasAttachment       bool
	HasCounterpartyInfo bool
}
