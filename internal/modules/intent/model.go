// README: Conversation intent enumeration.
package intent

// Intent is the coarse category of what the user is trying to do this turn.
type Intent string

const (
	IntentQuote          Intent = "quote"
	IntentPurchase       Intent = "purchase"
	IntentPolicyQuestion Intent = "policy_question"
	IntentClaims         Intent = "claims"
	IntentHumanHandoff   Intent = "human_handoff"
	IntentDocumentUpload Intent = "document_upload"
	IntentGeneral        Intent = "general"
)

// All lists every valid intent, in routing-priority order for the keyword
// classifier (earlier entries win on keyword ties).
var All = []Intent{
	IntentHumanHandoff,
	IntentClaims,
	IntentDocumentUpload,
	IntentPolicyQuestion,
	IntentPurchase,
	IntentQuote,
	IntentGeneral,
}

// Valid reports whether s is a member of the fixed enumeration.
func Valid(s string) bool {
	for _, it := range All {
		if string(it) == s {
			return true
		}
	}
	return false
}
