package ai

// intentResult captures the structured classification output from the model.
type intentResult struct {
	// Intent is the raw label; valid values are enumerated in the prompt and
	// re-validated by the intent module.
	Intent string `json:"intent"`

	// Confidence is the model's own certainty in [0,1].
	Confidence float64 `json:"confidence"`
}

// questionResult captures the structured phrasing output from the model.
type questionResult struct {
	Question string `json:"question"`
}
