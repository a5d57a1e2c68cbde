package types

// SamplingParams carries portable sampling parameters. Vendor-specific
// knobs belong in backend-specific request objects, not here.
type SamplingParams struct {
	Temperature      float32  `json:"temperature"`
	MaxTokens        int      `json:"max_tokens"`
	TopP             float32  `json:"top_p"`
	FrequencyPenalty float32  `json:"frequency_penalty,omitempty"`
	PresencePenalty  float32  `json:"presence_penalty,omitempty"`
	Stop             []string `json:"stop,omitempty"`
}

// DefaultSamplingParams returns the conventional defaults used when a
// request does not pin its own parameters.
func DefaultSamplingParams() SamplingParams {
	return SamplingParams{
		Temperature: 0.7,
		MaxTokens:   256,
		TopP:        1.0,
	}
}

// ToOpenAIArgs renders the parameters as the keyword arguments an
// OpenAI-compatible chat endpoint expects.
func (p SamplingParams) ToOpenAIArgs() Args {
	args := Args{
		"temperature":       float64(p.Temperature),
		"max_tokens":        p.MaxTokens,
		"top_p":             float64(p.TopP),
		"frequency_penalty": float64(p.FrequencyPenalty),
		"presence_penalty":  float64(p.PresencePenalty),
	}
	if len(p.Stop) > 0 {
		args["stop"] = p.Stop
	}
	return args
}

// ReturnSpec declares what the execution engine should hand back with a
// completed trajectory.
type ReturnSpec struct {
	TokenIDs bool `json:"token_ids"`
	Logprobs bool `json:"logprobs"`
	Text     bool `json:"text"`
}

// ReturnForTraining returns the fields a training loop needs: token ids
// and logprobs alongside the text.
func ReturnForTraining() ReturnSpec {
	return ReturnSpec{TokenIDs: true, Logprobs: true, Text: true}
}

// ReturnForEval returns the leaner evaluation shape; token ids are
// optional.
func ReturnForEval(tokenIDs bool) ReturnSpec {
	return ReturnSpec{TokenIDs: tokenIDs, Text: true}
}

// InferenceSpec bundles the inference-side configuration attached to a
// RolloutRequest. The compiler treats it as opaque cargo; it is
// consumed by the inference backend the execution engine talks to.
type InferenceSpec struct {
	Model    string         `json:"model,omitempty"`
	Sampling SamplingParams `json:"sampling"`
	Return   ReturnSpec     `json:"return"`
}
