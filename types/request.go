package types

// EnvSpec is an opaque factory descriptor for an environment. Kind is
// resolved against an external registry of constructors; Kwargs are
// handed to the constructor verbatim.
type EnvSpec struct {
	Kind   string `json:"kind"`
	Kwargs Args   `json:"kwargs,omitempty"`
}

// ProtocolSpec is an opaque factory descriptor for an interaction
// protocol, same shape as EnvSpec.
type ProtocolSpec struct {
	Kind   string `json:"kind"`
	Kwargs Args   `json:"kwargs,omitempty"`
}

// RolloutRequest is one fully specified unit of execution: one
// environment instance, one protocol run, with fixed seeds and
// inference configuration.
//
// Requests are value objects. Transformations (seed rewrites, group
// expansion) must build a new request rather than mutate an existing
// one; the With* helpers below do exactly that. EnvSeed and
// SamplingSeed are nil when the caller left them unset, in which case a
// downstream strategy may fill them in.
type RolloutRequest struct {
	Env          EnvSpec        `json:"env"`
	Protocol     ProtocolSpec   `json:"protocol"`
	NumEpisodes  int            `json:"num_episodes"`
	EnvSeed      *int64         `json:"env_seed,omitempty"`
	SamplingSeed *int64         `json:"sampling_seed,omitempty"`
	Inference    *InferenceSpec `json:"inference,omitempty"`
	Meta         Meta           `json:"meta,omitempty"`
}

// WithSeeds returns a copy of the request with both seeds replaced.
func (r RolloutRequest) WithSeeds(envSeed, samplingSeed int64) RolloutRequest {
	r.EnvSeed = Int64Ptr(envSeed)
	r.SamplingSeed = Int64Ptr(samplingSeed)
	return r
}

// WithNumEpisodes returns a copy of the request with NumEpisodes replaced.
func (r RolloutRequest) WithNumEpisodes(n int) RolloutRequest {
	r.NumEpisodes = n
	return r
}

// WithMeta returns a copy of the request whose Meta is the given bag.
// The bag is used as-is; callers that derived it from another request
// should have cloned it first.
func (r RolloutRequest) WithMeta(meta Meta) RolloutRequest {
	r.Meta = meta
	return r
}

// GroupID reports the "group_id" meta key written by group expansion,
// or "" when the request does not belong to a group.
func (r RolloutRequest) GroupID() string {
	if v, ok := r.Meta["group_id"].(string); ok {
		return v
	}
	return ""
}
