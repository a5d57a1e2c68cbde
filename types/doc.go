/*
Package types provides the shared value types of the rolloutflow module.

types is the lowest-level public package and depends on nothing else in
the module. It defines the immutable descriptors that cross the boundary
to an execution engine:

  - EnvSpec / ProtocolSpec — opaque factory descriptors (kind + kwargs)
  - RolloutRequest         — one fully specified unit of execution
  - InferenceSpec          — sampling and return configuration
  - Args / Meta            — JSON-shaped kwarg and metadata bags

RolloutRequest values are treated as immutable: every transformation
produces a new value via copy-with-overrides, never an in-place edit.
The Clone helpers on Args and Meta exist so transformations can rewrite
maps without aliasing the originals.
*/
package types
