// Package triage provides the business boundary for the triage agent.
// It defines the Service (dispatch lifecycle, notification fan-out), Engine
// (candidate-model fallback and tool execution), Store interface (registry
// state), and domain models.
package triage
