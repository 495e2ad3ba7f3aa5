// Package workflow implements the Temporal workflow that analyzes a decision
// brief: it ranks the framework catalogue, generates visualizations for the
// best-fitting deep frameworks and validates each one.
//
// Workflow code only orchestrates. Provider calls, catalogue access and
// validation run in activities, so replay never touches the network.
package workflow
