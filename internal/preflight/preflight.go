// Package preflight checks the preconditions of writing stages before an
// agent runs them.
//
// Each failed precondition is a typed error carrying the data needed to
// explain it. Callers match with errors.Is against the sentinels and
// errors.As for the details.
package preflight

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below.
var (
	ErrMissingPrerequisite       = errors.New("missing prerequisite")
	ErrInsufficientMaterialRatio = errors.New("insufficient material ratio")
	ErrInvalidRatio              = errors.New("material usage rate out of range")
)

// MinMaterialUsageRate is the share of gathered personal material a
// workflow draft must use.
const MinMaterialUsageRate = 0.8

// Stage is a writing step that has preconditions.
type Stage string

const (
	StageBrief    Stage = "brief"
	StageWorkflow Stage = "workflow"
)

// StageValues returns the checkable stages, for tool enums.
func StageValues() []string {
	return []string{string(StageBrief), string(StageWorkflow)}
}

// MissingPrerequisiteError reports a step that must run before Stage.
type MissingPrerequisiteError struct {
	Stage   Stage
	Missing string // the step that was skipped
	Remedy  string
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("%s: missing prerequisite %q", e.Stage, e.Missing)
}

func (e *MissingPrerequisiteError) Unwrap() error { return ErrMissingPrerequisite }

// InsufficientMaterialRatioError reports a usage rate below the minimum.
type InsufficientMaterialRatioError struct {
	Stage    Stage
	Rate     float64
	Required float64
}

func (e *InsufficientMaterialRatioError) Error() string {
	return fmt.Sprintf("%s: material usage rate %.1f%% is below the required %.0f%%",
		e.Stage, e.Rate*100, e.Required*100)
}

func (e *InsufficientMaterialRatioError) Unwrap() error { return ErrInsufficientMaterialRatio }

// BriefInput describes the state before creating a writing brief.
type BriefInput struct {
	HasResearch  bool
	HasMaterials bool
}

// WorkflowInput describes the state before running the writing workflow.
type WorkflowInput struct {
	Materials []string
	UsageRate float64 // share of Materials the draft uses, in [0, 1]
}

// Result is a passed check plus non-blocking advice.
type Result struct {
	Stage    Stage    `json:"stage"`
	Warnings []string `json:"warnings,omitempty"`
}

// CheckBrief requires personal materials. Missing research only warns.
func CheckBrief(in BriefInput) (*Result, error) {
	if !in.HasMaterials {
		return nil, &MissingPrerequisiteError{
			Stage:   StageBrief,
			Missing: "personal materials",
			Remedy:  "search the personal corpus for opinions, experiences and cases on the topic, then retry",
		}
	}
	res := &Result{Stage: StageBrief}
	if !in.HasResearch {
		res.Warnings = append(res.Warnings, "no web research recorded; the brief will rely on personal material only")
	}
	return res, nil
}

// CheckWorkflow requires at least one material and a usage rate of at
// least MinMaterialUsageRate.
func CheckWorkflow(in WorkflowInput) (*Result, error) {
	if in.UsageRate < 0 || in.UsageRate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, in.UsageRate)
	}
	materials := 0
	for _, m := range in.Materials {
		if m != "" {
			materials++
		}
	}
	if materials == 0 {
		return nil, &MissingPrerequisiteError{
			Stage:   StageWorkflow,
			Missing: "personal materials",
			Remedy:  "pass the materials found in the personal corpus; aim for 3-5",
		}
	}
	if in.UsageRate < MinMaterialUsageRate {
		return nil, &InsufficientMaterialRatioError{
			Stage:    StageWorkflow,
			Rate:     in.UsageRate,
			Required: MinMaterialUsageRate,
		}
	}

	res := &Result{Stage: StageWorkflow}
	if materials < 3 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("only %d personal material(s); 3-5 make the draft more personal", materials))
	}
	return res, nil
}
