// Package resources implements MCP resource handlers for Quill.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (quill://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/quill/internal/fluency"
	"github.com/HendryAvila/quill/internal/history"
)

// URIs served by Handler.
const (
	RubricURI    = "quill://fluency/rubric"
	DocumentsURI = "quill://history/documents"
)

// Handler manages Quill resource endpoints.
type Handler struct {
	standalone fluency.Config
	review     fluency.Config
	history    *history.Store // nullable; history may be disabled
}

// NewHandler creates a resource Handler with its dependencies.
// hs may be nil.
func NewHandler(standalone, review fluency.Config, hs *history.Store) *Handler {
	return &Handler{standalone: standalone, review: review, history: hs}
}

// Rubric is the scoring reference served as JSON.
type Rubric struct {
	MaxScore   float64           `json:"max_score"`
	MinScore   float64           `json:"min_score"`
	Formula    string            `json:"formula"`
	Thresholds fluency.Config    `json:"thresholds"`
	Review     fluency.Config    `json:"review_thresholds"`
	Dimensions []RubricDimension `json:"dimensions"`
	Penalties  []fluency.Penalty `json:"penalties"`
	Audiences  map[string]string `json:"audience_notes"`
}

// RubricDimension is one dimension's floor and pass criterion.
type RubricDimension struct {
	Dimension fluency.Dimension `json:"dimension"`
	Floor     float64           `json:"floor"`
	Criteria  string            `json:"pass_criteria"`
}

// BuildRubric assembles the rubric from the analyzer's own tables.
func (h *Handler) BuildRubric() Rubric {
	r := Rubric{
		MaxScore:   fluency.MaxScore,
		MinScore:   fluency.MinScore,
		Formula:    "dimension = max(floor, 5 - penalties); score = clamp(5 - sum(5 - dimension), 1, 5)",
		Thresholds: h.standalone,
		Review:     h.review,
		Penalties:  fluency.Penalties(),
		Audiences:  make(map[string]string),
	}
	for _, d := range fluency.Dimensions {
		r.Dimensions = append(r.Dimensions, RubricDimension{
			Dimension: d,
			Floor:     fluency.Floor(d),
			Criteria:  fluency.Criteria(d),
		})
	}
	for _, a := range fluency.Audiences() {
		r.Audiences[a] = fluency.AudienceNote(a)
	}
	return r
}

// RubricResource returns the MCP resource definition for the rubric.
func (h *Handler) RubricResource() mcp.Resource {
	return mcp.NewResource(
		RubricURI,
		"Fluency Rubric",
		mcp.WithResourceDescription("Thresholds, penalty table and pass criteria used to compute the fluency score"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleRubric returns the rubric as JSON.
func (h *Handler) HandleRubric(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.BuildRubric())
}

// DocumentsResource returns the MCP resource definition for tracked documents.
func (h *Handler) DocumentsResource() mcp.Resource {
	return mcp.NewResource(
		DocumentsURI,
		"Tracked Documents",
		mcp.WithResourceDescription("Documents with recorded fluency runs, latest score first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleDocuments lists documents with recorded runs.
func (h *Handler) HandleDocuments(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.history == nil {
		return errorResource(req.Params.URI, "score history is disabled"), nil
	}
	docs, err := h.history.Documents(50)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if docs == nil {
		docs = []history.DocumentSummary{}
	}
	return jsonResource(req.Params.URI, docs)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
