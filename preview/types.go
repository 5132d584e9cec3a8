package preview

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status tracks a preview through its lifecycle.
type Status string

const (
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// ScoreIssue is one finding from a preview scorer.
type ScoreIssue struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Score is the outcome of one quality dimension, 0 to 100.
type Score struct {
	Score           int          `json:"score"`
	Issues          []ScoreIssue `json:"issues,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
}

// Report bundles the quality dimensions evaluated for a preview. Valid means
// the configuration passed structural validation and the performance score
// cleared the configured threshold; the other dimensions are advisory.
type Report struct {
	Valid         bool  `json:"valid"`
	Performance   Score `json:"performance"`
	Accessibility Score `json:"accessibility"`
	SEO           Score `json:"seo"`
}

// Preview is a stored authoring preview of an unsaved page configuration.
type Preview struct {
	bun.BaseModel `bun:"table:page_previews,alias:pp"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ConfigPath string         `bun:"config_path,notnull" json:"config_path"`
	Nonce      string         `bun:"nonce,notnull" json:"nonce"`
	Status     Status         `bun:"status,notnull" json:"status"`
	Config     map[string]any `bun:"config,type:jsonb" json:"config,omitempty"`
	Report     *Report        `bun:"report,type:jsonb" json:"report,omitempty"`
	Error      string         `bun:"error,nullzero" json:"error,omitempty"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	ExpiresAt  time.Time      `bun:"expires_at,notnull" json:"expires_at"`
}

// Expired reports whether the preview's retention window has passed.
func (p *Preview) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// NotFoundError reports a missing or expired preview.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preview %q not found", e.Key)
}

func clonePreview(p *Preview) *Preview {
	if p == nil {
		return nil
	}
	copied := *p
	if p.Config != nil {
		copied.Config = make(map[string]any, len(p.Config))
		for k, v := range p.Config {
			copied.Config[k] = v
		}
	}
	if p.Report != nil {
		report := *p.Report
		copied.Report = &report
	}
	return &copied
}
