package pageconfig

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/validation"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// Issue codes surfaced by validation. Errors block page creation; warnings
// are advisory and never do.
const (
	CodeStructural            = "STRUCTURAL"
	CodeDuplicateSectionID    = "DUPLICATE_SECTION_ID"
	CodeUnregisteredComponent = "UNREGISTERED_COMPONENT"
	CodeLongTitle             = "LONG_TITLE"
	CodeLongDescription       = "LONG_DESCRIPTION"
	CodeUnknownFeature        = "UNKNOWN_FEATURE"
	CodeMissingAltText        = "MISSING_ALT_TEXT"
)

const (
	maxTitleLength       = 60
	maxDescriptionLength = 160
)

// Issue is a single validation finding.
type Issue struct {
	Code       string
	Field      string
	Message    string
	Suggestion string
	// Index points at the offending section, -1 when not section-scoped.
	Index int
}

// Result is the structured outcome of validating a raw configuration.
// Business-rule violations never surface as errors from Validate itself.
type Result struct {
	Valid    bool
	Errors   []Issue
	Warnings []Issue
	Config   *PageConfiguration
}

// ComponentChecker is the slice of the registry the validator needs.
type ComponentChecker interface {
	Has(name string) bool
}

// Validator applies the structural and semantic tiers to raw documents.
type Validator struct {
	components        ComponentChecker
	knownFeatures     []string
	accessibilityFlag string
	logger            interfaces.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithComponentChecker wires the registry lookup used for the unregistered
// component warning. Without it the check is skipped entirely.
func WithComponentChecker(checker ComponentChecker) ValidatorOption {
	return func(v *Validator) {
		v.components = checker
	}
}

// WithKnownFeatures sets the feature-flag vocabulary for UNKNOWN_FEATURE.
func WithKnownFeatures(flags []string) ValidatorOption {
	return func(v *Validator) {
		v.knownFeatures = flags
	}
}

// WithAccessibilityFlag names the flag that arms the alt-text check.
func WithAccessibilityFlag(flag string) ValidatorOption {
	return func(v *Validator) {
		v.accessibilityFlag = flag
	}
}

// WithValidatorLogger overrides the no-op default logger.
func WithValidatorLogger(logger interfaces.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator constructs a validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		accessibilityFlag: "accessibility",
		logger:            logging.NoOp(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the structural tier (fatal on failure) and, when it passes,
// the semantic tier. Duplicate section ids are the one semantic error;
// everything else semantic is a warning.
func (v *Validator) Validate(raw map[string]any) Result {
	result := Result{Valid: true}

	if err := validation.ValidatePageConfig(raw); err != nil {
		for _, issue := range validation.Issues(err) {
			result.Errors = append(result.Errors, Issue{
				Code:    CodeStructural,
				Field:   issue.Location,
				Message: issue.Message,
				Index:   -1,
			})
		}
		result.Valid = false
		return result
	}

	cfg := FromRaw(raw)
	result.Config = cfg

	v.checkDuplicateIDs(cfg, &result)
	v.checkComponents(cfg, &result)
	v.checkMetaLengths(cfg, &result)
	v.checkFeatures(cfg, &result)
	v.checkAltText(cfg, &result)

	if len(result.Errors) > 0 {
		result.Valid = false
	}
	return result
}

// ValidateConfiguration applies both tiers to an already decoded
// configuration, for callers that assemble configs in memory instead of
// loading raw documents. The structural checks mirror the schema tier.
func (v *Validator) ValidateConfiguration(cfg *PageConfiguration) Result {
	result := Result{Valid: true, Config: cfg}
	if cfg == nil {
		result.Errors = append(result.Errors, Issue{
			Code:    CodeStructural,
			Message: "configuration is required",
			Index:   -1,
		})
		result.Valid = false
		return result
	}

	v.checkRequired(cfg, &result)
	if len(result.Errors) > 0 {
		result.Valid = false
		return result
	}

	v.checkDuplicateIDs(cfg, &result)
	v.checkComponents(cfg, &result)
	v.checkMetaLengths(cfg, &result)
	v.checkFeatures(cfg, &result)
	v.checkAltText(cfg, &result)

	if len(result.Errors) > 0 {
		result.Valid = false
	}
	return result
}

func (v *Validator) checkRequired(cfg *PageConfiguration, result *Result) {
	required := []struct {
		field string
		value string
	}{
		{"meta.title", cfg.Meta.Title},
		{"meta.description", cfg.Meta.Description},
		{"layout", cfg.Layout},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			result.Errors = append(result.Errors, Issue{
				Code:    CodeStructural,
				Field:   item.field,
				Message: fmt.Sprintf("%s is required", item.field),
				Index:   -1,
			})
		}
	}
	if len(cfg.Sections) == 0 {
		result.Errors = append(result.Errors, Issue{
			Code:    CodeStructural,
			Field:   "sections",
			Message: "at least one section is required",
			Index:   -1,
		})
		return
	}
	for index, section := range cfg.Sections {
		if strings.TrimSpace(section.ID) == "" || strings.TrimSpace(section.Component) == "" {
			result.Errors = append(result.Errors, Issue{
				Code:    CodeStructural,
				Field:   "sections",
				Message: fmt.Sprintf("section at index %d needs both id and component", index),
				Index:   index,
			})
		}
	}
}

func (v *Validator) checkDuplicateIDs(cfg *PageConfiguration, result *Result) {
	seen := map[string]int{}
	for index, section := range cfg.Sections {
		if first, dup := seen[section.ID]; dup {
			result.Errors = append(result.Errors, Issue{
				Code:    CodeDuplicateSectionID,
				Field:   "sections",
				Message: fmt.Sprintf("section id %q at index %d duplicates index %d", section.ID, index, first),
				Index:   index,
			})
			continue
		}
		seen[section.ID] = index
	}
}

func (v *Validator) checkComponents(cfg *PageConfiguration, result *Result) {
	if v.components == nil {
		return
	}
	for index, section := range cfg.Sections {
		if v.components.Has(section.Component) {
			continue
		}
		// Warning, not error: the registry may populate later for
		// lazily loaded implementations. The page factory applies the
		// hard gate at render time.
		result.Warnings = append(result.Warnings, Issue{
			Code:    CodeUnregisteredComponent,
			Field:   "sections",
			Message: fmt.Sprintf("component %q is not registered", section.Component),
			Index:   index,
		})
	}
}

func (v *Validator) checkMetaLengths(cfg *PageConfiguration, result *Result) {
	if length := len(cfg.Meta.Title); length > maxTitleLength {
		result.Warnings = append(result.Warnings, Issue{
			Code:       CodeLongTitle,
			Field:      "meta.title",
			Message:    fmt.Sprintf("title is %d characters, recommended maximum is %d", length, maxTitleLength),
			Suggestion: "shorten the title so search results do not truncate it",
			Index:      -1,
		})
	}
	if length := len(cfg.Meta.Description); length > maxDescriptionLength {
		result.Warnings = append(result.Warnings, Issue{
			Code:       CodeLongDescription,
			Field:      "meta.description",
			Message:    fmt.Sprintf("description is %d characters, recommended maximum is %d", length, maxDescriptionLength),
			Suggestion: "shorten the description so search results do not truncate it",
			Index:      -1,
		})
	}
}

func (v *Validator) checkFeatures(cfg *PageConfiguration, result *Result) {
	if len(v.knownFeatures) == 0 {
		return
	}
	for _, flag := range cfg.Features {
		if containsFold(v.knownFeatures, flag) {
			continue
		}
		result.Warnings = append(result.Warnings, Issue{
			Code:    CodeUnknownFeature,
			Field:   "features",
			Message: fmt.Sprintf("unknown feature flag %q, known flags: %s", flag, strings.Join(v.knownFeatures, ", ")),
			Index:   -1,
		})
	}
}

// checkAltText flags image-bearing sections missing alt text when the
// accessibility feature is enabled on the page.
func (v *Validator) checkAltText(cfg *PageConfiguration, result *Result) {
	if !cfg.HasFeature(v.accessibilityFlag) {
		return
	}
	for index, section := range cfg.Sections {
		if !bearsImage(section.Props) {
			continue
		}
		if alt, ok := section.Props["alt"].(string); ok && strings.TrimSpace(alt) != "" {
			continue
		}
		result.Warnings = append(result.Warnings, Issue{
			Code:    CodeMissingAltText,
			Field:   "sections",
			Message: fmt.Sprintf("section %q has image props without alt text", section.ID),
			Index:   index,
		})
	}
}

func bearsImage(props map[string]any) bool {
	for key := range props {
		lowered := strings.ToLower(key)
		if lowered == "image" || lowered == "src" || strings.HasSuffix(lowered, "image") {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
