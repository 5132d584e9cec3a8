package metadata

import "fmt"

const (
	CodeMissingTitle       = "MISSING_TITLE"
	CodeMissingDescription = "MISSING_DESCRIPTION"
	CodeLongTitle          = "LONG_TITLE"
	CodeLongDescription    = "LONG_DESCRIPTION"
	CodeMissingSocialImage = "MISSING_SOCIAL_IMAGE"
	CodeRelativeCanonical  = "RELATIVE_CANONICAL"
)

const (
	maxTitleLength       = 60
	maxDescriptionLength = 160
)

// Issue is one SEO finding from metadata validation.
type Issue struct {
	Code    string
	Message string
}

// Validate checks a derived bundle against SEO limits. All findings are
// advisory; metadata is emitted regardless.
func Validate(meta *Metadata) []Issue {
	var issues []Issue

	if meta.Title == "" {
		issues = append(issues, Issue{Code: CodeMissingTitle, Message: "page has no title"})
	} else if len(meta.Title) > maxTitleLength {
		issues = append(issues, Issue{
			Code:    CodeLongTitle,
			Message: fmt.Sprintf("title is %d characters, search engines truncate after %d", len(meta.Title), maxTitleLength),
		})
	}

	if meta.Description == "" {
		issues = append(issues, Issue{Code: CodeMissingDescription, Message: "page has no description"})
	} else if len(meta.Description) > maxDescriptionLength {
		issues = append(issues, Issue{
			Code:    CodeLongDescription,
			Message: fmt.Sprintf("description is %d characters, search engines truncate after %d", len(meta.Description), maxDescriptionLength),
		})
	}

	if meta.OpenGraph.Image == "" {
		issues = append(issues, Issue{Code: CodeMissingSocialImage, Message: "no social sharing image configured"})
	}

	if meta.Canonical != "" && !absoluteURL(meta.Canonical) {
		issues = append(issues, Issue{Code: CodeRelativeCanonical, Message: "canonical URL is not absolute"})
	}
	return issues
}

func absoluteURL(url string) bool {
	return len(url) > 8 && (url[:7] == "http://" || url[:8] == "https://")
}
