package pages

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-pagekit/pageconfig"
)

// ValidationError blocks page creation when the configuration fails the
// structural or semantic validation tier. Warnings never produce it.
type ValidationError struct {
	Path   string
	Issues []pageconfig.Issue
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		messages[i] = issue.Message
	}
	return fmt.Sprintf("pages: %q failed validation: %s",
		e.Path, strings.Join(messages, "; "))
}
