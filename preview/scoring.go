package preview

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-pagekit/pageconfig"
)

const (
	sectionBudget         = 10
	sectionPenalty        = 5
	heavyComponentPenalty = 10

	maxTitleLength       = 60
	maxDescriptionLength = 160
)

// scorePerformance estimates render cost from section count and the
// configured heavy-component list. Every section past the budget and every
// heavy component deducts from a perfect score.
func scorePerformance(cfg *pageconfig.PageConfiguration, heavy []string) Score {
	score := Score{Score: 100}

	if extra := len(cfg.Sections) - sectionBudget; extra > 0 {
		score.Score -= extra * sectionPenalty
		score.Issues = append(score.Issues, ScoreIssue{
			Type:    "render",
			Message: fmt.Sprintf("%d sections exceed the budget of %d", len(cfg.Sections), sectionBudget),
		})
		score.Recommendations = append(score.Recommendations,
			"split the page or lazy-load sections below the fold")
	}

	heavySet := make(map[string]bool, len(heavy))
	for _, name := range heavy {
		heavySet[strings.ToLower(name)] = true
	}
	for _, section := range cfg.Sections {
		if !heavySet[strings.ToLower(section.Component)] {
			continue
		}
		score.Score -= heavyComponentPenalty
		score.Issues = append(score.Issues, ScoreIssue{
			Type:    "asset",
			Message: fmt.Sprintf("section %q uses heavy component %s", section.ID, section.Component),
		})
	}
	if len(score.Issues) > 0 && len(score.Recommendations) == 0 {
		score.Recommendations = append(score.Recommendations,
			"defer heavy components until they scroll into view")
	}

	score.Score = clampScore(score.Score)
	return score
}

// scoreAccessibility inspects section props for image content without
// alternative text.
func scoreAccessibility(cfg *pageconfig.PageConfiguration) Score {
	score := Score{Score: 100}

	for _, section := range cfg.Sections {
		if !bearsImage(section.Props) || hasAltText(section.Props) {
			continue
		}
		score.Score -= 15
		score.Issues = append(score.Issues, ScoreIssue{
			Type:    "alt",
			Message: fmt.Sprintf("section %q has image content without alt text", section.ID),
		})
	}
	if len(score.Issues) > 0 {
		score.Recommendations = append(score.Recommendations,
			"add alt props describing each image for screen readers")
	}

	score.Score = clampScore(score.Score)
	return score
}

// scoreSEO checks the metadata against search result limits.
func scoreSEO(cfg *pageconfig.PageConfiguration) Score {
	score := Score{Score: 100}
	deduct := func(points int, issueType, message, recommendation string) {
		score.Score -= points
		score.Issues = append(score.Issues, ScoreIssue{Type: issueType, Message: message})
		if recommendation != "" {
			score.Recommendations = append(score.Recommendations, recommendation)
		}
	}

	switch {
	case cfg.Meta.Title == "":
		deduct(20, "title", "page has no title", "add a descriptive title under 60 characters")
	case len(cfg.Meta.Title) > maxTitleLength:
		deduct(10, "title",
			fmt.Sprintf("title is %d characters", len(cfg.Meta.Title)),
			"shorten the title to 60 characters or fewer")
	}

	switch {
	case cfg.Meta.Description == "":
		deduct(20, "description", "page has no description", "add a meta description under 160 characters")
	case len(cfg.Meta.Description) > maxDescriptionLength:
		deduct(10, "description",
			fmt.Sprintf("description is %d characters", len(cfg.Meta.Description)),
			"shorten the description to 160 characters or fewer")
	}

	if cfg.Meta.SocialImage == "" {
		deduct(10, "social", "page has no social sharing image", "")
	}
	if len(cfg.Meta.Keywords) == 0 {
		deduct(5, "keywords", "page has no keywords", "")
	}

	score.Score = clampScore(score.Score)
	return score
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

func hasAltText(props map[string]any) bool {
	if alt, ok := props["alt"].(string); ok && strings.TrimSpace(alt) != "" {
		return true
	}
	return false
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
