package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

const skillFileName = "SKILL.md"

var (
	frontmatterParser = goldmark.New(goldmark.WithExtensions(meta.Meta))

	// agentskills.io: lowercase alphanumerics and single hyphens, at most 64 characters.
	skillNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

const (
	maxSkillNameLength        = 64
	maxSkillDescriptionLength = 1024
)

// parseFrontmatter splits a markdown document into its YAML frontmatter and body.
func parseFrontmatter(src []byte) (map[string]any, string, error) {
	pctx := parser.NewContext()
	frontmatterParser.Parser().Parse(text.NewReader(src), parser.WithContext(pctx))

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return nil, "", errors.Wrap(err, "invalid frontmatter")
	}
	if len(metaData) == 0 {
		return nil, "", errors.New("missing frontmatter")
	}

	return metaData, extractBodyContent(string(src)), nil
}

// extractBodyContent removes YAML frontmatter and returns the body
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

func requiredString(metaData map[string]any, key string) (string, error) {
	raw, ok := metaData[key]
	if !ok {
		return "", errors.Errorf("%s is required in frontmatter", key)
	}
	s := strings.TrimSpace(fmt.Sprint(raw))
	if s == "" {
		return "", errors.Errorf("%s is required in frontmatter", key)
	}
	return s, nil
}

// parseSection reads a tutorial section file: frontmatter carries id, title
// and description, the body is the section content.
func parseSection(src []byte) (TutorialSection, error) {
	metaData, body, err := parseFrontmatter(src)
	if err != nil {
		return TutorialSection{}, err
	}

	var section TutorialSection
	if section.ID, err = requiredString(metaData, "id"); err != nil {
		return TutorialSection{}, err
	}
	if section.Title, err = requiredString(metaData, "title"); err != nil {
		return TutorialSection{}, err
	}
	if section.Description, err = requiredString(metaData, "description"); err != nil {
		return TutorialSection{}, err
	}
	section.Content = strings.TrimSpace(body)

	return section, nil
}

// validateSkillFile checks that an example SKILL.md follows the agentskills.io
// frontmatter rules. Examples that would not load in a real assistant are rejected.
func validateSkillFile(src []byte) error {
	metaData, _, err := parseFrontmatter(src)
	if err != nil {
		return err
	}

	name, err := requiredString(metaData, "name")
	if err != nil {
		return errors.Wrap(err, "skill name")
	}
	if len(name) > maxSkillNameLength || !skillNamePattern.MatchString(name) {
		return errors.Errorf("skill name %q must be lowercase letters, digits and hyphens (max %d)", name, maxSkillNameLength)
	}

	description, err := requiredString(metaData, "description")
	if err != nil {
		return errors.Wrap(err, "skill description")
	}
	if len(description) > maxSkillDescriptionLength {
		return errors.Errorf("skill description is %d characters, max %d", len(description), maxSkillDescriptionLength)
	}

	return nil
}
