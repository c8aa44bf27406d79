// Package article assembles a blog post from an operator's interview answers.
//
// Composition is deterministic: fixed HTML fragments wrap the operator's own
// text. Nothing here calls an LLM.
package article

import (
	"fmt"
	"strings"

	"github.com/osteele/liquid"
)

// NoCautions is the default caution answer; it drops the caution section
const NoCautions = "特になし"

// Outline holds the interview answers
type Outline struct {
	Title      string
	Topic      string
	Experience string
	GoodPoints string // comma separated
	Cautions   string
}

// Points splits GoodPoints on commas, dropping blanks
func (o Outline) Points() []string {
	points := []string{}
	for _, p := range strings.Split(o.GoodPoints, ",") {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	return points
}

// HasCautions reports whether the caution section should be rendered
func (o Outline) HasCautions() bool {
	return strings.TrimSpace(o.Cautions) != NoCautions
}

// Article is a composed post ready for WordPress
type Article struct {
	Title          string
	Content        string
	Excerpt        string
	SEODescription string
}

// Composer renders outlines into HTML
type Composer struct {
	diagnosisURL string

	cta        *liquid.Template
	intro      *liquid.Template
	experience *liquid.Template
	points     *liquid.Template
	cautions   *liquid.Template
	summary    *liquid.Template
	excerpt    *liquid.Template
}

// NewComposer parses the fragments; diagnosisURL is linked from both CTA blocks
func NewComposer(diagnosisURL string) (*Composer, error) {
	engine := liquid.NewEngine()
	engine.RegisterFilter("list_items", func(items []string) string {
		lines := make([]string, 0, len(items))
		for _, item := range items {
			lines = append(lines, "<li>"+item+"</li>")
		}
		return strings.Join(lines, "\n")
	})

	c := &Composer{diagnosisURL: diagnosisURL}
	sources := []struct {
		name string
		src  string
		dst  **liquid.Template
	}{
		{"cta", ctaTemplate, &c.cta},
		{"intro", introTemplate, &c.intro},
		{"experience", experienceTemplate, &c.experience},
		{"points", pointsTemplate, &c.points},
		{"cautions", cautionsTemplate, &c.cautions},
		{"summary", summaryTemplate, &c.summary},
		{"excerpt", excerptTemplate, &c.excerpt},
	}
	for _, s := range sources {
		tpl, err := engine.ParseString(s.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", s.name, err)
		}
		*s.dst = tpl
	}

	return c, nil
}

// Compose builds the post: intro, CTA, experience, points, optional
// cautions, summary and a closing CTA, joined by newlines.
func (c *Composer) Compose(o Outline) (*Article, error) {
	bindings := map[string]any{
		"title":         o.Title,
		"topic":         o.Topic,
		"experience":    o.Experience,
		"points":        o.Points(),
		"cautions":      strings.TrimSpace(o.Cautions),
		"diagnosis_url": c.diagnosisURL,
	}

	fragments := []*liquid.Template{c.intro, c.cta, c.experience, c.points}
	if o.HasCautions() {
		fragments = append(fragments, c.cautions)
	}
	fragments = append(fragments, c.summary, c.cta)

	parts := make([]string, 0, len(fragments))
	for _, tpl := range fragments {
		out, err := tpl.RenderString(bindings)
		if err != nil {
			return nil, fmt.Errorf("failed to render article: %w", err)
		}
		parts = append(parts, out)
	}

	excerpt, err := c.excerpt.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("failed to render excerpt: %w", err)
	}

	return &Article{
		Title:          o.Title,
		Content:        strings.Join(parts, "\n"),
		Excerpt:        excerpt,
		SEODescription: excerpt,
	}, nil
}
