package analyst

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"dealdesk/server/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	SourceRules     = "rules"
	SourceGenerator = "generator"
)

type Analysis struct {
	Recommendation string `json:"recommendation"`
	Markdown       string `json:"markdown"`
	HTML           string `json:"html"`
	Source         string `json:"source"`
}

// Analyst writes memos, asking the generator first when one is set.
type Analyst struct {
	generator Generator
	timeout   time.Duration
	logger    *logrus.Logger
}

func New(generator Generator, timeout time.Duration, logger *logrus.Logger) *Analyst {
	if logger == nil {
		logger = logrus.New()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Analyst{generator: generator, timeout: timeout, logger: logger}
}

// Analyze never fails on generator errors; it falls back to the rule-based memo.
func (a *Analyst) Analyze(ctx context.Context, listing models.PropertyListing, m *models.FinancialModel) (*Analysis, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot analyze %q without a model", listing.Address)
	}

	analysis := &Analysis{
		Recommendation: Recommend(m.CapRate, m.CashOnCashReturn),
		Source:         SourceRules,
	}

	if md, ok := a.generate(ctx, listing.Address, prompt(listing, m)); ok {
		analysis.Markdown = md
		analysis.Source = SourceGenerator
	}
	if analysis.Markdown == "" {
		analysis.Markdown = Memo(listing, m)
	}

	html, err := RenderHTML(analysis.Markdown)
	if err != nil {
		return nil, err
	}
	analysis.HTML = html
	return analysis, nil
}

// generate asks the generator for one piece of text. It reports false when no
// generator is set, the call fails, or the reply is blank.
func (a *Analyst) generate(ctx context.Context, address, p string) (string, bool) {
	if a.generator == nil {
		return "", false
	}
	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.generator.Generate(genCtx, p)
	if err != nil {
		a.logger.WithError(err).WithField("address", address).Warn("Narrative generation failed, using rule-based text")
		return "", false
	}
	md := cleanMarkdown(text)
	if md == "" {
		a.logger.WithField("address", address).Warn("Narrative generation returned no content, using rule-based text")
		return "", false
	}
	return md, true
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderHTML converts memo markdown to HTML.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// cleanMarkdown strips an outer code fence some models wrap replies in.
func cleanMarkdown(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimPrefix(s, "```markdown")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
