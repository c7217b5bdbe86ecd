// Package digest assembles ranked topic clusters into the final digest
// document for a persona.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dailybrief/internal/clustering"
	"dailybrief/internal/core"
	"dailybrief/internal/logger"

	"github.com/google/uuid"
)

const (
	// maxThemeLength bounds the display length of a section theme.
	maxThemeLength = 80
	// maxTopThemes is how many themes the intro prompt receives.
	maxTopThemes = 3
)

// Summarizer produces narrative text for clusters, single articles, and the
// digest introduction. Implementations may fail per call; the assembler
// substitutes deterministic local fallbacks and keeps going.
type Summarizer interface {
	SummarizeCluster(ctx context.Context, persona string, items []core.Item) (string, error)
	SummarizeArticle(ctx context.Context, title, text string) (string, error)
	GenerateIntro(ctx context.Context, persona string, numClusters, numArticles int, topThemes []string) (string, error)
}

// Options configures one digest assembly run.
type Options struct {
	Persona     string // Persona tag the digest is built for
	MaxSections int    // Upper bound on the number of sections
}

func (o Options) validate() error {
	if strings.TrimSpace(o.Persona) == "" {
		return fmt.Errorf("persona must not be empty")
	}
	if o.MaxSections <= 0 {
		return fmt.Errorf("max sections must be positive, got %d", o.MaxSections)
	}
	return nil
}

// Assembler builds immutable digest documents from ranked clusters.
type Assembler struct {
	summarizer Summarizer
	log        *slog.Logger
}

// NewAssembler creates an assembler using the given summarizer collaborator.
func NewAssembler(summarizer Summarizer) *Assembler {
	return &Assembler{
		summarizer: summarizer,
		log:        logger.Get(),
	}
}

// Assemble takes the top MaxSections ranked clusters in order and builds a
// digest: one section per cluster with a theme from its representative
// item, a narrative cluster summary, per-article narratives, and an overall
// intro. An empty ranked sequence yields a "no content" digest, never an
// error. Summarizer failures for a single cluster or article fall back to
// locally derived text; they never abort the run.
func (a *Assembler) Assemble(ctx context.Context, ranked []core.RankedCluster, opts Options) (core.Digest, error) {
	if err := opts.validate(); err != nil {
		return core.Digest{}, err
	}

	digest := core.Digest{
		ID:          uuid.NewString(),
		Persona:     opts.Persona,
		GeneratedAt: time.Now().UTC(),
	}

	if len(ranked) == 0 {
		digest.Intro = fmt.Sprintf("No relevant articles found for the %s digest today.", displayName(opts.Persona))
		digest.Sections = []core.DigestSection{}
		a.log.Info("Assembled empty digest", "persona", opts.Persona)
		return digest, nil
	}

	top := ranked
	if len(top) > opts.MaxSections {
		top = top[:opts.MaxSections]
	}

	totalArticles := 0
	for _, cluster := range top {
		totalArticles += len(cluster.Items)
	}

	sections := make([]core.DigestSection, 0, len(top))
	themes := make([]string, 0, len(top))

	for _, cluster := range top {
		theme := truncate(clustering.Representative(cluster.Items).Title, maxThemeLength)
		if theme == "" {
			theme = "Tech News"
		}
		themes = append(themes, theme)

		sections = append(sections, core.DigestSection{
			Theme:        theme,
			Summary:      a.clusterSummary(ctx, opts.Persona, cluster.Items),
			AvgScore:     cluster.AvgScore,
			ArticleCount: len(cluster.Items),
			Articles:     a.articleRefs(ctx, cluster.Items),
		})
	}

	digest.Intro = a.intro(ctx, opts.Persona, len(sections), totalArticles, themes)
	digest.Sections = sections
	digest.TotalArticles = totalArticles
	digest.TotalClusters = len(sections)

	a.log.Info("Assembled digest",
		"persona", opts.Persona,
		"clusters", digest.TotalClusters,
		"articles", digest.TotalArticles,
	)
	return digest, nil
}

// clusterSummary asks the summarizer for a cluster narrative, falling back
// to a deterministic local line on failure.
func (a *Assembler) clusterSummary(ctx context.Context, persona string, items []core.Item) string {
	summary, err := a.summarizer.SummarizeCluster(ctx, persona, items)
	if err == nil && summary != "" {
		return summary
	}
	if err != nil {
		a.log.Warn("Cluster summarization failed, using fallback", "error", err.Error())
	}
	return fmt.Sprintf("Summary of %d articles about %s", len(items), truncate(items[0].Title, 50))
}

// articleRefs builds the per-article view records, reusing a previously
// attached narrative where one exists.
func (a *Assembler) articleRefs(ctx context.Context, items []core.Item) []core.ArticleRef {
	refs := make([]core.ArticleRef, 0, len(items))
	for _, item := range items {
		narrative := item.LLMSummary
		if narrative == "" {
			var err error
			narrative, err = a.summarizer.SummarizeArticle(ctx, item.Title, item.BodyText())
			if err != nil || narrative == "" {
				if err != nil {
					a.log.Warn("Article summarization failed, using fallback",
						"item", item.ID, "error", err.Error())
				}
				narrative = fallbackArticleNarrative(item)
			}
		}

		refs = append(refs, core.ArticleRef{
			Title:       item.Title,
			Summary:     item.Summary,
			LLMSummary:  narrative,
			URL:         item.URL,
			Source:      item.Source,
			PublishedAt: item.PublishedAt,
		})
	}
	return refs
}

// intro obtains the overall introduction, falling back to a deterministic
// local line on failure.
func (a *Assembler) intro(ctx context.Context, persona string, numClusters, numArticles int, themes []string) string {
	if len(themes) > maxTopThemes {
		themes = themes[:maxTopThemes]
	}

	intro, err := a.summarizer.GenerateIntro(ctx, persona, numClusters, numArticles, themes)
	if err == nil && intro != "" {
		return intro
	}
	if err != nil {
		a.log.Warn("Intro generation failed, using fallback", "error", err.Error())
	}
	return fmt.Sprintf("Your %s digest with %d articles across %d topics.",
		displayName(persona), numArticles, numClusters)
}

// fallbackArticleNarrative derives a narrative substitute from the text we
// already have.
func fallbackArticleNarrative(item core.Item) string {
	if body := item.BodyText(); body != "" {
		return truncate(body, 300)
	}
	return truncate(item.Title, 300)
}

// displayName maps a persona tag to a human-readable name.
func displayName(persona string) string {
	if strings.HasPrefix(strings.ToLower(persona), "gen") {
		return "GenAI News"
	}
	if strings.HasPrefix(strings.ToLower(persona), "product") {
		return "Product Ideas"
	}
	return persona
}

// truncate bounds a string to n runes without splitting a character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
