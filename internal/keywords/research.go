// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

package keywords

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
)

// Template terms. Each becomes the query "{keyword} {term}".
var (
	questionTerms    = []string{"what", "how", "why", "where", "when", "who", "which", "are", "can", "will"}
	prepositionTerms = []string{"for", "with", "without", "to", "near", "like", "versus", "vs", "and", "or"}
	alphabetTerms    = strings.Split("abcdefghijklmnopqrstuvwxyz", "")
	comparisonTerms  = []string{"vs", "versus", "or", "compared to", "better than"}

	// relatedModifiers prefix the keyword: "{modifier} {keyword}".
	relatedModifiers = []string{"best", "top", "free", "online", "near me"}
)

const maxRelatedKeywords = 20

// ResearchCategoryResult is the suggestions for one template term.
type ResearchCategoryResult struct {
	Category    string             `json:"category"`
	Query       string             `json:"query"`
	Suggestions []SuggestionResult `json:"suggestions"`
	Count       int                `json:"count"`
}

// Summary counts retained categories per group and all category
// suggestions. FailedQueries counts fetches that failed or missed the
// deadline.
type Summary struct {
	TotalSuggestions  int `json:"total_suggestions"`
	QuestionsCount    int `json:"questions_count"`
	PrepositionsCount int `json:"prepositions_count"`
	AlphabeticalCount int `json:"alphabetical_count"`
	ComparisonsCount  int `json:"comparisons_count"`
	FailedQueries     int `json:"failed_queries"`
}

// ResearchBundle is the full research result.
type ResearchBundle struct {
	Keyword           string                   `json:"keyword"`
	Country           string                   `json:"country"`
	Language          string                   `json:"language"`
	Summary           Summary                  `json:"summary"`
	PlatformBreakdown []PlatformAffinityScore  `json:"platform_breakdown"`
	Questions         []ResearchCategoryResult `json:"questions"`
	Prepositions      []ResearchCategoryResult `json:"prepositions"`
	Alphabetical      []ResearchCategoryResult `json:"alphabetical"`
	Comparisons       []ResearchCategoryResult `json:"comparisons"`
	RelatedKeywords   []string                 `json:"related_keywords"`
	ViralExamples     []string                 `json:"viral_examples"`
	YouTube           *VideoStats              `json:"youtube,omitempty"`
}

// Researcher runs the research fan-out.
type Researcher struct {
	suggester   Suggester
	concurrency int
	deadline    time.Duration
}

// NewResearcher creates a Researcher. Concurrency defaults to 8 and the
// deadline to 45s.
func NewResearcher(s Suggester, cfg config.ResearchConfig) *Researcher {
	r := &Researcher{suggester: s, concurrency: cfg.Concurrency, deadline: cfg.Deadline}
	if r.concurrency <= 0 {
		r.concurrency = 8
	}
	if r.deadline <= 0 {
		r.deadline = 45 * time.Second
	}
	return r
}

type group int

const (
	groupQuestions group = iota
	groupPrepositions
	groupAlphabet
	groupComparisons
	groupRelated
)

type researchTask struct {
	group group
	term  string
	query string
}

func buildTasks(keyword string) []researchTask {
	tasks := make([]researchTask, 0, 57)
	add := func(g group, terms []string) {
		for _, term := range terms {
			tasks = append(tasks, researchTask{group: g, term: term, query: keyword + " " + term})
		}
	}
	add(groupQuestions, questionTerms)
	add(groupPrepositions, prepositionTerms)
	add(groupAlphabet, alphabetTerms)
	add(groupComparisons, comparisonTerms)

	tasks = append(tasks, researchTask{group: groupRelated, query: keyword})
	for _, m := range relatedModifiers {
		tasks = append(tasks, researchTask{group: groupRelated, term: m, query: m + " " + keyword})
	}
	return tasks
}

// Research runs every template and related query with bounded concurrency
// under the configured deadline. A failed or timed-out query degrades to
// an empty category and is counted in Summary.FailedQueries. The only
// error returned is the caller's own cancellation.
func (r *Researcher) Research(ctx context.Context, q KeywordQuery) (*ResearchBundle, error) {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	tasks := buildTasks(q.Keyword)
	outcomes := make([]Outcome, len(tasks))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, task := range tasks {
		g.Go(func() error {
			if err := runCtx.Err(); err != nil {
				outcomes[i] = Outcome{Status: StatusFailed, Err: err}
				return nil
			}
			outcomes[i] = r.suggester.Fetch(runCtx, KeywordQuery{
				Keyword:  task.query,
				Country:  q.Country,
				Language: q.Language,
			})
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("research %q canceled: %w", q.Keyword, err)
	}

	bundle := assemble(q, tasks, outcomes)

	metrics.RecordResearch(time.Since(start), bundle.Summary.FailedQueries)
	logging.Ctx(ctx).Info().
		Str("keyword", q.Keyword).
		Int("total_suggestions", bundle.Summary.TotalSuggestions).
		Int("failed_queries", bundle.Summary.FailedQueries).
		Dur("duration", time.Since(start)).
		Msg("keyword research completed")

	return bundle, nil
}

func assemble(q KeywordQuery, tasks []researchTask, outcomes []Outcome) *ResearchBundle {
	b := &ResearchBundle{
		Keyword:         q.Keyword,
		Country:         q.Country,
		Language:        q.Language,
		Questions:       []ResearchCategoryResult{},
		Prepositions:    []ResearchCategoryResult{},
		Alphabetical:    []ResearchCategoryResult{},
		Comparisons:     []ResearchCategoryResult{},
		RelatedKeywords: []string{},
		ViralExamples:   []string{},
	}

	var (
		all     []string
		related []string
	)
	for i, task := range tasks {
		out := outcomes[i]
		if out.Failed() {
			b.Summary.FailedQueries++
		}

		if task.group == groupRelated {
			for _, s := range out.Suggestions {
				related = append(related, s.Keyword)
			}
			continue
		}

		if len(out.Suggestions) == 0 {
			continue
		}
		cat := ResearchCategoryResult{
			Category:    task.term,
			Query:       task.query,
			Suggestions: out.Suggestions,
			Count:       len(out.Suggestions),
		}
		for _, s := range out.Suggestions {
			all = append(all, s.Keyword)
		}

		switch task.group {
		case groupQuestions:
			b.Questions = append(b.Questions, cat)
		case groupPrepositions:
			b.Prepositions = append(b.Prepositions, cat)
		case groupAlphabet:
			b.Alphabetical = append(b.Alphabetical, cat)
		case groupComparisons:
			b.Comparisons = append(b.Comparisons, cat)
		}
	}

	b.RelatedKeywords = dedupeRelated(q.Keyword, related)
	b.PlatformBreakdown = PlatformAffinity(all)
	b.Summary.TotalSuggestions = len(all)
	b.Summary.QuestionsCount = len(b.Questions)
	b.Summary.PrepositionsCount = len(b.Prepositions)
	b.Summary.AlphabeticalCount = len(b.Alphabetical)
	b.Summary.ComparisonsCount = len(b.Comparisons)
	return b
}

// dedupeRelated keeps first occurrences in input order, drops the keyword
// itself and caps the list.
func dedupeRelated(keyword string, candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, maxRelatedKeywords)
	for _, c := range candidates {
		if c == keyword {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == maxRelatedKeywords {
			break
		}
	}
	return out
}
