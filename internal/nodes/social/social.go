// Package social holds the three social/news worker nodes: sentiment (the
// merged tweet/social-text sidecar), news (market headlines), and codal
// (regulatory filings, pre-filtered by a cheap plain LLM call before the
// structured verdict).
package social

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
	"github.com/aristath/bourseiq/internal/llm"
	"github.com/aristath/bourseiq/internal/nodes"
	"github.com/aristath/bourseiq/internal/workflow"
)

const sentimentPrompt = `You are a social-sentiment worker in a Tehran Stock Exchange investment
report pipeline. You are given recent tweets, a merged social-text summary,
and an external narrative summary for the company. Produce a concise,
evidence-based verdict strictly in the required JSON schema: a verdict
string, a confidence grade, a one or two sentence summary, optional causes
and risk flags, and a metrics map (e.g. a qualitative sentiment score) with
trend context. Do not invent data not present in the input.`

const newsPrompt = `You are a news-analysis worker in a Tehran Stock Exchange investment report
pipeline. You are given a list of recent market news headlines for the
company. Produce a concise, evidence-based verdict strictly in the required
JSON schema: a verdict string, a confidence grade, a one or two sentence
summary, optional causes and risk flags, and a metrics map with trend
context for any recurring themes. Do not invent headlines not present in
the input.`

// sentimentInput bundles the social text fields the sentiment worker reads.
type sentimentInput struct {
	Tweets       []string `json:"tweets"`
	SearchTweets []string `json:"search_tweets"`
	MergedText   string   `json:"merged_social_text"`
}

// Sentiment builds the social-sentiment worker node ("social_sentiment").
func Sentiment(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "social.sentiment",
		ReportKey:    nodes.KeySocialSentiment,
		SystemPrompt: sentimentPrompt,
		Extract: func(d *domain.AssetDocument) (any, error) {
			return sentimentInput{Tweets: d.SocialPost.Tweets, SearchTweets: d.SocialPost.SearchTweets, MergedText: d.Search}, nil
		},
	}, inv, log)
}

// News builds the news-headline worker node ("social_news").
func News(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return nodes.NewWorkerNode(nodes.WorkerSpec{
		ID:           "social.news",
		ReportKey:    nodes.KeySocialNews,
		SystemPrompt: newsPrompt,
		Extract: func(d *domain.AssetDocument) (any, error) {
			return d.NewsAnnouncements.News, nil
		},
	}, inv, log)
}

const codalFilterPrompt = `You are pre-filtering Codal regulatory filings for a Tehran Stock Exchange
investment report. Given a JSON list of filings (title, category, published
date), return a JSON array of the titles that are material to investment
analysis (earnings disclosures, board resolutions, capital changes,
material contracts) and exclude routine/administrative notices. Respond
with nothing but the JSON array of titles.`

const codalVerdictPrompt = `You are a regulatory-filings worker in a Tehran Stock Exchange investment
report pipeline. You are given a pre-filtered list of Codal filings judged
analysis-relevant. Produce a concise, evidence-based verdict strictly in
the required JSON schema: a verdict string, a confidence grade, a one or
two sentence summary, optional causes and risk flags, and a metrics map
covering filing volume/recency trend context. Do not invent filings not
present in the input.`

// Codal builds the Codal regulatory-filing worker node ("social_codal").
// Before the structured verdict call, it runs a cheap plain LLM call that
// selects which filings (of the last 60 days / 20 items the provider
// already windowed to) are analysis-relevant, and only passes that
// narrowed set into the structured call.
func Codal(inv *llm.Invoker, log zerolog.Logger) workflow.NodeFunc {
	return func(ctx context.Context, state *workflow.State) (workflow.Fragment, error) {
		doc, err := nodes.AssetDocument(state)
		if err != nil {
			return nil, err
		}

		filings := doc.NewsAnnouncements.CodalFilings
		relevant, err := prefilterCodal(ctx, inv, filings)
		if err != nil {
			log.Warn().Err(err).Msg("social.codal: pre-filter failed, using unfiltered set")
			relevant = filings
		}

		inputJSON, err := json.Marshal(relevant)
		if err != nil {
			return nil, fmt.Errorf("nodes: social.codal: marshal input: %w", err)
		}

		rep, meta, err := llm.Invoke[domain.AgentReport](ctx, inv, codalVerdictPrompt, []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Filtered Codal filings:\n%s\n\nRespond with a JSON object matching the required schema.", string(inputJSON))},
		})
		if err != nil {
			return nil, fmt.Errorf("nodes: social.codal: %w", err)
		}

		fragment := workflow.Fragment{nodes.KeySocialCodal: rep}
		if meta.RungReached > 1 || meta.Repaired {
			fragment[nodes.KeySocialCodal+"_meta"] = meta
		}
		return fragment, nil
	}
}

// prefilterCodal asks the model, via a plain (non-structured) call, which
// filing titles are analysis-relevant, then returns only those.
func prefilterCodal(ctx context.Context, inv *llm.Invoker, filings []domain.CodalItem) ([]domain.CodalItem, error) {
	if len(filings) == 0 {
		return filings, nil
	}

	listJSON, err := json.Marshal(filings)
	if err != nil {
		return nil, fmt.Errorf("marshal filings: %w", err)
	}

	resp, err := inv.Model.Chat(ctx, llm.ChatRequest{
		SystemPrompt: codalFilterPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: string(listJSON)}},
	})
	if err != nil {
		return nil, fmt.Errorf("pre-filter call: %w", err)
	}

	var keepTitles []string
	if err := json.Unmarshal([]byte(resp.Content), &keepTitles); err != nil {
		return nil, fmt.Errorf("decode pre-filter response: %w", err)
	}

	keep := make(map[string]bool, len(keepTitles))
	for _, t := range keepTitles {
		keep[t] = true
	}

	out := make([]domain.CodalItem, 0, len(filings))
	for _, f := range filings {
		if keep[f.Title] {
			out = append(out, f)
		}
	}
	return out, nil
}
