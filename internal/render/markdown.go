// Package render assembles the final, user-facing markdown artifact for a
// completed analysis thread: a header with the symbol's current price and
// data freshness, the price sparkline and doji ratio the analytics kernel
// computed (the trend strip is not rendered), each branch's consensus
// verdict, and the reporter
// node's free-form narrative memo. internal/nodes.Reporter's
// formatConsensus builds the LLM-facing prompt; this package builds the
// human-facing document, so the two stay separate even though they read
// the same ConsensusReport fields.
package render

import (
	"fmt"
	"strings"

	"github.com/aristath/bourseiq/internal/domain"
)

// Document assembles the full markdown report for doc, its three branch
// consensus reports, and the reporter node's narrative memo.
func Document(doc *domain.AssetDocument, technical, fundamental, social domain.ConsensusReport, memo string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%s)\n\n", doc.ShortName, doc.TradeSymbol)
	fmt.Fprintf(&b, "Current price: %.2f  \nAnalyzed: %s  \nProvider: %s\n\n",
		doc.CurrentPrice, doc.AnalysisDatetime.Format("2006-01-02 15:04 MST"), doc.ProviderID)

	if sparkline := renderSparkline(doc); sparkline != "" {
		b.WriteString(sparkline)
		b.WriteString("\n\n")
	}

	b.WriteString("## Branch Consensus\n\n")
	b.WriteString(renderBranch("Technical", technical))
	b.WriteString(renderBranch("Fundamental", fundamental))
	b.WriteString(renderBranch("News/Social", social))

	b.WriteString("## Memo\n\n")
	b.WriteString(strings.TrimSpace(memo))
	b.WriteString("\n")

	return b.String()
}

// renderSparkline pulls the analytics kernel's price_sparkline and
// doji_ratio sidecar fields, if present, into a one-line visual summary.
func renderSparkline(doc *domain.AssetDocument) string {
	spark, _ := doc.TechnicalAnalysis["price_sparkline"].(string)
	if spark == "" {
		return ""
	}
	dojiRatio, _ := doc.TechnicalAnalysis["doji_ratio"].(float64)
	return fmt.Sprintf("`%s` (doji ratio %.1f%%)", spark, dojiRatio*100)
}

// renderBranch formats one branch's consensus as a markdown subsection.
func renderBranch(label string, r domain.ConsensusReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s -- %s (%.0f%% confidence)\n\n", label, r.Signal, r.Confidence*100)
	if r.ExecutiveSummary != "" {
		b.WriteString(r.ExecutiveSummary)
		b.WriteString("\n\n")
	}
	if len(r.ConfluenceFactors) > 0 {
		b.WriteString("Confluence:\n")
		for _, f := range r.ConfluenceFactors {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}
	if len(r.ConflictAlerts) > 0 {
		b.WriteString("Conflicts:\n")
		for _, c := range r.ConflictAlerts {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	return b.String()
}
