package compliance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// FormatFilingReport renders reports as a plain text filing
func FormatFilingReport(reports []ComplianceReport, generatedAt time.Time) string {
	var b strings.Builder

	compliant := 0
	bySeverity := map[domain.Severity]int{}
	for _, r := range reports {
		if r.OverallCompliant {
			compliant++
		}
		for _, v := range r.Violations {
			bySeverity[v.Severity]++
		}
	}

	fmt.Fprintf(&b, "COMPLIANCE FILING REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Reports: %d  Compliant: %d  Non-compliant: %d\n", len(reports), compliant, len(reports)-compliant)
	fmt.Fprintf(&b, "Violations: %d critical, %d warning, %d info\n\n",
		bySeverity[domain.SeverityCritical], bySeverity[domain.SeverityWarning], bySeverity[domain.SeverityInfo])

	if len(reports) == 0 {
		b.WriteString("No compliance reports in this period.\n")
		return b.String()
	}

	summary := tablewriter.NewWriter(&b)
	summary.SetHeader([]string{"Report", "Timestamp", "Profile", "Portfolio Value", "Compliant", "Violations"})
	for _, r := range reports {
		summary.Append([]string{
			shortID(r.ID),
			r.Timestamp.UTC().Format("2006-01-02 15:04"),
			string(r.Profile),
			money.New(int64(math.Round(r.PortfolioValue*100)), money.USD).Display(),
			yesNo(r.OverallCompliant),
			fmt.Sprintf("%d", len(r.Violations)),
		})
	}
	summary.Render()

	if total := bySeverity[domain.SeverityCritical] + bySeverity[domain.SeverityWarning] + bySeverity[domain.SeverityInfo]; total > 0 {
		b.WriteString("\nVIOLATIONS\n")
		violations := tablewriter.NewWriter(&b)
		violations.SetHeader([]string{"Report", "Check", "Severity", "Remediation"})
		violations.SetAutoWrapText(false)
		for _, r := range reports {
			for _, v := range r.Violations {
				violations.Append([]string{shortID(r.ID), v.Check, string(v.Severity), v.Remediation})
			}
		}
		violations.Render()
	}

	var recs []string
	for _, r := range reports {
		for _, rec := range r.Recommendations {
			recs = append(recs, fmt.Sprintf("[%s] %s", shortID(r.ID), rec))
		}
	}
	if len(recs) > 0 {
		b.WriteString("\nRECOMMENDATIONS\n")
		for _, rec := range recs {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
