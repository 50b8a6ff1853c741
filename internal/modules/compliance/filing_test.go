package compliance

import (
	"strings"
	"testing"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatFilingReport(t *testing.T) {
	gate := newTestGate()
	watch := healthySnapshot()
	watch.Volatility = 21
	ok := gate.CheckCompliance(watch, at)

	bad := healthySnapshot()
	bad.Volatility = 30
	bad.Profile = domain.ProfileAggressive
	failing := gate.CheckCompliance(bad, at.Add(time.Hour))

	out := FormatFilingReport([]ComplianceReport{*ok, *failing}, at.Add(2*time.Hour))

	assert.True(t, strings.HasPrefix(out, "COMPLIANCE FILING REPORT"))
	assert.Contains(t, out, "Generated: 2026-05-15T14:00:00Z")
	assert.Contains(t, out, "Reports: 2  Compliant: 1  Non-compliant: 1")
	assert.Contains(t, out, "Violations: 1 critical, 0 warning, 0 info")
	assert.Contains(t, out, "$100,000.00")
	assert.Contains(t, out, ok.ID[:8])
	assert.Contains(t, out, "VIOLATIONS")
	assert.Contains(t, out, CheckVolatilityCeiling)
	assert.Contains(t, out, "RECOMMENDATIONS")
}

func TestFormatFilingReport_Empty(t *testing.T) {
	out := FormatFilingReport(nil, at)

	assert.Contains(t, out, "Reports: 0")
	assert.Contains(t, out, "No compliance reports in this period.")
	assert.NotContains(t, out, "VIOLATIONS")
}
