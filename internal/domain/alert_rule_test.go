package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertType_Severity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		typ        AlertType
		wantLevel  Severity
		wantSource SourceType
	}{
		{typ: AlertTypeGoalOverdue, wantLevel: SeverityCritical, wantSource: SourceTypeGoal},
		{typ: AlertTypeComplianceOverdue, wantLevel: SeverityCritical, wantSource: SourceTypeComplianceEvent},
		{typ: AlertTypeGoalAtRisk, wantLevel: SeverityHigh, wantSource: SourceTypeGoal},
		{typ: AlertTypeComplianceDueSoon, wantLevel: SeverityMedium, wantSource: SourceTypeComplianceEvent},
		{typ: AlertTypeGoalBehind, wantLevel: SeverityLow, wantSource: SourceTypeGoal},
		{typ: AlertTypeGoalProgress, wantLevel: SeverityLow, wantSource: SourceTypeGoal},
		{typ: AlertType("unknown"), wantLevel: SeverityLow, wantSource: SourceTypeUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantLevel, tc.typ.Severity())
			assert.Equal(t, tc.wantSource, tc.typ.SourceType())
		})
	}
}
