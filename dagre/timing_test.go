package dagre

import "testing"

func TestStageTimerNilLoggerIsNoop(t *testing.T) {
	t.Parallel()
	done := stageTimer(nil, "stage")
	done()
}
