package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIncrementAccumulatesIntoSummary(t *testing.T) {
	c := New("gtc_test")

	c.Increment("cache.hit")
	c.Increment("cache.hit")
	c.Add("cache.miss", 3)

	summary := c.Summary()
	require.Equal(t, int64(2), summary.Counters["cache.hit"])
	require.Equal(t, int64(3), summary.Counters["cache.miss"])
}

func TestTimeRecordsElapsedDuration(t *testing.T) {
	c := New("gtc_test")

	stop := c.Time("analyze.module")
	time.Sleep(5 * time.Millisecond)
	stop()

	summary := c.Summary()
	stats, ok := summary.Timings["analyze.module"]
	require.True(t, ok)
	require.Equal(t, 1, stats.Count)
	require.GreaterOrEqual(t, stats.Total, 5*time.Millisecond)
	require.Equal(t, stats.Total, stats.Mean)
}

func TestReportListsTimingsAndCountersSorted(t *testing.T) {
	c := New("gtc_test")
	c.Increment("zebra")
	c.Increment("alpha")

	report := c.Summary().Report()
	alphaIdx := indexOf(report, "alpha")
	zebraIdx := indexOf(report, "zebra")
	require.Greater(t, alphaIdx, -1)
	require.Greater(t, zebraIdx, -1)
	require.Less(t, alphaIdx, zebraIdx)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
