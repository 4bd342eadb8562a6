package github

// CIState is the overall outcome of every workflow run on a commit
type CIState string

const (
	// CIPending means at least one run has not finished
	CIPending CIState = "pending"
	// CIFailing means no run is pending and at least one failed
	CIFailing CIState = "failing"
	// CIPassing means every run concluded without failure
	CIPassing CIState = "passing"
	// CIUnknown means there are no runs to judge
	CIUnknown CIState = "unknown"
)

// RunCounts tallies workflow runs by outcome
type RunCounts struct {
	Succeeded int
	Failed    int
	Running   int
	Other     int
}

// Total returns the number of runs counted
func (c RunCounts) Total() int {
	return c.Succeeded + c.Failed + c.Running + c.Other
}

// CountRuns tallies runs by outcome. Skipped and neutral runs land in Other.
func CountRuns(runs []WorkflowRun) RunCounts {
	var counts RunCounts
	for _, run := range runs {
		switch {
		case run.IsRunning():
			counts.Running++
		case run.IsFailed():
			counts.Failed++
		case run.IsSucceeded():
			counts.Succeeded++
		default:
			counts.Other++
		}
	}
	return counts
}

// AggregateState reduces runs to a single state.
// Priority: pending > failing > passing
func AggregateState(runs []WorkflowRun) CIState {
	counts := CountRuns(runs)

	if counts.Running > 0 {
		return CIPending
	}
	if counts.Failed > 0 {
		return CIFailing
	}
	if counts.Total() > 0 {
		return CIPassing
	}

	return CIUnknown
}
