package tangle

// Summary aggregates the results of a build.
type Summary struct {
	Targets int `json:"targets"`
	Written int `json:"written"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Chunks  int `json:"chunks"`
	Bytes   int `json:"bytes"`
}

// Summarize counts written, skipped and failed targets. Nil results are ignored.
func Summarize(results []*Result) Summary {
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Targets++
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Skipped:
			s.Skipped++
		default:
			s.Written++
			s.Bytes += r.Bytes
		}
		s.Chunks += r.Chunks
	}
	return s
}
