package fetch

import "github.com/waterjuice/hexmirror/pkg/mirror"

type Summary struct {
	Fetched int
	Failed  int
	Skipped int
	Bytes   int64
}

func Summarize(results []mirror.Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case mirror.Fetched:
			s.Fetched++
			s.Bytes += r.Bytes
		case mirror.Failed:
			s.Failed++
		case mirror.Skipped:
			s.Skipped++
		}
	}
	return s
}
