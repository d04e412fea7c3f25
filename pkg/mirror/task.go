package mirror

type Task struct {
	URL  string
	Dest string
}

type Outcome int

const (
	Fetched Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Fetched:
		return "fetched"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

type Result struct {
	Task    Task
	Outcome Outcome
	Bytes   int64
	Err     error
}
