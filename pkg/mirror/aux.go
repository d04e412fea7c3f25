package mirror

// Index and key files refetched on every run so the served
// mirror stays consistent with the tarballs it holds.
var auxiliaryFiles = []string{
	"names",
	"versions",
	"public_keys",
	"installs/hex-1.x.csv",
	"installs/hex-1.x.csv.signed",
}

func AuxiliaryTasks(remote Remote, layout Layout) []Task {
	tasks := make([]Task, 0, len(auxiliaryFiles))
	for _, rel := range auxiliaryFiles {
		tasks = append(tasks, Task{
			URL:  remote.FileURL(rel),
			Dest: layout.FilePath(rel),
		})
	}
	return tasks
}
