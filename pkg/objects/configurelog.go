package objects

// ConfigureLog is the "configureLog" version 1 object. It only locates the
// log; the log itself is YAML written by cmake and is not parsed here.
type ConfigureLog struct {
	Kind           Kind       `json:"kind"`
	Version        MajorMinor `json:"version"`
	Path           string     `json:"path"`
	EventKindNames []string   `json:"eventKindNames"`
}

func (*ConfigureLog) ObjectKind() Kind { return KindConfigureLog }
