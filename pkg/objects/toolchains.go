package objects

// Toolchains is the "toolchains" version 1 object: one entry per enabled
// language.
type Toolchains struct {
	Kind       Kind        `json:"kind"`
	Version    MajorMinor  `json:"version"`
	Toolchains []Toolchain `json:"toolchains"`
}

type Toolchain struct {
	Language             string   `json:"language"`
	Compiler             Compiler `json:"compiler"`
	SourceFileExtensions []string `json:"sourceFileExtensions,omitempty"`
}

type Compiler struct {
	Path     string   `json:"path,omitempty"`
	ID       string   `json:"id,omitempty"`
	Version  string   `json:"version,omitempty"`
	Target   string   `json:"target,omitempty"`
	Implicit Implicit `json:"implicit"`
}

type Implicit struct {
	IncludeDirectories       []string `json:"includeDirectories,omitempty"`
	LinkDirectories          []string `json:"linkDirectories,omitempty"`
	LinkFrameworkDirectories []string `json:"linkFrameworkDirectories,omitempty"`
	LinkLibraries            []string `json:"linkLibraries,omitempty"`
}

func (*Toolchains) ObjectKind() Kind { return KindToolchains }

// Language returns the toolchain for the given language, e.g. "CXX".
func (t *Toolchains) Language(lang string) (*Toolchain, bool) {
	for i := range t.Toolchains {
		if t.Toolchains[i].Language == lang {
			return &t.Toolchains[i], true
		}
	}
	return nil, false
}
