package objects

// CMakeFiles is the "cmakeFiles" version 1 object: the CMake language files
// read while configuring.
type CMakeFiles struct {
	Kind           Kind              `json:"kind"`
	Version        MajorMinor        `json:"version"`
	Paths          CMakeFilesPaths   `json:"paths"`
	Inputs         []CMakeFilesInput `json:"inputs"`
	GlobsDependent []CMakeFilesGlob  `json:"globsDependent,omitempty"`
}

type CMakeFilesPaths struct {
	Build  string `json:"build"`
	Source string `json:"source"`
}

type CMakeFilesInput struct {
	Path        string `json:"path"`
	IsGenerated bool   `json:"isGenerated,omitempty"`
	IsExternal  bool   `json:"isExternal,omitempty"`
	IsCMake     bool   `json:"isCMake,omitempty"`
}

// CMakeFilesGlob is a file(GLOB ... CONFIGURE_DEPENDS) expression whose
// matches trigger a re-run of cmake.
type CMakeFilesGlob struct {
	Expression      string   `json:"expression"`
	Recurse         bool     `json:"recurse,omitempty"`
	ListDirectories bool     `json:"listDirectories,omitempty"`
	FollowSymlinks  bool     `json:"followSymlinks,omitempty"`
	Relative        string   `json:"relative,omitempty"`
	Paths           []string `json:"paths,omitempty"`
}

func (*CMakeFiles) ObjectKind() Kind { return KindCMakeFiles }
