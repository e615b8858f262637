package objects

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// Target is a codemodel target file, referenced from a configuration by
// TargetReference.JSONFile.
type Target struct {
	Name                string         `json:"name"`
	ID                  string         `json:"id"`
	Type                string         `json:"type"`
	Backtrace           *int           `json:"backtrace,omitempty"`
	Folder              *Folder        `json:"folder,omitempty"`
	Paths               TargetPaths    `json:"paths"`
	NameOnDisk          string         `json:"nameOnDisk,omitempty"`
	Artifacts           []Artifact     `json:"artifacts,omitempty"`
	IsGeneratorProvided bool           `json:"isGeneratorProvided,omitempty"`
	Install             *Install       `json:"install,omitempty"`
	Launchers           []Launcher     `json:"launchers,omitempty"`
	Link                *Link          `json:"link,omitempty"`
	Archive             *Archive       `json:"archive,omitempty"`
	Dependencies        []Dependency   `json:"dependencies,omitempty"`
	FileSets            []FileSet      `json:"fileSets,omitempty"`
	Sources             []Source       `json:"sources,omitempty"`
	SourceGroups        []SourceGroup  `json:"sourceGroups,omitempty"`
	CompileGroups       []CompileGroup `json:"compileGroups,omitempty"`
	BacktraceGraph      BacktraceGraph `json:"backtraceGraph"`
}

// RequiredMembers lists the members every target file carries.
func (*Target) RequiredMembers() []string { return []string{"name", "id", "type"} }

type Folder struct {
	Name string `json:"name"`
}

type TargetPaths struct {
	Build  string `json:"build"`
	Source string `json:"source"`
}

type Artifact struct {
	Path string `json:"path"`
}

type Install struct {
	Prefix       Prefix        `json:"prefix"`
	Destinations []Destination `json:"destinations,omitempty"`
}

type Prefix struct {
	Path string `json:"path"`
}

type Destination struct {
	Path      string `json:"path"`
	Backtrace *int   `json:"backtrace,omitempty"`
}

type Launcher struct {
	Command   string   `json:"command"`
	Arguments []string `json:"arguments,omitempty"`
	Type      string   `json:"type"`
}

type Link struct {
	Language         string            `json:"language"`
	CommandFragments []CommandFragment `json:"commandFragments,omitempty"`
	LTO              bool              `json:"lto,omitempty"`
	Sysroot          *Sysroot          `json:"sysroot,omitempty"`
}

type CommandFragment struct {
	Fragment  string `json:"fragment"`
	Role      string `json:"role"`
	Backtrace *int   `json:"backtrace,omitempty"`
}

type Sysroot struct {
	Path string `json:"path"`
}

type Archive struct {
	CommandFragments []CommandFragment `json:"commandFragments,omitempty"`
	LTO              bool              `json:"lto,omitempty"`
}

type Dependency struct {
	ID        string `json:"id"`
	Backtrace *int   `json:"backtrace,omitempty"`
}

type FileSet struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Visibility      string   `json:"visibility"`
	BaseDirectories []string `json:"baseDirectories"`
}

type Source struct {
	Path              string `json:"path"`
	CompileGroupIndex *int   `json:"compileGroupIndex,omitempty"`
	SourceGroupIndex  *int   `json:"sourceGroupIndex,omitempty"`
	IsGenerated       bool   `json:"isGenerated,omitempty"`
	FileSetIndex      *int   `json:"fileSetIndex,omitempty"`
	Backtrace         *int   `json:"backtrace,omitempty"`
}

type SourceGroup struct {
	Name          string `json:"name"`
	SourceIndexes []int  `json:"sourceIndexes"`
}

type CompileGroup struct {
	SourceIndexes           []int                    `json:"sourceIndexes"`
	Language                string                   `json:"language"`
	LanguageStandard        *LanguageStandard        `json:"languageStandard,omitempty"`
	CompileCommandFragments []CompileCommandFragment `json:"compileCommandFragments,omitempty"`
	Includes                []Include                `json:"includes,omitempty"`
	Frameworks              []Framework              `json:"frameworks,omitempty"`
	PrecompileHeaders       []PrecompileHeader       `json:"precompileHeaders,omitempty"`
	Defines                 []Define                 `json:"defines,omitempty"`
	Sysroot                 *Sysroot                 `json:"sysroot,omitempty"`
}

type LanguageStandard struct {
	Backtraces []int  `json:"backtraces,omitempty"`
	Standard   string `json:"standard"`
}

type CompileCommandFragment struct {
	Fragment  string `json:"fragment"`
	Backtrace *int   `json:"backtrace,omitempty"`
}

type Include struct {
	Path      string `json:"path"`
	IsSystem  bool   `json:"isSystem,omitempty"`
	Backtrace *int   `json:"backtrace,omitempty"`
}

type Framework struct {
	Path      string `json:"path"`
	IsSystem  bool   `json:"isSystem,omitempty"`
	Backtrace *int   `json:"backtrace,omitempty"`
}

type PrecompileHeader struct {
	Header    string `json:"header"`
	Backtrace *int   `json:"backtrace,omitempty"`
}

type Define struct {
	Define    string `json:"define"`
	Backtrace *int   `json:"backtrace,omitempty"`
}

// CompileGroupFor returns the compile group the source at index s belongs to.
func (t *Target) CompileGroupFor(s int) (*CompileGroup, bool) {
	if s < 0 || s >= len(t.Sources) {
		return nil, false
	}
	idx := t.Sources[s].CompileGroupIndex
	if idx == nil || *idx < 0 || *idx >= len(t.CompileGroups) {
		return nil, false
	}
	return &t.CompileGroups[*idx], true
}

// CompileFragments splits every compile command fragment into its shell
// words. Fragments that do not parse as shell words are skipped.
func (g *CompileGroup) CompileFragments() []string {
	var words []string
	for _, frag := range g.CompileCommandFragments {
		split, err := shellquote.Split(frag.Fragment)
		if err != nil {
			continue
		}
		words = append(words, split...)
	}
	return words
}

// EffectiveDefines returns the structured defines followed by any -D or /D
// flags found in the command fragments, without the flag prefix. A bare -D
// or /D takes the next word as its define.
func (g *CompileGroup) EffectiveDefines() []string {
	defines := make([]string, 0, len(g.Defines))
	for _, d := range g.Defines {
		defines = append(defines, d.Define)
	}
	fromFlags, _ := splitDefines(g.CompileFragments())
	return append(defines, fromFlags...)
}

// Flags returns the command fragment words that are not defines.
func (g *CompileGroup) Flags() []string {
	_, flags := splitDefines(g.CompileFragments())
	return flags
}

// splitDefines separates define words from the other flags. A bare define
// prefix at the end of words has no value and is kept as a flag.
func splitDefines(words []string) (defines, flags []string) {
	for i := 0; i < len(words); i++ {
		w := words[i]
		if !isDefineFlag(w) {
			flags = append(flags, w)
			continue
		}
		if len(w) > 2 {
			defines = append(defines, w[2:])
			continue
		}
		if i+1 == len(words) {
			flags = append(flags, w)
			continue
		}
		i++
		defines = append(defines, words[i])
	}
	return defines, flags
}

func isDefineFlag(flag string) bool {
	return strings.HasPrefix(flag, "-D") || strings.HasPrefix(flag, "/D")
}
