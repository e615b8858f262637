package objects

import "fmt"

// CodeModel is the "codemodel" version 2 object: the build system's view of
// every configuration, directory and target.
type CodeModel struct {
	Kind           Kind            `json:"kind"`
	Version        MajorMinor      `json:"version"`
	Paths          CodeModelPaths  `json:"paths"`
	Configurations []Configuration `json:"configurations"`
}

type CodeModelPaths struct {
	Build  string `json:"build"`
	Source string `json:"source"`
}

// Configuration is one build configuration (e.g. Debug). DirectoryRefs and
// TargetRefs are decoded from the document; Directories and Targets are
// filled by ResolveReferences so that Directories[i] is the file named by
// DirectoryRefs[i] and Targets[i] the file named by TargetRefs[i].
type Configuration struct {
	Name          string               `json:"name"`
	Projects      []Project            `json:"projects"`
	DirectoryRefs []DirectoryReference `json:"directories"`
	TargetRefs    []TargetReference    `json:"targets"`

	Directories []Directory `json:"-"`
	Targets     []Target    `json:"-"`
}

type DirectoryReference struct {
	Source              string               `json:"source"`
	Build               string               `json:"build"`
	ParentIndex         *int                 `json:"parentIndex,omitempty"`
	ChildIndexes        []int                `json:"childIndexes,omitempty"`
	ProjectIndex        int                  `json:"projectIndex"`
	TargetIndexes       []int                `json:"targetIndexes,omitempty"`
	MinimumCMakeVersion *MinimumCMakeVersion `json:"minimumCMakeVersion,omitempty"`
	HasInstallRule      bool                 `json:"hasInstallRule,omitempty"`
	JSONFile            string               `json:"jsonFile"`
}

type MinimumCMakeVersion struct {
	String string `json:"string"`
}

type Project struct {
	Name             string `json:"name"`
	ParentIndex      *int   `json:"parentIndex,omitempty"`
	ChildIndexes     []int  `json:"childIndexes,omitempty"`
	DirectoryIndexes []int  `json:"directoryIndexes"`
	TargetIndexes    []int  `json:"targetIndexes,omitempty"`
}

type TargetReference struct {
	Name           string `json:"name"`
	ID             string `json:"id"`
	DirectoryIndex int    `json:"directoryIndex"`
	ProjectIndex   int    `json:"projectIndex"`
	JSONFile       string `json:"jsonFile"`
}

func (*CodeModel) ObjectKind() Kind { return KindCodeModel }

// ResolveReferences loads the target and directory files of every
// configuration. The derived slices are only assigned once every file of
// every configuration decoded successfully.
func (c *CodeModel) ResolveReferences(l Loader) error {
	type resolved struct {
		targets     []Target
		directories []Directory
	}
	all := make([]resolved, len(c.Configurations))

	for i := range c.Configurations {
		cfg := &c.Configurations[i]

		targets, err := resolveAll[TargetReference, Target](l, cfg.TargetRefs, func(r TargetReference) string {
			return r.JSONFile
		})
		if err != nil {
			return fmt.Errorf("configuration %q: target: %w", cfg.Name, err)
		}

		directories, err := resolveAll[DirectoryReference, Directory](l, cfg.DirectoryRefs, func(r DirectoryReference) string {
			return r.JSONFile
		})
		if err != nil {
			return fmt.Errorf("configuration %q: directory: %w", cfg.Name, err)
		}

		all[i] = resolved{targets: targets, directories: directories}
	}

	for i := range c.Configurations {
		c.Configurations[i].Targets = all[i].targets
		c.Configurations[i].Directories = all[i].directories
	}
	return nil
}

// Configuration returns the configuration with the given name.
func (c *CodeModel) Configuration(name string) (*Configuration, bool) {
	for i := range c.Configurations {
		if c.Configurations[i].Name == name {
			return &c.Configurations[i], true
		}
	}
	return nil, false
}

// Target returns the resolved target at position i.
func (c *Configuration) Target(i int) (*Target, bool) {
	if i < 0 || i >= len(c.Targets) {
		return nil, false
	}
	return &c.Targets[i], true
}

// Directory returns the resolved directory at position i.
func (c *Configuration) Directory(i int) (*Directory, bool) {
	if i < 0 || i >= len(c.Directories) {
		return nil, false
	}
	return &c.Directories[i], true
}

// TargetByID looks a resolved target up by its opaque id.
func (c *Configuration) TargetByID(id string) (*Target, bool) {
	for i := range c.TargetRefs {
		if c.TargetRefs[i].ID == id {
			return c.Target(i)
		}
	}
	return nil, false
}

// TargetByName looks a resolved target up by name. Target names are unique
// within a configuration.
func (c *Configuration) TargetByName(name string) (*Target, bool) {
	for i := range c.TargetRefs {
		if c.TargetRefs[i].Name == name {
			return c.Target(i)
		}
	}
	return nil, false
}

// ProjectTargets returns the resolved targets owned by project p. Indices
// out of range are skipped.
func (c *Configuration) ProjectTargets(p int) []*Target {
	if p < 0 || p >= len(c.Projects) {
		return nil
	}
	return c.targetsAt(c.Projects[p].TargetIndexes)
}

// DirectoryTargets returns the resolved targets defined in directory d.
func (c *Configuration) DirectoryTargets(d int) []*Target {
	if d < 0 || d >= len(c.DirectoryRefs) {
		return nil
	}
	return c.targetsAt(c.DirectoryRefs[d].TargetIndexes)
}

func (c *Configuration) targetsAt(indexes []int) []*Target {
	out := make([]*Target, 0, len(indexes))
	for _, i := range indexes {
		if t, ok := c.Target(i); ok {
			out = append(out, t)
		}
	}
	return out
}
