package objects

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Directory is a codemodel directory file, referenced from a configuration by
// DirectoryReference.JSONFile.
type Directory struct {
	Paths          DirectoryPaths `json:"paths"`
	BacktraceGraph BacktraceGraph `json:"backtraceGraph"`
	Installers     []Installer    `json:"installers"`
}

func (*Directory) RequiredMembers() []string { return []string{"paths"} }

type DirectoryPaths struct {
	Build  string `json:"build"`
	Source string `json:"source"`
}

type Installer struct {
	Component                string             `json:"component"`
	Destination              string             `json:"destination,omitempty"`
	Paths                    []InstallPath      `json:"paths,omitempty"`
	Type                     string             `json:"type"`
	IsExcludeFromAll         bool               `json:"isExcludeFromAll,omitempty"`
	IsForAllComponents       bool               `json:"isForAllComponents,omitempty"`
	IsOptional               bool               `json:"isOptional,omitempty"`
	TargetID                 string             `json:"targetId,omitempty"`
	TargetIndex              *int               `json:"targetIndex,omitempty"`
	TargetIsImportLibrary    bool               `json:"targetIsImportLibrary,omitempty"`
	TargetInstallNamelink    string             `json:"targetInstallNamelink,omitempty"`
	ExportName               string             `json:"exportName,omitempty"`
	ExportTargets            []TargetIDAndIndex `json:"exportTargets,omitempty"`
	RuntimeDependencySetName string             `json:"runtimeDependencySetName,omitempty"`
	RuntimeDependencySetType string             `json:"runtimeDependencySetType,omitempty"`
	FileSetName              string             `json:"fileSetName,omitempty"`
	FileSetType              string             `json:"fileSetType,omitempty"`
	FileSetDirectories       []string           `json:"fileSetDirectories,omitempty"`
	FileSetTarget            *TargetIDAndIndex  `json:"fileSetTarget,omitempty"`
	ScriptFile               string             `json:"scriptFile,omitempty"`
	Backtrace                *int               `json:"backtrace,omitempty"`
}

type TargetIDAndIndex struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

// InstallPath is either a plain path, installed under the same name, or a
// from/to pair. The wire form is a JSON string or a {"from","to"} object.
type InstallPath struct {
	Path string
	From string
	To   string
}

// IsFromTo reports whether p was given as a from/to pair.
func (p InstallPath) IsFromTo() bool {
	return p.Path == "" && (p.From != "" || p.To != "")
}

func (p InstallPath) MarshalJSON() ([]byte, error) {
	if p.IsFromTo() {
		return json.Marshal(struct {
			From string `json:"from"`
			To   string `json:"to"`
		}{p.From, p.To})
	}
	return json.Marshal(p.Path)
}

func (p *InstallPath) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = InstallPath{Path: s}
		return nil
	}

	var pair struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pair); err != nil {
		return fmt.Errorf("install path: %w", err)
	}
	*p = InstallPath{From: pair.From, To: pair.To}
	return nil
}
