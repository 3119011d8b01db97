// Package project defines the editable project state the editor works on
// and the commit log snapshots capture.
package project

// Component is one node of the canvas tree. Props are schemaless; nested
// children form the layout hierarchy.
type Component struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Props    map[string]any `json:"props,omitempty"`
	Children []Component    `json:"children,omitempty"`
}

// Project is the full editable state. A serialized Project is what commit
// snapshots hold and what the dirty check compares.
type Project struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Layout       []Component    `json:"layout"`
	Settings     map[string]any `json:"settings,omitempty"`
	LastModified float64        `json:"last_modified"`
}

// New creates a project with the given name and layout.
func New(name string, layout []Component) *Project {
	return &Project{Name: name, Layout: layout}
}
