// Package filetree derives the hierarchical explorer view from a flat list
// of backend files.
package filetree

import (
	"strings"

	"github.com/kovin-ide/kovin/internal/models"
)

// RootName is the name of the synthetic root folder.
const RootName = "root"

// Build converts a flat file list into a tree.
//
// Paths are split on "/" and empty segments are dropped, so leading, trailing
// and doubled slashes are tolerated. Folder nodes are shared between files of
// the same directory, and children keep the order in which their path was
// first seen. File nodes carry the original, unnormalized path.
//
// Build returns nil for an empty list. When the synthetic root ends up with a
// single folder child, that folder is returned instead.
func Build(files []models.BackendFile) *models.FileNode {
	if len(files) == 0 {
		return nil
	}

	root := &models.FileNode{
		Name:     RootName,
		Type:     models.NodeFolder,
		Path:     "",
		Children: []*models.FileNode{},
	}

	for _, file := range files {
		parts := splitPath(file.Path)
		current := root

		for i, part := range parts {
			if i == len(parts)-1 {
				content := file.Content
				sha := file.SHA256
				current.Children = append(current.Children, &models.FileNode{
					Name:    part,
					Type:    models.NodeFile,
					Path:    file.Path,
					Content: &content,
					SHA256:  &sha,
				})
				break
			}

			folder := findFolder(current, part)
			if folder == nil {
				folder = &models.FileNode{
					Name:     part,
					Type:     models.NodeFolder,
					Path:     strings.Join(parts[:i+1], "/"),
					Children: []*models.FileNode{},
				}
				current.Children = append(current.Children, folder)
			}
			current = folder
		}
	}

	if len(root.Children) == 1 && root.Children[0].Type == models.NodeFolder {
		return root.Children[0]
	}
	return root
}

// Flatten returns the files of a tree in depth-first order.
func Flatten(root *models.FileNode) []models.BackendFile {
	var files []models.BackendFile
	walk(root, func(n *models.FileNode) {
		if n.Type != models.NodeFile {
			return
		}
		f := models.BackendFile{Path: n.Path}
		if n.Content != nil {
			f.Content = *n.Content
		}
		if n.SHA256 != nil {
			f.SHA256 = *n.SHA256
		}
		files = append(files, f)
	})
	return files
}

// Find returns the file node with the given path, or nil.
func Find(root *models.FileNode, path string) *models.FileNode {
	var found *models.FileNode
	walk(root, func(n *models.FileNode) {
		if found == nil && n.Type == models.NodeFile && n.Path == path {
			found = n
		}
	})
	return found
}

// Render returns an indented text listing of the tree, folders suffixed
// with "/".
func Render(root *models.FileNode) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	render(&b, root, 0)
	return b.String()
}

func render(b *strings.Builder, n *models.FileNode, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Name)
	if n.Type == models.NodeFolder {
		b.WriteString("/")
	}
	b.WriteString("\n")
	for _, child := range n.Children {
		render(b, child, depth+1)
	}
}

func walk(n *models.FileNode, fn func(*models.FileNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		walk(child, fn)
	}
}

func findFolder(parent *models.FileNode, name string) *models.FileNode {
	for _, child := range parent.Children {
		if child.Name == name && child.Type == models.NodeFolder {
			return child
		}
	}
	return nil
}

func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
