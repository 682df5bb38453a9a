package widgethost

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeKind classifies a node of a rendered widget tree.
type NodeKind string

const (
	KindContainer NodeKind = "container"
	KindText      NodeKind = "text"
	KindImage     NodeKind = "image"
	KindList      NodeKind = "list"
)

// DrawableKind describes what an image node is currently showing.
type DrawableKind string

const (
	DrawableNone     DrawableKind = ""
	DrawableBitmap   DrawableKind = "bitmap"
	DrawableVector   DrawableKind = "vector"
	DrawableResource DrawableKind = "resource"
)

// Image is the content of an image node.
type Image struct {
	Drawable DrawableKind `yaml:"drawable,omitempty"`

	// Bitmap identifies the decoded bitmap. Only meaningful for DrawableBitmap.
	Bitmap string `yaml:"bitmap,omitempty"`

	// Description is the accessibility content description.
	Description string `yaml:"description,omitempty"`
}

// Node is one element of a rendered widget tree.
//
// Containers hold Children. Lists hold adapter Items, which are not part of
// the regular descendant walk: they are only reachable through the list.
type Node struct {
	Kind     NodeKind `yaml:"kind,omitempty"`
	ID       string   `yaml:"id,omitempty"`
	Text     string   `yaml:"text,omitempty"`
	Image    *Image   `yaml:"image,omitempty"`
	Children []*Node  `yaml:"children,omitempty"`
	Items    []*Node  `yaml:"items,omitempty"`
}

// NewText returns a text leaf.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// NewBitmapImage returns an image leaf showing a decoded bitmap.
func NewBitmapImage(bitmap, description string) *Node {
	return &Node{Kind: KindImage, Image: &Image{Drawable: DrawableBitmap, Bitmap: bitmap, Description: description}}
}

// NewImage returns an image leaf with an arbitrary drawable.
func NewImage(drawable DrawableKind, description string) *Node {
	return &Node{Kind: KindImage, Image: &Image{Drawable: drawable, Description: description}}
}

// NewContainer returns a plain container.
func NewContainer(children ...*Node) *Node {
	return &Node{Kind: KindContainer, Children: children}
}

// NewList returns a list container with the given adapter items.
func NewList(items ...*Node) *Node {
	return &Node{Kind: KindList, Items: items}
}

// HasBitmap reports whether n is an image node showing a decoded bitmap.
func (n *Node) HasBitmap() bool {
	return n != nil && n.Kind == KindImage && n.Image != nil && n.Image.Drawable == DrawableBitmap
}

// Descendants returns every node below root in depth-first pre-order.
// root itself and list items are not included.
func Descendants(root *Node) []*Node {
	if root == nil {
		return nil
	}
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Children {
			if child == nil {
				continue
			}
			out = append(out, child)
			walk(child)
		}
	}
	walk(root)
	return out
}

// Count returns the number of nodes in the tree, list items included.
func Count(root *Node) int {
	if root == nil {
		return 0
	}
	total := 1
	for _, child := range root.Children {
		total += Count(child)
	}
	for _, item := range root.Items {
		total += Count(item)
	}
	return total
}

// ParseLayout decodes a YAML layout tree.
func ParseLayout(data []byte) (*Node, error) {
	var root Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}
	if err := validateNode(&root, "root"); err != nil {
		return nil, err
	}
	return &root, nil
}

// LoadLayout reads and decodes a YAML layout tree from path.
func LoadLayout(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func validateNode(n *Node, path string) error {
	switch n.Kind {
	case "":
		n.Kind = KindContainer
	case KindContainer, KindText, KindImage, KindList:
	default:
		return fmt.Errorf("%s: unknown node kind %q", path, n.Kind)
	}
	if n.Image != nil {
		switch n.Image.Drawable {
		case DrawableNone, DrawableBitmap, DrawableVector, DrawableResource:
		default:
			return fmt.Errorf("%s: unknown drawable %q", path, n.Image.Drawable)
		}
	}
	for i, child := range n.Children {
		if child == nil {
			return fmt.Errorf("%s.children[%d]: empty node", path, i)
		}
		if err := validateNode(child, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	for i, item := range n.Items {
		if item == nil {
			return fmt.Errorf("%s.items[%d]: empty node", path, i)
		}
		if err := validateNode(item, fmt.Sprintf("%s.items[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
