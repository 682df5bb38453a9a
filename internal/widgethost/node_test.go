package widgethost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLayout = `
kind: container
children:
  - kind: text
    text: Tomorrow
  - kind: container
    children:
      - kind: image
        image:
          drawable: bitmap
          bitmap: sunny
          description: Sunny
      - kind: text
        text: "21°"
  - kind: list
    items:
      - kind: container
        children:
          - kind: text
            text: Meeting
`

func TestParseLayout(t *testing.T) {
	root, err := ParseLayout([]byte(sampleLayout))
	require.NoError(t, err)

	assert.Equal(t, KindContainer, root.Kind)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "Tomorrow", root.Children[0].Text)
	assert.True(t, root.Children[1].Children[0].HasBitmap())
	assert.Equal(t, "Sunny", root.Children[1].Children[0].Image.Description)
	assert.Equal(t, KindList, root.Children[2].Kind)
	require.Len(t, root.Children[2].Items, 1)
}

func TestParseLayout_DefaultsKindToContainer(t *testing.T) {
	root, err := ParseLayout([]byte("children:\n  - text: hi\n    kind: text\n"))
	require.NoError(t, err)
	assert.Equal(t, KindContainer, root.Kind)
}

func TestParseLayout_Errors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
	}{
		{"unknown kind", "kind: button\n"},
		{"unknown nested kind", "children:\n  - kind: slider\n"},
		{"unknown drawable", "children:\n  - kind: image\n    image: {drawable: svg}\n"},
		{"malformed yaml", "children: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout([]byte(tt.layout))
			assert.Error(t, err)
		})
	}
}

func TestDescendants_PreOrderWithoutListItems(t *testing.T) {
	first := NewText("first")
	nestedImage := NewBitmapImage("icon", "")
	nested := NewContainer(nestedImage)
	itemText := NewText("inside list")
	list := NewList(NewContainer(itemText))
	last := NewText("last")
	root := NewContainer(first, nested, list, last)

	got := Descendants(root)

	assert.Equal(t, []*Node{first, nested, nestedImage, list, last}, got)
	assert.NotContains(t, got, itemText)
	assert.Nil(t, Descendants(nil))
}

func TestHasBitmap(t *testing.T) {
	assert.True(t, NewBitmapImage("b", "").HasBitmap())
	assert.False(t, NewImage(DrawableVector, "").HasBitmap())
	assert.False(t, NewImage(DrawableResource, "").HasBitmap())
	assert.False(t, (&Node{Kind: KindImage}).HasBitmap())
	assert.False(t, NewText("x").HasBitmap())

	var nilNode *Node
	assert.False(t, nilNode.HasBitmap())
}

func TestCount(t *testing.T) {
	root := NewContainer(NewText("a"), NewList(NewContainer(NewText("b"))))
	assert.Equal(t, 5, Count(root))
	assert.Equal(t, 0, Count(nil))
}

func TestParseLayoutDocument(t *testing.T) {
	doc, err := ParseLayoutDocument([]byte(`
provider:
  package: com.example
  class: com.example.Widget
root:
  children:
    - kind: text
      text: hi
`))
	require.NoError(t, err)
	assert.Equal(t, ComponentName{Package: "com.example", Class: "com.example.Widget"}, doc.Provider)
	assert.Len(t, doc.Root.Children, 1)

	empty, err := ParseLayoutDocument([]byte("provider: {package: p, class: c}\n"))
	require.NoError(t, err)
	assert.Equal(t, KindContainer, empty.Root.Kind)
	assert.Empty(t, empty.Root.Children)
}
