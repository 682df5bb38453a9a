package smartspace

import (
	"fmt"

	"smartspace/internal/widgethost"
)

// Analysis is the classification of a widget tree and the nodes chosen for
// each field. Fields that could not be chosen are nil.
type Analysis struct {
	Texts  int
	Images int

	// ListItems is the number of items in the first list container, or -1
	// when the list layout was not examined or no list was found.
	ListItems int

	WeatherIcon *widgethost.Node
	Temperature *widgethost.Node
	CardIcon    *widgethost.Node
	Title       *widgethost.Node
	Subtitle    *widgethost.Node
	Subtitle2   *widgethost.Node
}

// Extract returns the rows that can be assembled from root, in the order
// weather, title, subtitle. A tree without text, neither its own nor in the
// first list item, yields no rows.
func Extract(root *widgethost.Node) []Row {
	return Analyze(root).Rows()
}

// Analyze classifies the nodes of root and picks the weather pair, the card
// icon and the title lines.
func Analyze(root *widgethost.Node) Analysis {
	descendants := widgethost.Descendants(root)
	texts, images := classify(descendants)

	a := Analysis{Texts: len(texts), Images: len(images), ListItems: -1}

	// List items are not descendants, so a card held only by a list still
	// counts as content even when the tree has no text of its own.
	if len(texts) > 0 && len(images) > 0 {
		a.WeatherIcon = images[0]
		a.Temperature = texts[len(texts)-1]
	}

	if len(images) > 1 && len(texts) > 2 {
		a.CardIcon = images[0]
		a.Title = texts[0]
		a.Subtitle = texts[1]
		if len(texts) > 3 {
			a.Subtitle2 = texts[2]
		}
		return a
	}

	list := firstList(descendants)
	if list == nil {
		return a
	}
	a.ListItems = len(list.Items)
	if len(list.Items) == 0 {
		return a
	}

	// Only the first item: the lock screen has room for one card.
	item := list.Items[0]
	if item == nil || (item.Kind != widgethost.KindContainer && item.Kind != widgethost.KindList) {
		return a
	}
	itemTexts, itemImages := classify(widgethost.Descendants(item))
	a.CardIcon = at(itemImages, 0)
	a.Title = at(itemTexts, 0)
	a.Subtitle = at(itemTexts, 1)
	return a
}

// Rows assembles the rows from the chosen fields.
func (a Analysis) Rows() []Row {
	rows := make([]Row, 0, 3)

	if a.WeatherIcon != nil && a.Temperature != nil {
		weather := newRow(RowWeather, a.Temperature.Text)
		weather.Icon = iconOf(a.WeatherIcon)
		weather.EndOfSection = true
		rows = append(rows, weather)
	}

	if a.CardIcon == nil || a.Title == nil || a.Subtitle == nil {
		return rows
	}

	title := a.Title.Text
	subtitle := a.Subtitle
	if a.Subtitle2 != nil {
		title += " " + a.Subtitle.Text
		subtitle = a.Subtitle2
	}

	sub := newRow(RowSubtitle, subtitle.Text)
	sub.Icon = iconOf(a.CardIcon)
	sub.EndOfSection = true

	return append(rows, newRow(RowTitle, title), sub)
}

func (a Analysis) String() string {
	return fmt.Sprintf("texts=%d images=%d listItems=%d weather=%t card=%t title=%q subtitle=%q subtitle2=%q",
		a.Texts, a.Images, a.ListItems,
		a.WeatherIcon != nil && a.Temperature != nil, a.CardIcon != nil,
		textOf(a.Title), textOf(a.Subtitle), textOf(a.Subtitle2))
}

func classify(nodes []*widgethost.Node) (texts, images []*widgethost.Node) {
	for _, n := range nodes {
		switch {
		case n.Kind == widgethost.KindText && n.Text != "":
			texts = append(texts, n)
		case n.HasBitmap():
			images = append(images, n)
		}
	}
	return texts, images
}

func firstList(nodes []*widgethost.Node) *widgethost.Node {
	for _, n := range nodes {
		if n.Kind == widgethost.KindList {
			return n
		}
	}
	return nil
}

// iconOf builds the icon of an image node. Described images are weather
// glyphs and keep their colors.
func iconOf(n *widgethost.Node) *Icon {
	icon := &Icon{Bitmap: n.Image.Bitmap}
	if n.Image.Description != "" {
		icon.Tint = TintNone
	}
	return icon
}

func at(nodes []*widgethost.Node, i int) *widgethost.Node {
	if i < len(nodes) {
		return nodes[i]
	}
	return nil
}

func textOf(n *widgethost.Node) string {
	if n == nil {
		return ""
	}
	return n.Text
}
