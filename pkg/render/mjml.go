package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
)

// element is one MJML tag. Content is written verbatim and must already be
// escaped by the caller.
type element struct {
	tag      string
	attrs    map[string]string
	content  string
	children []*element
}

func newElement(tag string) *element {
	return &element{tag: tag, attrs: map[string]string{}}
}

func (e *element) set(key, value string) *element {
	if value != "" {
		e.attrs[key] = value
	}
	return e
}

func (e *element) add(children ...*element) *element {
	for _, c := range children {
		if c != nil {
			e.children = append(e.children, c)
		}
	}
	return e
}

func (e *element) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString("<")
	sb.WriteString(e.tag)
	sb.WriteString(formatAttributes(e.attrs))

	switch {
	case len(e.children) > 0:
		sb.WriteString(">\n")
		for _, c := range e.children {
			c.write(sb, depth+1)
		}
		sb.WriteString(indent)
		fmt.Fprintf(sb, "</%s>\n", e.tag)
	case e.content != "":
		fmt.Fprintf(sb, ">%s</%s>\n", e.content, e.tag)
	default:
		sb.WriteString(" />\n")
	}
}

// formatAttributes writes attributes in key order so the output is stable
func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, ` %s="%s"`, k, escapeAttributeValue(attrs[k], k))
	}
	return sb.String()
}

// escapeAttributeValue leaves & alone in absolute URLs so query strings survive
func escapeAttributeValue(value string, attributeName string) string {
	isURLAttribute := attributeName == "src" || attributeName == "href"
	looksLikeURL := strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "//")

	if !(isURLAttribute && looksLikeURL) {
		value = strings.ReplaceAll(value, "&", "&amp;")
	}
	value = strings.ReplaceAll(value, "\"", "&quot;")
	value = strings.ReplaceAll(value, "<", "&lt;")
	value = strings.ReplaceAll(value, ">", "&gt;")
	return value
}

func escapeContent(content string) string {
	content = strings.ReplaceAll(content, "&", "&amp;")
	content = strings.ReplaceAll(content, "<", "&lt;")
	content = strings.ReplaceAll(content, ">", "&gt;")
	return content
}

// ToMJML converts the subtree under rootID into an MJML document. A layout
// root supplies the page settings; any other root is rendered as the only
// content of a default layout. Corrupt trees are refused.
func ToMJML(tree blocktree.Tree, rootID string) (string, error) {
	if err := blocktree.Validate(tree); err != nil {
		return "", err
	}
	root, ok := tree.Get(rootID)
	if !ok {
		return "", fmt.Errorf("%w: render root %q", blocktree.ErrNotFound, rootID)
	}

	layout, isLayout := root.Data.(*blocktree.EmailLayoutData)
	sections := []string{rootID}
	if isLayout {
		sections = layout.ChildrenIDs
	} else {
		layout = &blocktree.EmailLayoutData{}
	}

	c := &converter{tree: tree}
	wrapper := newElement("mj-wrapper").
		set("padding", "0px").
		set("background-color", orDefault(layout.CanvasColor, "#FFFFFF"))
	if layout.BorderColor != nil && *layout.BorderColor != "" {
		wrapper.set("border", "1px solid "+*layout.BorderColor)
	}
	if layout.BorderRadius != nil {
		wrapper.set("border-radius", px(*layout.BorderRadius))
	}
	for _, id := range sections {
		section, err := c.section(id)
		if err != nil {
			return "", err
		}
		wrapper.add(section)
	}

	doc := newElement("mjml").add(
		newElement("mj-head").add(
			newElement("mj-attributes").add(
				newElement("mj-all").set("font-family", FontStack(orDefault(layout.FontFamily, "MODERN_SANS"))),
				newElement("mj-text").set("color", orDefault(layout.TextColor, "#262626")).set("line-height", "1.5"),
			),
		),
		newElement("mj-body").
			set("background-color", orDefault(layout.BackdropColor, "#F5F5F5")).
			set("width", "600px").
			add(wrapper),
	)

	var sb strings.Builder
	doc.write(&sb, 0)
	return sb.String(), nil
}

type converter struct {
	tree blocktree.Tree
}

func (c *converter) block(id string) (blocktree.Block, error) {
	b, ok := c.tree.Get(id)
	if !ok {
		return blocktree.Block{}, fmt.Errorf("%w: missing block %q", blocktree.ErrCorrupt, id)
	}
	return b, nil
}

// section renders one top-level child of the layout
func (c *converter) section(id string) (*element, error) {
	b, err := c.block(id)
	if err != nil {
		return nil, err
	}

	switch d := b.Data.(type) {
	case *blocktree.ColumnsContainerData:
		section := newElement("mj-section")
		applyBox(section, d.Style)
		columns, err := c.columns(d)
		if err != nil {
			return nil, err
		}
		return section.add(columns...), nil

	case *blocktree.ContainerData:
		section := newElement("mj-section")
		applyBox(section, d.Style)
		column := newElement("mj-column")
		content, err := c.flatten(d.Props.ChildrenIDs)
		if err != nil {
			return nil, err
		}
		return section.add(column.add(content...)), nil

	default:
		leaf, err := c.leaf(b)
		if err != nil {
			return nil, err
		}
		return newElement("mj-section").set("padding", "0px").add(newElement("mj-column").add(leaf)), nil
	}
}

func (c *converter) columns(d *blocktree.ColumnsContainerData) ([]*element, error) {
	cols := d.Props.Columns
	if d.Props.ColumnsCount != nil && *d.Props.ColumnsCount > 0 && *d.Props.ColumnsCount < len(cols) {
		cols = cols[:*d.Props.ColumnsCount]
	}
	n := len(cols)
	gap := 0
	if d.Props.ColumnsGap != nil {
		gap = *d.Props.ColumnsGap
	}

	out := make([]*element, 0, n)
	for i, col := range cols {
		column := newElement("mj-column").
			set("vertical-align", orDefault(d.Props.ContentAlignment, "middle"))
		if i < len(d.Props.FixedWidths) && d.Props.FixedWidths[i] != nil {
			column.set("width", px(*d.Props.FixedWidths[i]))
		} else {
			column.set("width", fmt.Sprintf("%.2f%%", 100/float64(n)))
		}
		if gap > 0 {
			left, right := 0, 0
			if i > 0 {
				left = gap / 2
			}
			if i < n-1 {
				right = gap / 2
			}
			column.set("padding", fmt.Sprintf("0px %dpx 0px %dpx", right, left))
		}

		content, err := c.flatten(col.ChildrenIDs)
		if err != nil {
			return nil, err
		}
		out = append(out, column.add(content...))
	}
	return out, nil
}

// flatten renders blocks that live inside a column. MJML cannot nest
// sections, so nested containers contribute their children in order.
func (c *converter) flatten(ids []string) ([]*element, error) {
	var out []*element
	for _, id := range ids {
		b, err := c.block(id)
		if err != nil {
			return nil, err
		}
		switch d := b.Data.(type) {
		case *blocktree.ContainerData:
			inner, err := c.flatten(d.Props.ChildrenIDs)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
		case *blocktree.ColumnsContainerData:
			for _, col := range d.Props.Columns {
				inner, err := c.flatten(col.ChildrenIDs)
				if err != nil {
					return nil, err
				}
				out = append(out, inner...)
			}
		default:
			leaf, err := c.leaf(b)
			if err != nil {
				return nil, err
			}
			if leaf != nil {
				out = append(out, leaf)
			}
		}
	}
	return out, nil
}

var headingSizes = map[string]int{"h1": 32, "h2": 24, "h3": 20}

var buttonRadius = map[string]string{"rectangle": "0px", "rounded": "4px", "pill": "64px"}

var buttonPadding = map[string]string{
	"x-small": "4px 8px",
	"small":   "8px 12px",
	"medium":  "12px 20px",
	"large":   "16px 32px",
}

// leaf renders a content block. It returns nil for blocks with nothing to show.
func (c *converter) leaf(b blocktree.Block) (*element, error) {
	switch d := b.Data.(type) {
	case *blocktree.TextData:
		e := newElement("mj-text")
		applyText(e, d.Style)
		e.content = textContent(deref(d.Props.Text))
		return e, nil

	case *blocktree.HeadingData:
		level := orDefault(d.Props.Level, "h2")
		size, ok := headingSizes[level]
		if !ok {
			level, size = "h2", headingSizes["h2"]
		}
		e := newElement("mj-text").set("font-size", px(size)).set("font-weight", "bold")
		applyText(e, d.Style)
		e.content = fmt.Sprintf(`<%s style="margin: 0; font-size: inherit; font-weight: inherit">%s</%s>`,
			level, textContent(deref(d.Props.Text)), level)
		return e, nil

	case *blocktree.ButtonData:
		return button(d.Style, d.Props, deref(d.Props.URL)), nil

	case *blocktree.UnsubscribeButtonData:
		props := blocktree.ButtonProps{Text: d.Props.Text}
		return button(d.Style, props, UnsubscribeURLPlaceholder), nil

	case *blocktree.ImageData:
		if deref(d.Props.URL) == "" {
			return nil, nil
		}
		e := newElement("mj-image").
			set("src", *d.Props.URL).
			set("alt", deref(d.Props.Alt)).
			set("href", deref(d.Props.LinkHref))
		if d.Props.Width != nil {
			e.set("width", px(*d.Props.Width))
		}
		if d.Props.Height != nil {
			e.set("height", px(*d.Props.Height))
		}
		applyBox(e, d.Style)
		applyAlign(e, d.Style, "center")
		if bg, ok := e.attrs["background-color"]; ok {
			e.set("container-background-color", bg)
			delete(e.attrs, "background-color")
		}
		return e, nil

	case *blocktree.AvatarData:
		if deref(d.Props.ImageURL) == "" {
			return nil, nil
		}
		size := 64
		if d.Props.Size != nil && *d.Props.Size > 0 {
			size = *d.Props.Size
		}
		radius := "0px"
		switch deref(d.Props.Shape) {
		case "circle", "":
			radius = px(size / 2)
		case "rounded":
			radius = px(size / 8)
		}
		e := newElement("mj-image").
			set("src", *d.Props.ImageURL).
			set("alt", deref(d.Props.Alt)).
			set("width", px(size)).
			set("height", px(size)).
			set("border-radius", radius)
		applyPadding(e, d.Style)
		applyAlign(e, d.Style, "center")
		return e, nil

	case *blocktree.DividerData:
		width := 1
		if d.Props.LineHeight != nil {
			width = *d.Props.LineHeight
		}
		e := newElement("mj-divider").
			set("border-color", orDefault(d.Props.LineColor, "#333333")).
			set("border-width", px(width))
		applyPadding(e, d.Style)
		if d.Style != nil && d.Style.BackgroundColor != nil {
			e.set("container-background-color", *d.Style.BackgroundColor)
		}
		return e, nil

	case *blocktree.SpacerData:
		height := 16
		if d.Props.Height != nil {
			height = *d.Props.Height
		}
		return newElement("mj-spacer").set("height", px(height)), nil

	case *blocktree.HTMLData:
		if deref(d.Props.Contents) == "" {
			return nil, nil
		}
		e := newElement("mj-text")
		applyText(e, d.Style)
		e.content = *d.Props.Contents
		return e, nil

	case *blocktree.EmailLayoutData:
		return nil, fmt.Errorf("%w: layout block nested in content", blocktree.ErrCorrupt)
	}
	return nil, fmt.Errorf("%w: cannot render %q", blocktree.ErrInvalidBlock, b.Type())
}

func button(style *blocktree.Style, props blocktree.ButtonProps, href string) *element {
	e := newElement("mj-button").
		set("href", href).
		set("background-color", orDefault(props.ButtonBackgroundColor, "#999999")).
		set("color", orDefault(props.ButtonTextColor, "#FFFFFF")).
		set("border-radius", buttonRadius[orDefault(props.ButtonStyle, "rounded")]).
		set("inner-padding", buttonPadding[orDefault(props.Size, "medium")])
	if props.FullWidth != nil && *props.FullWidth {
		e.set("width", "100%")
	}
	applyPadding(e, style)
	applyFont(e, style)
	applyAlign(e, style, "left")
	if style != nil && style.BackgroundColor != nil {
		e.set("container-background-color", *style.BackgroundColor)
	}
	e.content = textContent(deref(props.Text))
	return e
}

// textContent escapes user text and keeps its line breaks
func textContent(s string) string {
	return strings.ReplaceAll(escapeContent(s), "\n", "<br />")
}

func applyText(e *element, style *blocktree.Style) {
	applyPadding(e, style)
	applyFont(e, style)
	applyAlign(e, style, "")
	if style != nil && style.BackgroundColor != nil {
		e.set("container-background-color", *style.BackgroundColor)
	}
}

// applyBox is used by sections and images, which take a plain background color
func applyBox(e *element, style *blocktree.Style) {
	applyPadding(e, style)
	if style == nil {
		return
	}
	if style.BackgroundColor != nil {
		e.set("background-color", *style.BackgroundColor)
	}
	if style.BorderColor != nil && *style.BorderColor != "" {
		e.set("border", "1px solid "+*style.BorderColor)
	}
	if style.BorderRadius != nil {
		e.set("border-radius", px(*style.BorderRadius))
	}
}

func applyPadding(e *element, style *blocktree.Style) {
	if style == nil || style.Padding == nil {
		e.set("padding", "0px")
		return
	}
	p := style.Padding
	e.set("padding", fmt.Sprintf("%dpx %dpx %dpx %dpx", p.Top, p.Right, p.Bottom, p.Left))
}

func applyFont(e *element, style *blocktree.Style) {
	if style == nil {
		return
	}
	if style.Color != nil {
		e.set("color", *style.Color)
	}
	if style.FontFamily != nil {
		e.set("font-family", FontStack(*style.FontFamily))
	}
	if style.FontSize != nil {
		e.set("font-size", px(*style.FontSize))
	}
	if style.FontWeight != nil {
		e.set("font-weight", *style.FontWeight)
	}
}

func applyAlign(e *element, style *blocktree.Style, fallback string) {
	if style != nil && style.TextAlign != nil {
		e.set("align", *style.TextAlign)
		return
	}
	e.set("align", fallback)
}

func px(n int) string {
	return fmt.Sprintf("%dpx", n)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
