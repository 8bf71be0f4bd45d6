package blocktree

// BlockType is the variant tag of a block
type BlockType string

const (
	TypeEmailLayout       BlockType = "EmailLayout"
	TypeContainer         BlockType = "Container"
	TypeColumnsContainer  BlockType = "ColumnsContainer"
	TypeText              BlockType = "Text"
	TypeHeading           BlockType = "Heading"
	TypeButton            BlockType = "Button"
	TypeUnsubscribeButton BlockType = "UnsubscribeButton"
	TypeImage             BlockType = "Image"
	TypeAvatar            BlockType = "Avatar"
	TypeDivider           BlockType = "Divider"
	TypeSpacer            BlockType = "Spacer"
	TypeHTML              BlockType = "Html"
)

// Padding is expressed in pixels
type Padding struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Right  int `json:"right"`
	Left   int `json:"left"`
}

// Style holds the presentation attributes shared by every non-layout block
type Style struct {
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	Color           *string  `json:"color,omitempty"`
	FontFamily      *string  `json:"fontFamily,omitempty"`
	FontSize        *int     `json:"fontSize,omitempty"`
	FontWeight      *string  `json:"fontWeight,omitempty"`
	TextAlign       *string  `json:"textAlign,omitempty"`
	Padding         *Padding `json:"padding,omitempty"`
	BorderColor     *string  `json:"borderColor,omitempty"`
	BorderRadius    *int     `json:"borderRadius,omitempty"`
}

// BlockData is the closed set of per-variant payloads. Values stored in a Tree
// are never modified in place; every edit produces a fresh value.
type BlockData interface {
	blockType() BlockType
	clone() BlockData
}

// ChildrenHolder is implemented by the variants that own children lists.
// Layouts and containers own exactly one list, columns containers own one per column.
type ChildrenHolder interface {
	BlockData
	// ChildLists returns copies of the children lists, in column order
	ChildLists() [][]string
	// WithChildLists returns a copy of the data with the given lists installed
	WithChildLists(lists [][]string) BlockData
}

// Block is one node of the document. Blocks are values: two blocks are equal
// only when they carry the same data pointer.
type Block struct {
	Data BlockData
}

// NewBlock wraps data into a Block
func NewBlock(data BlockData) Block {
	return Block{Data: data}
}

// Type returns the variant tag, or "" for a zero Block
func (b Block) Type() BlockType {
	if b.Data == nil {
		return ""
	}
	return b.Data.blockType()
}

// IsContainer reports whether the block can hold children
func (b Block) IsContainer() bool {
	_, ok := b.Data.(ChildrenHolder)
	return ok
}

// EmailLayoutData is the root of a document. It has no style/props split.
type EmailLayoutData struct {
	BackdropColor *string  `json:"backdropColor,omitempty"`
	BorderColor   *string  `json:"borderColor,omitempty"`
	BorderRadius  *int     `json:"borderRadius,omitempty"`
	CanvasColor   *string  `json:"canvasColor,omitempty"`
	TextColor     *string  `json:"textColor,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	ChildrenIDs   []string `json:"childrenIds"`
}

func (d *EmailLayoutData) blockType() BlockType { return TypeEmailLayout }

func (d *EmailLayoutData) clone() BlockData {
	c := *d
	c.ChildrenIDs = copyIDs(d.ChildrenIDs)
	return &c
}

func (d *EmailLayoutData) ChildLists() [][]string {
	return [][]string{copyIDs(d.ChildrenIDs)}
}

func (d *EmailLayoutData) WithChildLists(lists [][]string) BlockData {
	c := *d
	c.ChildrenIDs = firstList(lists)
	return &c
}

type ContainerProps struct {
	ChildrenIDs []string `json:"childrenIds"`
}

type ContainerData struct {
	Style *Style         `json:"style,omitempty"`
	Props ContainerProps `json:"props"`
}

func (d *ContainerData) blockType() BlockType { return TypeContainer }

func (d *ContainerData) clone() BlockData {
	c := *d
	c.Props.ChildrenIDs = copyIDs(d.Props.ChildrenIDs)
	return &c
}

func (d *ContainerData) ChildLists() [][]string {
	return [][]string{copyIDs(d.Props.ChildrenIDs)}
}

func (d *ContainerData) WithChildLists(lists [][]string) BlockData {
	c := *d
	c.Props.ChildrenIDs = firstList(lists)
	return &c
}

// Column is one cell of a columns container
type Column struct {
	ChildrenIDs []string `json:"childrenIds"`
}

type ColumnsContainerProps struct {
	FixedWidths      []*int   `json:"fixedWidths,omitempty"`
	ColumnsCount     *int     `json:"columnsCount,omitempty"`
	ColumnsGap       *int     `json:"columnsGap,omitempty"`
	ContentAlignment *string  `json:"contentAlignment,omitempty"`
	Columns          []Column `json:"columns"`
}

type ColumnsContainerData struct {
	Style *Style                `json:"style,omitempty"`
	Props ColumnsContainerProps `json:"props"`
}

func (d *ColumnsContainerData) blockType() BlockType { return TypeColumnsContainer }

func (d *ColumnsContainerData) clone() BlockData {
	c := *d
	c.Props.Columns = make([]Column, len(d.Props.Columns))
	for i, col := range d.Props.Columns {
		c.Props.Columns[i] = Column{ChildrenIDs: copyIDs(col.ChildrenIDs)}
	}
	return &c
}

func (d *ColumnsContainerData) ChildLists() [][]string {
	lists := make([][]string, len(d.Props.Columns))
	for i, col := range d.Props.Columns {
		lists[i] = copyIDs(col.ChildrenIDs)
	}
	return lists
}

// WithChildLists installs one list per existing column. Extra lists are
// ignored and missing ones leave the column empty.
func (d *ColumnsContainerData) WithChildLists(lists [][]string) BlockData {
	c := *d
	c.Props.Columns = make([]Column, len(d.Props.Columns))
	for i := range c.Props.Columns {
		ids := []string{}
		if i < len(lists) {
			ids = copyIDs(lists[i])
		}
		c.Props.Columns[i] = Column{ChildrenIDs: ids}
	}
	return &c
}

type TextProps struct {
	Text     *string `json:"text,omitempty"`
	Markdown *bool   `json:"markdown,omitempty"`
}

type TextData struct {
	Style *Style    `json:"style,omitempty"`
	Props TextProps `json:"props"`
}

func (d *TextData) blockType() BlockType { return TypeText }
func (d *TextData) clone() BlockData     { c := *d; return &c }

type HeadingProps struct {
	Text  *string `json:"text,omitempty"`
	Level *string `json:"level,omitempty"` // h1, h2 or h3
}

type HeadingData struct {
	Style *Style       `json:"style,omitempty"`
	Props HeadingProps `json:"props"`
}

func (d *HeadingData) blockType() BlockType { return TypeHeading }
func (d *HeadingData) clone() BlockData     { c := *d; return &c }

type ButtonProps struct {
	Text                  *string `json:"text,omitempty"`
	URL                   *string `json:"url,omitempty"`
	ButtonStyle           *string `json:"buttonStyle,omitempty"` // rectangle, rounded or pill
	ButtonTextColor       *string `json:"buttonTextColor,omitempty"`
	ButtonBackgroundColor *string `json:"buttonBackgroundColor,omitempty"`
	Size                  *string `json:"size,omitempty"` // x-small, small, medium or large
	FullWidth             *bool   `json:"fullWidth,omitempty"`
}

type ButtonData struct {
	Style *Style      `json:"style,omitempty"`
	Props ButtonProps `json:"props"`
}

func (d *ButtonData) blockType() BlockType { return TypeButton }
func (d *ButtonData) clone() BlockData     { c := *d; return &c }

// UnsubscribeButtonProps has no URL: the link always points at the
// per-recipient unsubscribe address resolved at send time.
type UnsubscribeButtonProps struct {
	Text *string `json:"text,omitempty"`
}

type UnsubscribeButtonData struct {
	Style *Style                 `json:"style,omitempty"`
	Props UnsubscribeButtonProps `json:"props"`
}

func (d *UnsubscribeButtonData) blockType() BlockType { return TypeUnsubscribeButton }
func (d *UnsubscribeButtonData) clone() BlockData     { c := *d; return &c }

type ImageProps struct {
	URL              *string `json:"url,omitempty"`
	Alt              *string `json:"alt,omitempty"`
	LinkHref         *string `json:"linkHref,omitempty"`
	Width            *int    `json:"width,omitempty"`
	Height           *int    `json:"height,omitempty"`
	ContentAlignment *string `json:"contentAlignment,omitempty"`
}

type ImageData struct {
	Style *Style     `json:"style,omitempty"`
	Props ImageProps `json:"props"`
}

func (d *ImageData) blockType() BlockType { return TypeImage }
func (d *ImageData) clone() BlockData     { c := *d; return &c }

type AvatarProps struct {
	ImageURL *string `json:"imageUrl,omitempty"`
	Alt      *string `json:"alt,omitempty"`
	Shape    *string `json:"shape,omitempty"` // circle, square or rounded
	Size     *int    `json:"size,omitempty"`
}

type AvatarData struct {
	Style *Style      `json:"style,omitempty"`
	Props AvatarProps `json:"props"`
}

func (d *AvatarData) blockType() BlockType { return TypeAvatar }
func (d *AvatarData) clone() BlockData     { c := *d; return &c }

type DividerProps struct {
	LineColor  *string `json:"lineColor,omitempty"`
	LineHeight *int    `json:"lineHeight,omitempty"`
}

type DividerData struct {
	Style *Style       `json:"style,omitempty"`
	Props DividerProps `json:"props"`
}

func (d *DividerData) blockType() BlockType { return TypeDivider }
func (d *DividerData) clone() BlockData     { c := *d; return &c }

type SpacerProps struct {
	Height *int `json:"height,omitempty"`
}

type SpacerData struct {
	Style *Style      `json:"style,omitempty"`
	Props SpacerProps `json:"props"`
}

func (d *SpacerData) blockType() BlockType { return TypeSpacer }
func (d *SpacerData) clone() BlockData     { c := *d; return &c }

type HTMLProps struct {
	Contents *string `json:"contents,omitempty"`
}

type HTMLData struct {
	Style *Style    `json:"style,omitempty"`
	Props HTMLProps `json:"props"`
}

func (d *HTMLData) blockType() BlockType { return TypeHTML }
func (d *HTMLData) clone() BlockData     { c := *d; return &c }

// newData returns an empty payload for the given variant
func newData(t BlockType) (BlockData, bool) {
	switch t {
	case TypeEmailLayout:
		return &EmailLayoutData{}, true
	case TypeContainer:
		return &ContainerData{}, true
	case TypeColumnsContainer:
		return &ColumnsContainerData{}, true
	case TypeText:
		return &TextData{}, true
	case TypeHeading:
		return &HeadingData{}, true
	case TypeButton:
		return &ButtonData{}, true
	case TypeUnsubscribeButton:
		return &UnsubscribeButtonData{}, true
	case TypeImage:
		return &ImageData{}, true
	case TypeAvatar:
		return &AvatarData{}, true
	case TypeDivider:
		return &DividerData{}, true
	case TypeSpacer:
		return &SpacerData{}, true
	case TypeHTML:
		return &HTMLData{}, true
	}
	return nil, false
}

// IsKnownType reports whether t names one of the supported variants
func IsKnownType(t BlockType) bool {
	_, ok := newData(t)
	return ok
}

// ChildrenOf returns the children of a layout or container block. Leaves and
// columns containers return nil; use ColumnChildren for the latter.
func ChildrenOf(b Block) []string {
	switch d := b.Data.(type) {
	case *EmailLayoutData:
		return copyIDs(d.ChildrenIDs)
	case *ContainerData:
		return copyIDs(d.Props.ChildrenIDs)
	}
	return nil
}

// ColumnChildren returns the children of one column of a columns container
func ColumnChildren(b Block, column int) ([]string, bool) {
	d, ok := b.Data.(*ColumnsContainerData)
	if !ok || column < 0 || column >= len(d.Props.Columns) {
		return nil, false
	}
	return copyIDs(d.Props.Columns[column].ChildrenIDs), true
}

// referencedIDs flattens every children list of the block
func referencedIDs(b Block) []string {
	holder, ok := b.Data.(ChildrenHolder)
	if !ok {
		return nil
	}
	var ids []string
	for _, list := range holder.ChildLists() {
		ids = append(ids, list...)
	}
	return ids
}

func copyIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func firstList(lists [][]string) []string {
	if len(lists) == 0 {
		return []string{}
	}
	return copyIDs(lists[0])
}
