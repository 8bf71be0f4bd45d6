package blocktree

import "fmt"

// Block categories shown in the add-block menu
const (
	CategoryLayout    = "layout"
	CategoryStructure = "structure"
	CategoryContent   = "content"
	CategoryMedia     = "media"
)

// menuOrder is the order in which insertable variants are offered
var menuOrder = []BlockType{
	TypeHeading,
	TypeText,
	TypeButton,
	TypeUnsubscribeButton,
	TypeImage,
	TypeAvatar,
	TypeDivider,
	TypeSpacer,
	TypeHTML,
	TypeColumnsContainer,
	TypeContainer,
}

// InsertableTypes returns the variants a user can add to a document
func InsertableTypes() []BlockType {
	out := make([]BlockType, len(menuOrder))
	copy(out, menuOrder)
	return out
}

// DisplayName returns a human-readable name for a block type
func DisplayName(t BlockType) string {
	switch t {
	case TypeEmailLayout:
		return "Email Layout"
	case TypeContainer:
		return "Container"
	case TypeColumnsContainer:
		return "Columns"
	case TypeText:
		return "Text"
	case TypeHeading:
		return "Heading"
	case TypeButton:
		return "Button"
	case TypeUnsubscribeButton:
		return "Unsubscribe Button"
	case TypeImage:
		return "Image"
	case TypeAvatar:
		return "Avatar"
	case TypeDivider:
		return "Divider"
	case TypeSpacer:
		return "Spacer"
	case TypeHTML:
		return "HTML"
	default:
		return string(t)
	}
}

// Category returns the menu category of a block type
func Category(t BlockType) string {
	switch t {
	case TypeEmailLayout:
		return CategoryLayout
	case TypeContainer, TypeColumnsContainer:
		return CategoryStructure
	case TypeImage, TypeAvatar:
		return CategoryMedia
	default:
		return CategoryContent
	}
}

func str(s string) *string { return &s }
func num(i int) *int       { return &i }
func flag(b bool) *bool    { return &b }

func defaultPadding() *Style {
	return &Style{Padding: &Padding{Top: 16, Bottom: 16, Left: 24, Right: 24}}
}

// DefaultBlock returns the initial block offered when the user picks t
func DefaultBlock(t BlockType) (Block, error) {
	var data BlockData
	switch t {
	case TypeEmailLayout:
		data = defaultLayout()
	case TypeContainer:
		data = &ContainerData{Style: defaultPadding(), Props: ContainerProps{ChildrenIDs: []string{}}}
	case TypeColumnsContainer:
		data = &ColumnsContainerData{
			Style: defaultPadding(),
			Props: ColumnsContainerProps{
				ColumnsCount:     num(3),
				ColumnsGap:       num(16),
				ContentAlignment: str("middle"),
				Columns: []Column{
					{ChildrenIDs: []string{}},
					{ChildrenIDs: []string{}},
					{ChildrenIDs: []string{}},
				},
			},
		}
	case TypeText:
		data = &TextData{Style: defaultPadding(), Props: TextProps{Text: str("My new text block")}}
	case TypeHeading:
		data = &HeadingData{Style: defaultPadding(), Props: HeadingProps{Text: str("Hello friend"), Level: str("h2")}}
	case TypeButton:
		data = &ButtonData{
			Style: defaultPadding(),
			Props: ButtonProps{
				Text:                  str("Button"),
				URL:                   str("https://example.com"),
				ButtonStyle:           str("rounded"),
				ButtonTextColor:       str("#FFFFFF"),
				ButtonBackgroundColor: str("#999999"),
				Size:                  str("medium"),
				FullWidth:             flag(false),
			},
		}
	case TypeUnsubscribeButton:
		data = &UnsubscribeButtonData{Style: defaultPadding(), Props: UnsubscribeButtonProps{Text: str("Unsubscribe")}}
	case TypeImage:
		data = &ImageData{
			Style: defaultPadding(),
			Props: ImageProps{
				URL:              str("https://placehold.co/600x300"),
				Alt:              str("Sample image"),
				ContentAlignment: str("middle"),
			},
		}
	case TypeAvatar:
		data = &AvatarData{
			Style: &Style{TextAlign: str("center"), Padding: &Padding{Top: 16, Bottom: 16, Left: 24, Right: 24}},
			Props: AvatarProps{ImageURL: str("https://placehold.co/128x128"), Shape: str("circle"), Size: num(64)},
		}
	case TypeDivider:
		data = &DividerData{Style: defaultPadding(), Props: DividerProps{LineColor: str("#CCCCCC"), LineHeight: num(1)}}
	case TypeSpacer:
		data = &SpacerData{Props: SpacerProps{Height: num(16)}}
	case TypeHTML:
		data = &HTMLData{Style: defaultPadding(), Props: HTMLProps{Contents: str("<strong>Hello world</strong>")}}
	default:
		return Block{}, fmt.Errorf("%w: unknown block type %q", ErrInvalidBlock, t)
	}
	return Block{Data: data}, nil
}

func defaultLayout() *EmailLayoutData {
	return &EmailLayoutData{
		BackdropColor: str("#F5F5F5"),
		CanvasColor:   str("#FFFFFF"),
		TextColor:     str("#262626"),
		FontFamily:    str("MODERN_SANS"),
		ChildrenIDs:   []string{},
	}
}

// EmptyDocument returns a new document holding only the default layout under RootFallbackID
func EmptyDocument() Tree {
	return Tree{RootFallbackID: Block{Data: defaultLayout()}}
}
