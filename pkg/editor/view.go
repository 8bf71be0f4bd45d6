package editor

// MainTab is the tab shown in the template panel
type MainTab string

const (
	MainTabEditor  MainTab = "editor"
	MainTabPreview MainTab = "preview"
	MainTabHTML    MainTab = "html"
	MainTabJSON    MainTab = "json"
)

// DefaultMainTab is used when an unknown tab is requested
const DefaultMainTab = MainTabEditor

func (t MainTab) Valid() bool {
	switch t {
	case MainTabEditor, MainTabPreview, MainTabHTML, MainTabJSON:
		return true
	}
	return false
}

// SidebarTab is the tab shown in the inspector drawer
type SidebarTab string

const (
	SidebarTabStyles             SidebarTab = "styles"
	SidebarTabBlockConfiguration SidebarTab = "block-configuration"
)

const DefaultSidebarTab = SidebarTabStyles

func (t SidebarTab) Valid() bool {
	return t == SidebarTabStyles || t == SidebarTabBlockConfiguration
}

// ScreenSize is the simulated viewport of the preview
type ScreenSize string

const (
	ScreenSizeDesktop ScreenSize = "desktop"
	ScreenSizeMobile  ScreenSize = "mobile"
)

const DefaultScreenSize = ScreenSizeDesktop

func (s ScreenSize) Valid() bool {
	return s == ScreenSizeDesktop || s == ScreenSizeMobile
}
