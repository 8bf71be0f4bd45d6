package render

import (
	"fmt"
	"regexp"
	"strings"
)

// openTrackerPath marks HTML that already carries an open tracker
const openTrackerPath = "/track/open/"

var (
	bodyCloseRegex = regexp.MustCompile(`(?i)(</body>)`)
	bodyOpenRegex  = regexp.MustCompile(`(?i)<body[\s>]`)
)

// OpenTrackingPixel returns the 1x1 image pointing at trackerBaseURL. The log
// id stays a Liquid expression until Personalize runs.
func OpenTrackingPixel(trackerBaseURL string) string {
	base := strings.TrimRight(trackerBaseURL, "/")
	return fmt.Sprintf(`<img src="%s%s{{ log_id }}" width="1" height="1" alt="" style="display:block;border:0;" />`, base, openTrackerPath)
}

// FinalHTML prepares rendered HTML for sending. Fragments without a body are
// wrapped in a document, and the open tracker is appended to the body when a
// tracker URL is configured and none is present yet.
func FinalHTML(html string, trackerBaseURL string) string {
	if !bodyOpenRegex.MatchString(html) {
		html = "<!DOCTYPE html><html><body>" + html + "</body></html>"
	}

	if trackerBaseURL == "" || strings.Contains(html, openTrackerPath) {
		return html
	}

	pixel := OpenTrackingPixel(trackerBaseURL)
	if loc := bodyCloseRegex.FindAllStringIndex(html, -1); len(loc) > 0 {
		last := loc[len(loc)-1]
		return html[:last[0]] + pixel + html[last[0]:]
	}
	return html + pixel
}
