package render

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	mjmlgo "github.com/Boostport/mjml-go"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
)

// UnsubscribeURLPlaceholder is the Liquid expression unsubscribe buttons link
// to. It is resolved per recipient by Personalize.
const UnsubscribeURLPlaceholder = "{{ unsubscribe_url }}"

// ToHTML renders the subtree under rootID to an HTML email. Tree errors keep
// their blocktree kind; compiler failures are reported as ErrUnavailable.
func ToHTML(ctx context.Context, tree blocktree.Tree, rootID string) (string, error) {
	mjml, err := ToMJML(tree, rootID)
	if err != nil {
		return "", err
	}
	return CompileMJML(ctx, mjml)
}

// CompileMJML turns MJML markup into HTML
func CompileMJML(ctx context.Context, mjml string) (string, error) {
	html, err := mjmlgo.ToHTML(ctx, mjml)
	if err != nil {
		return "", fmt.Errorf("%w: mjml compilation failed: %v", blocktree.ErrUnavailable, err)
	}
	return decodeHTMLEntitiesInURLAttributes(html), nil
}

var urlAttrRegex = regexp.MustCompile(`((?:href|src|action)=["'])([^"']+)(["'])`)

// decodeHTMLEntitiesInURLAttributes undoes the &amp; escaping the compiler
// applies to URL attributes, which would otherwise break query strings.
func decodeHTMLEntitiesInURLAttributes(html string) string {
	return urlAttrRegex.ReplaceAllStringFunc(html, func(match string) string {
		parts := urlAttrRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		decoded := parts[2]
		decoded = strings.ReplaceAll(decoded, "&amp;", "&")
		decoded = strings.ReplaceAll(decoded, "&quot;", "\"")
		decoded = strings.ReplaceAll(decoded, "&#39;", "'")
		decoded = strings.ReplaceAll(decoded, "&lt;", "<")
		decoded = strings.ReplaceAll(decoded, "&gt;", ">")
		return parts[1] + decoded + parts[3]
	})
}
