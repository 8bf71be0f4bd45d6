package render

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/cache"
)

// Renderer renders documents to HTML and memoizes the result by content, so
// rendering an unchanged tree twice costs one compilation.
type Renderer struct {
	cache cache.Cache[string]
	ttl   time.Duration
}

// NewRenderer caches results for ttl. A nil cache disables memoization.
func NewRenderer(c cache.Cache[string], ttl time.Duration) *Renderer {
	return &Renderer{cache: c, ttl: ttl}
}

// HTML renders the subtree under rootID
func (r *Renderer) HTML(ctx context.Context, tree blocktree.Tree, rootID string) (string, error) {
	if r.cache == nil {
		return ToHTML(ctx, tree, rootID)
	}
	key, err := Key(tree, rootID)
	if err != nil {
		return "", err
	}
	return r.cache.GetOrSet(key, r.ttl, func() (string, error) {
		return ToHTML(ctx, tree, rootID)
	})
}

// Key fingerprints a tree and a root. Map keys marshal in sorted order, so
// equal trees give equal keys.
func Key(tree blocktree.Tree, rootID string) (string, error) {
	raw, err := json.Marshal(tree)
	if err != nil {
		return "", err
	}
	h := xxhash.New()
	_, _ = h.WriteString(rootID)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(raw)
	return "render:" + strconv.FormatUint(h.Sum64(), 16), nil
}
