package render

import (
	"context"
	"fmt"
	"time"

	"github.com/osteele/liquid"
)

const (
	DefaultRenderTimeout   = 5 * time.Second
	DefaultMaxTemplateSize = 512 * 1024
)

// Recipient is the contact a message is personalized for
type Recipient struct {
	Name  string
	Email string
}

// Vars builds the Liquid bindings available to templates
func Vars(logID string, r Recipient, unsubscribeURL string) map[string]interface{} {
	return map[string]interface{}{
		"log_id": logID,
		"contact": map[string]interface{}{
			"email": r.Email,
			"name":  r.Name,
		},
		"unsubscribe_url": unsubscribeURL,
	}
}

// Personalizer renders Liquid with a size cap and a wall-clock timeout, so a
// hostile template cannot stall a send.
type Personalizer struct {
	timeout time.Duration
	maxSize int
	engine  *liquid.Engine
}

func NewPersonalizer() *Personalizer {
	return NewPersonalizerWithOptions(DefaultRenderTimeout, DefaultMaxTemplateSize)
}

func NewPersonalizerWithOptions(timeout time.Duration, maxSize int) *Personalizer {
	return &Personalizer{
		timeout: timeout,
		maxSize: maxSize,
		engine:  liquid.NewEngine(),
	}
}

// Personalize renders content with vars. The context bounds the render along
// with the configured timeout.
func (p *Personalizer) Personalize(ctx context.Context, content string, vars map[string]interface{}) (string, error) {
	if len(content) > p.maxSize {
		return "", fmt.Errorf("template size (%d bytes) exceeds maximum allowed size (%d bytes)", len(content), p.maxSize)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic during liquid rendering: %v", r)}
			}
		}()
		out, err := p.engine.ParseAndRenderString(content, vars)
		if err != nil {
			done <- result{err: fmt.Errorf("liquid rendering failed: %w", err)}
			return
		}
		done <- result{out: out}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("liquid rendering aborted: %w", ctx.Err())
	}
}
