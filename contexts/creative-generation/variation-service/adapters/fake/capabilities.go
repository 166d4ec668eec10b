package fake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"
)

// ErrInjected is returned by operations armed to fail.
var ErrInjected = errors.New("injected capability failure")

// Capabilities returns deterministic content without calling a model. It
// runs the local runtime when no API key is configured and lets tests arm
// failures per strategy.
type Capabilities struct {
	mu            sync.Mutex
	textFailures  map[entities.Strategy]error
	imageFailures map[entities.Strategy]error
	calls         []string
}

func NewCapabilities() *Capabilities {
	return &Capabilities{
		textFailures:  make(map[entities.Strategy]error),
		imageFailures: make(map[entities.Strategy]error),
	}
}

func (c *Capabilities) FailText(strategy entities.Strategy, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.textFailures[strategy] = orInjected(err)
}

func (c *Capabilities) FailImage(strategy entities.Strategy, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageFailures[strategy] = orInjected(err)
}

// Calls lists operations in invocation order as "op:strategy".
func (c *Capabilities) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *Capabilities) GenerateText(_ context.Context, request ports.TextRequest) (ports.TextCopy, error) {
	if err := c.record("text", request.Strategy, c.textFailures); err != nil {
		return ports.TextCopy{}, err
	}
	return ports.TextCopy{
		Headline: fmt.Sprintf("%s: %s", request.Strategy.Label(), request.Asset.Name),
		Body:     fmt.Sprintf("Discover %s today.", request.Asset.Name),
	}, nil
}

func (c *Capabilities) GenerateImage(_ context.Context, request ports.ImageRequest) (string, error) {
	if !request.Strategy.ProducesImage() {
		return "", domainerrors.ErrTextOnlyHasNoImage
	}
	if err := c.record("image", request.Strategy, c.imageFailures); err != nil {
		return "", err
	}
	return fmt.Sprintf("memory://%s/variations/%s-image.png", request.WorkspaceID, request.VariationID), nil
}

func (c *Capabilities) EditImage(_ context.Context, request ports.ImageRequest) (string, error) {
	if !request.Strategy.ProducesImage() {
		return "", domainerrors.ErrTextOnlyHasNoImage
	}
	if err := c.record("edit", request.Strategy, c.imageFailures); err != nil {
		return "", err
	}
	return fmt.Sprintf("memory://%s/variations/%s-edit.png", request.WorkspaceID, request.VariationID), nil
}

func (c *Capabilities) record(op string, strategy entities.Strategy, failures map[entities.Strategy]error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, op+":"+string(strategy))
	return failures[strategy]
}

func orInjected(err error) error {
	if err == nil {
		return ErrInjected
	}
	return err
}
