package tracker

import (
	"context"
	"slices"
	"strings"

	"portfolio/api/models"
)

// Element is the part of a rendered element the click tracker inspects.
type Element struct {
	Tag  string
	ID   string
	Text string
	Href string
	// Data holds data-* attributes without the prefix.
	Data map[string]string
	// OnClick is set when the element has its own click handler.
	OnClick bool
	Parent  *Element
}

// Closest returns the nearest element with tag, starting at e itself.
func (e *Element) Closest(tag string) *Element {
	for cur := e; cur != nil; cur = cur.Parent {
		if strings.EqualFold(cur.Tag, tag) {
			return cur
		}
	}
	return nil
}

func (e *Element) text() string {
	return strings.TrimSpace(e.Text)
}

// Click is a classified click target.
type Click struct {
	ElementType string
	ElementID   string
	ElementText string
	TargetURL   string
}

var interactiveTypes = []string{"link", "button", "clickable"}

// Classify derives the element type, id, text and link target of a click.
func Classify(target *Element) Click {
	c := Click{
		ElementType: strings.ToLower(target.Tag),
		ElementID:   target.ID,
		ElementText: target.text(),
	}

	switch {
	case c.ElementType == "a":
		c.ElementType = "link"
		c.TargetURL = target.Href
	case c.ElementType == "button":
	case target.OnClick || target.Data["clickable"] != "":
		c.ElementType = "clickable"
	default:
		if button := target.Closest("button"); button != nil {
			c.ElementType = "button"
			c.ElementID = firstNonEmpty(button.ID, c.ElementID)
			c.ElementText = firstNonEmpty(button.text(), c.ElementText)
		} else if link := target.Closest("a"); link != nil {
			c.ElementType = "link"
			c.ElementID = firstNonEmpty(link.ID, c.ElementID)
			c.ElementText = firstNonEmpty(link.text(), c.ElementText)
			c.TargetURL = link.Href
		}
	}
	return c
}

// Meaningful reports whether a click on target is worth sending.
func Meaningful(target *Element, c Click) bool {
	return slices.Contains(interactiveTypes, c.ElementType) || c.ElementID != "" || target.Data["track"] != ""
}

// HandleClick classifies a click at (x, y) and forwards it when
// meaningful. It reports whether the click was forwarded.
func (t *Tracker) HandleClick(ctx context.Context, target *Element, x, y int) bool {
	if target == nil {
		return false
	}
	c := Classify(target)
	if !Meaningful(target, c) {
		return false
	}
	return t.sendClick(ctx, c, &x, &y)
}

// TrackEvent sends a manually described click without coordinates.
func (t *Tracker) TrackEvent(ctx context.Context, elementType, elementID, elementText, targetURL string) bool {
	return t.sendClick(ctx, Click{
		ElementType: elementType,
		ElementID:   elementID,
		ElementText: elementText,
		TargetURL:   targetURL,
	}, nil, nil)
}

func (t *Tracker) sendClick(ctx context.Context, c Click, x, y *int) bool {
	page := t.CurrentPath()
	if page == "" {
		return false
	}
	ok := t.collector.TrackClick(ctx, models.ClickRequest{
		SessionID:   t.SessionID(),
		Page:        page,
		ElementType: c.ElementType,
		ElementID:   c.ElementID,
		ElementText: c.ElementText,
		TargetURL:   c.TargetURL,
		X:           x,
		Y:           y,
	})
	if !ok {
		t.logger.Debug().Str("element_type", c.ElementType).Msg("click not recorded")
	}
	return true
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
