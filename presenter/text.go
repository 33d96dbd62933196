package presenter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tbxark/offerwizard/offer"
)

var ErrMalformedCopyText = errors.New("malformed offer text")

const (
	titlePrefix       = "Title: "
	descriptionMarker = "\n\nDescription: "
	stepsMarker       = "\n\nRedemption Steps:\n"
)

// CopyText renders an offer as plain text for the clipboard. The stand is
// not part of the text.
func CopyText(o offer.Option) string {
	var sb strings.Builder
	sb.WriteString(titlePrefix)
	sb.WriteString(o.Title)
	sb.WriteString(descriptionMarker)
	sb.WriteString(o.Description)
	sb.WriteString(stepsMarker)
	for i, step := range o.RedemptionSteps {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, step))
	}
	return sb.String()
}

// ParseCopyText reads back the output of CopyText. Titles must not contain
// the description marker and steps must be single lines.
func ParseCopyText(text string) (offer.Option, error) {
	var o offer.Option
	if !strings.HasPrefix(text, titlePrefix) {
		return o, fmt.Errorf("%w: missing title", ErrMalformedCopyText)
	}
	rest := strings.TrimPrefix(text, titlePrefix)

	title, rest, ok := strings.Cut(rest, descriptionMarker)
	if !ok {
		return o, fmt.Errorf("%w: missing description", ErrMalformedCopyText)
	}
	idx := strings.LastIndex(rest, stepsMarker)
	if idx < 0 {
		return o, fmt.Errorf("%w: missing redemption steps", ErrMalformedCopyText)
	}
	o.Title = title
	o.Description = rest[:idx]

	body := rest[idx+len(stepsMarker):]
	if body == "" {
		return o, nil
	}
	for i, line := range strings.Split(body, "\n") {
		number, step, ok := strings.Cut(line, ". ")
		if !ok || number != strconv.Itoa(i+1) {
			return o, fmt.Errorf("%w: bad step line %q", ErrMalformedCopyText, line)
		}
		o.RedemptionSteps = append(o.RedemptionSteps, step)
	}
	return o, nil
}
