package loader

import (
	"fmt"
	"strings"
)

// Format renders the assembled context as one block: index, preferences,
// recent days, then historical files, in loading order.
func (c *Context) Format() string {
	var b strings.Builder

	if c.Index != nil {
		b.WriteString("# Memory index\n\n")
		b.WriteString(c.Index.Body)
		b.WriteString("\n\n")
	}
	if c.Prefs != nil {
		b.WriteString("# Important personal information\n\n")
		b.WriteString(c.Prefs.Body)
		b.WriteString("\n\n")
	}
	for _, f := range c.Recent {
		fmt.Fprintf(&b, "# Conversations %s\n\n%s\n\n", f.Label, f.Body)
	}
	for _, f := range c.Historical {
		fmt.Fprintf(&b, "# From the archive: %s\n\n%s\n\n", f.Label, f.Body)
	}

	return strings.TrimSpace(b.String())
}

// Stats renders a human-readable summary of what was loaded and what it
// cost.
func (c *Context) Stats() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Context for %s: %d/%d tokens\n", c.User, c.UsedTokens, c.Budget)
	if c.Index != nil {
		fmt.Fprintf(&b, "  index        %6d tokens\n", c.Index.Tokens)
	}
	if c.Prefs != nil {
		fmt.Fprintf(&b, "  preferences  %6d tokens\n", c.Prefs.Tokens)
	}
	for _, f := range c.Recent {
		fmt.Fprintf(&b, "  recent       %6d tokens  %s\n", f.Tokens, f.Label)
	}
	for _, f := range c.Historical {
		fmt.Fprintf(&b, "  historical   %6d tokens  %s\n", f.Tokens, f.Label)
	}

	return b.String()
}
