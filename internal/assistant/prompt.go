package assistant

import (
	"fmt"
	"strings"
	"time"
)

// buildSystemPrompt assembles the system message from the context
// bundle. Tool schemas are not inlined here; they travel in the
// request's tools field.
func buildSystemPrompt(bundle *ContextBundle) string {
	var b strings.Builder

	b.WriteString("You are the Greenbasket assistant. Answer questions about the ")
	b.WriteString("platform, products, orders, recycling and events. Use the ")
	b.WriteString("available tools to look up live data instead of guessing.\n\n")

	fmt.Fprintf(&b, "Current date: %s\n\n", time.Now().Format("2006-01-02"))

	b.WriteString("About the platform:\n")
	b.WriteString(bundle.General)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Platform right now: %s\n", bundle.Snapshot)

	if bundle.Page != nil {
		fmt.Fprintf(&b, "The user is currently viewing: %s", bundle.Page.Type)
		if bundle.Page.ID != "" {
			fmt.Fprintf(&b, " (id %s)", bundle.Page.ID)
		}
		b.WriteString("\n")
	}

	if bundle.Account != "" {
		fmt.Fprintf(&b, "Account: %s\n", bundle.Account)
	} else {
		b.WriteString("The user is not signed in. Tools that act on an account will be refused; suggest signing in instead.\n")
	}

	b.WriteString("\nGuidelines:\n")
	b.WriteString("- Keep answers short and concrete.\n")
	b.WriteString("- Prices are stored in cents; present them as currency.\n")
	b.WriteString("- If a tool reports an authorization error, explain the restriction rather than retrying.\n")

	return b.String()
}
