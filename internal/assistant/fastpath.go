package assistant

import (
	"context"

	"github.com/greenbasket/greenbasket/internal/domain"
	"github.com/greenbasket/greenbasket/internal/tools"
)

// fastPathEntry maps one canned user phrasing to a pre-selected tool
// call. Lookup is exact-match only: any whitespace or case variation is
// a miss, never a fuzzy hit.
type fastPathEntry struct {
	tool string
	args map[string]any
}

var fastPathTable = map[string]fastPathEntry{
	"Show me eco-friendly products": {tool: "getMostSustainableProducts", args: map[string]any{"limit": float64(5)}},
	"What's in my cart?":            {tool: "viewMyCart"},
	"Show me my orders":             {tool: "getMyOrders", args: map[string]any{"limit": float64(5)}},
	"Show me the leaderboard":       {tool: "getPointsLeaderboard", args: map[string]any{"limit": float64(5)}},
	"What events are coming up?":    {tool: "getUpcomingEvents", args: map[string]any{"limit": float64(5)}},
	"How does Greenbasket work?":    {tool: "getGeneralInfo"},
	"Take me to my cart":            {tool: "navigation", args: map[string]any{"page": "cart"}},
}

// tryFastPath answers well-known queries without a model round-trip.
// Any error along the way (authorization, executor failure) is treated
// as a miss so the model loop can answer the same question
// generatively.
func (e *Engine) tryFastPath(ctx context.Context, message string, session domain.SessionContext) (string, bool) {
	entry, ok := fastPathTable[message]
	if !ok {
		return "", false
	}

	// Pure templates never touch the executor.
	switch entry.tool {
	case "getGeneralInfo":
		return tools.GeneralInfo(), true
	case "navigation":
		page, _ := entry.args["page"].(string)
		return tools.NavigationHint(page), true
	}

	if err := tools.Authorize(entry.tool, session); err != nil {
		e.log.Debug().Str("tool", entry.tool).Err(err).Msg("fast path not authorized, falling through")
		return "", false
	}

	result, err := e.executor.Execute(ctx, entry.tool, entry.args, session)
	if err != nil {
		e.log.Debug().Str("tool", entry.tool).Err(err).Msg("fast path failed, falling through")
		return "", false
	}

	e.log.Info().Str("tool", entry.tool).Msg("fast path hit")
	return formatResult(entry.tool, result), true
}
