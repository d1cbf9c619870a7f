package engine

import (
	"context"

	"github.com/jrpboutique/loom/internal/model"
)

// ReviewAction is the outcome of a single review prompt.
type ReviewAction int

const (
	// ActionChoose assigns the category the reviewer picked from the menu.
	ActionChoose ReviewAction = iota
	// ActionAcceptSuggestion accepts the classifier's proposal.
	ActionAcceptSuggestion
	// ActionSkip leaves the item untouched and moves on.
	ActionSkip
	// ActionInvalid reports unusable input; the item is left unresolved.
	ActionInvalid
	// ActionQuit ends the session, flushing all decisions made so far.
	ActionQuit
)

// ReviewItem carries everything a prompter needs to present one item.
type ReviewItem struct {
	Filename   string
	Current    *model.Record // nil when the item was never categorized
	Suggestion *model.Record
	Metadata   model.Metadata
	Related    []string
	Categories []model.CategorySummary
	Position   int
	Total      int
}

// ReviewDecision is the reviewer's answer for one item.
type ReviewDecision struct {
	CategoryKey      string // set for ActionChoose
	AdditionalTags   []string
	CustomPriceRange *model.PriceRange
	Action           ReviewAction
}

// Prompter supplies the human decision for each item under review. The
// prompter owns the interaction loop for an item (menus, suggestion
// display, per-item stats) and returns a terminal decision.
type Prompter interface {
	ReviewItem(ctx context.Context, item ReviewItem) (ReviewDecision, error)
}
