package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jrpboutique/loom/internal/engine"
	"github.com/jrpboutique/loom/internal/model"
)

// Prompter implements the interactive review interface over a line-based
// reader/writer pair: a numbered category menu plus skip, accept-suggestion,
// show-stats and quit controls, one single-line response per prompt.
type Prompter struct {
	reader    *NonBlockingReader
	writer    io.Writer
	menuShown bool
}

// NewPrompter creates a prompter with the given reader and writer,
// defaulting to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// ReviewItem presents one item and loops until the reviewer makes a
// terminal decision. Informational choices (suggestion display, item
// stats) re-prompt; everything else returns.
func (p *Prompter) ReviewItem(ctx context.Context, item engine.ReviewItem) (engine.ReviewDecision, error) {
	select {
	case <-ctx.Done():
		return engine.ReviewDecision{}, ctx.Err()
	default:
	}

	if !p.menuShown {
		p.printMenu(item.Categories)
		p.menuShown = true
	}

	fmt.Fprintf(p.writer, "\n%s Processing: %s %s\n",
		ImageIcon, item.Filename, SubtleStyle.Render(fmt.Sprintf("(%d/%d)", item.Position, item.Total)))
	p.printCurrent(item.Current)

	for {
		fmt.Fprint(p.writer, PromptStyle.Render("Enter choice: "))

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			if err == io.EOF {
				return engine.ReviewDecision{Action: engine.ActionQuit}, nil
			}
			return engine.ReviewDecision{}, err
		}

		switch strings.ToLower(line) {
		case "q":
			fmt.Fprintln(p.writer, InfoStyle.Render("Quitting, saving decisions made so far"))
			return engine.ReviewDecision{Action: engine.ActionQuit}, nil
		case "0":
			fmt.Fprintln(p.writer, SubtleStyle.Render("Skipped"))
			return engine.ReviewDecision{Action: engine.ActionSkip}, nil
		case "s":
			p.printItemStats(item)
			continue
		case "r":
			accepted, err := p.offerSuggestion(ctx, item.Suggestion)
			if err != nil {
				return engine.ReviewDecision{}, err
			}
			if accepted {
				return engine.ReviewDecision{Action: engine.ActionAcceptSuggestion}, nil
			}
			continue
		}

		index, err := strconv.Atoi(line)
		if err != nil || index < 1 || index > len(item.Categories) {
			fmt.Fprintln(p.writer, ErrorStyle.Render(ErrorIcon+" Invalid choice"))
			return engine.ReviewDecision{Action: engine.ActionInvalid}, nil
		}

		selected := item.Categories[index-1]
		decision := engine.ReviewDecision{
			Action:      engine.ActionChoose,
			CategoryKey: selected.Key,
		}
		if err := p.promptDetails(ctx, selected, &decision); err != nil {
			return engine.ReviewDecision{}, err
		}

		fmt.Fprintln(p.writer, FormatSuccess("Categorized as: %s", selected.DisplayName))
		return decision, nil
	}
}

func (p *Prompter) printMenu(categories []model.CategorySummary) {
	fmt.Fprintln(p.writer, TitleStyle.Render("Available categories:"))
	for i, cat := range categories {
		fmt.Fprintf(p.writer, "%2d. %s %s\n", i+1, cat.DisplayName, SubtleStyle.Render("("+cat.Key+")"))
	}
	fmt.Fprintln(p.writer, " 0. Skip this image")
	fmt.Fprintln(p.writer, " r. Auto-suggest and review")
	fmt.Fprintln(p.writer, " s. Show image stats")
	fmt.Fprintln(p.writer, " q. Quit and save")
}

func (p *Prompter) printCurrent(current *model.Record) {
	if current == nil {
		return
	}

	name := current.DisplayName
	if name == "" {
		name = current.Category
	}
	confidence := "N/A"
	if !current.Legacy {
		confidence = fmt.Sprintf("%.1f%%", current.Confidence)
	}
	fmt.Fprintf(p.writer, "   Current: %s (Confidence: %s)\n", name, confidence)
	if len(current.Tags) > 0 {
		fmt.Fprintf(p.writer, "   Tags: %s\n", strings.Join(current.Tags, ", "))
	}
}

// offerSuggestion shows the classifier's proposal and asks for a y/n
// acceptance.
func (p *Prompter) offerSuggestion(ctx context.Context, suggestion *model.Record) (bool, error) {
	fmt.Fprintf(p.writer, "\n%s Auto-suggestion:\n", RobotIcon)
	fmt.Fprintf(p.writer, "   Category: %s\n", suggestion.DisplayName)
	fmt.Fprintf(p.writer, "   Confidence: %.1f%%\n", suggestion.Confidence)
	fmt.Fprintf(p.writer, "   Tags: %s\n", strings.Join(suggestion.Tags, ", "))
	fmt.Fprintf(p.writer, "   Seasonal Fit: %s\n", strings.Join(suggestion.SeasonalFit, ", "))
	fmt.Fprintf(p.writer, "   Color Category: %s\n", strings.Join(suggestion.ColorCategory, ", "))

	fmt.Fprint(p.writer, PromptStyle.Render("Accept this suggestion? (y/n): "))
	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}

	if strings.EqualFold(line, "y") {
		fmt.Fprintln(p.writer, FormatSuccess("Auto-suggestion accepted"))
		return true, nil
	}
	return false, nil
}

func (p *Prompter) printItemStats(item engine.ReviewItem) {
	fmt.Fprintf(p.writer, "\n%s Stats for %s:\n", ChartIcon, item.Filename)

	meta := item.Metadata
	if len(meta.Colors) > 0 {
		fmt.Fprintf(p.writer, "   Colors: %s\n", strings.Join(meta.Colors, ", "))
	}
	if meta.EstimatedPrice > 0 {
		fmt.Fprintf(p.writer, "   Estimated price: %d\n", meta.EstimatedPrice)
	}
	if meta.Size != "" {
		fmt.Fprintf(p.writer, "   Size: %s\n", meta.Size)
	}
	if meta.Tier != "" {
		fmt.Fprintf(p.writer, "   Tier: %s\n", meta.Tier)
	}

	if item.Current != nil {
		name := item.Current.DisplayName
		if name == "" {
			name = item.Current.Category
		}
		fmt.Fprintf(p.writer, "   Current categorization: %s\n", name)
	}
	if len(item.Related) > 0 {
		fmt.Fprintf(p.writer, "   Related categories: %s\n", strings.Join(item.Related, ", "))
	}
}

// promptDetails collects the optional manual-entry extensions: a custom
// price range and additional tags.
func (p *Prompter) promptDetails(ctx context.Context, selected model.CategorySummary, decision *engine.ReviewDecision) error {
	fmt.Fprint(p.writer, PromptStyle.Render(
		fmt.Sprintf("Price range (default: %d-%d): ", selected.PriceRange.Min, selected.PriceRange.Max)))
	priceLine, err := p.reader.ReadLine(ctx)
	if err != nil && err != io.EOF {
		return err
	}
	if r := parsePriceRange(priceLine); r != nil {
		decision.CustomPriceRange = r
	}

	fmt.Fprint(p.writer, PromptStyle.Render("Additional tags (comma-separated): "))
	tagsLine, err := p.reader.ReadLine(ctx)
	if err != nil && err != io.EOF {
		return err
	}
	decision.AdditionalTags = parseTags(tagsLine)

	return nil
}

// parsePriceRange parses "min-max"; anything else yields nil.
func parsePriceRange(input string) *model.PriceRange {
	parts := strings.SplitN(strings.TrimSpace(input), "-", 2)
	if len(parts) != 2 {
		return nil
	}
	minPrice, errMin := strconv.Atoi(strings.TrimSpace(parts[0]))
	maxPrice, errMax := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errMin != nil || errMax != nil || minPrice <= 0 || maxPrice <= 0 {
		return nil
	}
	return &model.PriceRange{Min: minPrice, Max: maxPrice}
}

func parseTags(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
