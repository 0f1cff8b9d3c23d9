package author

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"expertree/pkg/domain"
)

// Wizard builds a custom selection tree from interactive terminal input.
type Wizard struct {
	in  *bufio.Reader
	out io.Writer
	now func() time.Time
}

// NewWizard creates a wizard reading from r and prompting on w.
func NewWizard(r io.Reader, w io.Writer) *Wizard {
	return &Wizard{in: bufio.NewReader(r), out: w, now: time.Now}
}

// Run walks the user through categories and expert types and returns the
// assembled document. The output has the same shape as BuildCatalogTemplate.
func (wz *Wizard) Run() (*domain.Document, error) {
	fmt.Fprintln(wz.out, "\nCreating a custom decision tree")
	fmt.Fprintln(wz.out, "===============================")

	numCategories, err := wz.askCount("\nHow many main categories do you want? ")
	if err != nil {
		return nil, err
	}

	var categories []Category
	for i := 0; i < numCategories; i++ {
		name, err := wz.askLine(fmt.Sprintf("\nName for category %d: ", i+1))
		if err != nil {
			return nil, err
		}

		numExperts, err := wz.askCount(fmt.Sprintf("How many expert types in %s? ", name))
		if err != nil {
			return nil, err
		}

		category := Category{Name: name}
		for j := 0; j < numExperts; j++ {
			expert, err := wz.askLine(fmt.Sprintf("  Name for expert %d in %s: ", j+1, name))
			if err != nil {
				return nil, err
			}
			category.Experts = append(category.Experts, expert)
		}
		categories = append(categories, category)
	}

	return buildSelectionTree(categories, "Custom Expert Selection", wz.now()), nil
}

func (wz *Wizard) askLine(prompt string) (string, error) {
	for {
		fmt.Fprint(wz.out, prompt)
		line, err := wz.in.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		fmt.Fprintln(wz.out, "Please enter a value")
	}
}

func (wz *Wizard) askCount(prompt string) (int, error) {
	for {
		line, err := wz.askLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n <= 0 {
			fmt.Fprintln(wz.out, "Please enter a positive number")
			continue
		}
		return n, nil
	}
}

// buildSelectionTree shares the catalog template's structure for arbitrary
// category sets.
func buildSelectionTree(categories []Category, title string, now time.Time) *domain.Document {
	doc := &domain.Document{
		Metadata: domain.Metadata{
			Title:      title,
			Version:    templateVersion,
			CreatedAt:  now.Format(time.RFC3339),
			ExpertType: "General Knowledge",
			Author:     "expertree",
		},
		ConversationHistory: []domain.HistoryEntry{},
	}

	root := domain.Node{
		NodeID:       domain.RootNodeID,
		Question:     "Select an Expert Category",
		QuestionType: domain.QuestionMultipleChoice,
	}

	for i, category := range categories {
		categoryID := "category_" + slug(category.Name)
		root.Options = append(root.Options, domain.Option{
			OptionID: fmt.Sprintf("%d", i+1),
			Text:     category.Name,
			NextNode: categoryID,
		})

		categoryNode := domain.Node{
			NodeID:       categoryID,
			Question:     fmt.Sprintf("Select a %s Expert", category.Name),
			QuestionType: domain.QuestionMultipleChoice,
		}
		for j, expert := range category.Experts {
			leafID := "expert_" + slug(expert)
			categoryNode.Options = append(categoryNode.Options, domain.Option{
				OptionID: fmt.Sprintf("%d", j+1),
				Text:     expert,
				NextNode: leafID,
			})
			doc.ConversationFlow = append(doc.ConversationFlow, domain.Node{
				NodeID:          leafID,
				Question:        fmt.Sprintf("You're now chatting with the %s expert. What would you like to know?", expert),
				QuestionType:    domain.QuestionOpen,
				DefaultNextNode: leafID,
			})
		}
		doc.ConversationFlow = append(doc.ConversationFlow, categoryNode)
	}

	doc.ConversationFlow = append([]domain.Node{root}, doc.ConversationFlow...)
	return doc
}
