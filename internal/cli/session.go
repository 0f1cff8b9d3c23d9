// Package cli implements the interactive session shell: startup checks
// against the Ollama server, template and model selection, the turn loop, and
// the save-on-interrupt guarantee.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"expertree/internal/author"
	"expertree/internal/config"
	"expertree/internal/tui"
	"expertree/pkg/domain"
	"expertree/pkg/flow"
	"expertree/pkg/ollama"
	"expertree/pkg/store"
)

// Options selects what the session runs against.
type Options struct {
	// Path is an explicit document to load. Empty means pick a template
	// interactively from the templates directory.
	Path string
	// Resume keeps the history found in the file instead of starting fresh.
	Resume bool
	// Model overrides interactive model selection.
	Model string
}

// Session is one interactive conversation: a flow engine over one document,
// an inference client, and the terminal. Single-goroutine state; input is
// pumped through a channel only so interrupts can cut a blocking read.
type Session struct {
	cfg    config.Config
	store  *store.Store
	client *ollama.Client
	styles tui.Styles
	render func(string) (string, error)
	out    io.Writer
	logger *slog.Logger

	lines chan string

	engine *flow.Engine
	model  string
}

// NewSession wires a session from config and terminal streams.
func NewSession(cfg config.Config, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	colors := tui.ColorsEnabled(cfg.NoColor)
	s := &Session{
		cfg:   cfg,
		store: store.New(),
		client: ollama.New(cfg.Host,
			ollama.WithRetries(cfg.Retries),
			ollama.WithLogger(logger),
		),
		styles: tui.NewStyles(out, colors),
		render: tui.NewRenderer(colors),
		out:    out,
		logger: logger,
		lines:  make(chan string),
	}

	reader := bufio.NewReader(in)
	go func() {
		defer close(s.lines)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				s.lines <- strings.TrimSpace(line)
			}
			if err != nil {
				return
			}
		}
	}()

	return s
}

// Run drives the whole session. Startup precondition failures return errors
// (the command maps them to a non-zero exit); a cancelled context or an EOF
// on stdin saves history and exits gracefully.
func (s *Session) Run(ctx context.Context, opts Options) error {
	version, err := s.client.Version(ctx)
	if err != nil {
		fmt.Fprintln(s.out, s.styles.Error.Render("Could not connect to Ollama at "+s.client.Host()))
		fmt.Fprintln(s.out, "Make sure Ollama is installed and running. See https://ollama.ai/ for instructions.")
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	fmt.Fprintln(s.out, s.styles.Success.Render(fmt.Sprintf("Ollama is running (version: %s)", version)))

	models, err := s.client.Models(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	if len(models) == 0 {
		fmt.Fprintln(s.out, s.styles.Error.Render("No models found. Pull one first, e.g.: ollama pull gemma3"))
		return errors.New("no models available")
	}

	doc, err := s.pickDocument(ctx, opts)
	if err != nil {
		return err
	}

	if err := s.pickModel(ctx, opts, doc, models); err != nil {
		return err
	}

	s.engine = flow.New(doc)

	fmt.Fprintln(s.out, s.styles.System.Render(
		fmt.Sprintf("\nLoaded decision tree for expert type: %s", doc.Metadata.ExpertType)))
	fmt.Fprintln(s.out, s.styles.System.Render(fmt.Sprintf("Using model: %s", s.model)))

	return s.loop(ctx)
}

// pickDocument loads the requested file, or lets the user choose a template.
func (s *Session) pickDocument(ctx context.Context, opts Options) (*domain.Document, error) {
	if opts.Path != "" {
		if opts.Resume {
			return s.store.Load(opts.Path)
		}
		return s.store.LoadTemplate(opts.Path)
	}

	names := s.store.ListCandidates(s.cfg.TemplatesDir, ".json")
	if len(names) == 0 {
		fmt.Fprintln(s.out, s.styles.Error.Render(
			fmt.Sprintf("No templates found in %s. Create one with 'expertree new'.", s.cfg.TemplatesDir)))
		return nil, errors.New("no templates found")
	}

	idx, err := s.askChoice(ctx, "Select a decision tree template", names, -1)
	if err != nil {
		return nil, err
	}
	return s.store.LoadTemplate(filepath.Join(s.cfg.TemplatesDir, names[idx]))
}

// pickModel resolves the model: flag, config, then interactive selection with
// the catalog recommendation as default.
func (s *Session) pickModel(ctx context.Context, opts Options, doc *domain.Document, models []string) error {
	preset := opts.Model
	if preset == "" {
		preset = s.cfg.Model
	}
	if preset != "" {
		for _, name := range models {
			if name == preset {
				s.model = preset
				return nil
			}
		}
		fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf("Model %q is not available.", preset)))
	}

	recommended := author.ModelFor(doc.Metadata.ExpertType, models)
	defaultIdx := 0
	items := make([]string, len(models))
	for i, name := range models {
		items[i] = name
		if name == recommended {
			items[i] += " (default)"
			defaultIdx = i
		}
	}

	idx, err := s.askChoice(ctx, "Available models", items, defaultIdx)
	if err != nil {
		return err
	}
	s.model = models[idx]
	return nil
}

// loop runs turns until exit, interrupt, EOF, or a fatal navigation error.
// Every abnormal way out attempts a save first.
func (s *Session) loop(ctx context.Context) error {
	for {
		node, err := s.engine.CurrentNode()
		if err != nil {
			// Dangling pointer is fatal: report, keep the audit trail, stop.
			fmt.Fprintln(s.out, s.styles.Error.Render(
				fmt.Sprintf("Error: node %q not found in the decision tree.", s.engine.CurrentNodeID())))
			s.save()
			return err
		}

		s.displayQuestion(node)

		input, err := s.readLine(ctx)
		if err != nil {
			return s.finish(err)
		}

		outcome, err := s.engine.ProcessTurn(input)
		if err != nil {
			s.save()
			return err
		}

		switch outcome.Kind {
		case flow.OutcomeCommand:
			if done := s.runCommand(outcome.Command); done {
				return nil
			}

		case flow.OutcomeStalled:
			fmt.Fprintln(s.out, s.styles.System.Render(
				"I'm not sure how to proceed with that response. Let's try a different approach."))

		case flow.OutcomeAdvanced:
			if outcome.NeedsReply {
				s.reply(ctx, node, input)
			}
		}
	}
}

// finish handles the non-command loop exits: interrupt signal or stdin EOF.
func (s *Session) finish(cause error) error {
	switch {
	case errors.Is(cause, context.Canceled):
		fmt.Fprintln(s.out, s.styles.System.Render("\nInterrupted. Saving conversation..."))
	case errors.Is(cause, io.EOF):
		fmt.Fprintln(s.out)
	default:
		fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf("An error occurred: %v", cause)))
	}
	s.save()
	fmt.Fprintln(s.out, s.styles.System.Render("Goodbye!"))
	if errors.Is(cause, context.Canceled) || errors.Is(cause, io.EOF) {
		return nil
	}
	return cause
}

// runCommand dispatches a reserved token. Returns true when the session ends.
func (s *Session) runCommand(cmd flow.Command) bool {
	switch cmd {
	case flow.CommandExit:
		s.save()
		fmt.Fprintln(s.out, s.styles.System.Render("\nThank you for using expertree. Goodbye!"))
		return true

	case flow.CommandSave:
		s.save()

	case flow.CommandHelp:
		s.printHelp()

	case flow.CommandBack:
		if s.engine.GoBack().Kind == flow.OutcomeMoved {
			fmt.Fprintln(s.out, s.styles.System.Render("\nGoing back to the previous question."))
		} else {
			fmt.Fprintln(s.out, s.styles.System.Render("\nCannot go back any further."))
		}
	}
	return false
}

// reply asks the model for an expert response to a free-text turn. The client
// degrades instead of failing, so this never aborts the session.
func (s *Session) reply(ctx context.Context, node *domain.Node, input string) {
	doc := s.engine.Document()
	prompt := flow.BuildPrompt(doc.Metadata.ExpertType, s.engine.History(), node, input)

	fmt.Fprintln(s.out, s.styles.System.Render("\nProcessing your response..."))

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
	defer cancel()
	text := s.client.Generate(callCtx, prompt, s.model)

	rendered, err := s.render(text)
	if err != nil {
		s.logger.Warn("markdown render failed", "err", err)
		rendered = text
	}
	fmt.Fprintf(s.out, "\n%s %s\n", s.styles.Expert.Render("Expert:"), rendered)
}

// save writes the current history next to prior saves; each save gets a fresh
// timestamped name. Failures are reported but never abort the caller.
func (s *Session) save() {
	doc := s.engine.Document()
	path, err := s.store.Save(doc, s.engine.History(), s.cfg.HistoryDir, doc.Metadata.ExpertType, time.Now())
	if err != nil {
		s.logger.Error("save failed", "err", err)
		fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf("Failed to save conversation: %v", err)))
		return
	}
	fmt.Fprintln(s.out, s.styles.Success.Render(fmt.Sprintf("\nConversation saved to %s", path)))
}

func (s *Session) displayQuestion(node *domain.Node) {
	fmt.Fprintf(s.out, "\n%s\n", s.styles.Question.Render(node.Question))

	if node.IsMultipleChoice() {
		fmt.Fprintln(s.out, s.styles.System.Render("\nOptions:"))
		for _, opt := range node.Options {
			fmt.Fprintf(s.out, "%s %s\n",
				s.styles.OptionID.Render(opt.OptionID+"."),
				s.styles.OptionText.Render(opt.Text))
		}
		fmt.Fprintln(s.out, s.styles.System.Render("\nType a number to select an option, or type your own response."))
		fmt.Fprintln(s.out, s.styles.System.Render("Type 'help' to see available commands."))
	}

	fmt.Fprint(s.out, "\nYou: ")
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, s.styles.Help.Render("\nAvailable commands:"))
	fmt.Fprintln(s.out, s.styles.Help.Render("  help  - Show this help message"))
	fmt.Fprintln(s.out, s.styles.Help.Render("  save  - Save the conversation"))
	fmt.Fprintln(s.out, s.styles.Help.Render("  exit  - Save and exit the conversation"))
	fmt.Fprintln(s.out, s.styles.Help.Render("  back  - Go back to the previous question (if possible)"))
}

// askChoice shows a numbered menu and returns the chosen index. defaultIdx of
// -1 means a choice is mandatory; otherwise Enter accepts the default.
func (s *Session) askChoice(ctx context.Context, title string, items []string, defaultIdx int) (int, error) {
	fmt.Fprintf(s.out, "\n%s\n", s.styles.Header.Render(title))
	fmt.Fprintln(s.out, s.styles.Header.Render(strings.Repeat("=", len(title))))
	for i, item := range items {
		fmt.Fprintf(s.out, "%s %s\n", s.styles.OptionID.Render(fmt.Sprintf("%d.", i+1)), item)
	}

	for {
		if defaultIdx >= 0 {
			fmt.Fprintf(s.out, "\nEnter your choice (1-%d, or press Enter for default): ", len(items))
		} else {
			fmt.Fprintf(s.out, "\nEnter your choice (1-%d): ", len(items))
		}

		input, err := s.readLine(ctx)
		if err != nil {
			return 0, err
		}
		if input == "" && defaultIdx >= 0 {
			return defaultIdx, nil
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(items) {
			fmt.Fprintf(s.out, "Please enter a number between 1 and %d\n", len(items))
			continue
		}
		return n - 1, nil
	}
}

// readLine waits for a line or context cancellation, whichever comes first.
func (s *Session) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", context.Canceled
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}
