package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tourforge/tourforge"
	"github.com/tourforge/tourforge/internal/adapters/file"
	"github.com/tourforge/tourforge/internal/tui"
	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/flow"
)

var playCmd = &cobra.Command{
	Use:   "play <export.json>",
	Short: "Walk a tree export interactively in the terminal",
	Long: `Plays an exported decision tree in the terminal: each step renders as
markdown, questions prompt for input, and conditional nodes route on the
answers. Type "back" at any prompt to return to the previous step.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		export, err := file.LoadExport(args[0])
		if err != nil {
			fmt.Printf("Error loading export: %v\n", err)
			os.Exit(1)
		}
		if err := play(export); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func play(export *domain.TreeExport) error {
	graph := &domain.Graph{Nodes: export.Nodes, Edges: export.Edges}
	engine := tourforge.New(graph)

	if result := engine.Validate(); !result.IsValid {
		for _, msg := range result.Errors {
			fmt.Println(tui.Warn("error: " + msg))
		}
		return fmt.Errorf("tree is not playable")
	}

	nav := engine.Navigator()
	sess := domain.NewTourSession("local", export.Metadata.ID, "local")
	if err := nav.Start(sess); err != nil {
		return err
	}

	tui.Banner(tourforge.Version)
	render := tui.NewRenderer()
	input := bufio.NewScanner(os.Stdin)

	for {
		showStep(graph, sess.CurrentStepID, render)

		goBack, err := askQuestions(graph, sess, input)
		if err != nil {
			return err
		}
		if goBack {
			if _, ok := nav.Previous(sess); !ok {
				fmt.Println(tui.Dim("Already at the first step."))
			}
			continue
		}

		result := nav.Next(sess)
		switch result.Status {
		case flow.Advanced:
			// Loop renders the new step.
		case flow.Blocked:
			fmt.Println(tui.Warn("No route matches your answers yet. Adjust them to continue."))
		case flow.Complete:
			fmt.Printf("\nTour complete. Visited %d steps (%d%%).\n", len(sess.StepPath), sess.Progress)
			return nil
		}
	}
}

func showStep(graph *domain.Graph, stepID string, render func(string) (string, error)) {
	node := graph.Node(stepID)
	if node == nil {
		return
	}
	data, err := node.StepData()
	if err != nil {
		fmt.Println(tui.Warn("step has malformed data: " + stepID))
		return
	}

	md := "# " + data.Title
	if data.Description != "" {
		md += "\n\n" + data.Description
	}
	out, err := render(md)
	if err != nil {
		out = md + "\n"
	}
	fmt.Print(out)
}

// askQuestions prompts for every question reachable from the current step:
// the step's own inline questions plus attached question nodes. Returns
// true when the user typed "back".
func askQuestions(graph *domain.Graph, sess *domain.TourSession, input *bufio.Scanner) (bool, error) {
	questions := collectQuestions(graph, sess.CurrentStepID)

	for _, q := range questions {
		if q.QuestionID == "" {
			continue
		}
		label := q.Label
		if label == "" {
			label = q.QuestionID
		}
		if len(q.Options) > 0 {
			fmt.Println(tui.Dim("  options: " + strings.Join(q.Options, ", ")))
		}
		fmt.Print(tui.Prompt(label))

		if !input.Scan() {
			return false, input.Err()
		}
		text := strings.TrimSpace(input.Text())
		if strings.EqualFold(text, "back") {
			return true, nil
		}
		if text == "" {
			continue
		}

		if q.Type == "multiselect" {
			parts := strings.Split(text, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			sess.Answers[q.QuestionID] = domain.ListAnswer(parts...)
		} else {
			sess.Answers[q.QuestionID] = domain.ScalarAnswer(text)
		}
	}
	return false, nil
}

func collectQuestions(graph *domain.Graph, stepID string) []domain.QuestionData {
	var questions []domain.QuestionData

	if node := graph.Node(stepID); node != nil {
		if data, err := node.StepData(); err == nil {
			questions = append(questions, data.Questions...)
		}
	}
	for _, edge := range graph.Outgoing(stepID) {
		target := graph.Node(edge.Target)
		if target == nil || target.Kind != domain.KindQuestion {
			continue
		}
		if data, err := target.QuestionData(); err == nil {
			questions = append(questions, data)
		}
	}
	return questions
}
