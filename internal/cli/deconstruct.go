package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhi-wadhwa/bp-flow/internal/flow"
)

var (
	deconRound   string
	deconSpeaker string
	deconApply   bool
	deconTimeout time.Duration
)

// deconstructCmd represents the deconstruct command
var deconstructCmd = &cobra.Command{
	Use:   "deconstruct [file]",
	Short: "Decompose a pasted speech into structured argument points",
	Long: `Deconstruct segments a long speech text into independent argument units,
each with a terse restated claim, mechanisms, impacts, a clash theme, and
refutation links validated against the round.

The speech text is read from the given file, or from stdin when no file is
given. This path requires a configured LLM provider; there is no heuristic
batch fallback — on failure, retry the text through 'bpflow classify'.

Example:
  bpflow deconstruct speech.txt --speaker MG --round round.yaml --llm-model gpt-4o-mini
  pbpaste | bpflow deconstruct --speaker LO --round round.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeconstruct,
}

func init() {
	rootCmd.AddCommand(deconstructCmd)

	deconstructCmd.Flags().StringVar(&deconRound, "round", "", "round YAML file with existing points")
	deconstructCmd.Flags().StringVar(&deconSpeaker, "speaker", "PM", "speaker role (PM, LO, DPM, DLO, MG, MO, GW, OW)")
	deconstructCmd.Flags().BoolVar(&deconApply, "apply", false, "commit the extracted points into the round file")
	deconstructCmd.Flags().DurationVar(&deconTimeout, "timeout", 60*time.Second, "overall timeout")

	deconstructCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	deconstructCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runDeconstruct(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read speech file: %w", err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}
	text := string(raw)

	ctx, cancel := context.WithTimeout(context.Background(), deconTimeout)
	defer cancel()

	speaker, err := resolveSpeaker(deconSpeaker)
	if err != nil {
		return err
	}

	round, err := loadRound(deconRound)
	if err != nil {
		return err
	}

	// Deconstruction always needs the remote path
	llmEnabled = true
	cfg := buildConfig()
	classifier, err := buildClassifier(cfg)
	if err != nil {
		return err
	}

	graph := flow.NewGraph(flow.NewSequentialIDs())
	graph.Load(round.Points)

	if !classifier.ShouldDeconstruct(text) {
		return fmt.Errorf("input too short or no LLM provider configured; use 'bpflow classify' for single points")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Deconstructing %d chars for %s (%s), speech #%d\n",
			len(text), speaker.Role, speaker.Team, speaker.Order)
	}

	points, err := classifier.Deconstruct(ctx, text, speaker.Role, speaker.Team, speaker.Order, graph.Points(), graph.Themes())
	if err != nil {
		return fmt.Errorf("deconstruction failed (retry as single points via 'bpflow classify'): %w", err)
	}

	encoded, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(encoded))

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d points\n", len(points))
	}

	if deconApply {
		if deconRound == "" {
			return fmt.Errorf("--apply requires --round")
		}
		ids := graph.ApplyBatch(flow.Submission{
			Speaker:     speaker.Role,
			Team:        speaker.Team,
			SpeechOrder: speaker.Order,
		}, points)
		round.Points = graph.Points()
		if err := saveRound(deconRound, round); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Committed points %v\n", ids)
		}
	}

	return nil
}
