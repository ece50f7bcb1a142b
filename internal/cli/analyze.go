package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhi-wadhwa/bp-flow/internal/flow"
)

var analyzeRound string

// droppedCmd represents the dropped command
var droppedCmd = &cobra.Command{
	Use:   "dropped",
	Short: "List arguments the opposing bench never answered",
	Long: `Dropped reports the substantive points that nobody on the opposing bench
responded to, even though that bench spoke again after the point was made.
Points the opponent never had a later speech to answer are not counted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		round, err := loadRound(analyzeRound)
		if err != nil {
			return err
		}

		dropped := flow.ComputeDroppedIDs(round.Points)
		if len(dropped) == 0 {
			fmt.Println("No dropped arguments.")
			return nil
		}

		ids := make([]string, 0, len(dropped))
		for id := range dropped {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, _ := strconv.Atoi(ids[i])
			b, _ := strconv.Atoi(ids[j])
			return a < b
		})

		for _, id := range ids {
			for i := range round.Points {
				if p := &round.Points[i]; p.ID == id {
					fmt.Printf("[%s] %s (%s): %s\n", p.ID, p.Speaker, p.Team, p.DisplayClaim())
				}
			}
		}
		return nil
	},
}

// clashesCmd represents the clashes command
var clashesCmd = &cobra.Command{
	Use:   "clashes",
	Short: "Summarize the round grouped by clash theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		round, err := loadRound(analyzeRound)
		if err != nil {
			return err
		}

		graph := flow.NewGraph(flow.NewSequentialIDs())
		graph.Load(round.Points)

		for _, clash := range graph.ClashSummary() {
			label := clash.Theme
			if label == "" {
				label = "(unthemed)"
			}
			fmt.Printf("%s\n", label)
			for i := range clash.Points {
				p := &clash.Points[i]
				marker := " "
				if p.RespondsTo != "" {
					marker = "↳"
				}
				fmt.Printf("  %s [%s] %s (%s): %s\n", marker, p.ID, p.Speaker, p.Team, p.DisplayClaim())
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(droppedCmd)
	rootCmd.AddCommand(clashesCmd)

	droppedCmd.Flags().StringVar(&analyzeRound, "round", "", "round YAML file with existing points")
	_ = droppedCmd.MarkFlagRequired("round")
	clashesCmd.Flags().StringVar(&analyzeRound, "round", "", "round YAML file with existing points")
	_ = clashesCmd.MarkFlagRequired("round")
}
