package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stagecraft-app/stagecraft/internal/app/progression"
	"github.com/stagecraft-app/stagecraft/internal/daemon"
)

const stageBarWidth = 30

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current stage, score, and streak",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	info, err := d.Achievements.Progress()
	if err != nil {
		return err
	}

	fmt.Printf("Stage %d — %s\n", info.Stage, info.Title)
	fmt.Printf("  Score: %d points\n", info.Score)

	filled := info.ProgressPercent * stageBarWidth / 100
	if filled > stageBarWidth {
		filled = stageBarWidth
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(".", stageBarWidth-filled)
	if info.Stage < progression.MaxStage() {
		fmt.Printf("  [%s] %d%% — %d points to stage %d\n",
			bar, info.ProgressPercent, info.PointsToNext, info.Stage+1)
	} else {
		fmt.Printf("  [%s] max stage reached\n", bar)
	}

	st, err := d.Streaks.Current()
	if err != nil {
		return err
	}
	fmt.Printf("  Streak: %d days (longest %d)\n", st.CurrentDays, st.LongestDays)
	return nil
}
