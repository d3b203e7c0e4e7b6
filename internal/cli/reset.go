package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stagecraft-app/stagecraft/internal/daemon"
)

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all unlock records, claims, and celebrations",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetForce {
		fmt.Print("This wipes all progression data. Continue? [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Achievements.Reset(); err != nil {
		return err
	}
	fmt.Println("Profile reset.")
	return nil
}
