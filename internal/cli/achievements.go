package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stagecraft-app/stagecraft/internal/daemon"
	"github.com/stagecraft-app/stagecraft/internal/domain"
)

func init() {
	achievementsCmd.Flags().BoolVar(&achievementsAll, "all", false, "Include locked achievements")
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsAll bool

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "List achievements and their unlock state",
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	unlocked := make(map[string]domain.UnlockRecord)
	for _, rec := range d.Achievements.Records() {
		unlocked[rec.AchievementID] = rec
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPOINTS\tUNLOCKED")
	for _, def := range d.Achievements.Catalog() {
		rec, ok := unlocked[def.ID]
		if !ok && !achievementsAll {
			continue
		}
		when := "-"
		if ok {
			when = rec.UnlockedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\t%s\n",
			def.ID, def.Icon, def.Name, def.Category, def.Points, when)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(unlocked) == 0 && !achievementsAll {
		fmt.Println("No achievements unlocked yet. Use --all to see the catalog.")
	}
	return nil
}
