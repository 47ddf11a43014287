package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the learner profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the learner profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.engine.Profile(cmd.Context(), userFlag(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if p == nil {
			fmt.Fprintln(out, "No profile yet. Run `lexicon profile set`.")
			return nil
		}
		fmt.Fprintf(out, "User:        %d\n", p.UserID)
		fmt.Fprintf(out, "Level:       %s (target %s, desired %s)\n", orDash(p.CurrentLevel.String()), orDash(p.TargetLevel.String()), orDash(p.DesiredLevel.String()))
		fmt.Fprintf(out, "Categories:  %s\n", joinInts(p.Categories))
		fmt.Fprintf(out, "Daily:       %d min\n", p.DailyMinutes)
		if p.Region != "" {
			fmt.Fprintf(out, "Region:      %s\n", p.Region)
		}
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the learner profile and build a fresh study set",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		p := &profile.Profile{UserID: userFlag(cmd)}

		var err error
		for flag, dst := range map[string]*catalog.Level{
			"level":   &p.CurrentLevel,
			"target":  &p.TargetLevel,
			"desired": &p.DesiredLevel,
		} {
			v, _ := flags.GetString(flag)
			if *dst, err = catalog.ParseLevel(v); err != nil {
				return fmt.Errorf("--%s: %w", flag, err)
			}
		}
		cats, _ := flags.GetIntSlice("categories")
		p.Categories = cats
		p.DailyMinutes, _ = flags.GetInt("minutes")
		p.LearningSpeed, _ = flags.GetFloat64("speed")
		p.Region, _ = flags.GetString("region")
		p.Public, _ = flags.GetBool("public")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := a.engine.UpdateProfile(cmd.Context(), p)
		if err != nil {
			return userFacing(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
		printStudySet(cmd.OutOrStdout(), set)
		return nil
	},
}

func init() {
	f := profileSetCmd.Flags()
	f.String("level", "", "Current CEFR level (A1..C2)")
	f.String("target", "", "Target CEFR level")
	f.String("desired", "", "Desired CEFR level")
	f.IntSlice("categories", nil, "Interest category ids")
	f.Int("minutes", 0, "Daily study minutes")
	f.Float64("speed", 0, "Learning speed")
	f.String("region", "", "Region")
	f.Bool("public", false, "Make the profile public")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "-"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
