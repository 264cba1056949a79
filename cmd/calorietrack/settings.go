package main

import (
	"fmt"

	"calorietrack/internal/domain"

	"github.com/spf13/cobra"
)

func settingsCmd(dev func() *device) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change body data and the calorie goal",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := dev().store.UserSettings(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Daily goal:     %g kcal\n", st.DailyCalorieGoal)
			fmt.Fprintf(out, "Weight:         %g kg (%.1f lb)\n", st.Weight, domain.ConvertWeight(st.Weight, "kg", "lb"))
			fmt.Fprintf(out, "Height:         %g cm (%.1f in)\n", st.Height, domain.ConvertHeight(st.Height, "cm", "in"))
			fmt.Fprintf(out, "Age:            %d\n", st.Age)
			fmt.Fprintf(out, "Gender:         %s\n", st.Gender)
			fmt.Fprintf(out, "Activity level: %s\n", st.ActivityLevel)
			return nil
		},
	}

	var (
		goal           float64
		weight, height string
		age            int
		gender, level  string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change some settings",
		Example: "  calorietrack settings set --weight 154lb --height 170cm\n" +
			"  calorietrack settings set --goal 1800 --activity active",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var u domain.SettingsUpdate
			flags := cmd.Flags()
			if flags.Changed("goal") {
				u.DailyCalorieGoal = &goal
			}
			if flags.Changed("weight") {
				kg, err := domain.ParseWeight(weight)
				if err != nil {
					return err
				}
				u.Weight = &kg
			}
			if flags.Changed("height") {
				cm, err := domain.ParseHeight(height)
				if err != nil {
					return err
				}
				u.Height = &cm
			}
			if flags.Changed("age") {
				u.Age = &age
			}
			if flags.Changed("gender") {
				g := domain.Gender(gender)
				u.Gender = &g
			}
			if flags.Changed("activity") {
				l := domain.ActivityLevel(level)
				u.ActivityLevel = &l
			}
			if u.Empty() {
				return fmt.Errorf("nothing to change")
			}
			if err := dev().tracker.SaveSettings(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
			return nil
		},
	}
	set.Flags().Float64Var(&goal, "goal", 0, "daily calorie goal in kcal")
	set.Flags().StringVar(&weight, "weight", "", "body weight, e.g. 70kg or 154lb")
	set.Flags().StringVar(&height, "height", "", "height, e.g. 170cm or 67in")
	set.Flags().IntVar(&age, "age", 0, "age in years")
	set.Flags().StringVar(&gender, "gender", "", "male or female")
	set.Flags().StringVar(&level, "activity", "", "sedentary, light, moderate, active or very_active")

	cmd.AddCommand(show, set)
	return cmd
}

func planCmd(dev func() *device) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Estimate energy needs from the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := dev().store.UserSettings(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "BMR:         %.0f kcal\n", domain.BMR(st))
			fmt.Fprintf(out, "TDEE:        %.0f kcal (%s, x%g)\n", domain.TDEE(st), st.ActivityLevel, domain.ActivityMultiplier(st.ActivityLevel))
			fmt.Fprintf(out, "Recommended: %.0f kcal\n", domain.RecommendedCalories(st))
			fmt.Fprintf(out, "Protein:     %g g/kg, %.0f g a day\n",
				domain.RecommendedProteinPerKg(st.ActivityLevel),
				domain.RecommendedProteinPerKg(st.ActivityLevel)*st.Weight)

			r := domain.RecommendedMacroDistribution()
			fmt.Fprintf(out, "Macros:      protein %g%%, carbs %g%%, fat %g%%\n",
				r.ProteinPercentage, r.CarbsPercentage, r.FatPercentage)
			return nil
		},
	}
}

func syncCmd(dev func() *device) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy data between this device and the cloud",
	}

	push := &cobra.Command{
		Use:   "push",
		Short: "Upload settings and the last 30 days of meals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := dev().sync.SyncToCloud(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed settings and %d meals (%d failed).\n", res.MealsSynced, res.MealsFailed)
			return nil
		},
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Replace local data with the last 30 days from the cloud",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := dev()
			if u := d.auth.CurrentUser(cmd.Context()); u == nil || u.IsGuest {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to pull: not signed in to an account.")
				return nil
			}
			res, err := d.sync.SyncFromCloud(cmd.Context())
			if err != nil {
				return err
			}
			settings := "kept defaults"
			if res.SettingsSynced {
				settings = "restored"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings %s, %d meals restored (%d failed).\n", settings, res.MealsSynced, res.MealsFailed)
			return nil
		},
	}

	auto := &cobra.Command{
		Use:   "auto",
		Short: "Push in the background, ignoring failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dev().sync.AutoSync(cmd.Context())
			return nil
		},
	}

	cmd.AddCommand(push, pull, auto)
	return cmd
}
