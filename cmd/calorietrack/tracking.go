package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"calorietrack/internal/domain"

	"github.com/spf13/cobra"
)

func foodsCmd(dev func() *device) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foods",
		Short: "Browse and manage the food catalog",
	}

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search foods by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q string
			if len(args) == 1 {
				q = args[0]
			}
			foods, err := dev().store.SearchFoods(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tKCAL/100G\tP\tC\tF\tCATEGORY")
			for _, f := range foods {
				fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%s\n",
					f.ID, f.Name, f.CaloriesPer100g, f.Protein, f.Carbs, f.Fat, f.Category)
			}
			return tw.Flush()
		},
	}

	var food domain.Food
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a custom food",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := dev().tracker.AddCustomFood(cmd.Context(), food)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s).\n", f.Name, f.ID)
			return nil
		},
	}
	add.Flags().StringVar(&food.Name, "name", "", "food name")
	add.Flags().Float64Var(&food.CaloriesPer100g, "calories", 0, "kcal per 100 g")
	add.Flags().Float64Var(&food.Protein, "protein", 0, "protein g per 100 g")
	add.Flags().Float64Var(&food.Carbs, "carbs", 0, "carbohydrate g per 100 g")
	add.Flags().Float64Var(&food.Fat, "fat", 0, "fat g per 100 g")
	add.Flags().StringVar(&food.Category, "category", "", "category")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("calories")

	del := &cobra.Command{
		Use:   "delete <food-id>",
		Short: "Delete a custom food and every meal logged with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dev().tracker.DeleteFood(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List food categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := dev().store.FoodCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	cmd.AddCommand(search, add, del, categories)
	return cmd
}

func mealsCmd(dev func() *device) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Log, edit and delete meals",
	}

	var mealType string
	add := &cobra.Command{
		Use:   "add <food-id> <grams>",
		Short: "Log a meal eaten now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grams, err := parseGrams(args[1])
			if err != nil {
				return err
			}
			rec, err := dev().tracker.LogMeal(cmd.Context(), args[0], grams, domain.MealType(mealType))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %g g of %s: %g kcal (%s).\n", rec.Amount, rec.FoodName, rec.Calories, rec.ID)
			return nil
		},
	}
	add.Flags().StringVar(&mealType, "type", string(defaultMealType(time.Now())), "breakfast, lunch, dinner or snack")

	edit := &cobra.Command{
		Use:   "edit <meal-id> <grams>",
		Short: "Change the amount of a logged meal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grams, err := parseGrams(args[1])
			if err != nil {
				return err
			}
			rec, err := dev().tracker.EditMealAmount(cmd.Context(), args[0], grams)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated to %g g: %g kcal.\n", rec.Amount, rec.Calories)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <meal-id>",
		Short: "Delete a logged meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dev().tracker.DeleteMeal(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}

	var from, to string
	var remote bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List logged meals, by default the last 30 days on this device",
		Example: "  calorietrack meals list --from 2025-03-01 --to 2025-03-07\n" +
			"  calorietrack meals list --remote",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (from == "") != (to == "") {
				return fmt.Errorf("--from and --to go together")
			}
			for _, d := range []string{from, to} {
				if _, err := time.Parse("2006-01-02", d); d != "" && err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD")
				}
			}

			d := dev()
			ctx := cmd.Context()
			var meals []domain.MealRecord
			if remote {
				u := d.auth.CurrentUser(ctx)
				if u == nil || u.IsGuest {
					return fmt.Errorf("--remote needs an account: sign in first")
				}
				var err error
				if meals, err = d.api.GetMeals(ctx, u.ID, from, to); err != nil {
					return err
				}
			} else {
				var err error
				if meals, err = localMeals(cmd, d, from, to); err != nil {
					return err
				}
			}
			printMeals(cmd.OutOrStdout(), meals)
			return nil
		},
	}
	list.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	list.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	list.Flags().BoolVar(&remote, "remote", false, "list the cloud copy instead of this device")

	cmd.AddCommand(add, edit, del, list)
	return cmd
}

func localMeals(cmd *cobra.Command, d *device, from, to string) ([]domain.MealRecord, error) {
	start := time.Now().AddDate(0, 0, -30)
	var end time.Time
	if from != "" {
		start, _ = time.ParseInLocation("2006-01-02", from, time.Local)
		end, _ = time.ParseInLocation("2006-01-02", to, time.Local)
		end = end.AddDate(0, 0, 1)
	}
	meals, err := d.store.MealRecordsSince(cmd.Context(), start)
	if err != nil || end.IsZero() {
		return meals, err
	}
	out := meals[:0]
	for _, m := range meals {
		if m.Timestamp.Before(end) {
			out = append(out, m)
		}
	}
	return out, nil
}

func printMeals(w io.Writer, meals []domain.MealRecord) {
	if len(meals) == 0 {
		fmt.Fprintln(w, "No meals.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tMEAL\tFOOD\tGRAMS\tKCAL")
	for _, m := range meals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%g\n",
			m.ID, m.Timestamp.Local().Format("2006-01-02 15:04"), m.MealType, m.FoodName, m.Amount, m.Calories)
	}
	_ = tw.Flush()
}

func parseGrams(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "g"), 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}
	return v, nil
}

// defaultMealType picks the meal slot for the hour of t.
func defaultMealType(t time.Time) domain.MealType {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return domain.Breakfast
	case h >= 11 && h < 16:
		return domain.Lunch
	case h >= 17 && h < 22:
		return domain.Dinner
	}
	return domain.Snack
}

func summaryCmd(dev func() *device) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [YYYY-MM-DD]",
		Short: "Show the meals and totals of a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().Format("2006-01-02")
			if len(args) == 1 {
				if _, err := time.Parse("2006-01-02", args[0]); err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD")
				}
				day = args[0]
			}
			sum, err := dev().store.DailySummary(cmd.Context(), day)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}

func printSummary(w io.Writer, sum domain.DailySummary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n\n", sum.Date)
	fmt.Fprintln(tw, "ID\tTIME\tMEAL\tFOOD\tGRAMS\tKCAL")
	for _, m := range sum.Meals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%g\n",
			m.ID, m.Timestamp.Local().Format("15:04"), m.MealType, m.FoodName, m.Amount, m.Calories)
	}
	_ = tw.Flush()

	progress := domain.CalculateCalorieProgress(sum.TotalCalories, sum.GoalCalories)
	fmt.Fprintf(w, "\nTotal %g / %g kcal (%g%%, %s), %g kcal remaining\n",
		sum.TotalCalories, sum.GoalCalories, progress.Percentage, progress.Status, progress.Remaining)

	balance := domain.CalculateMacroBalance(domain.Nutrition{
		Calories: sum.TotalCalories,
		Protein:  sum.TotalProtein,
		Carbs:    sum.TotalCarbs,
		Fat:      sum.TotalFat,
	})
	fmt.Fprintf(w, "Protein %g g (%g%%), carbs %g g (%g%%), fat %g g (%g%%)\n",
		sum.TotalProtein, balance.ProteinPercentage,
		sum.TotalCarbs, balance.CarbsPercentage,
		sum.TotalFat, balance.FatPercentage)
	if len(sum.Meals) > 0 {
		for _, issue := range domain.CheckMacroBalance(balance) {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
}
