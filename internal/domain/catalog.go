package domain

// DefaultFoods is the seeded food catalog shared by the remote API and new
// devices. Ids are fixed so meal records refer to the same food everywhere.
func DefaultFoods() []Food {
	return []Food{
		{ID: "food-001", Name: "White rice (cooked)", CaloriesPer100g: 168, Protein: 2.5, Carbs: 37.1, Fat: 0.3, Category: "staple"},
		{ID: "food-002", Name: "Chicken breast (skinless)", CaloriesPer100g: 108, Protein: 22.3, Carbs: 0, Fat: 1.5, Category: "protein"},
		{ID: "food-003", Name: "Apple", CaloriesPer100g: 54, Protein: 0.2, Carbs: 14.6, Fat: 0.1, Category: "fruit"},
		{ID: "food-004", Name: "Broccoli", CaloriesPer100g: 33, Protein: 4.3, Carbs: 5.2, Fat: 0.5, Category: "vegetable"},
		{ID: "food-005", Name: "Salmon (sashimi)", CaloriesPer100g: 139, Protein: 20.1, Carbs: 0.1, Fat: 6.2, Category: "protein"},
		{ID: "food-006", Name: "Egg (whole)", CaloriesPer100g: 151, Protein: 12.3, Carbs: 0.3, Fat: 10.3, Category: "protein"},
		{ID: "food-007", Name: "Banana", CaloriesPer100g: 86, Protein: 1.1, Carbs: 22.5, Fat: 0.2, Category: "fruit"},
		{ID: "food-008", Name: "Almonds", CaloriesPer100g: 598, Protein: 18.6, Carbs: 19.7, Fat: 54.2, Category: "nuts"},
		{ID: "food-009", Name: "Yogurt (plain)", CaloriesPer100g: 62, Protein: 3.6, Carbs: 4.9, Fat: 3.0, Category: "dairy"},
		{ID: "food-010", Name: "Soba (boiled)", CaloriesPer100g: 132, Protein: 4.8, Carbs: 26.0, Fat: 1.0, Category: "staple"},
		{ID: "food-011", Name: "Sweet potato", CaloriesPer100g: 134, Protein: 1.2, Carbs: 31.9, Fat: 0.2, Category: "vegetable"},
		{ID: "food-012", Name: "Tofu (firm)", CaloriesPer100g: 72, Protein: 6.6, Carbs: 1.6, Fat: 4.2, Category: "protein"},
		{ID: "food-013", Name: "Spinach", CaloriesPer100g: 20, Protein: 2.2, Carbs: 3.1, Fat: 0.4, Category: "vegetable"},
		{ID: "food-014", Name: "Milk", CaloriesPer100g: 67, Protein: 3.3, Carbs: 4.8, Fat: 3.8, Category: "dairy"},
		{ID: "food-015", Name: "Oatmeal", CaloriesPer100g: 380, Protein: 13.7, Carbs: 69.1, Fat: 5.7, Category: "staple"},
	}
}

// DefaultCategory is assigned to foods created without a category.
const DefaultCategory = "other"
