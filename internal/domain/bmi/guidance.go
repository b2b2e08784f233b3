package bmi

// Category is a BMI band.
type Category string

// BMI bands.
const (
	Underweight Category = "Underweight"
	Normal      Category = "Normal Weight"
	Overweight  Category = "Overweight"
	Obese       Category = "Obese"
)

// Colour tokens of the dashboard theme.
const (
	ColorUnderweight = "#64b5f6"
	ColorSuccess     = "var(--success)"
	ColorWarning     = "var(--warning)"
	ColorDanger      = "var(--danger)"
)

// Guidance is the static advice attached to a category.
type Guidance struct {
	Color         string   `json:"color"`
	PrintColor    string   `json:"print_color"`
	Description   string   `json:"description"`
	CalorieTarget string   `json:"calorie_target"`
	Macros        string   `json:"macros"`
	Tips          []string `json:"tips"`
	MealPlan      []string `json:"meal_plan,omitempty"`
}

var guidanceTable = map[Category]Guidance{
	Underweight: {
		Color:         ColorUnderweight,
		PrintColor:    ColorUnderweight,
		Description:   "Your BMI is below the healthy range. Focus on gaining healthy weight.",
		CalorieTarget: "Calorie surplus of 300–500 kcal/day above maintenance",
		Macros:        "Protein: 1.6–2.2g/kg | Carbs: 4–6g/kg | Fats: 0.8–1g/kg",
		Tips: []string{
			"Eat 5–6 smaller meals throughout the day",
			"Include calorie-dense foods: nuts, avocado, dairy",
			"Strength training to build muscle mass",
			"Track your intake to ensure adequate calories",
		},
	},
	Normal: {
		Color:         ColorSuccess,
		PrintColor:    "#00b359",
		Description:   "Great work! Your BMI is in the healthy range.",
		CalorieTarget: "Maintain current calorie intake (~1800–2400 kcal/day)",
		Macros:        "Protein: 1.2–1.6g/kg | Carbs: 3–5g/kg | Fats: 0.5–0.8g/kg",
		Tips: []string{
			"Maintain regular exercise: 150 min/week",
			"Eat a balanced, varied diet",
			"Stay well hydrated throughout the day",
			"Prioritise sleep and recovery",
		},
	},
	Overweight: {
		Color:         ColorWarning,
		PrintColor:    "#ff9500",
		Description:   "Your BMI is above the healthy range. A moderate deficit can help.",
		CalorieTarget: "Calorie deficit of 300–500 kcal/day (~1400–1800 kcal/day)",
		Macros:        "Protein: 1.6–2g/kg | Carbs: 2–3g/kg | Fats: 0.4–0.6g/kg",
		Tips: []string{
			"Create a moderate caloric deficit",
			"Increase activity to 200+ min/week",
			"Focus on whole foods, reduce processed items",
			"Practice portion control",
		},
	},
	Obese: {
		Color:         ColorDanger,
		PrintColor:    "#ff3864",
		Description:   "Consult a healthcare professional for a personalised plan.",
		CalorieTarget: "Calorie deficit of 500–750 kcal/day (medical supervision recommended)",
		Macros:        "Protein: 2–2.5g/kg | Carbs: 1.5–2.5g/kg | Fats: 0.3–0.5g/kg",
		Tips: []string{
			"Consult a doctor or dietitian",
			"Start with low-impact exercises (walking, swimming)",
			"Set small, achievable weekly goals",
			"Monitor health markers regularly",
		},
	},
}

var mealPlans = map[Category][]string{
	Underweight: {
		"Breakfast: oats cooked in whole milk with banana and peanut butter",
		"Snack: handful of almonds and a glass of lassi",
		"Lunch: rice, dal, paneer curry and a side of curd",
		"Snack: whole-grain toast with avocado and eggs",
		"Dinner: chicken or chickpea curry with rotis and vegetables",
	},
	Normal: {
		"Breakfast: vegetable omelette or poha with sprouts",
		"Lunch: two rotis, dal, seasonal sabzi and salad",
		"Snack: fruit with a small portion of nuts",
		"Dinner: grilled fish or tofu with brown rice and greens",
	},
	Overweight: {
		"Breakfast: moong dal chilla with mint chutney",
		"Lunch: one roti, dal, large salad and buttermilk",
		"Snack: roasted chana or a piece of fruit",
		"Dinner: grilled chicken or paneer tikka with sautéed vegetables",
	},
	Obese: {
		"Breakfast: vegetable upma with a boiled egg or curd",
		"Lunch: small portion of millet, dal and a large bowl of vegetables",
		"Snack: cucumber and carrot sticks with hummus",
		"Dinner: clear soup with lean protein and steamed vegetables",
	},
}

// GuidanceFor returns the static guidance of a category, with the meal plan
// when requested. Slices are copies.
func GuidanceFor(c Category, withMealPlan bool) Guidance {
	g := guidanceTable[c]
	g.Tips = append([]string(nil), g.Tips...)
	if withMealPlan {
		g.MealPlan = append([]string(nil), mealPlans[c]...)
	}
	return g
}

// Categories lists the bands from lowest to highest.
func Categories() []Category {
	return []Category{Underweight, Normal, Overweight, Obese}
}
