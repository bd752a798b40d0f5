package seed

// sampleVariation is a priced option in minor units.
type sampleVariation struct {
	name  string
	cents int64
}

type sampleItem struct {
	name        string
	description string
	variations  []sampleVariation
}

type sampleCategory struct {
	name  string
	items []sampleItem
}

// sampleMenu is the café menu written by Seed.
var sampleMenu = []sampleCategory{
	{
		name: "Coffee",
		items: []sampleItem{
			{"Espresso", "A bold, concentrated shot of rich Italian-style coffee.", []sampleVariation{{"Single", 350}, {"Double", 450}}},
			{"Cappuccino", "Espresso topped with velvety steamed milk foam. A classic morning pick-me-up.", []sampleVariation{{"Small", 450}, {"Large", 550}}},
			{"Cold Brew", "Slow-steeped for 18 hours, smooth and naturally sweet with low acidity.", []sampleVariation{{"Regular", 500}, {"Large", 600}}},
			{"Oat Milk Latte", "Creamy oat milk and espresso, lightly sweetened with vanilla.", []sampleVariation{{"Regular", 575}}},
		},
	},
	{
		name: "Pastries",
		items: []sampleItem{
			{"Butter Croissant", "Flaky, golden layers of French-style pastry made with real butter.", []sampleVariation{{"Regular", 395}}},
			{"Blueberry Muffin", "Moist, fluffy muffin packed with fresh blueberries and a crumble topping.", []sampleVariation{{"Regular", 375}}},
			{"Chocolate Babka", "Swirled chocolate brioche, baked to perfection. Rich and decadent.", []sampleVariation{{"Slice", 495}}},
		},
	},
	{
		name: "Sandwiches",
		items: []sampleItem{
			{"Turkey Avocado Club", "Smoked turkey, avocado, bacon, lettuce, and tomato on sourdough.", []sampleVariation{{"Half", 850}, {"Whole", 1250}}},
			{"Caprese Panini", "Fresh mozzarella, tomato, basil, and balsamic glaze on ciabatta.", []sampleVariation{{"Regular", 1095}}},
		},
	},
	{
		name: "Smoothies",
		items: []sampleItem{
			{"Tropical Mango", "Mango, pineapple, banana, and coconut milk blended until smooth.", []sampleVariation{{"Small", 650}, {"Large", 850}}},
			{"Berry Blast", "Strawberries, blueberries, raspberries, Greek yogurt, and honey.", []sampleVariation{{"Small", 700}, {"Large", 900}}},
			{"Green Detox", "Spinach, kale, apple, ginger, and lemon. Fresh and energizing.", []sampleVariation{{"Regular", 750}}},
		},
	},
}
