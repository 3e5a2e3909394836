package templates

import "github.com/shopspring/decimal"

func veg() *bool    { v := true; return &v }
func nonVeg() *bool { v := false; return &v }

func nu(amount int64) decimal.Decimal { return decimal.NewFromInt(amount) }

var library = []CategoryTemplate{
	{
		ID:          "starters",
		Name:        "Starters",
		Description: "Small plates to open the meal",
		Icon:        IconUtensils,
		Items: []ItemTemplate{
			{ID: "starters-chilli-chips", Name: "Chilli Chips", Description: "Crispy potato tossed with green chilli and onion", DefaultPrice: nu(150), IsVegetarian: veg()},
			{ID: "starters-paneer-pakora", Name: "Paneer Pakora", Description: "Cottage cheese fritters in gram flour batter", DefaultPrice: nu(220), IsVegetarian: veg()},
			{ID: "starters-chicken-lollipop", Name: "Chicken Lollipop", Description: "Frenched wings fried with spiced coating", DefaultPrice: nu(280), IsVegetarian: nonVeg()},
			{ID: "starters-spring-rolls", Name: "Spring Rolls", Description: "Vegetable rolls with sweet chilli dip", DefaultPrice: nu(180), IsVegetarian: veg()},
		},
	},
	{
		ID:          "bhutanese-cuisine",
		Name:        "Bhutanese Cuisine",
		Description: "Traditional dishes from across Bhutan",
		Icon:        IconFlame,
		Items: []ItemTemplate{
			{ID: "bhutanese-ema-datshi", Name: "Ema Datshi", Description: "Chillies stewed in local cheese", DefaultPrice: nu(200), IsVegetarian: veg()},
			{ID: "bhutanese-kewa-datshi", Name: "Kewa Datshi", Description: "Potatoes cooked with cheese and chilli", DefaultPrice: nu(180), IsVegetarian: veg()},
			{ID: "bhutanese-shakam-paa", Name: "Shakam Paa", Description: "Dried beef with radish and chilli", DefaultPrice: nu(320), IsVegetarian: nonVeg()},
			{ID: "bhutanese-phaksha-paa", Name: "Phaksha Paa", Description: "Pork with red chilli and radish", DefaultPrice: nu(300), IsVegetarian: nonVeg()},
			{ID: "bhutanese-red-rice", Name: "Red Rice", Description: "Steamed Bhutanese red rice", DefaultPrice: nu(60), IsVegetarian: veg()},
		},
	},
	{
		ID:          "momos",
		Name:        "Momos",
		Description: "Steamed and fried dumplings",
		Icon:        IconDumpling,
		Items: []ItemTemplate{
			{ID: "momos-veg", Name: "Veg Momo", Description: "Cabbage and cheese filling", DefaultPrice: nu(120), IsVegetarian: veg()},
			{ID: "momos-chicken", Name: "Chicken Momo", Description: "Minced chicken with ginger and coriander", DefaultPrice: nu(150), IsVegetarian: nonVeg()},
			{ID: "momos-beef", Name: "Beef Momo", Description: "Juicy minced beef filling", DefaultPrice: nu(160), IsVegetarian: nonVeg()},
			{ID: "momos-fried", Name: "Fried Momo", Description: "Pan fried dumplings with chilli sauce", DefaultPrice: nu(170)},
		},
	},
	{
		ID:          "noodles-rice",
		Name:        "Noodles & Rice",
		Description: "Wok tossed noodles and rice plates",
		Icon:        IconBowl,
		Items: []ItemTemplate{
			{ID: "noodles-thukpa", Name: "Thukpa", Description: "Hand pulled noodle soup", DefaultPrice: nu(180)},
			{ID: "noodles-chowmein", Name: "Chowmein", Description: "Stir fried noodles with vegetables", DefaultPrice: nu(160), IsVegetarian: veg()},
			{ID: "noodles-fried-rice", Name: "Fried Rice", Description: "Egg fried rice with spring onion", DefaultPrice: nu(170), IsVegetarian: nonVeg()},
		},
	},
	{
		ID:          "soups",
		Name:        "Soups",
		Description: "Warm bowls for cold valleys",
		Icon:        IconSoup,
		Items: []ItemTemplate{
			{ID: "soups-sweet-corn", Name: "Sweet Corn Soup", Description: "Creamy corn and vegetable soup", DefaultPrice: nu(130), IsVegetarian: veg()},
			{ID: "soups-hot-sour", Name: "Hot & Sour Soup", Description: "Peppery broth with tofu and mushroom", DefaultPrice: nu(140)},
			{ID: "soups-jaju", Name: "Jaju", Description: "Milk and spinach soup", DefaultPrice: nu(120), IsVegetarian: veg()},
		},
	},
	{
		ID:          "beverages",
		Name:        "Beverages",
		Description: "Tea, coffee and cold drinks",
		Icon:        IconCup,
		Items: []ItemTemplate{
			{ID: "beverages-suja", Name: "Suja", Description: "Butter tea", DefaultPrice: nu(60), IsVegetarian: veg()},
			{ID: "beverages-milk-tea", Name: "Milk Tea", Description: "Sweet tea brewed with milk", DefaultPrice: nu(50), IsVegetarian: veg()},
			{ID: "beverages-coffee", Name: "Coffee", Description: "Fresh brewed coffee", DefaultPrice: nu(90), IsVegetarian: veg()},
			{ID: "beverages-soft-drink", Name: "Soft Drink", Description: "Chilled bottled soda", DefaultPrice: nu(60), IsVegetarian: veg()},
		},
	},
	{
		ID:          "desserts",
		Name:        "Desserts",
		Description: "Something sweet to finish",
		Icon:        IconCake,
		Items: []ItemTemplate{
			{ID: "desserts-gulab-jamun", Name: "Gulab Jamun", Description: "Milk dumplings in syrup", DefaultPrice: nu(100), IsVegetarian: veg()},
			{ID: "desserts-ice-cream", Name: "Ice Cream", Description: "Two scoops, ask for flavours", DefaultPrice: nu(120), IsVegetarian: veg()},
		},
	},
	{
		ID:          "breakfast",
		Name:        "Breakfast",
		Description: "Served until late morning",
		Icon:        IconSun,
		Items: []ItemTemplate{
			{ID: "breakfast-puri-sabji", Name: "Puri Sabji", Description: "Fried bread with potato curry", DefaultPrice: nu(140), IsVegetarian: veg()},
			{ID: "breakfast-egg-toast", Name: "Egg & Toast", Description: "Two eggs any style with toast", DefaultPrice: nu(150), IsVegetarian: nonVeg()},
			{ID: "breakfast-pancakes", Name: "Pancakes", Description: "Buckwheat pancakes with honey", DefaultPrice: nu(160)},
		},
	},
}
