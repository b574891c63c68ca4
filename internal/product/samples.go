package product

type sample struct {
	name, description, category, imageURL string
	price                                 float64
	stock                                 int
}

var samples = []sample{
	{"Wildflower Honey", "Pure, raw wildflower honey harvested from local wildflower meadows. Rich, complex flavor with floral notes.", "Raw Honey", "https://images.unsplash.com/photo-1587049352846-4a222e784d38?w=500", 12.99, 50},
	{"Manuka Honey", "Premium Manuka honey from New Zealand with MGO 400+. Known for its unique health properties.", "Premium Honey", "https://images.unsplash.com/photo-1599940824399-b87987ceb72a?w=500", 49.99, 25},
	{"Acacia Honey", "Light, delicate acacia honey. Stays liquid longer and has a mild, sweet taste.", "Raw Honey", "https://images.unsplash.com/photo-1558642891-54be180ea339?w=500", 15.99, 40},
	{"Buckwheat Honey", "Dark, robust buckwheat honey with a strong, malty flavor. High in antioxidants.", "Raw Honey", "https://images.unsplash.com/photo-1471943038103-4d0cb4c1f29e?w=500", 13.99, 30},
	{"Honeycomb", "Pure honeycomb straight from the hive. Edible wax filled with raw honey.", "Specialty", "https://images.unsplash.com/photo-1600671708877-379f7ca534f5?w=500", 24.99, 15},
	{"Creamed Honey", "Smooth, spreadable creamed honey. Perfect for toast and baking.", "Processed Honey", "https://images.unsplash.com/photo-1587049633312-d628ae50a8ae?w=500", 11.99, 60},
	{"Orange Blossom Honey", "Citrus-scented honey from orange groves. Light color with a fresh, fruity taste.", "Raw Honey", "https://images.unsplash.com/photo-1568486447706-98e1ba40c4f5?w=500", 14.99, 35},
	{"Honey Gift Set", "Curated selection of 4 different honey varieties in 8oz jars. Perfect gift!", "Gift Sets", "https://images.unsplash.com/photo-1607024875535-c8dd6fda9cd9?w=500", 39.99, 20},
}

// SampleProducts возвращает новую копию демонстрационного каталога.
func SampleProducts() []Product {
	products := make([]Product, 0, len(samples))
	for _, s := range samples {
		description, category, imageURL := s.description, s.category, s.imageURL
		products = append(products, Product{
			Name:        s.name,
			Description: &description,
			Price:       s.price,
			Stock:       s.stock,
			ImageURL:    &imageURL,
			Category:    &category,
		})
	}
	return products
}
