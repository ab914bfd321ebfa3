package catalog

import "github.com/example/instrument-shop/internal/domain/product"

// DefaultProducts is the storefront's built-in inventory.
func DefaultProducts() []product.Product {
	return []product.Product{
		{
			ID:            "1",
			Name:          "CD-60S Dreadnought Acoustic Guitar",
			Brand:         "Fender",
			Price:         16499,
			OriginalPrice: 18999,
			Rating:        4.8,
			Reviews:       1240,
			Image:         "https://picsum.photos/seed/guitar1/600/600",
			Category:      "Acoustic Guitars",
			IsTopSeller:   true,
			Description:   "The CD-60S is one of our most popular models and is ideal for players looking for a high-quality affordable dreadnought with great tone and excellent playability.",
			Specs: []product.Spec{
				{Name: "Body Material", Value: "Solid Spruce Top with Mahogany Back and Sides"},
				{Name: "Neck Finish", Value: "Gloss"},
				{Name: "Scale Length", Value: `25.3" (643 mm)`},
				{Name: "Fingerboard", Value: "Walnut"},
				{Name: "Number of Frets", Value: "20"},
			},
		},
		{
			ID:            "2",
			Name:          "V50NJP-BK Acoustic Jam Pack",
			Brand:         "Ibanez",
			Price:         9499,
			OriginalPrice: 11000,
			Rating:        4.5,
			Reviews:       482,
			Image:         "https://picsum.photos/seed/guitar2/600/600",
			Category:      "Acoustic Guitars",
			Description:   "The Ibanez V50 Jam Pack includes everything you need to start playing acoustic guitar: a V50 acoustic guitar, a gig bag, a tuner, a strap, and picks.",
		},
		{
			ID:            "3",
			Name:          "F310 Full Size Steel String Guitar",
			Brand:         "Yamaha",
			Price:         10299,
			OriginalPrice: 12490,
			Rating:        4.9,
			Reviews:       2105,
			Image:         "https://picsum.photos/seed/guitar3/600/600",
			Category:      "Acoustic Guitars",
			IsSale:        true,
		},
		{
			ID:            "4",
			Name:          "PR-4E Acoustic-Electric Pack",
			Brand:         "Epiphone",
			Price:         22999,
			OriginalPrice: 25000,
			Rating:        4.6,
			Reviews:       156,
			Image:         "https://picsum.photos/seed/guitar4/600/600",
			Category:      "Acoustic Guitars",
		},
		{
			ID:            "5",
			Name:          "AD810 Standard Series Dreadnought",
			Brand:         "Cort",
			Price:         8990,
			OriginalPrice: 10500,
			Rating:        4.7,
			Reviews:       220,
			Image:         "https://picsum.photos/seed/guitar5/600/600",
			Category:      "Acoustic Guitars",
		},
		{
			ID:            "6",
			Name:          "FA-115 Dreadnought Acoustic Pack",
			Brand:         "Fender",
			Price:         12999,
			OriginalPrice: 15000,
			Rating:        4.8,
			Reviews:       312,
			Image:         "https://picsum.photos/seed/guitar6/600/600",
			Category:      "Acoustic Guitars",
		},
	}
}

func DefaultCategories() []Category {
	return []Category{
		{Name: "Electric Guitars", Icon: "🎸"},
		{Name: "Drums & Percussion", Icon: "🥁"},
		{Name: "Keyboards", Icon: "🎹"},
		{Name: "Pro Audio", Icon: "🎙️"},
		{Name: "Accessories", Icon: "🔌"},
		{Name: "Monitors", Icon: "🔊"},
	}
}
