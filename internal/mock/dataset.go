package mock

import "github.com/offroutechronicles/offroute-server/internal/domain"

const imageBase = "https://images.unsplash.com/"

func card(photo string) string {
	return imageBase + photo + "?w=500&h=350&fit=crop"
}

func wide(photo string) string {
	return imageBase + photo + "?w=1200&h=800&fit=crop"
}

const (
	photoTokyo     = "photo-1540959375944-7049f642e9d5"
	photoBangkok   = "photo-1546069901-ba9599a7e63c"
	photoBali      = "photo-1537225228614-b4fad34a0b60"
	photoNepal     = "photo-1506905925346-21bda4d32df4"
	photoMaldives  = "photo-1505142468610-359e7d316be0"
	photoNewYork   = "photo-1480714378408-67cf0d13bc1b"
	photoParis     = "photo-1502602898657-3e91760cbb34"
	destTokyo      = "Tokyo, Japan"
	destBangkok    = "Bangkok, Thailand"
	destBali       = "Bali, Indonesia"
	destKathmandu  = "Kathmandu, Nepal"
	destMaldives   = "Maldives"
	contentTokyo   = "# Discovering Hidden Gems in Tokyo\n\nTokyo is one of the most visited cities in the world, but there are so many hidden gems that tourists often miss. In this guide, we'll explore some of the best lesser-known attractions that will make your Tokyo experience truly unforgettable.\n\n## Off the Beaten Path\n\nWhile most tourists flock to Shibuya Crossing and Senso-ji Temple, savvy travelers know that the real Tokyo lies in its quiet neighborhoods and local establishments.\n\n## Local Markets\n\nVisit the local markets early in the morning to experience the authentic Tokyo. The Toyosu Market is a great place to see fresh fish and local produce.\n\n## Conclusion\n\nTokyo has so much to offer beyond the typical tourist trail. Take time to explore, wander, and discover your own hidden gems!"
	contentBangkok = "# Street Food Adventures in Bangkok\n\nBangkok is the street food capital of Southeast Asia. Walk through any street and you'll find vendors preparing delicious dishes right before your eyes.\n\n## Must-Try Street Foods\n\n- Pad Thai - The iconic Thai noodle dish\n- Mango Sticky Rice - A sweet dessert\n- Som Tam - Spicy papaya salad\n- Satay - Grilled meat skewers\n\n## Best Street Food Markets\n\nThe night markets of Bangkok are legendary. Start at Yaowarat for seafood, then head to Chatuchak Weekend Market for fresh produce and local delicacies.\n\n## Tips for Street Food\n\nAlways eat where locals eat, and don't be afraid to try something new. The best food experiences come from taking risks!"
	contentBali    = "# Culture and Temples of Bali\n\nBali is more than just beaches. This Indonesian island is home to a rich spiritual and cultural heritage that has captivated visitors for centuries.\n\n## Sacred Temples\n\n- Tanah Lot Temple - Built on a rock formation\n- Tirta Empul - Water temple with healing pools\n- Besakih Temple - Mother temple of Bali\n\n## Local Traditions\n\nBali's culture is deeply rooted in Hinduism, unlike the rest of Muslim-majority Indonesia. You'll see colorful ceremonies and rituals throughout the island.\n\n## Visiting Tips\n\nDress respectfully when visiting temples, and always ask permission before taking photographs. Show respect for local customs and traditions."
	contentNepal   = "# Mountain Trekking in Nepal\n\nNepal offers some of the most stunning trekking routes in the world. Whether you're a beginner or an experienced hiker, there's something for everyone.\n\n## Popular Trekking Routes\n\n1. **Everest Base Camp Trek** - The most famous trek, reaching the base camp of Mount Everest\n2. **Annapurna Circuit** - A diverse trek through various ecosystems\n3. **Langtang Valley** - Perfect for shorter treks\n\n## What to Expect\n\nHigh altitude, thin air, and stunning vistas. The trekking season is September to October and March to April.\n\n## Preparation\n\nPhysical fitness is important, but determination is more crucial. Start with smaller treks to acclimatize."
	contentMaldive = "# Beach Hopping in Maldives\n\nThe Maldives is the ultimate beach destination. With over 1,000 islands, each with its own unique charm, beach hopping is an adventure in itself.\n\n## Best Islands to Visit\n\n- Malé - Capital island with culture and history\n- Kaafu Atoll - Close to the capital, perfect for quick trips\n- Ari Atoll - World-class diving and water sports\n- South Malé Atoll - Beautiful resorts and clear waters\n\n## Water Activities\n\n- Snorkeling and diving\n- Surfing\n- Windsurfing\n- Fishing\n\n## Best Time to Visit\n\nNovember to April is the dry season and the best time to visit the Maldives."
	contentNewYork = "# Urban Exploration in New York\n\nNew York City is a living, breathing organism of culture, art, food, and history. Every corner has a story to tell.\n\n## Iconic Neighborhoods\n\n- Times Square - The heart of the city\n- Greenwich Village - Artsy and bohemian\n- Chinatown - Authentic cuisine and culture\n- Brooklyn - Hipster haven with great music scene\n\n## Museums and Culture\n\nNYC has world-class museums including:\n- Metropolitan Museum of Art\n- MoMA\n- Natural History Museum\n\n## Foodie Paradise\n\nFrom street hot dogs to Michelin-starred restaurants, NYC has it all. Don't miss the pizza!"
)

// builtin is never handed out directly; Default returns a deep copy.
var builtin = Dataset{
	Posts: []domain.BlogPost{
		{
			ID:            "1",
			Title:         "Discovering Hidden Gems in Tokyo",
			Excerpt:       "Explore the lesser-known attractions of Tokyo that most tourists miss",
			Content:       contentTokyo,
			Author:        "John Doe",
			CreatedDate:   domain.Date(2024, 1, 15),
			Image:         card(photoTokyo),
			Category:      "adventure",
			Featured:      true,
			Destination:   destTokyo,
			DestinationID: "1",
			GalleryImages: []string{wide(photoTokyo), wide(photoParis)},
		},
		{
			ID:            "2",
			Title:         "Street Food Adventures in Bangkok",
			Excerpt:       "A culinary journey through Bangkok streets and local markets",
			Content:       contentBangkok,
			Author:        "Jane Smith",
			CreatedDate:   domain.Date(2024, 1, 10),
			Image:         card(photoBangkok),
			Category:      "food",
			Featured:      true,
			Destination:   destBangkok,
			DestinationID: "2",
			GalleryImages: []string{wide(photoBangkok)},
		},
		{
			ID:            "3",
			Title:         "Culture and Temples of Bali",
			Excerpt:       "Immerse yourself in the rich cultural heritage of Bali",
			Content:       contentBali,
			Author:        "Maria Garcia",
			CreatedDate:   domain.Date(2024, 1, 12),
			Image:         card(photoBali),
			Category:      "culture",
			Featured:      true,
			Destination:   destBali,
			DestinationID: "4",
		},
		{
			ID:            "4",
			Title:         "Mountain Trekking in Nepal",
			Excerpt:       "Challenge yourself with breathtaking himalayan mountain trails",
			Content:       contentNepal,
			Author:        "Alex Turner",
			CreatedDate:   domain.Date(2024, 1, 8),
			Image:         card(photoNepal),
			Category:      "nature",
			Featured:      false,
			Destination:   destKathmandu,
			DestinationID: "5",
		},
		{
			ID:            "5",
			Title:         "Beach Hopping in Maldives",
			Excerpt:       "Paradise islands with crystal clear waters and pristine beaches",
			Content:       contentMaldive,
			Author:        "Emma Wilson",
			CreatedDate:   domain.Date(2024, 1, 5),
			Image:         card(photoMaldives),
			Category:      "beach",
			Featured:      false,
			Destination:   destMaldives,
			DestinationID: "6",
		},
		{
			ID:          "6",
			Title:       "Urban Exploration in New York",
			Excerpt:     "The city that never sleeps - art, food, and endless experiences",
			Content:     contentNewYork,
			Author:      "David Lee",
			CreatedDate: domain.Date(2024, 1, 1),
			Image:       card(photoNewYork),
			Category:    "city",
			Featured:    false,
		},
	},
	Destinations: []domain.Destination{
		{
			ID:          "1",
			Name:        destTokyo,
			Country:     "Japan",
			Description: "A vibrant metropolis blending tradition and modernity",
			Image:       card(photoTokyo),
			Category:    "city",
			Continent:   "asia",
			Featured:    true,
		},
		{
			ID:          "2",
			Name:        destBangkok,
			Country:     "Thailand",
			Description: "The city of angels with stunning temples and markets",
			Image:       card(photoBangkok),
			Category:    "food_cafe",
			Continent:   "asia",
			Featured:    true,
		},
		{
			ID:          "3",
			Name:        "Paris, France",
			Country:     "France",
			Description: "The city of love and art",
			Image:       card(photoParis),
			Category:    "city",
			Continent:   "europe",
			Featured:    true,
		},
		{
			ID:          "4",
			Name:        destBali,
			Country:     "Indonesia",
			Description: "Tropical paradise with temples and beaches",
			Image:       card(photoBali),
			Category:    "adventure",
			Continent:   "asia",
			Featured:    false,
		},
		{
			ID:          "5",
			Name:        destKathmandu,
			Country:     "Nepal",
			Description: "Gateway to the Himalayas with rich culture",
			Image:       card(photoNepal),
			Category:    "heritage",
			Continent:   "asia",
			Featured:    false,
		},
		{
			ID:          "6",
			Name:        destMaldives,
			Country:     "Maldives",
			Description: "Island nation with crystal clear waters",
			Image:       card(photoMaldives),
			Category:    "adventure",
			Continent:   "asia",
			Featured:    false,
		},
	},
	GalleryImages: []domain.GalleryImage{
		{ID: "g1", PostID: "1", ImageURL: wide(photoTokyo), AltText: "Tokyo skyline at dusk", CreatedDate: domain.Date(2024, 1, 15)},
		{ID: "g2", PostID: "1", ImageURL: wide(photoParis), AltText: "Evening lights along the river", CreatedDate: domain.Date(2024, 1, 16)},
		{ID: "g3", PostID: "2", ImageURL: wide(photoBangkok), AltText: "Street food stall in Bangkok", CreatedDate: domain.Date(2024, 1, 10)},
	},
	Comments: []domain.Comment{
		{
			ID:          "c1",
			PostID:      "1",
			AuthorName:  "Sarah Chen",
			AuthorEmail: "sarah@example.com",
			Content:     "Toyosu at sunrise was the highlight of my trip. Thanks for the tip!",
			CreatedDate: domain.Date(2024, 1, 16),
		},
		{
			ID:          "c2",
			PostID:      "1",
			AuthorName:  "John Doe",
			AuthorEmail: "john@example.com",
			Content:     "Glad it helped! Try the tamagoyaki stalls next time.",
			ParentID:    "c1",
			CreatedDate: domain.Date(2024, 1, 17),
		},
	},
}
