package appstate

import "time"

const unsplash = "https://images.unsplash.com/"

// DemoDirectory is the demo data the client ships with: seven users, two
// partners, one admin, the Afroboost offers and three bookings with
// partner "1".
func DemoDirectory() Directory {
	users := []*User{
		{Profile: Profile{ID: "101", Name: "Sophie", Age: 24, City: "Paris", Sport: "Yoga", Photo: unsplash + "photo-1544005313-94ddf0286df2", Online: true}},
		{Profile: Profile{ID: "102", Name: "Marc", Age: 29, City: "Lyon", Sport: "Crossfit", Photo: unsplash + "photo-1567013127542-490d757e51fc"}},
		{Profile: Profile{ID: "103", Name: "Thomas", Age: 32, City: "Marseille", Sport: "Boxe", Photo: unsplash + "photo-1506794778202-cad84cf45f1d", Online: true}},
		{Profile: Profile{ID: "201", Name: "Julie M.", Age: 27, City: "Paris", Sport: "Running", Photo: unsplash + "photo-1438761681033-6461ffad8d80", Online: true}},
		{Profile: Profile{ID: "202", Name: "Thomas P.", Age: 30, City: "Paris", Sport: "Fitness", Photo: unsplash + "photo-1500648767791-00dcc994a43e", Online: true}},
		{Profile: Profile{ID: "203", Name: "Sarah L.", Age: 25, City: "Paris", Sport: "Yoga", Photo: unsplash + "photo-1494790108377-be9c29b29330"}},
		{Profile: Profile{ID: "204", Name: "Marc D.", Age: 28, City: "Paris", Sport: "Crossfit", Photo: unsplash + "photo-1507003211169-0a1dd7228f2d", Online: true}},
	}
	for _, u := range users {
		u.Role = RoleUser
	}

	partners := []*Partner{
		{
			Profile: Profile{ID: "104", Name: "Lucas", Age: 31, City: "Paris", Sport: "Fitness", Photo: unsplash + "photo-1506794778202-cad84cf45f1d", Online: true},
			Type:    "Coach Fitness",
			Price:   50,
			Slots: []TimeSlot{
				{ID: "s1", Date: "15 Jan", Time: "10:00", Available: true},
				{ID: "s2", Date: "15 Jan", Time: "14:00", Available: true},
				{ID: "s3", Date: "16 Jan", Time: "09:00", Available: true},
			},
		},
		{
			Profile:     Profile{ID: "1", Name: "Bassi", City: "Paris", Sport: "Afroboost", Photo: unsplash + "photo-1594381898411-846e7d193883", Online: true},
			Email:       "bassi@afroboost.com",
			Type:        "Coach Afroboost",
			Description: "Afroboost coach and creator of the Silent concept.",
			Price:       50,
			Revenue:     2500,
			Rating:      4.9,
			ReviewCount: 10,
		},
	}
	for _, p := range partners {
		p.Role = RolePartner
	}

	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return Directory{
		Users:    users,
		Partners: partners,
		Admins:   []*Admin{{ID: "900", Name: "Sportly Admin", Email: "admin@sportly.app"}},
		Offers: []Offer{
			{ID: "o1", PartnerID: "1", Title: "Afro House Débutant", Description: "Intense class for beginners", Price: 25, Date: "Lundi 18h", Image: unsplash + "photo-1533174072545-e8d4aa97edf9", Active: true, CreatedAt: created},
			{ID: "o2", PartnerID: "1", Title: "Cardio Afrobeat", Description: "Dynamic cardio on African rhythms", Price: 30, Date: "Mercredi 19h", Image: unsplash + "photo-1518611012118-696072aa579a", Active: true, Boosted: true, CreatedAt: created},
		},
		Bookings: []Booking{
			{ID: "b101", UserID: "201", PartnerID: "1", SlotID: "s1", Title: "Session with Bassi", Date: "Mon", Time: "18:00", Price: 50, Status: BookingConfirmed, CreatedAt: created, UpdatedAt: created},
			{ID: "b102", UserID: "202", PartnerID: "1", SlotID: "s2", Title: "Session with Bassi", Date: "Tue", Time: "10:00", Price: 50, Status: BookingPending, CreatedAt: created, UpdatedAt: created},
			{ID: "b103", UserID: "203", PartnerID: "1", SlotID: "s3", Title: "Session with Bassi", Date: "Thu", Time: "19:30", Price: 50, Status: BookingPending, CreatedAt: created, UpdatedAt: created},
		},
	}
}
