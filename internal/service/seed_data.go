package service

import (
	"time"

	"event-ticketing/internal/model"
)

type CategorySeed struct {
	Slug        string
	Name        string
	Description string
	Color       string
	Icon        string
}

type UserSeed struct {
	Email    string
	Name     string
	Password string
	Role     model.Role
}

// EventSeed 活動種子資料，CategorySlug 對應 DefaultCategories
type EventSeed struct {
	Title        string
	Slug         string
	Description  string
	Image        string
	StartDate    time.Time
	EndDate      *time.Time
	Location     string
	Address      string
	City         string
	Country      string
	Capacity     int
	Price        *float64
	Featured     bool
	Tags         []string
	CategorySlug string
}

const (
	DemoOrganizerEmail = "organizer@example.com"
	DemoUserEmail      = "user@example.com"
	DemoAdminEmail     = "admin@example.com"
)

func DefaultCategories() []CategorySeed {
	return []CategorySeed{
		{Slug: "conference", Name: "Conferencia", Description: "Conferencias y charlas profesionales", Color: "#3B82F6", Icon: "presentation"},
		{Slug: "workshop", Name: "Taller", Description: "Talleres prácticos y workshops", Color: "#8B5CF6", Icon: "wrench"},
		{Slug: "meetup", Name: "Meetup", Description: "Encuentros comunitarios", Color: "#10B981", Icon: "users"},
		{Slug: "concert", Name: "Concierto", Description: "Eventos musicales y conciertos", Color: "#F59E0B", Icon: "music"},
		{Slug: "sports", Name: "Deportes", Description: "Eventos deportivos", Color: "#EF4444", Icon: "trophy"},
	}
}

// DefaultUsers 第一個必須是主辦方，第二個是 demo 票券的持有者
func DefaultUsers(password string) []UserSeed {
	return []UserSeed{
		{Email: DemoOrganizerEmail, Name: "Juan Organizador", Password: password, Role: model.RoleOrganizer},
		{Email: DemoUserEmail, Name: "María Usuario", Password: password, Role: model.RoleUser},
		{Email: DemoAdminEmail, Name: "Admin Sistema", Password: password, Role: model.RoleAdmin},
	}
}

func DefaultEvents() []EventSeed {
	loc := time.FixedZone("ART", -3*60*60)
	at := func(month time.Month, day, hour int) time.Time {
		return time.Date(2025, month, day, hour, 0, 0, 0, loc)
	}
	ptr := func(t time.Time) *time.Time { return &t }
	price := func(p float64) *float64 { return &p }

	return []EventSeed{
		{
			Title:        "Next.js Conf 2025",
			Slug:         "nextjs-conf-2025",
			Description:  "La conferencia anual de Next.js con las últimas novedades del framework. Aprende sobre Server Components, App Router, y más.",
			Image:        "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=800",
			StartDate:    at(time.December, 15, 9),
			EndDate:      ptr(at(time.December, 15, 18)),
			Location:     "Centro de Convenciones",
			Address:      "Av. Libertador 1234",
			City:         "Buenos Aires",
			Country:      "Argentina",
			Capacity:     500,
			Price:        price(50),
			Featured:     true,
			Tags:         []string{"nextjs", "react", "javascript", "web development"},
			CategorySlug: "conference",
		},
		{
			Title:        "Workshop de TypeScript Avanzado",
			Slug:         "typescript-workshop-2025",
			Description:  "Taller práctico de TypeScript avanzado. Aprende tipos genéricos, utilidades, y patrones de diseño.",
			Image:        "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?w=800",
			StartDate:    at(time.December, 20, 14),
			EndDate:      ptr(at(time.December, 20, 18)),
			Location:     "Tech Hub",
			Address:      "Av. Córdoba 5678",
			City:         "Buenos Aires",
			Country:      "Argentina",
			Capacity:     30,
			Price:        price(25),
			Tags:         []string{"typescript", "javascript", "programming"},
			CategorySlug: "workshop",
		},
		{
			Title:        "Buenos Aires JavaScript Meetup",
			Slug:         "ba-js-meetup-december",
			Description:  "Meetup mensual de la comunidad JavaScript de Buenos Aires. Networking y charlas técnicas.",
			StartDate:    at(time.December, 10, 19),
			Location:     "Cafetería Tech Space",
			Address:      "Santa Fe 910",
			City:         "Buenos Aires",
			Country:      "Argentina",
			Capacity:     50,
			Tags:         []string{"javascript", "meetup", "community", "networking"},
			CategorySlug: "meetup",
		},
	}
}
