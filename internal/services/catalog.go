package services

import "strings"

// Service is one bookable offering
type Service struct {
	Key      string
	Name     string
	Duration int // minutes
	Price    string
}

// synonym maps a client phrase to a catalog key. Resolution is substring
// containment in declaration order, so broader phrases go first.
type synonym struct {
	pattern string
	key     string
}

// Catalog is the static registry of bookable services
type Catalog struct {
	services []Service
	byKey    map[string]Service
	synonyms []synonym
}

// NewCatalog creates the salon's service catalog
func NewCatalog() *Catalog {
	services := []Service{
		{Key: "haircut", Name: "Haircut", Duration: 60, Price: "$45"},
		{Key: "haircut_and_style", Name: "Haircut & Style", Duration: 90, Price: "$65"},
		{Key: "color", Name: "Hair Color", Duration: 120, Price: "$85"},
		{Key: "highlights", Name: "Highlights", Duration: 150, Price: "$95"},
		{Key: "balayage", Name: "Balayage", Duration: 180, Price: "$120"},
		{Key: "blowout", Name: "Blowout", Duration: 45, Price: "$35"},
		{Key: "updo", Name: "Updo", Duration: 60, Price: "$55"},
		{Key: "extensions", Name: "Hair Extensions", Duration: 120, Price: "$150"},
	}

	byKey := make(map[string]Service, len(services))
	for _, s := range services {
		byKey[s.Key] = s
	}

	return &Catalog{
		services: services,
		byKey:    byKey,
		synonyms: []synonym{
			{"haircut", "haircut"},
			{"cut", "haircut"},
			{"hair cut", "haircut"},
			{"style", "haircut_and_style"},
			{"haircut and style", "haircut_and_style"},
			{"color", "color"},
			{"hair color", "color"},
			{"dye", "color"},
			{"highlights", "highlights"},
			{"highlight", "highlights"},
			{"balayage", "balayage"},
			{"blowout", "blowout"},
			{"blow out", "blowout"},
			{"updo", "updo"},
			{"up do", "updo"},
			{"up-do", "updo"},
			{"extensions", "extensions"},
			{"extension", "extensions"},
		},
	}
}

// Resolve maps free text to a service via the synonym table, first match wins
func (c *Catalog) Resolve(message string) (Service, bool) {
	lower := strings.ToLower(message)
	for _, syn := range c.synonyms {
		if strings.Contains(lower, syn.pattern) {
			return c.byKey[syn.key], true
		}
	}
	return Service{}, false
}

// Get returns a service by its catalog key
func (c *Catalog) Get(key string) (Service, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

// All returns every service in catalog order
func (c *Catalog) All() []Service {
	return c.services
}

// FormatList renders the services the way they are shown to clients
func (c *Catalog) FormatList() string {
	var b strings.Builder
	for i, s := range c.services {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + s.Name + " - " + s.Price)
	}
	return b.String()
}
