package feed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source group names used by the HTTP layer.
const (
	GroupNews      = "news"
	GroupGameDev   = "gamedev"
	GroupReviews   = "reviews"
	GroupRugbyNews = "rugby-news"
)

// Catalog holds the configured feed sources and their grouping.
type Catalog struct {
	sources map[string]Source
	groups  map[string][]string
}

// Source returns the source with the given id.
func (c *Catalog) Source(id string) (Source, bool) {
	src, ok := c.sources[id]
	return src, ok
}

// Group returns the sources belonging to a group, in declaration order.
func (c *Catalog) Group(name string) []Source {
	ids := c.groups[name]
	out := make([]Source, 0, len(ids))
	for _, id := range ids {
		if src, ok := c.sources[id]; ok {
			out = append(out, src)
		}
	}
	return out
}

// sourceOverride is one entry of the optional sources YAML file. Only the
// fields that make sense to retarget at runtime are overridable; fallback
// tables and enrichment stay with the built-in definitions.
type sourceOverride struct {
	ID      string   `yaml:"id"`
	FeedURL string   `yaml:"feed_url"`
	Allow   []string `yaml:"allow"`
	Deny    []string `yaml:"deny"`
}

type sourcesFile struct {
	Sources []sourceOverride `yaml:"sources"`
}

// ApplyOverrides merges a YAML override file into the catalog. Environment
// references in the file are expanded before parsing.
func (c *Catalog) ApplyOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sources file: %w", err)
	}

	var f sourcesFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &f); err != nil {
		return fmt.Errorf("decode sources file: %w", err)
	}

	for i, ov := range f.Sources {
		id := strings.TrimSpace(ov.ID)
		src, ok := c.sources[id]
		if !ok {
			return fmt.Errorf("sources[%d]: unknown source id %q", i, id)
		}
		if u := strings.TrimSpace(ov.FeedURL); u != "" {
			src.FeedURL = u
		}
		if len(ov.Allow) > 0 {
			src.Rules.Allow = ov.Allow
		}
		if len(ov.Deny) > 0 {
			src.Rules.Deny = ov.Deny
		}
		c.sources[id] = src
	}
	return nil
}

// International competitions and nations admitted by the rugby news filter.
var rugbyInternationalKeywords = []string{
	"Rugby Championship", "Six Nations", "Tournoi des 6 Nations",
	"XV de France", "Coupe du Monde", "World Cup", "Test Match",
	"International", "Angleterre", "England", "Irlande", "Ireland",
	"Ecosse", "Scotland", "Pays de Galles", "Wales", "Italie", "Italy",
	"Afrique du Sud", "South Africa", "Nouvelle-Zélande", "New Zealand",
	"Australie", "Australia", "Argentine", "Argentina", "Japon", "Japan",
	"All Blacks", "Springboks", "Wallabies", "Pumas",
}

// Domestic competitions and clubs excluded from the rugby news view. These
// win over the allow list.
var rugbyDomesticKeywords = []string{
	"Top 14", "Pro D2", "Champions Cup", "Challenge Cup", "URC",
	"Premiership", "Stade Français", "Toulouse", "Racing 92", "Clermont",
	"Toulon", "La Rochelle", "Bordeaux", "Montpellier", "Lyon", "Castres",
	"Pau", "Perpignan", "Bayonne", "Biarritz",
}

// DefaultCatalog wires up the built-in feed sources.
func DefaultCatalog() *Catalog {
	sources := []Source{
		{
			ID:              "techspot",
			Name:            "TechSpot",
			FeedURL:         "https://www.techspot.com/backend.xml",
			Homepage:        "https://www.techspot.com",
			BaseHost:        "www.techspot.com",
			DefaultAuthor:   "TechSpot",
			DefaultCategory: "Technology",
			FallbackWindow:  24 * time.Hour,
			Fallback:        techSpotFallback,
		},
		{
			ID:              "eurogamer",
			Name:            "Eurogamer",
			FeedURL:         "https://www.eurogamer.net/feed",
			Homepage:        "https://www.eurogamer.net/",
			BaseHost:        "www.eurogamer.net",
			DefaultAuthor:   "Eurogamer Editorial",
			DefaultCategory: "Gaming",
			FallbackWindow:  7 * 24 * time.Hour,
			Fallback:        eurogamerFallback,
		},
		{
			ID:              "gamedeveloper",
			Name:            "Game Developer",
			FeedURL:         "https://www.gamedeveloper.com/rss.xml",
			Homepage:        "https://www.gamedeveloper.com/",
			BaseHost:        "www.gamedeveloper.com",
			DefaultAuthor:   "Game Developer Staff",
			DefaultCategory: "Game Development",
			FallbackWindow:  7 * 24 * time.Hour,
			Fallback:        gameDeveloperFallback,
		},
		{
			ID:              "ign-reviews",
			Name:            "IGN",
			FeedURL:         "https://feeds.ign.com/ign/reviews",
			Homepage:        "https://www.ign.com/reviews/games",
			BaseHost:        "www.ign.com",
			DefaultAuthor:   "IGN Editorial",
			DefaultCategory: "Game Review",
			Enrich:          EnrichReview,
			FallbackWindow:  7 * 24 * time.Hour,
			Fallback:        ignFallback,
		},
		{
			ID:              "rugbyrama",
			Name:            "Rugbyrama",
			FeedURL:         "https://www.rugbyrama.fr/rss.xml",
			Homepage:        "https://www.rugbyrama.fr/",
			BaseHost:        "www.rugbyrama.fr",
			DefaultAuthor:   "Rugbyrama",
			DefaultCategory: "Rugby",
			Rules: RuleSet{
				Allow: rugbyInternationalKeywords,
				Deny:  rugbyDomesticKeywords,
			},
			FallbackWindow: 72 * time.Hour,
			Fallback:       rugbyramaFallback,
		},
	}

	cat := &Catalog{
		sources: make(map[string]Source, len(sources)),
		groups: map[string][]string{
			GroupNews:      {"techspot"},
			GroupGameDev:   {"eurogamer", "gamedeveloper"},
			GroupReviews:   {"ign-reviews"},
			GroupRugbyNews: {"rugbyrama"},
		},
	}
	for _, src := range sources {
		cat.sources[src.ID] = src
	}
	return cat
}

var techSpotFallback = []Template{
	{Title: "Latest GPU Benchmarks Show Performance Gains", Category: "Hardware"},
	{Title: "New AI Breakthrough in Machine Learning", Category: "AI"},
	{Title: "Cybersecurity Alert: Critical Vulnerability Found", Category: "Security"},
	{Title: "Gaming Performance Analysis: RTX vs Radeon", Category: "Gaming"},
	{Title: "Mobile Technology Advances in 2025", Category: "Mobile"},
	{Title: "Cloud Computing Trends for Enterprises", Category: "Software"},
	{Title: "Open Source Software Development Updates", Category: "Software"},
	{Title: "Hardware Review: Latest SSD Performance", Category: "Hardware"},
}

var eurogamerFallback = []Template{
	{Title: "Game Industry Analysis: 2025 Trends", Description: "Deep dive into the most important gaming trends shaping the industry this year."},
	{Title: "Indie Game Spotlight: Rising Stars", Description: "Featuring the most promising independent games from emerging developers."},
	{Title: "Gaming Hardware Review Roundup", Description: "Comprehensive reviews of the latest gaming hardware and peripherals."},
	{Title: "Retro Gaming Revival Continues", Description: "Classic games continue to find new audiences on modern platforms."},
	{Title: "Mobile Gaming Market Analysis", Description: "The mobile gaming sector shows continued growth and innovation."},
	{Title: "Virtual Reality Gaming Evolution", Description: "VR gaming reaches new heights with improved hardware and software."},
	{Title: "Gaming Community Highlights", Description: "Celebrating the best contributions from the global gaming community."},
	{Title: "Game Development Documentary", Description: "Behind-the-scenes look at modern game development processes."},
}

var gameDeveloperFallback = []Template{
	{Title: "Best Practices for Game Monetization", Description: "Ethical and effective strategies for game monetization in 2025."},
	{Title: "Game Engine Comparison Guide", Description: "Comprehensive analysis of popular game engines and their strengths."},
	{Title: "Accessibility in Game Design", Description: "Making games more inclusive through thoughtful design practices."},
	{Title: "Game Development Team Management", Description: "Tips for leading successful game development teams."},
	{Title: "Publishing Strategies for Indie Developers", Description: "How independent developers can successfully publish their games."},
	{Title: "Game Analytics and Player Metrics", Description: "Understanding and utilizing player data for game improvement."},
	{Title: "Cross-Platform Development Challenges", Description: "Technical considerations for multi-platform game development."},
	{Title: "Game Design Psychology Insights", Description: "The psychology behind addictive and engaging game mechanics."},
}

var ignFallback = []Template{
	{Title: "The Legend of Zelda: Tears of the Kingdom", Meta: map[string]string{"score": "9.5", "platform": "Nintendo Switch"}},
	{Title: "Hogwarts Legacy", Meta: map[string]string{"score": "8.5", "platform": "PC, PS5, Xbox Series X/S"}},
	{Title: "Resident Evil 4 Remake", Meta: map[string]string{"score": "9", "platform": "PC, PS5, Xbox Series X/S"}},
	{Title: "Spider-Man 2", Meta: map[string]string{"score": "8.8", "platform": "PS5"}},
	{Title: "Alan Wake 2", Meta: map[string]string{"score": "8.9", "platform": "PC, PS5, Xbox Series X/S"}},
	{Title: "Baldur's Gate 3", Meta: map[string]string{"score": "9.8", "platform": "PC, PS5"}},
	{Title: "Starfield", Meta: map[string]string{"score": "7.5", "platform": "PC, Xbox Series X/S"}},
	{Title: "Cyberpunk 2077: Phantom Liberty", Meta: map[string]string{"score": "8.7", "platform": "PC, PS5, Xbox Series X/S"}},
}

var rugbyramaFallback = []Template{
	{Title: "Rugby Championship : L'Afrique du Sud domine l'Australie", Description: "Les Springboks s'imposent face aux Wallabies dans un match spectaculaire du Rugby Championship.", Category: "Rugby Championship"},
	{Title: "Six Nations 2025 : Le XV de France prépare sa campagne", Description: "L'équipe de France se prépare pour le prochain Tournoi des Six Nations avec de nouveaux visages.", Category: "XV de France"},
	{Title: "All Blacks : Nouvelle sélection pour les test-matchs", Description: "La Nouvelle-Zélande dévoile sa liste de joueurs pour les prochains matchs internationaux.", Category: "New Zealand"},
	{Title: "Coupe du Monde de Rugby : Calendrier des qualifications", Description: "Les phases de qualification pour la prochaine Coupe du Monde s'intensifient.", Category: "Coupe du Monde"},
	{Title: "Angleterre vs Irlande : Avant-match du choc", Description: "Preview du match crucial entre l'Angleterre et l'Irlande en test-match international.", Category: "International"},
	{Title: "Springboks : Retour de blessure pour plusieurs joueurs", Description: "L'Afrique du Sud récupère des joueurs clés avant les prochaines échéances internationales.", Category: "South Africa"},
	{Title: "XV de France Féminin : Victoire historique", Description: "Les Bleues s'imposent dans un match international mémorable.", Category: "XV de France"},
	{Title: "Rugby Championship : Classement après la 2e journée", Description: "Point sur le classement du Rugby Championship après les derniers résultats.", Category: "Rugby Championship"},
}

func init() {
	for i := range techSpotFallback {
		t := &techSpotFallback[i]
		if t.Description == "" {
			t.Description = fmt.Sprintf("This is a sample article about %s. Content would normally be loaded from the live feed.", strings.ToLower(t.Title))
		}
	}
	for i := range ignFallback {
		t := &ignFallback[i]
		t.Description = fmt.Sprintf("IGN's review of %s. This is sample content that would normally be loaded from the live feed.", t.Title)
	}
}
