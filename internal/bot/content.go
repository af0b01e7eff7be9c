package bot

import (
	"fmt"
	"math/rand"
	"strings"
)

// contentCommandDescriptions declares the skate content commands. Each
// invocation also earns trick-command activity credit.
var contentCommandDescriptions = map[string]string{
	"trick":        "Get a random skateboard trick to practice",
	"tricklist":    "List every trick in the rotation",
	"skatefact":    "Get a random skateboarding fact",
	"skatehistory": "A quick tour through skateboarding history",
	"brand":        "Learn about a legendary skateboard brand",
	"skater":       "Learn about a legendary skateboarder",
	"crew":         "Learn about a legendary skate crew",
}

var skateTricks = []string{
	"Kickflip", "Heelflip", "Ollie", "Shuvit", "Pop Shuvit", "Varial Kickflip",
	"Varial Heelflip", "Hardflip", "360 Flip", "Laserflip", "360 Pop Shuvit",
	"Inward Heelflip", "Nollie", "Fakie Bigspin", "Frontside 180", "Backside 180",
	"Manual", "Nose Manual", "Rail Stand", "No Comply", "Bluntslide", "Lipslide",
	"Boardslide", "50-50 Grind", "5-0 Grind", "Nosegrind", "Tailslide",
	"Crooked Grind", "Feeble Grind", "Smith Grind",
}

var skateFacts = []string{
	"The first skateboards were made in the 1940s by attaching roller skate wheels to wooden planks.",
	"The ollie was invented by Alan \"Ollie\" Gelfand in 1978.",
	"Skateboarding was banned in Norway from 1978 to 1989.",
	"Tony Hawk landed the first ever 900 in competition in 1999.",
	"The longest manual ever recorded is over 2 miles!",
	"Skateboarding made its Olympic debut in Tokyo 2020.",
	"Grip tape was inspired by sandpaper.",
	"The kickflip was originally called a 'magic flip'.",
	"Vans was the first company to make shoes specifically for skateboarding.",
	"The X-Games started in 1995 and helped popularize skateboarding worldwide.",
	"Street skating developed in the 1980s when skaters started using urban obstacles.",
	"Rodney Mullen is often called the 'Godfather of Street Skating'.",
	"Skateboard decks are typically made from 7-ply maple wood.",
	"The skateboard truck was invented in 1962 by Bill Richards.",
}

type profileEntry struct {
	name    string
	tagline string
	detail  string
	funFact string
}

var skateBrands = []profileEntry{
	{
		name:    "Powell Peralta",
		tagline: "Founded 1976, Santa Barbara, California",
		detail:  "Legendary brand that defined 80s skateboarding with iconic graphics and the Bones Brigade team.",
		funFact: "Their 'Bones Brigade Video Show' (1984) revolutionized skate videos forever.",
	},
	{
		name:    "Santa Cruz Skateboards",
		tagline: "Founded 1973, Santa Cruz, California",
		detail:  "The oldest continuously operating skateboard company in the world.",
		funFact: "The Screaming Hand logo was created in 1985 and became skateboarding's most iconic graphic.",
	},
	{
		name:    "Thrasher Magazine",
		tagline: "Founded 1981, San Francisco, California",
		detail:  "The skateboard magazine that became a lifestyle brand and cultural icon.",
		funFact: "Their flame logo is now worn by celebrities who've probably never touched a skateboard.",
	},
	{
		name:    "Vans",
		tagline: "Founded 1966, Anaheim, California",
		detail:  "The first company to make shoes specifically designed for skateboarding.",
		funFact: "Stacy Peralta convinced Vans to sponsor the Z-Boys, launching skate shoe culture.",
	},
	{
		name:    "Independent Truck Company",
		tagline: "Founded 1978, Santa Cruz, California",
		detail:  "The most respected truck manufacturer in skateboarding history.",
		funFact: "The 'Indy' cross logo tattoo is like a badge of honor in the skate community.",
	},
}

var skateLegends = []profileEntry{
	{
		name:    "Tony Hawk",
		tagline: "The Birdman, vert, active 1982-present",
		detail:  "First to land the 900, 12x X-Games gold, and the face that brought skateboarding to mainstream America.",
		funFact: "Landed the first documented 900 at X-Games 1999 at age 31, retiring on top.",
	},
	{
		name:    "Rodney Mullen",
		tagline: "The Godfather of Street Skating, technical, active 1980-present",
		detail:  "Invented the flatground ollie, kickflip, heelflip and 360 flip.",
		funFact: "Won 34 out of 35 freestyle contests before switching to street skating.",
	},
	{
		name:    "Stacy Peralta",
		tagline: "The Z-Boy Director, pool and vert",
		detail:  "Z-Boys member, Powell Peralta founder, and Dogtown documentary director.",
		funFact: "Transitioned from legendary skater to award-winning filmmaker with Dogtown & Z-Boys.",
	},
	{
		name:    "Christian Hosoi",
		tagline: "Christ, vert and pool, active 1980s-present",
		detail:  "Vert legend and creator of the Hammerhead board shape.",
		funFact: "His rivalry with Tony Hawk defined 1980s vert skateboarding.",
	},
	{
		name:    "Natas Kaupas",
		tagline: "Street pioneer, active 1980s-1990s",
		detail:  "Spun on fire hydrants and rode walls nobody had imagined skating.",
		funFact: "His name is 'Satan' spelled backwards, which fit his rebellious skating perfectly.",
	},
	{
		name:    "Mark Gonzales",
		tagline: "The Gonz, street creative, active 1980s-present",
		detail:  "Street skating pioneer, artist, poet and creative innovator.",
		funFact: "Widely credited with being the first to skate handrails.",
	},
}

var skateCrews = []profileEntry{
	{
		name:    "Z-Boys (Zephyr Team)",
		tagline: "Formed 1975, Venice Beach, California",
		detail:  "Revolutionized skateboarding by bringing surfing style to empty pools.",
		funFact: "They literally invented modern skateboarding by treating pools like waves.",
	},
	{
		name:    "Bones Brigade",
		tagline: "Formed 1979, Santa Barbara, California",
		detail:  "Dominated 1980s skateboarding and pioneered the skate video.",
		funFact: "Their video series literally taught the world how skateboarding worked.",
	},
	{
		name:    "H-Street Crew",
		tagline: "Formed 1987, San Diego, California",
		detail:  "Helped transition skateboarding from vert to street focus.",
		funFact: "They were among the first to make handrails a primary street skating obstacle.",
	},
	{
		name:    "Plan B Original Team",
		tagline: "Formed 1991, San Diego, California",
		detail:  "The 'Questionable' video redefined what was possible in street skating.",
		funFact: "Their 'Questionable' video literally questioned every assumption about skateboarding.",
	},
	{
		name:    "EMB Crew (Embarcadero)",
		tagline: "Formed late 1980s, San Francisco, California",
		detail:  "Created the street plaza skating culture at the famous EMB plaza.",
		funFact: "The Embarcadero plaza became skateboarding's most famous street spot.",
	},
}

const skateHistory = "**Skateboarding History Timeline**\n" +
	"**1940s-1950s** — Surfers in California attach roller skate wheels to wooden planks and call it 'sidewalk surfing'.\n" +
	"**1970s** — Urethane wheels revolutionize skateboarding. The Z-Boys pioneer the modern style.\n" +
	"**1978** — Alan 'Ollie' Gelfand invents the ollie, the foundation of modern tricks.\n" +
	"**1980s-1990s** — Street skating develops and skate videos take over. Tony Hawk pushes the sport to new heights.\n" +
	"**2020** — Skateboarding makes its Olympic debut in Tokyo.\n" +
	"From sidewalk surfing to Olympic sport!"

// contentFor renders the response for a content command.
func contentFor(name string) string {
	switch name {
	case "trick":
		return fmt.Sprintf("Your trick to practice: **%s**", skateTricks[rand.Intn(len(skateTricks))])
	case "tricklist":
		return fmt.Sprintf("**All %d tricks in the rotation:**\n%s",
			len(skateTricks), strings.Join(skateTricks, ", "))
	case "skatefact":
		return skateFacts[rand.Intn(len(skateFacts))]
	case "skatehistory":
		return skateHistory
	case "brand":
		return renderProfile(skateBrands[rand.Intn(len(skateBrands))])
	case "skater":
		return renderProfile(skateLegends[rand.Intn(len(skateLegends))])
	case "crew":
		return renderProfile(skateCrews[rand.Intn(len(skateCrews))])
	}

	return ""
}

func renderProfile(entry profileEntry) string {
	return fmt.Sprintf("**%s**\n*%s*\n%s\nFun fact: %s",
		entry.name, entry.tagline, entry.detail, entry.funFact)
}
