package breaks

// Break is the static description of one slacking tool.
type Break struct {
	Name        string
	Description string
	// Min and Max bound the stress relief, inclusive.
	Min int
	Max int
	// Message is the flavor line shown first in the report.
	Message string
	// Summary follows the "Break Summary:" label.
	Summary string
}

// catalog is ordered as the tools are listed to clients.
var catalog = []Break{
	{
		Name:        "take_a_break",
		Description: "Take a plain break. Use when tired or stressed.",
		Min:         10,
		Max:         30,
		Message:     "😴 Break complete! Recharging...",
		Summary:     "Basic break and relaxation",
	},
	{
		Name:        "watch_netflix",
		Description: "Watch a drama or a movie to unwind.",
		Min:         20,
		Max:         40,
		Message:     "📺 Netflix healing complete! Lost in another world for a while...",
		Summary:     "Netflix binge watching session",
	},
	{
		Name:        "show_meme",
		Description: "Scroll through memes when you need a laugh.",
		Min:         5,
		Max:         20,
		Message:     "😂 Memes blew the stress away!",
		Summary:     "Meme therapy session",
	},
	{
		Name:        "bathroom_break",
		Description: "Disappear to the restroom for a long while. Phone required.",
		Min:         15,
		Max:         35,
		Message:     "🛁 Restroom time! Healing with the phone... 📱",
		Summary:     "Bathroom break with phone browsing",
	},
	{
		Name:        "coffee_mission",
		Description: "Wander the office on the pretext of fetching coffee and chat with coworkers.",
		Min:         10,
		Max:         25,
		Message:     "☕️ A lap around the office on the way to the coffee machine... mission complete!",
		Summary:     "Coffee break mission",
	},
	{
		Name:        "urgent_call",
		Description: "Pretend to take an urgent call and enjoy some freedom outside.",
		Min:         20,
		Max:         40,
		Message:     "📞 Urgent call, apparently. Enjoying the fresh air outside!",
		Summary:     "Urgent call break",
	},
	{
		Name:        "deep_thinking",
		Description: "Look deeply absorbed in work while actually zoning out.",
		Min:         5,
		Max:         15,
		Message:     "🤔 Lost in profound thought... actually just staring into space!",
		Summary:     "Deep thinking session",
	},
	{
		Name:        "email_organizing",
		Description: "Look busy organizing email while actually shopping online.",
		Min:         10,
		Max:         25,
		Message:     "📧 Organizing email, definitely not online shopping... (secret)",
		Summary:     "Email organizing session",
	},
}

var byName = func() map[string]Break {
	m := make(map[string]Break, len(catalog))
	for _, b := range catalog {
		m[b.Name] = b
	}
	return m
}()

// Catalog returns every break in listing order.
func Catalog() []Break {
	out := make([]Break, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a break by tool name.
func Lookup(name string) (Break, bool) {
	b, ok := byName[name]
	return b, ok
}
