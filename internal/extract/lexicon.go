package extract

// Word lists for the rule-based analyzer. Entries are lowercase unless the
// lookup is done against capitalized words.

var honorifics = toSet(
	"mr", "mrs", "ms", "miss", "dr", "prof", "professor", "sir", "dame", "lord", "lady",
	"president", "king", "queen", "prince", "princess", "pope", "saint",
	"general", "gen", "col", "capt", "captain", "sen", "senator", "gov", "governor",
	"rev", "father", "judge", "chancellor", "emperor", "empress",
)

var sentenceInitialSkip = toSet(
	"the", "a", "an", "this", "that", "these", "those", "it", "he", "she", "they",
	"we", "i", "you", "in", "on", "at", "for", "there", "his", "her", "their", "our",
	"my", "its", "many", "some", "most", "all", "every", "each", "no", "when", "while",
	"after", "before", "during", "since", "although", "if", "as", "by", "from", "with",
	"of", "and", "but", "or", "so", "yes", "today", "yesterday", "water", "humans",
	"people", "scientists", "researchers",
)

// clauseStarters open a new sentence after a single capital letter
var clauseStarters = toSet(
	"the", "a", "an", "this", "that", "these", "those", "it", "he", "she", "they",
	"we", "i", "you", "there", "his", "her", "their", "its", "our", "my",
	"then", "however", "later", "thus", "meanwhile", "afterwards", "today",
	"in", "on", "at", "after", "before", "during", "since", "when", "while",
	"but", "and", "so", "yet", "also", "many", "some", "most",
)

var connectors = toSet("of", "the", "de", "and", "for", "von", "van", "da", "del", "la", "le", "du", "di")

var gpeNames = toSet(
	"united states", "united states of america", "usa", "u.s.", "us", "america",
	"united kingdom", "uk", "u.k.", "britain", "great britain", "england", "scotland", "wales",
	"ireland", "france", "germany", "italy", "spain", "portugal", "netherlands", "belgium",
	"switzerland", "austria", "poland", "russia", "soviet union", "ukraine", "sweden",
	"norway", "denmark", "finland", "greece", "turkey", "egypt", "israel", "iran", "iraq",
	"india", "pakistan", "china", "japan", "korea", "south korea", "north korea", "vietnam",
	"thailand", "indonesia", "philippines", "australia", "new zealand", "canada", "mexico",
	"brazil", "argentina", "chile", "peru", "colombia", "cuba", "nigeria", "kenya",
	"south africa", "ethiopia", "morocco", "saudi arabia",
	"paris", "london", "berlin", "rome", "madrid", "lisbon", "vienna", "prague", "warsaw",
	"moscow", "kyiv", "athens", "istanbul", "cairo", "jerusalem", "tokyo", "beijing",
	"shanghai", "hong kong", "seoul", "delhi", "new delhi", "mumbai", "sydney", "melbourne",
	"toronto", "montreal", "vancouver", "new york", "new york city", "los angeles", "chicago",
	"boston", "washington", "san francisco", "seattle", "houston", "miami", "ottawa",
	"mexico city", "rio de janeiro", "buenos aires", "amsterdam", "brussels", "dublin",
	"edinburgh", "stockholm", "oslo", "copenhagen", "helsinki", "ulm", "munich", "hamburg",
	"california", "texas", "florida", "alaska", "hawaii", "new jersey", "ohio", "virginia",
	"massachusetts", "illinois", "georgia", "michigan", "pennsylvania", "arizona", "nevada",
)

var locNames = toSet(
	"earth", "mars", "venus", "mercury", "jupiter", "saturn", "uranus", "neptune", "pluto",
	"moon", "sun", "milky way", "europe", "asia", "africa", "antarctica", "north america",
	"south america", "oceania", "arctic", "sahara", "amazon", "himalayas", "alps",
	"mediterranean", "pacific", "atlantic", "middle east", "siberia", "everest",
)

var facCues = toSet(
	"Tower", "Bridge", "Airport", "Station", "Stadium", "Cathedral", "Church", "Temple",
	"Palace", "Castle", "Building", "Dam", "Wall", "Canal", "Tunnel", "Hospital", "Square",
	"Monument", "Memorial", "Arena", "Abbey", "Pyramid", "Pyramids", "Gate", "Statue",
)

var orgCues = toSet(
	"Inc", "Inc.", "Corp", "Corp.", "Corporation", "Company", "Ltd", "Ltd.", "LLC", "Group",
	"University", "College", "Institute", "School", "Academy", "Museum", "Library",
	"Foundation", "Association", "Society", "Agency", "Council", "Committee", "Party",
	"Bank", "Ministry", "Department", "Administration", "Organization", "Organisation",
	"Union", "Federation", "League", "Club", "Records", "Studios", "Times", "Post",
)

var orgHeads = toSet("University", "Bank", "Ministry", "Department", "Institute", "Museum")

var eventCues = toSet(
	"War", "Revolution", "Olympics", "Games", "Cup", "Battle", "Siege", "Crisis",
	"Election", "Festival", "Summit", "Expedition", "Massacre", "Rebellion", "Uprising",
	"Pandemic", "Depression", "Renaissance", "Landing",
)

var locCues = toSet(
	"River", "Ocean", "Sea", "Lake", "Mountains", "Mountain", "Desert", "Valley", "Island",
	"Islands", "Peninsula", "Gulf", "Bay", "Forest", "Falls", "Canyon", "Strait", "Coast",
)

var locHeads = toSet("Mount", "Lake", "Gulf", "Bay", "Cape", "Isle")

var determiners = toSet(
	"the", "a", "an", "this", "that", "these", "those", "his", "her", "its", "their",
	"our", "my", "your", "some", "any", "every", "each", "no", "all",
)

var pronouns = toSet(
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "us", "them",
	"who", "which", "what",
)

var verbs = toSet(
	"is", "are", "was", "were", "be", "been", "being", "am",
	"has", "have", "had", "having", "do", "does", "did",
	"can", "could", "will", "would", "shall", "should", "may", "might", "must",
	"boils", "boil", "freezes", "freeze", "orbits", "orbit", "contains", "contain",
	"became", "become", "becomes", "won", "wins", "win", "wrote", "writes", "write",
	"discovered", "invented", "founded", "built", "made", "makes", "make", "flows", "flow",
	"lives", "live", "lived", "died", "dies", "born", "says", "said", "gets", "got",
	"took", "takes", "gave", "gives", "goes", "went", "came", "comes", "led", "leads",
	"rises", "rise", "rose", "sets", "covers", "cover", "speaks", "spoke", "painted",
	"composed", "directed", "landed", "reached", "consists", "causes", "cause", "runs", "ran",
)

var prepositions = toSet(
	"of", "in", "on", "at", "by", "for", "with", "from", "to", "into", "onto", "about",
	"over", "under", "between", "among", "through", "during", "before", "after",
	"around", "against", "without", "within", "than", "as", "like", "per", "near",
)

var conjunctions = toSet("and", "or", "but", "nor", "so", "yet", "because", "although", "while", "if", "that")

var adverbs = toSet(
	"not", "never", "also", "always", "often", "only", "just", "still", "already",
	"actually", "really", "mostly", "usually", "approximately", "about", "roughly",
)
