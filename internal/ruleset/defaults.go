package ruleset

// defaultOrder fixes the declaration order of the built-in categories.
// Scoring ties between categories resolve in this order.
var defaultOrder = []string{
	"Work", "Coding", "AI", "Research", "Shopping", "Social",
	"News", "Entertainment", "Finance", "Health", "Travel", "Sports",
}

var defaultKeywords = map[string][]string{
	"Work": {
		"meeting", "schedule", "calendar", "email", "slack", "teams",
		"project", "deadline", "report", "presentation", "spreadsheet",
		"invoice", "client", "contract", "proposal", "office", "zoom",
		"linkedin", "resume", "job", "interview", "salary", "hr",
		"career", "hire", "hiring", "recruit", "employee", "manager",
		"workplace", "remote work", "wfh", "business", "corporate",
	},
	"Coding": {
		"python", "javascript", "typescript", "react", "vue", "angular",
		"node", "npm", "pip", "github", "gitlab", "stackoverflow",
		"api", "docker", "kubernetes", "aws", "azure", "gcp",
		"debug", "error", "exception", "bug", "fix", "code",
		"function", "class", "import", "library", "framework",
		"database", "sql", "mongodb", "redis", "postgres", "mysql",
		"git", "commit", "merge", "branch", "pull request", "pr",
		"programming", "developer", "software", "engineer", "coding",
		"algorithm", "data structure", "leetcode", "hackerrank",
		"frontend", "backend", "fullstack", "devops", "cli", "terminal",
		"json", "xml", "html", "css", "sass", "webpack", "vite",
		"rust", "golang", "java", "swift", "kotlin", "c++", "ruby",
	},
	"AI": {
		"ai", "artificial intelligence", "machine learning", "ml",
		"chatgpt", "openai", "claude", "anthropic", "gpt", "llm",
		"deep learning", "neural network", "nlp", "computer vision",
		"midjourney", "stable diffusion", "dall-e", "generative",
		"prompt", "transformer", "model", "training", "fine-tune",
		"huggingface", "pytorch", "tensorflow", "langchain",
		"copilot", "gemini", "bard", "perplexity", "automation",
	},
	"Research": {
		"research", "study", "paper", "journal", "academic", "scholar",
		"university", "thesis", "dissertation", "citation", "reference",
		"wikipedia", "wiki", "definition", "meaning", "explain",
		"how to", "what is", "why does", "tutorial", "guide", "learn",
		"course", "education", "class", "lecture", "professor",
		"science", "scientific", "experiment", "theory", "hypothesis",
	},
	"Shopping": {
		"buy", "purchase", "price", "cheap", "deal", "discount",
		"amazon", "ebay", "walmart", "target", "best buy", "costco",
		"shop", "store", "order", "shipping", "delivery", "cart",
		"review", "rating", "compare", "vs", "alternative",
		"coupon", "promo", "sale", "black friday", "cyber monday",
		"product", "brand", "warranty", "return", "refund",
	},
	"Social": {
		"facebook", "twitter", "instagram", "tiktok", "snapchat",
		"reddit", "discord", "whatsapp", "telegram", "messenger",
		"friend", "follow", "like", "share", "post", "comment",
		"profile", "social media", "viral", "trending", "meme",
		"dating", "tinder", "bumble", "hinge", "relationship",
	},
	"News": {
		"news", "breaking", "headline", "article", "journalist",
		"cnn", "bbc", "nytimes", "washington post", "reuters",
		"politics", "election", "president", "congress", "senate",
		"economy", "stock", "market", "inflation", "recession",
		"weather", "forecast", "storm", "earthquake", "disaster",
		"update", "latest", "today", "current events", "world",
	},
	"Entertainment": {
		"movie", "film", "netflix", "hulu", "disney", "hbo", "prime video",
		"tv show", "series", "episode", "season", "streaming",
		"music", "spotify", "youtube", "song", "album", "artist", "concert",
		"game", "gaming", "playstation", "xbox", "nintendo", "steam",
		"funny", "comedy", "laugh", "joke", "humor",
		"anime", "manga", "comic", "superhero", "marvel", "dc",
		"celebrity", "actor", "actress", "singer", "band",
		"podcast", "twitch", "streamer", "esports",
	},
	"Finance": {
		"bank", "banking", "account", "credit card", "debit",
		"loan", "mortgage", "interest", "rate", "apr",
		"invest", "stock", "crypto", "bitcoin", "ethereum",
		"budget", "savings", "retirement", "401k", "ira",
		"tax", "irs", "refund", "deduction", "accountant",
		"paypal", "venmo", "transfer", "wire", "payment",
		"trading", "forex", "etf", "dividend", "portfolio",
	},
	"Health": {
		"health", "medical", "doctor", "hospital", "clinic",
		"symptom", "disease", "illness", "treatment", "medicine",
		"pharmacy", "prescription", "drug", "vaccine", "covid",
		"fitness", "workout", "exercise", "gym", "yoga", "diet",
		"nutrition", "vitamin", "supplement", "weight", "calories",
		"mental health", "anxiety", "depression", "therapy", "counseling",
		"sleep", "wellness", "mindfulness", "meditation", "stress",
	},
	"Travel": {
		"travel", "flight", "airline", "airport", "booking",
		"hotel", "airbnb", "vacation", "trip", "destination",
		"passport", "visa", "immigration", "customs",
		"car rental", "uber", "lyft", "taxi", "transportation",
		"restaurant", "food", "cuisine", "menu", "reservation",
		"beach", "mountain", "cruise", "tour", "sightseeing",
	},
	"Sports": {
		"sports", "football", "basketball", "baseball", "soccer",
		"nfl", "nba", "mlb", "nhl", "fifa", "espn",
		"score", "game", "match", "team", "player", "coach",
		"championship", "playoff", "tournament", "league",
		"running", "marathon", "cycling", "swimming", "tennis", "golf",
	},
}
