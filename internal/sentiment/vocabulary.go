package sentiment

// News is the tone vocabulary for headlines and article snippets.
var News = &Vocabulary{
	Name:     "news",
	Positive: Positive,
	Negative: Negative,
	positiveWords: []string{
		"surge", "soar", "jump", "rally", "gain", "beat", "rise", "climb",
		"record", "upgrade", "outperform", "growth", "profit", "strong",
		"boost", "exceed", "bullish", "rebound", "recover", "win", "high",
		"expand", "optimistic", "breakthrough", "approval", "dividend",
		"all-time high", "raises guidance", "buy rating",
	},
	negativeWords: []string{
		"plunge", "drop", "fall", "fell", "fallen", "decline", "miss",
		"loss", "downgrade", "slump", "crash", "weak", "tumble", "sink",
		"sank", "lawsuit", "probe", "recall", "bearish", "layoff", "warn",
		"concern", "fear", "underperform", "bankruptcy", "fraud", "slide",
		"low", "cut", "sell-off", "selloff", "lowers guidance", "sell rating",
	},
}

// Social is the forum slang vocabulary for Reddit-style posts.
var Social = &Vocabulary{
	Name:     "social",
	Positive: Bullish,
	Negative: Bearish,
	positiveWords: []string{
		"moon", "rocket", "tendies", "calls", "bull", "bullish", "squeeze",
		"lambo", "undervalued", "breakout", "rip", "long", "hodl", "ath",
		"to the moon", "diamond hands", "buy the dip", "btfd", "printing",
	},
	negativeWords: []string{
		"puts", "bear", "bearish", "dump", "bagholder", "bagholding", "crash",
		"overvalued", "rugpull", "rug pull", "paper hands", "tank", "drill",
		"guh", "loss porn", "dead cat", "bubble", "sell",
	},
	positiveMarks: []string{"🚀", "📈", "💎", "🌙", "🐂"},
	negativeMarks: []string{"📉", "🐻", "🩸", "💀"},
}
