package mockserver

// Fixture article ids and text served by a new Server
const (
	ArticleSports  = "e70a69a1"
	ArticleWelfare = "e70a7341"

	TextTheMule = "Det er en ældre herre, der i ' The Mule' har sat sig bag rattet i en lidt yngre, " +
		"støvet pickup-truck af mærket Ford. Virkelighedens Leo Sharp var 88 år, da han blev " +
		"narkokurér for Sinaloa-kartellet. Sharp er i filmversionen omdøbt til Earl Stone og " +
		"spilles af Clint Eastwood, der også er blevet 88. Så det har ikke krævet den vilde method acting."
)

func defaultArticles() map[string][]Suggestion {
	return map[string][]Suggestion{
		ArticleSports: {
			{Value: "652*m97.8", Score: 2, Type: "dk5"},
			{Value: "610*aJydsk Boldspil-Union*2ARTB", Score: 1, Type: "emne"},
		},
		ArticleWelfare: {
			{Value: "666*fvelfærdsstaten", Score: 1, Type: "emne"},
		},
	}
}

func defaultArticleSets() map[string][]Suggestion {
	return map[string][]Suggestion{
		articleSetKey([]string{ArticleSports, ArticleWelfare}): {
			{Value: "652*m97.8", Score: 2, Type: "dk5"},
			{Value: "666*fvelfærdsstaten", Score: 1, Type: "emne"},
		},
	}
}

func defaultTexts() map[string][]Suggestion {
	return map[string][]Suggestion{
		TextTheMule: {
			{Value: "630*ftrash metal*2ARTB", Score: 1, Type: "emne"},
			{Value: "630*aArtillery (rockgruppe)", Score: 1, Type: "emne"},
			{Value: "630*ferkendelsesteori*2ARTB", Score: 1, Type: "emne"},
		},
	}
}
