package email

// PreviewData holds sample variables for every template, used to render
// previews and to check that templates execute.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"Username": "Pepe",
		"Handle":   "pepe_the_frog",
	},
	TemplateSponsorOutbid: {
		"CompanyName":    "Doge Labs",
		"WinningCompany": "Wojak Inc",
		"WinningBid":     "$1,250.00",
	},
	TemplateBattleResult: {
		"Username":   "Pepe",
		"Result":     "Your first meme won!",
		"Meme1Votes": "42",
		"Meme2Votes": "17",
	},
}
