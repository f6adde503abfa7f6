package email

import "fmt"

// SendWelcomeEmail greets a user right after sign-up.
func (c *Client) SendWelcomeEmail(to, username, handle string) error {
	data := map[string]string{
		"Username": username,
		"Handle":   handle,
	}

	return c.SendEmail(to, "Welcome to Memwarzz!", TemplateWelcome, data)
}

// SendSponsorOutbidEmail tells the previous main sponsor that another
// company now holds the slot.
func (c *Client) SendSponsorOutbidEmail(to, companyName, winningCompany, winningBid string) error {
	data := map[string]string{
		"CompanyName":    companyName,
		"WinningCompany": winningCompany,
		"WinningBid":     winningBid,
	}

	return c.SendEmail(to, fmt.Sprintf("%s is no longer the main sponsor", companyName), TemplateSponsorOutbid, data)
}

// SendBattleResultEmail tells a battle creator how their battle ended.
func (c *Client) SendBattleResultEmail(to, username, result, meme1Votes, meme2Votes string) error {
	data := map[string]string{
		"Username":   username,
		"Result":     result,
		"Meme1Votes": meme1Votes,
		"Meme2Votes": meme2Votes,
	}

	return c.SendEmail(to, "Your meme battle has ended", TemplateBattleResult, data)
}
