package email

// Template names an email template under templates/.
type Template string

const (
	TemplateWelcome       Template = "welcome"
	TemplateSponsorOutbid Template = "sponsor_outbid"
	TemplateBattleResult  Template = "battle_result"
)

func (t Template) file() string {
	return string(t) + ".html"
}
