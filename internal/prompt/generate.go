package prompt

import (
	"fmt"

	"github.com/sells-group/leadforge/internal/model"
)

const leadMagnetTemplate = `You are a content strategist creating a lead magnet for this business:

Business type: %s
Target market: %s
About: %s

Topic: %s

Create a complete, ready-to-use lead magnet. Return a valid JSON object:
{"title": "<compelling title>", "description": "<two sentence description>", "type": "<checklist|guide|template|worksheet>", "content": "<the full lead magnet content, markdown formatted>"}`

// LeadMagnet builds the lead magnet generation prompt.
func LeadMagnet(profile model.UserProfile, topic string) string {
	return fmt.Sprintf(leadMagnetTemplate,
		orUnknown(profile.BusinessType),
		orUnknown(profile.TargetMarket),
		orUnknown(profile.AboutYourBusiness),
		orUnknown(topic),
	)
}

const strategyTemplate = `You are a marketing strategist. Write an actionable outreach strategy for this business:

Business type: %s
Company: %s
Target market: %s
Referral partners: %s
About the operator: %s

Contact list summary:
%s
Write a concise strategy covering: which categories to prioritise, suggested
outreach sequence, and three concrete next actions. Plain text, no JSON.`

// Strategy builds the marketing strategy prompt from the profile and a
// category breakdown of the contact list.
func Strategy(profile model.UserProfile, categoryCounts map[model.Category]int) string {
	var summary string
	for _, cat := range []model.Category{
		model.CategoryIdealClient, model.CategoryChampion,
		model.CategoryReferralPartner, model.CategoryCompetitor,
		model.CategoryOther, model.CategoryUncategorised,
	} {
		if n := categoryCounts[cat]; n > 0 {
			summary += fmt.Sprintf("- %s: %d\n", cat, n)
		}
	}
	if summary == "" {
		summary = "(no contacts)\n"
	}

	return fmt.Sprintf(strategyTemplate,
		orUnknown(profile.BusinessType),
		orUnknown(profile.Company),
		orUnknown(profile.TargetMarket),
		orUnknown(profile.ReferralPartners),
		orUnknown(profile.AboutYou),
		summary,
	)
}

const directMessageTemplate = `You are a prospecting assistant writing a short, personalized LinkedIn direct message.

Sender's business: %s (%s)
Recipient:
Name: %s
Company: %s
Position: %s
Relationship category: %s

Write a 3-4 sentence message that acknowledges the recipient's role, is
specific to their relationship category, and ends with a low-pressure call
to action. Respond ONLY with the message text (no JSON, no labels).`

// DirectMessage builds the per-contact outreach message prompt.
func DirectMessage(c model.Contact, profile model.UserProfile) string {
	return fmt.Sprintf(directMessageTemplate,
		orUnknown(profile.BusinessType),
		orUnknown(profile.Company),
		c.Name,
		c.Company,
		c.Position,
		string(c.Category),
	)
}
