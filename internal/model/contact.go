package model

import "strings"

// Sentinel values used to signal degraded enrichment data. The UI renders
// these directly, so they are part of the wire contract.
const (
	SentinelNotFound      = "Not found"
	SentinelSearchFailed  = "Search failed"
	SentinelParsingFailed = "Parsing failed"
)

// Category labels a contact's relationship to the operator's business.
type Category string

// Canonical category set, in precedence order.
const (
	CategoryIdealClient     Category = "Ideal Client"
	CategoryChampion        Category = "Champion"
	CategoryReferralPartner Category = "Referral Partner"
	CategoryCompetitor      Category = "Competitor"
	CategoryOther           Category = "Other"
	CategoryUncategorised   Category = "Uncategorised"
)

// ValidCategory reports whether label is one of the canonical categories
// assignable by the categorizer (Uncategorised is import-time only).
func ValidCategory(label string) bool {
	switch Category(label) {
	case CategoryIdealClient, CategoryChampion, CategoryReferralPartner,
		CategoryCompetitor, CategoryOther:
		return true
	}
	return false
}

// Contact represents one imported person. Identity fields (ID, Name,
// Company, Position, Email) are set at import time and never overwritten
// by enrichment; only enrichment-derived fields are added or replaced.
type Contact struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName,omitempty"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Email    string `json:"email"`

	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`

	Industry       string   `json:"industry,omitempty"`
	IsEnriched     bool     `json:"isEnriched"`
	Category       Category `json:"category"`
	CategoryReason string   `json:"categoryReason,omitempty"`
}

// NewContact builds an import-time contact with lifecycle defaults.
func NewContact(id int, name, company, position, email string) Contact {
	return Contact{
		ID:       id,
		Name:     name,
		LastName: LastNameOf(name),
		Company:  company,
		Position: position,
		Email:    email,
		Category: CategoryUncategorised,
	}
}

// LastNameOf returns the last whitespace-delimited token of a full name,
// or "" for an empty name.
func LastNameOf(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// UserProfile describes the operator's own business. It parameterizes every
// prompt and is read-only within a single enrichment or categorization run.
type UserProfile struct {
	BusinessType      string `json:"businessType"`
	TargetMarket      string `json:"targetMarket"`
	ReferralPartners  string `json:"referralPartners"`
	Company           string `json:"company"`
	AboutYou          string `json:"aboutYou,omitempty"`
	AboutYourBusiness string `json:"aboutYourBusiness,omitempty"`
}

// SearchResult is a single ranked web result from the search provider.
// Consumed only as prompt context and for website-candidate ranking.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// WebsiteCandidate is an ephemeral ranking of a search result's domain
// against the contact's company name. The top-scoring candidate is the
// fallback website when the LLM fails to supply one.
type WebsiteCandidate struct {
	URL   string `json:"url"`
	Score int    `json:"score"`
}
