// Package catalog provides the seed directory: contacts, billers,
// tradable stocks and the opening ledger. The data ships embedded as
// YAML and can be overridden with an external file.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"luminapay/internal/models"
)

//go:embed catalog.yaml
var embedded []byte

// Catalog holds the seed data for a fresh session.
type Catalog struct {
	OpeningBalance float64       `yaml:"opening_balance"`
	Contacts       []contactSeed `yaml:"contacts"`
	Billers        []billerSeed  `yaml:"billers"`
	Stocks         []stockSeed   `yaml:"stocks"`
	History        []txSeed      `yaml:"history"`
}

type contactSeed struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	PaymentAddress string `yaml:"payment_address"`
	AvatarURL      string `yaml:"avatar_url"`
}

type billerSeed struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	InputLabel  string `yaml:"input_label"`
	Placeholder string `yaml:"placeholder"`
}

type stockSeed struct {
	Symbol string  `yaml:"symbol"`
	Name   string  `yaml:"name"`
	Price  float64 `yaml:"price"`
	Change float64 `yaml:"change"`
	Sector string  `yaml:"sector"`
	Index  string  `yaml:"index"`
}

type txSeed struct {
	ID        string  `yaml:"id"`
	Recipient string  `yaml:"recipient"`
	Amount    float64 `yaml:"amount"`
	Type      string  `yaml:"type"`
	Category  string  `yaml:"category"`
	Note      string  `yaml:"note"`
	DaysAgo   int     `yaml:"days_ago"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return parse(embedded)
}

// LoadFile parses a catalog from an external YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(c.Stocks) == 0 {
		return nil, fmt.Errorf("catalog has no stocks")
	}
	return &c, nil
}

// ContactList returns all contacts.
func (c *Catalog) ContactList() []models.Contact {
	out := make([]models.Contact, 0, len(c.Contacts))
	for _, s := range c.Contacts {
		out = append(out, models.Contact{
			ID:             s.ID,
			Name:           s.Name,
			PaymentAddress: s.PaymentAddress,
			AvatarURL:      s.AvatarURL,
		})
	}
	return out
}

// SearchContacts filters contacts by name or payment address,
// case-insensitively. An empty query returns everyone.
func (c *Catalog) SearchContacts(query string) []models.Contact {
	query = strings.ToLower(strings.TrimSpace(query))
	all := c.ContactList()
	if query == "" {
		return all
	}
	out := make([]models.Contact, 0, len(all))
	for _, ct := range all {
		if strings.Contains(strings.ToLower(ct.Name), query) ||
			strings.Contains(strings.ToLower(ct.PaymentAddress), query) {
			out = append(out, ct)
		}
	}
	return out
}

// BillerCategories returns the distinct biller categories in catalog order.
func (c *Catalog) BillerCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range c.Billers {
		if !seen[b.Category] {
			seen[b.Category] = true
			out = append(out, b.Category)
		}
	}
	return out
}

// BillersByCategory returns the billers in one category.
func (c *Catalog) BillersByCategory(category string) []models.Biller {
	var out []models.Biller
	for _, b := range c.Billers {
		if b.Category == category {
			out = append(out, models.Biller{
				ID:          b.ID,
				Name:        b.Name,
				Category:    b.Category,
				InputLabel:  b.InputLabel,
				Placeholder: b.Placeholder,
			})
		}
	}
	return out
}

// FindBiller looks a biller up by ID.
func (c *Catalog) FindBiller(id string) (models.Biller, bool) {
	for _, b := range c.Billers {
		if b.ID == id {
			return models.Biller{
				ID:          b.ID,
				Name:        b.Name,
				Category:    b.Category,
				InputLabel:  b.InputLabel,
				Placeholder: b.Placeholder,
			}, true
		}
	}
	return models.Biller{}, false
}

// StockList returns the seed instruments, histories empty. The market
// engine owns price history generation.
func (c *Catalog) StockList() []models.Stock {
	out := make([]models.Stock, 0, len(c.Stocks))
	for _, s := range c.Stocks {
		out = append(out, models.Stock{
			Symbol: s.Symbol,
			Name:   s.Name,
			Price:  s.Price,
			Change: s.Change,
			Sector: s.Sector,
			Index:  s.Index,
		})
	}
	return out
}

// SeedTransactions returns the opening ledger, most recent first, with
// dates derived from now.
func (c *Catalog) SeedTransactions(now time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(c.History))
	for _, s := range c.History {
		out = append(out, models.Transaction{
			ID:        s.ID,
			Recipient: s.Recipient,
			Amount:    s.Amount,
			Date:      now.AddDate(0, 0, -s.DaysAgo),
			Type:      s.Type,
			Status:    models.TxSuccess,
			Category:  s.Category,
			Note:      s.Note,
		})
	}
	return out
}
