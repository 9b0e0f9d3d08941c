package sources

import (
	"encoding/json"
	"strings"

	"github.com/JonMunkholm/etiquetas/internal/core"
	"github.com/JonMunkholm/etiquetas/internal/productcode"
)

// DomesticCountry is the country code that is not international.
const DomesticCountry = "ES"

// Order is the subset of a commerce-platform order the labels need.
// Field names follow the platform's JSON.
type Order struct {
	ID        int64      `json:"id"`
	Shipping  Shipping   `json:"shipping"`
	LineItems []LineItem `json:"line_items"`
}

// Shipping is the order's delivery address.
type Shipping struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Postcode  string `json:"postcode"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// LineItem is one product line of an order. A line without a quantity
// counts one unit.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	type plain LineItem
	p := plain{Quantity: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*li = LineItem(p)
	return nil
}

// poBoxMarkers flag addresses delivered to a post office box.
var poBoxMarkers = []string{"apartado", "apdo", "p.o. box", "pobox"}

// DetermineZone returns "B" for post office box addresses and "A" for
// everything else.
func DetermineZone(address string) string {
	lower := strings.ToLower(address)
	for _, m := range poBoxMarkers {
		if strings.Contains(lower, m) {
			return "B"
		}
	}
	return "A"
}

// OrdersToRecords converts orders to canonical records, in order. Product
// codes come from enc; a blank country is treated as domestic.
func OrdersToRecords(orders []Order, enc *productcode.Encoder) []core.Record {
	records := make([]core.Record, 0, len(orders))
	for _, o := range orders {
		s := o.Shipping

		country := strings.ToUpper(strings.TrimSpace(s.Country))
		if country == "" {
			country = DomesticCountry
		}

		items := make([]productcode.Item, len(o.LineItems))
		for i, li := range o.LineItems {
			items[i] = productcode.Item{Name: li.Name, Quantity: li.Quantity}
		}

		records = append(records, core.Record{
			Send:          true,
			Name:          strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName)),
			Company:       strings.TrimSpace(s.Company),
			Address:       strings.TrimSpace(s.Address1),
			PostalCode:    core.ExtractPostalCode(s.Postcode),
			City:          strings.TrimSpace(s.City),
			Zone:          DetermineZone(s.Address1),
			ProductCode:   enc.Encode(items),
			Country:       country,
			International: country != DomesticCountry,
		})
	}
	return records
}
