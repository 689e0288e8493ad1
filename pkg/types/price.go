package types

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceRequest asks for the unit price of one or more tokens.
// IDs may be mints or symbols; VsToken defaults to USDC server-side.
type PriceRequest struct {
	IDs     []string
	VsToken string
}

// Validate checks the request before it is sent.
func (r *PriceRequest) Validate() error {
	if len(r.IDs) == 0 {
		return invalid("ids", "at least one id is required")
	}
	for _, id := range r.IDs {
		if strings.TrimSpace(id) == "" {
			return invalid("ids", "contains a blank id")
		}
		if strings.Contains(id, ",") {
			return invalid("ids", "id %q contains a comma", id)
		}
	}
	return nil
}

// Values encodes the request as price endpoint query parameters.
func (r PriceRequest) Values() url.Values {
	v := url.Values{}
	v.Set("ids", strings.Join(r.IDs, ","))
	if r.VsToken != "" {
		v.Set("vsToken", r.VsToken)
	}
	return v
}

// Price is the price of one unit of ID expressed in VsToken.
type Price struct {
	ID            string          `json:"id"`
	MintSymbol    string          `json:"mintSymbol"`
	VsToken       string          `json:"vsToken"`
	VsTokenSymbol string          `json:"vsTokenSymbol"`
	Price         decimal.Decimal `json:"price"`
}

// PriceResponse maps each requested id to its price. Ids the server could
// not price are absent.
type PriceResponse struct {
	Data      map[string]Price `json:"data"`
	TimeTaken float64          `json:"timeTaken"`
}

// Validate checks the decoded response.
func (r *PriceResponse) Validate() error {
	if r.Data == nil {
		return invalid("data", "missing")
	}
	for key, p := range r.Data {
		if p.ID == "" {
			return invalid("data."+key+".id", "missing")
		}
	}
	return nil
}
