package catalog

import (
	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is a catalog entry as shown to the app.
type ProductDTO struct {
	ID       uuid.UUID       `json:"id"`
	Location string          `json:"location"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Rate     decimal.Decimal `json:"rate"`
}

func FromModel(p models.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID,
		Location: p.Location,
		Name:     p.Name,
		Unit:     p.Unit,
		Rate:     p.Rate,
	}
}
