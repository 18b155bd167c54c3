package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/scrappickup-backend/internal/catalog"
	"github.com/angelmondragon/scrappickup-backend/pkg/db/dbtest"
	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
)

type stubResolver struct {
	products map[uuid.UUID]models.Product
	err      error
	calls    int
}

func (s *stubResolver) Resolve(_ context.Context, _ string, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := map[uuid.UUID]models.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestQuotePricesAndMergesLines(t *testing.T) {
	copper := models.Product{ID: uuid.New(), Location: "Pune", Name: "Copper", Unit: "kg", Rate: dec("425.00"), Active: true}
	paper := models.Product{ID: uuid.New(), Location: "Pune", Name: "Newspaper", Unit: "kg", Rate: dec("14.50"), Active: true}
	svc, err := NewService(&stubResolver{products: map[uuid.UUID]models.Product{copper.ID: copper, paper.ID: paper}})
	require.NoError(t, err)

	quote, err := svc.Quote(context.Background(), QuoteInput{
		Location: "Pune",
		Items: []QuoteItem{
			{ProductID: paper.ID, Quantity: dec("2.5")},
			{ProductID: copper.ID, Quantity: dec("1.2")},
			{ProductID: paper.ID, Quantity: dec("0.5")},
		},
	})
	require.NoError(t, err)

	require.Len(t, quote.Lines, 2)
	assert.Equal(t, "Newspaper", quote.Lines[0].Name)
	assert.True(t, quote.Lines[0].Quantity.Equal(dec("3")))
	assert.True(t, quote.Lines[0].Total.Equal(dec("43.50")))
	assert.Equal(t, "Copper", quote.Lines[1].Name)
	assert.True(t, quote.Lines[1].Total.Equal(dec("510.00")))
	assert.True(t, quote.Total.Equal(dec("553.50")), "total %s", quote.Total)
}

func TestQuoteValidatesInput(t *testing.T) {
	resolver := &stubResolver{}
	svc, err := NewService(resolver)
	require.NoError(t, err)
	id := uuid.New()

	cases := map[string]QuoteInput{
		"missing location": {Items: []QuoteItem{{ProductID: id, Quantity: dec("1")}}},
		"empty cart":       {Location: "Pune"},
		"nil product":      {Location: "Pune", Items: []QuoteItem{{Quantity: dec("1")}}},
		"zero quantity":    {Location: "Pune", Items: []QuoteItem{{ProductID: id, Quantity: decimal.Zero}}},
		"negative":         {Location: "Pune", Items: []QuoteItem{{ProductID: id, Quantity: dec("-2")}}},
	}
	for name, input := range cases {
		_, err := svc.Quote(context.Background(), input)
		require.Error(t, err, name)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), name)
	}
	assert.Zero(t, resolver.calls)
}

func TestQuoteRejectsTooManyLines(t *testing.T) {
	svc, err := NewService(&stubResolver{})
	require.NoError(t, err)

	items := make([]QuoteItem, 0, MaxLines+1)
	for i := 0; i <= MaxLines; i++ {
		items = append(items, QuoteItem{ProductID: uuid.New(), Quantity: dec("1")})
	}
	_, err = svc.Quote(context.Background(), QuoteInput{Location: "Pune", Items: items})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestQuoteAgainstCatalog(t *testing.T) {
	repo := catalog.NewRepository(dbtest.Open(t))
	iron := models.Product{Location: "Pune", Name: "Iron", Unit: "kg", Rate: dec("28.00"), Active: true}
	require.NoError(t, repo.Create(context.Background(), &iron))
	mumbai := models.Product{Location: "Mumbai", Name: "Iron", Unit: "kg", Rate: dec("30.00"), Active: true}
	require.NoError(t, repo.Create(context.Background(), &mumbai))

	catalogSvc, err := catalog.NewService(repo)
	require.NoError(t, err)
	svc, err := NewService(catalogSvc)
	require.NoError(t, err)

	quote, err := svc.Quote(context.Background(), QuoteInput{Location: "Pune", Items: []QuoteItem{{ProductID: iron.ID, Quantity: dec("10")}}})
	require.NoError(t, err)
	assert.True(t, quote.Total.Equal(dec("280")))

	_, err = svc.Quote(context.Background(), QuoteInput{Location: "Pune", Items: []QuoteItem{{ProductID: mumbai.ID, Quantity: dec("1")}}})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
