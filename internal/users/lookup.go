package users

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/phone"
	"gorm.io/gorm"
)

type profileFinder interface {
	FindByPhone(ctx context.Context, phone string) (*models.UserProfile, error)
}

// Lookup resolves a profile when the same number may be stored bare or with
// the country code.
type Lookup struct {
	repo        profileFinder
	countryCode string
}

// NewLookup builds a Lookup; an empty countryCode means phone.DefaultCountryCode.
func NewLookup(repo profileFinder, countryCode string) (*Lookup, error) {
	if repo == nil {
		return nil, errors.New("profile repository required")
	}
	if strings.TrimSpace(countryCode) == "" {
		countryCode = phone.DefaultCountryCode
	}
	return &Lookup{repo: repo, countryCode: countryCode}, nil
}

// FindByPhone tries number as given, then once in its "+<code>" form when
// the first try found nothing and number was not already in that form. A
// number carrying the code without the plus is retried with the plus added.
func (l *Lookup) FindByPhone(ctx context.Context, number string) (*models.UserProfile, error) {
	number = phone.Normalize(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	profile, err := l.find(ctx, number)
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return profile, wrapLookupErr(err)
	}
	prefixed := phone.WithCountryCode(number, l.countryCode)
	if prefixed == number {
		return nil, wrapLookupErr(err)
	}

	profile, err = l.find(ctx, prefixed)
	return profile, wrapLookupErr(err)
}

func (l *Lookup) find(ctx context.Context, number string) (*models.UserProfile, error) {
	profile, err := l.repo.FindByPhone(ctx, number)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func wrapLookupErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user profile not found")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user profile")
	}
}
