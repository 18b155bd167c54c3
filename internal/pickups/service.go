package pickups

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/scrappickup-backend/internal/assignments"
	"github.com/angelmondragon/scrappickup-backend/internal/cart"
	"github.com/angelmondragon/scrappickup-backend/internal/users"
	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	"github.com/angelmondragon/scrappickup-backend/pkg/db"
	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
	"github.com/angelmondragon/scrappickup-backend/pkg/pagination"
	"github.com/angelmondragon/scrappickup-backend/pkg/phone"
	"github.com/angelmondragon/scrappickup-backend/pkg/pubsub"
)

const maxAddressLength = 500

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type quoter interface {
	Quote(ctx context.Context, input cart.QuoteInput) (*cart.Quote, error)
}

type statusNotifier interface {
	Notify(ctx context.Context, mobile, status string) error
}

// Service handles pickup submission and history.
type Service interface {
	Submit(ctx context.Context, sess session.Session, input SubmitInput) (*RequestDTO, error)
	History(ctx context.Context, sess session.Session, params pagination.Params) (*HistoryPage, error)
}

type ServiceParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Requests    Repository
	Users       *users.Repository
	Assignments assignments.Repository
	Quoter      quoter
	Notifier    statusNotifier
	Events      pubsub.EventPublisher
	CountryCode string
}

type service struct {
	logg        *logger.Logger
	db          txRunner
	requests    Repository
	users       *users.Repository
	assignments assignments.Repository
	quoter      quoter
	notifier    statusNotifier
	events      pubsub.EventPublisher
	countryCode string
	now         func() time.Time
}

// NewService builds the pickup service. Notifier and Events are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.DB == nil {
		return nil, errors.New("transaction runner required")
	}
	if params.Requests == nil {
		return nil, errors.New("pickup request repository required")
	}
	if params.Users == nil {
		return nil, errors.New("users repository required")
	}
	if params.Assignments == nil {
		return nil, errors.New("assignments repository required")
	}
	if params.Quoter == nil {
		return nil, errors.New("cart quoter required")
	}
	events := params.Events
	if events == nil {
		events = pubsub.Noop{}
	}
	countryCode := params.CountryCode
	if strings.TrimSpace(countryCode) == "" {
		countryCode = phone.DefaultCountryCode
	}
	return &service{
		logg:        params.Logger,
		db:          params.DB,
		requests:    params.Requests,
		users:       params.Users,
		assignments: params.Assignments,
		quoter:      params.Quoter,
		notifier:    params.Notifier,
		events:      events,
		countryCode: countryCode,
		now:         time.Now,
	}, nil
}

// Submit prices the cart, then stores the request and flips the profile to
// Pending in one transaction. Notifications go out only after commit and
// their failures are logged, not returned.
func (s *service) Submit(ctx context.Context, sess session.Session, input SubmitInput) (*RequestDTO, error) {
	mobile := phone.Normalize(sess.Phone)
	if !phone.Valid(mobile) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session phone missing")
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if len(address) > maxAddressLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is too long")
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = strings.TrimSpace(sess.Location)
	}
	if input.PreferredDate != nil {
		today := s.now().UTC().Truncate(24 * time.Hour)
		if input.PreferredDate.UTC().Before(today) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "preferred date is in the past")
		}
	}

	quote, err := s.quoter.Quote(ctx, cart.QuoteInput{Location: location, Items: input.Items})
	if err != nil {
		return nil, err
	}

	var (
		request *models.PickupRequest
		profile *models.UserProfile
	)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		profile, txErr = s.claimProfile(ctx, tx, sess, mobile, location)
		if txErr != nil {
			return txErr
		}
		request = &models.PickupRequest{
			Mobile:         profile.Phone,
			Location:       quote.Location,
			Address:        address,
			PreferredDate:  input.PreferredDate,
			Items:          quote.Lines,
			EstimatedTotal: quote.Total,
			Status:         string(enums.PickupStatusPending),
		}
		if txErr = s.requests.WithTx(tx).Create(ctx, request); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "store pickup request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"pickup_request_id": request.ID.String(),
		"location":          request.Location,
	})
	s.logg.Info(logCtx, "pickup request submitted")
	s.afterCommit(logCtx, profile, request)

	return toRequestDTO(request), nil
}

// claimProfile returns the caller's profile after moving it to Pending,
// creating it first when the user has never submitted before.
func (s *service) claimProfile(ctx context.Context, tx *gorm.DB, sess session.Session, mobile, location string) (*models.UserProfile, error) {
	repo := s.users.WithTx(tx)
	lookup, err := users.NewLookup(repo, s.countryCode)
	if err != nil {
		return nil, err
	}

	profile, err := lookup.FindByPhone(ctx, mobile)
	switch {
	case err == nil:
	case pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
		created, createErr := repo.Create(ctx, users.CreateProfileDTO{
			Phone:    mobile,
			Status:   enums.PickupStatusPending,
			Language: sess.Language,
			Location: location,
		})
		if db.IsUniqueViolation(createErr, "") {
			// A concurrent first submit for the same number won the insert
			// and its profile is already Pending.
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a pickup is already in progress").
				WithDetails(map[string]any{"status": string(enums.PickupStatusPending)})
		}
		if createErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "create user profile")
		}
		return created, nil
	default:
		return nil, err
	}

	moved, err := repo.MarkPending(ctx, profile.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user status")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a pickup is already in progress").
			WithDetails(map[string]any{"status": profile.Status})
	}
	profile.Status = string(enums.PickupStatusPending)

	language, loc := profile.Language, profile.Location
	if sess.Language != "" {
		language = string(sess.Language)
	}
	if location != "" {
		loc = location
	}
	if language != profile.Language || loc != profile.Location {
		if err := repo.UpdatePreferences(ctx, profile.ID, enums.Language(language), loc); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user preferences")
		}
		profile.Language, profile.Location = language, loc
	}
	return profile, nil
}

func (s *service) afterCommit(ctx context.Context, profile *models.UserProfile, request *models.PickupRequest) {
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, profile.Phone, profile.Status); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "status change notification failed")
		}
	}

	event := RequestedEvent{
		RequestID:      request.ID,
		UserID:         profile.ID,
		Mobile:         request.Mobile,
		Location:       request.Location,
		Address:        request.Address,
		PreferredDate:  request.PreferredDate,
		Items:          request.Items,
		EstimatedTotal: request.EstimatedTotal,
	}
	if err := s.events.Publish(ctx, pubsub.EventPickupRequested, request.ID.String(), event); err != nil {
		s.logg.Error(ctx, "publish pickup.requested", err)
	}
}

func toRequestDTO(r *models.PickupRequest) *RequestDTO {
	return &RequestDTO{
		ID:             r.ID,
		Status:         r.Status,
		Location:       r.Location,
		Address:        r.Address,
		PreferredDate:  r.PreferredDate,
		Items:          r.Items,
		EstimatedTotal: r.EstimatedTotal,
		CreatedAt:      r.CreatedAt,
	}
}
