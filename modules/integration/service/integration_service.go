package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"meetly/core/config"
	"meetly/core/errors"
	"meetly/core/logger"
	"meetly/core/utils"
	"meetly/core/worker"
	evententity "meetly/modules/event/entity"
	"meetly/modules/integration/dto"
	"meetly/modules/integration/entity"
	"meetly/modules/integration/repository"
	meetingentity "meetly/modules/meeting/entity"
)

const (
	googleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	googleEventsAPI       = googleCalendarAPIBase + "/calendars/primary/events"
	googleTokenURL        = "https://oauth2.googleapis.com/token"
	googleUserInfoAPI     = "https://www.googleapis.com/oauth2/v2/userinfo"

	// Access tokens are refreshed slightly before expiry so an API call
	// never goes out with a token about to lapse mid-flight.
	tokenRefreshMargin = 5 * time.Minute
)

var googleScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/userinfo.email",
}

// StateStore holds short-lived OAuth state values between the redirect to
// the provider and the callback.
type StateStore interface {
	SetOAuthState(ctx context.Context, state string, userID string) error
	ConsumeOAuthState(ctx context.Context, state string) (string, error)
}

// MeetingStore is the slice of the meeting repository the calendar sync
// worker needs.
type MeetingStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*meetingentity.Meeting, error)
	UpdateMeetLink(ctx context.Context, id uuid.UUID, meetLink, calendarEventID string) error
}

// EventStore resolves the event a meeting was booked on.
type EventStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*evententity.Event, error)
}

type IntegrationServiceInterface interface {
	ConnectURL(ctx context.Context, userID uuid.UUID) (*dto.ConnectURLResponse, *errors.AppError)
	HandleCallback(ctx context.Context, state, code string) *errors.AppError
	CheckIntegration(ctx context.Context, userID uuid.UUID, provider string) (*dto.CheckIntegrationResponse, *errors.AppError)
	ListIntegrations(ctx context.Context, userID uuid.UUID) ([]dto.IntegrationResponse, *errors.AppError)
	Disconnect(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError
	HandleCalendarSyncTask(ctx context.Context, task *asynq.Task) error
}

type IntegrationService struct {
	repo     repository.IntegrationRepositoryInterface
	states   StateStore
	meetings MeetingStore
	events   EventStore
	http     *http.Client
}

func NewIntegrationService(
	repo repository.IntegrationRepositoryInterface,
	states StateStore,
	meetings MeetingStore,
	events EventStore,
) *IntegrationService {
	return &IntegrationService{
		repo:     repo,
		states:   states,
		meetings: meetings,
		events:   events,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *IntegrationService) oauthConfig() *oauth2.Config {
	cfg := config.Get().GoogleAPI
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       googleScopes,
		Endpoint:     google.Endpoint,
	}
}

// ConnectURL starts the OAuth flow. The state value is stored against the
// user so the callback can tell whose connection is being completed.
func (s *IntegrationService) ConnectURL(ctx context.Context, userID uuid.UUID) (*dto.ConnectURLResponse, *errors.AppError) {
	logger.Info("IntegrationService:ConnectURL:Start", "user_id", userID)

	state := utils.GenerateRandomString(32)
	if err := s.states.SetOAuthState(ctx, state, userID.String()); err != nil {
		logger.Error("IntegrationService:ConnectURL:SaveState", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to start connection", err)
	}

	authURL := s.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return &dto.ConnectURLResponse{URL: authURL}, nil
}

// HandleCallback completes the OAuth flow: it consumes the state, exchanges
// the code for tokens and stores the connection.
func (s *IntegrationService) HandleCallback(ctx context.Context, state, code string) *errors.AppError {
	logger.Info("IntegrationService:HandleCallback:Start")

	if state == "" || code == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "state and code are required", nil)
	}

	userIDStr, err := s.states.ConsumeOAuthState(ctx, state)
	if err != nil {
		logger.Warn("IntegrationService:HandleCallback:UnknownState", "error", err)
		return errors.NewAppError(errors.ErrUnauthorized, "invalid or expired state", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "corrupt state binding", err)
	}

	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		logger.Error("IntegrationService:HandleCallback:Exchange", "error", err)
		return errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	email, err := s.fetchGoogleEmail(ctx, token.AccessToken)
	if err != nil {
		logger.Warn("IntegrationService:HandleCallback:FetchEmail", "error", err)
	}

	_, err = s.repo.Upsert(ctx, &entity.Integration{
		UserID:       userID,
		Provider:     entity.ProviderGoogle,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
		Email:        email,
	})
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to save connection", err)
	}

	logger.Info("IntegrationService:HandleCallback:Success", "user_id", userID)
	return nil
}

func (s *IntegrationService) CheckIntegration(ctx context.Context, userID uuid.UUID, provider string) (*dto.CheckIntegrationResponse, *errors.AppError) {
	p := entity.Provider(provider)
	if !p.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown provider", nil)
	}

	integration, err := s.repo.GetByUserAndProvider(ctx, userID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check connection", err)
	}
	return &dto.CheckIntegrationResponse{Provider: p, Connected: integration != nil}, nil
}

func (s *IntegrationService) ListIntegrations(ctx context.Context, userID uuid.UUID) ([]dto.IntegrationResponse, *errors.AppError) {
	integrations, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list connections", err)
	}
	return dto.ToIntegrationResponses(integrations), nil
}

func (s *IntegrationService) Disconnect(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError {
	p := entity.Provider(provider)
	if !p.Valid() {
		return errors.NewAppError(errors.ErrInvalidInput, "unknown provider", nil)
	}

	integration, err := s.repo.GetByUserAndProvider(ctx, userID, p)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load connection", err)
	}
	if integration == nil {
		return errors.NewAppError(errors.ErrNotFound, "no connection for provider", nil)
	}

	if err := s.repo.Delete(ctx, userID, p); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to disconnect", err)
	}

	logger.Info("IntegrationService:Disconnect:Success", "user_id", userID, "provider", p)
	return nil
}

// HandleCalendarSyncTask mirrors a booked meeting into the host's Google
// calendar and stores the resulting Meet link. Missing prerequisites (meeting
// gone, cancelled, host not connected) drop the task; transient API failures
// return an error so asynq retries.
func (s *IntegrationService) HandleCalendarSyncTask(ctx context.Context, task *asynq.Task) error {
	var payload worker.CalendarSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("IntegrationService:CalendarSync:BadPayload", "error", err)
		return nil
	}

	meeting, err := s.meetings.GetByID(ctx, payload.MeetingID)
	if err != nil {
		return err
	}
	if meeting == nil || meeting.Status != meetingentity.StatusScheduled {
		logger.Info("IntegrationService:CalendarSync:Skip", "meeting_id", payload.MeetingID)
		return nil
	}

	event, err := s.events.GetByID(ctx, meeting.EventID)
	if err != nil {
		return err
	}
	if event == nil {
		logger.Warn("IntegrationService:CalendarSync:EventGone", "meeting_id", meeting.ID)
		return nil
	}

	integration, err := s.repo.GetByUserAndProvider(ctx, meeting.UserID, entity.ProviderGoogle)
	if err != nil {
		return err
	}
	if integration == nil {
		logger.Info("IntegrationService:CalendarSync:NotConnected", "user_id", meeting.UserID)
		return nil
	}

	if err := s.ensureValidToken(ctx, integration); err != nil {
		return err
	}

	meetLink, calendarEventID, err := s.createCalendarEvent(ctx, integration, event, meeting)
	if err != nil {
		return err
	}

	if err := s.meetings.UpdateMeetLink(ctx, meeting.ID, meetLink, calendarEventID); err != nil {
		return err
	}

	logger.Info("IntegrationService:CalendarSync:Success", "meeting_id", meeting.ID)
	return nil
}

// ensureValidToken refreshes the access token when it is within the refresh
// margin of expiry and persists the renewed credentials.
func (s *IntegrationService) ensureValidToken(ctx context.Context, integration *entity.Integration) error {
	if time.Until(integration.ExpiresAt) > tokenRefreshMargin {
		return nil
	}
	if integration.RefreshToken == "" {
		return fmt.Errorf("access token expired and no refresh token stored")
	}

	cfg := config.Get().GoogleAPI
	resp, err := s.http.PostForm(googleTokenURL, url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"refresh_token": {integration.RefreshToken},
		"grant_type":    {"refresh_token"},
	})
	if err != nil {
		return fmt.Errorf("refresh token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh token request failed with status %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}

	accessToken, ok := result["access_token"].(string)
	if !ok || accessToken == "" {
		return fmt.Errorf("refresh response missing access_token")
	}
	integration.AccessToken = accessToken

	if expiresIn, ok := result["expires_in"].(float64); ok {
		integration.ExpiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	if refreshToken, ok := result["refresh_token"].(string); ok && refreshToken != "" {
		integration.RefreshToken = refreshToken
	}

	if err := s.repo.UpdateTokens(ctx, integration); err != nil {
		return fmt.Errorf("persist refreshed tokens: %w", err)
	}

	logger.Info("IntegrationService:TokenRefreshed", "user_id", integration.UserID)
	return nil
}

// createCalendarEvent creates the event on the host's primary calendar with
// a Meet conference attached and the guest invited.
func (s *IntegrationService) createCalendarEvent(ctx context.Context, integration *entity.Integration, event *evententity.Event, meeting *meetingentity.Meeting) (string, string, error) {
	description := "Booked via Meetly"
	if meeting.AdditionalInfo != nil && *meeting.AdditionalInfo != "" {
		description = *meeting.AdditionalInfo
	}

	body := map[string]interface{}{
		"summary":     fmt.Sprintf("%s with %s", event.Title, meeting.GuestName),
		"description": description,
		"start": map[string]interface{}{
			"dateTime": meeting.StartTime.Format(time.RFC3339),
			"timeZone": "UTC",
		},
		"end": map[string]interface{}{
			"dateTime": meeting.EndTime.Format(time.RFC3339),
			"timeZone": "UTC",
		},
		"attendees": []map[string]interface{}{
			{"email": meeting.GuestEmail, "displayName": meeting.GuestName},
		},
		"conferenceData": map[string]interface{}{
			"createRequest": map[string]interface{}{
				"requestId": "meetly-" + utils.GenerateID(),
				"conferenceSolutionKey": map[string]interface{}{
					"type": "hangoutsMeet",
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", "", fmt.Errorf("marshal calendar event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		googleEventsAPI+"?conferenceDataVersion=1", bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("create calendar event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("create calendar event failed with status %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("decode calendar event response: %w", err)
	}

	calendarEventID, _ := result["id"].(string)
	meetLink, _ := result["hangoutLink"].(string)
	if meetLink == "" {
		logger.Warn("IntegrationService:CreateCalendarEvent:NoMeetLink", "meeting_id", meeting.ID)
	}
	return meetLink, calendarEventID, nil
}

func (s *IntegrationService) fetchGoogleEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoAPI, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	email, _ := result["email"].(string)
	return email, nil
}
