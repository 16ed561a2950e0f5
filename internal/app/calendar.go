package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

const graphCalendarView = "https://graph.microsoft.com/v1.0/me/calendarview"

// providerConfig builds the OAuth2 config for a calendar provider, or nil
// when the provider is not configured.
func (a *App) providerConfig(provider string) *oauth2.Config {
	switch provider {
	case ProviderGoogle:
		g := a.Cfg.Google
		if g.ClientID == "" || g.ClientSecret == "" || g.RedirectURL == "" {
			return nil
		}
		return &oauth2.Config{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  g.RedirectURL,
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		}
	case ProviderMicrosoft:
		m := a.Cfg.Microsoft
		if m.ClientID == "" || m.ClientSecret == "" || m.RedirectURL == "" {
			return nil
		}
		return &oauth2.Config{
			ClientID:     m.ClientID,
			ClientSecret: m.ClientSecret,
			RedirectURL:  m.RedirectURL,
			Scopes:       []string{"offline_access", "https://graph.microsoft.com/Calendars.Read"},
			Endpoint:     microsoft.AzureADEndpoint(m.Tenant),
		}
	}
	return nil
}

// GET /api/integrations/:provider/connect
// Redirects the agent into the provider's consent screen. The state carries
// provider and agent so the shared callback can route the exchange.
func (a *App) ConnectIntegrationHandler(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	provider := c.Param("provider")
	cfg := a.providerConfig(provider)
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s calendar not configured", provider)})
		return
	}
	state := fmt.Sprintf("%s:%s:%d", provider, id, time.Now().Unix())
	c.Redirect(http.StatusFound, cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// GET /oauth2callback?code=&state=
func (a *App) OAuth2CallbackHandler(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}
	parts := strings.SplitN(state, ":", 3)
	if len(parts) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}
	provider, agent := parts[0], parts[1]
	cfg := a.providerConfig(provider)
	if cfg == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider in state"})
		return
	}

	token, err := cfg.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := a.SaveIntegrationToken(c.Request.Context(), agent, provider, tokenJSON); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": provider})
}

// GET /api/integrations/:provider/disconnect
func (a *App) DisconnectIntegrationHandler(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	provider := c.Param("provider")
	err := a.DeleteIntegrationToken(c.Request.Context(), id, provider)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "integration not connected"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": provider})
}

// FetchExternalEvents pulls events from every connected provider and maps
// them into read-only appointments (isExternal set, never written back).
func (a *App) FetchExternalEvents(ctx context.Context, agentID string, from, to time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, provider := range []string{ProviderGoogle, ProviderMicrosoft} {
		cfg := a.providerConfig(provider)
		if cfg == nil {
			continue
		}
		raw, err := a.GetIntegrationToken(ctx, agentID, provider)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return out, err
		}
		var token oauth2.Token
		if err := json.Unmarshal(raw, &token); err != nil {
			return out, fmt.Errorf("%s token: %w", provider, err)
		}

		var events []Appointment
		switch provider {
		case ProviderGoogle:
			events, err = fetchGoogleEvents(ctx, cfg, &token, from, to)
		case ProviderMicrosoft:
			events, err = fetchMicrosoftEvents(ctx, cfg, &token, from, to)
		}
		if err != nil {
			return out, fmt.Errorf("%s events: %w", provider, err)
		}
		out = append(out, events...)
	}
	return out, nil
}

func fetchGoogleEvents(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, from, to time.Time) ([]Appointment, error) {
	client := cfg.Client(ctx, token)
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}
	call := srv.Events.List("primary").
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250)
	if !from.IsZero() {
		call = call.TimeMin(from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		call = call.TimeMax(to.Format(time.RFC3339))
	}
	events, err := call.Do()
	if err != nil {
		return nil, err
	}

	var out []Appointment
	for _, item := range events.Items {
		appt := Appointment{
			ID:         item.Id,
			Status:     item.Status,
			FamilyName: item.Summary,
			Location:   item.Location,
			IsExternal: true,
			Provider:   ProviderGoogle,
		}
		appt.StartsAt = parseGoogleTime(item.Start)
		appt.EndsAt = parseGoogleTime(item.End)
		if appt.StartsAt.IsZero() {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}

func parseGoogleTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t.UTC()
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// graphEvent is the subset of a Microsoft Graph calendarView item we read.
type graphEvent struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Start   struct {
		DateTime string `json:"dateTime"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
	} `json:"end"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
	IsCancelled bool `json:"isCancelled"`
}

func fetchMicrosoftEvents(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, from, to time.Time) ([]Appointment, error) {
	client := cfg.Client(ctx, token)

	u := graphCalendarView + "?" + url.Values{
		"startDateTime": {from.UTC().Format(time.RFC3339)},
		"endDateTime":   {to.UTC().Format(time.RFC3339)},
		"$top":          {"250"},
	}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// Graph returns start/end in the requested zone; ask for UTC.
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph calendarview: status %d", resp.StatusCode)
	}

	var body struct {
		Value []graphEvent `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	var out []Appointment
	for _, item := range body.Value {
		if item.IsCancelled {
			continue
		}
		start := parseGraphTime(item.Start.DateTime)
		if start.IsZero() {
			continue
		}
		out = append(out, Appointment{
			ID:         item.ID,
			Status:     "confirmed",
			FamilyName: item.Subject,
			Location:   item.Location.DisplayName,
			StartsAt:   start,
			EndsAt:     parseGraphTime(item.End.DateTime),
			IsExternal: true,
			Provider:   ProviderMicrosoft,
		})
	}
	return out, nil
}

// Graph emits fractional-second naive datetimes ("2006-01-02T15:04:05.0000000").
func parseGraphTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05.0000000", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
