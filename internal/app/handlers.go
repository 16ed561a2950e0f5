package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"preneed-scheduler/internal/schedule"
)

// loadAppointments reads the agent's stored appointments for the range and
// merges in events from any connected external calendars, annotated for the
// given zone. External fetch failures degrade to the stored list alone.
func (a *App) loadAppointments(ctx context.Context, agentID string, from, to time.Time, filtered bool, zone string) ([]Appointment, error) {
	appts, err := a.ListAppointments(ctx, agentID, from, to, filtered)
	if err != nil {
		return nil, err
	}
	// external providers need a bounded window; unfiltered listings stay local
	if filtered {
		external, err := a.FetchExternalEvents(ctx, agentID, from, to)
		if err != nil {
			log.Printf("external calendar fetch for agent %s: %v", agentID, err)
		} else {
			appts = append(appts, external...)
		}
	}
	loc := schedule.LocationOrUTC(zone)
	for i := range appts {
		appts[i].Derived = schedule.Annotate(appts[i].StartsAt, appts[i].EndsAt, loc)
	}
	return appts, nil
}

// GET /api/appointments/mine?from=ISO&to=ISO&zone=IANA
func (a *App) MyAppointmentsHandler(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	from, to, filtered, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	zone := c.Query("zone")
	if zone == "" {
		if doc, err := a.GetAvailabilitySettings(ctx, id); err == nil {
			zone = doc.Timezone
		}
	}
	appts, err := a.loadAppointments(ctx, id, from, to, filtered, zone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, appts)
}

// GET /api/agents/availability?agentId=&startDate=&endDate=&location=
// Public: families browsing an agent's bookable slots. Booked slots are
// excluded here, so callers only ever see available=true entries.
func (a *App) AgentAvailabilityHandler(c *gin.Context) {
	agent := c.Query("agentId")
	if agent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agentId required"})
		return
	}
	startDate, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	endDate, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not be before startDate"})
		return
	}
	location := c.DefaultQuery("location", "video")

	ctx := c.Request.Context()
	doc, err := a.GetAvailabilitySettings(ctx, agent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	loc := schedule.LocationOrUTC(doc.Timezone)

	// widen by a day on both sides so zone offsets cannot hide a booking
	booked, err := a.BookedIntervals(ctx, agent,
		startDate.AddDate(0, 0, -1), endDate.AddDate(0, 0, 2))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	days := schedule.GenerateSlots(doc.WeekFor(location), startDate, endDate,
		doc.AppointmentLength, loc, booked)
	c.JSON(http.StatusOK, days)
}

// GET /api/agent/settings/availability
func (a *App) GetSettingsHandler(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	doc, err := a.GetAvailabilitySettings(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// prepareSettings validates and normalizes a settings document in place:
// every location week and the video week are checked, location keys are
// normalized, and the complete location map is kept intact, touched or not.
// Collected warnings do not block; critical errors do.
func prepareSettings(doc *AvailabilitySettings) ([]string, error) {
	if doc.AppointmentLength <= 0 {
		doc.AppointmentLength = DefaultSettings().AppointmentLength
	}

	var warnings []string
	normalized := schedule.ByLocation{}
	for location, week := range doc.AvailabilityByLocation {
		result := schedule.Validate(week)
		if !result.OK() {
			return nil, errors.New(strings.Join(result.Critical, "; "))
		}
		warnings = append(warnings, result.Warnings...)
		normalized[schedule.NormalizeLocation(location)] = week
	}
	doc.AvailabilityByLocation = normalized
	for i, location := range doc.Locations {
		doc.Locations[i] = schedule.NormalizeLocation(location)
	}
	if doc.VideoSchedule != nil {
		result := schedule.Validate(doc.VideoSchedule)
		if !result.OK() {
			return nil, errors.New(strings.Join(result.Critical, "; "))
		}
		warnings = append(warnings, result.Warnings...)
	}
	return warnings, nil
}

// POST /api/agent/settings/availability
// Validates every location's week, normalizes location keys, and persists
// the complete document. Warnings do not block; the client confirms them.
func (a *App) SaveSettingsHandler(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	var doc AvailabilitySettings
	if err := c.BindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	warnings, err := prepareSettings(&doc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guardKey := "settings:" + id
	if !a.InFlight.TryAcquire(guardKey) {
		c.JSON(http.StatusConflict, gin.H{"error": "a save is already in progress"})
		return
	}
	defer a.InFlight.Release(guardKey)

	if err := a.SaveAvailabilitySettings(c.Request.Context(), id, &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true, "warnings": warnings})
}

type eventReq struct {
	Title       string `json:"title"`
	StartsAt    string `json:"startsAt"`
	EndsAt      string `json:"endsAt"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	LeadID      string `json:"leadId,omitempty"`

	// Grid-click form: a local date, hour and minute in the agent's zone.
	Date            string `json:"date,omitempty"`
	Hour            *int   `json:"hour,omitempty"`
	Minute          int    `json:"minute,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Zone            string `json:"zone,omitempty"`
}

// resolveTimes produces the UTC pair from either explicit timestamps or the
// grid-click (date, hour, minute) form.
func (a *App) resolveTimes(ctx context.Context, agentID string, req *eventReq) (start, end time.Time, err error) {
	if req.StartsAt != "" || req.EndsAt != "" {
		start, err = time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return start, end, errors.New("invalid startsAt")
		}
		end, err = time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return start, end, errors.New("invalid endsAt")
		}
		if !start.Before(end) {
			return start, end, errors.New("startsAt must be before endsAt")
		}
		return start.UTC(), end.UTC(), nil
	}
	if req.Date == "" || req.Hour == nil {
		return start, end, errors.New("either startsAt/endsAt or date/hour required")
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return start, end, errors.New("invalid date")
	}
	duration := req.DurationMinutes
	zone := req.Zone
	if duration <= 0 || zone == "" {
		doc, err := a.GetAvailabilitySettings(ctx, agentID)
		if err != nil {
			return start, end, err
		}
		if duration <= 0 {
			duration = doc.AppointmentLength
		}
		// same fallback as the read path: the agent's stored zone
		if zone == "" {
			zone = doc.Timezone
		}
	}
	start, end = schedule.ComposeUTCRange(day, *req.Hour, req.Minute, duration, schedule.LocationOrUTC(zone))
	return start, end, nil
}

// POST /api/agent/events/create
func (a *App) CreateEventHandler(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	var req eventReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	ctx := c.Request.Context()
	start, end, err := a.resolveTimes(ctx, id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guardKey := "events:" + id
	if !a.InFlight.TryAcquire(guardKey) {
		c.JSON(http.StatusConflict, gin.H{"error": "another event request is in progress"})
		return
	}
	defer a.InFlight.Release(guardKey)

	event := &Event{
		ID:          uuid.NewString(),
		AgentID:     id,
		Title:       strings.TrimSpace(req.Title),
		StartsAt:    start,
		EndsAt:      end,
		Location:    req.Location,
		Description: req.Description,
		LeadID:      req.LeadID,
	}
	if err := a.InsertEvent(ctx, event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// PUT /api/agent/events/:id
func (a *App) UpdateEventHandler(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	eventID := c.Param("id")
	var req eventReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	ctx := c.Request.Context()
	start, end, err := a.resolveTimes(ctx, id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guardKey := "event:" + eventID
	if !a.InFlight.TryAcquire(guardKey) {
		c.JSON(http.StatusConflict, gin.H{"error": "another update for this event is in progress"})
		return
	}
	defer a.InFlight.Release(guardKey)

	event := &Event{
		ID:          eventID,
		AgentID:     id,
		Title:       strings.TrimSpace(req.Title),
		StartsAt:    start,
		EndsAt:      end,
		Location:    req.Location,
		Description: req.Description,
	}
	err = a.UpdateEvent(ctx, event)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// GET /api/agent/calendar?view=day|week|month&date=2006-01-02&zone=IANA&viewportWidth=px
// Returns the fully computed grid for one view: cells, annotated
// appointments, the display-hour window and the box geometry inputs.
func (a *App) CalendarViewHandler(c *gin.Context) {
	id, ok := agentID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	zone := c.Query("zone")
	if zone == "" {
		if doc, err := a.GetAvailabilitySettings(ctx, id); err == nil {
			zone = doc.Timezone
		}
	}
	loc := schedule.LocationOrUTC(zone)

	anchor := time.Now().In(loc)
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		anchor = parsed
	}

	view := c.DefaultQuery("view", "week")
	var (
		cells []schedule.DayCell
		from  time.Time
		to    time.Time
	)
	switch view {
	case "day":
		day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
		cells = schedule.WeekGrid(anchor, loc)[int(day.Weekday()):int(day.Weekday())+1]
		from, to = day, day.AddDate(0, 0, 1)
	case "month":
		cells = schedule.MonthGrid(anchor.Year(), anchor.Month(), loc)
		from = cells[0].FullDate
		to = from.AddDate(0, 0, schedule.MonthCells)
	case "week":
		cells = schedule.WeekGrid(anchor, loc)
		from = cells[0].FullDate
		to = from.AddDate(0, 0, 7)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be day, week or month"})
		return
	}

	appts, err := a.loadAppointments(ctx, id, from.UTC(), to.UTC(), true, zone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	derived := make([]schedule.Derived, len(appts))
	for i := range appts {
		derived[i] = appts[i].Derived
	}
	cells = schedule.BucketAppointments(cells, derived)
	startHour, endHour := schedule.HourWindow(derived)

	// attach the agent's own bookable slots to each cell
	if doc, err := a.GetAvailabilitySettings(ctx, id); err == nil {
		booked, err := a.BookedIntervals(ctx, id, from.UTC(), to.UTC())
		if err == nil {
			location := c.DefaultQuery("location", "video")
			days := schedule.GenerateSlots(doc.WeekFor(location),
				cells[0].FullDate, cells[len(cells)-1].FullDate,
				doc.AppointmentLength, loc, booked)
			byDate := make(map[string][]schedule.TimeSlot, len(days))
			for _, d := range days {
				byDate[d.Date] = d.Slots
			}
			for i := range cells {
				cells[i].TimeSlots = byDate[cells[i].DateStr]
			}
		}
	}

	viewportWidth, _ := strconv.Atoi(c.DefaultQuery("viewportWidth", "1024"))
	var colors [7]string
	for d := time.Sunday; d <= time.Saturday; d++ {
		colors[d] = schedule.WeekdayColor(d)
	}

	c.JSON(http.StatusOK, gin.H{
		"view":          view,
		"cells":         cells,
		"appointments":  appts,
		"windowStart":   startHour,
		"windowEnd":     endHour,
		"cellHeightPx":  schedule.CellHeight(viewportWidth),
		"weekdayColors": colors,
	})
}

func parseRange(fromStr, toStr string) (from, to time.Time, filtered bool, err error) {
	if fromStr == "" && toStr == "" {
		return from, to, false, nil
	}
	from, err = time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return from, to, false, errors.New("invalid from")
	}
	to, err = time.Parse(time.RFC3339, toStr)
	if err != nil {
		return from, to, false, errors.New("invalid to")
	}
	if !from.Before(to) {
		return from, to, false, errors.New("from must be before to")
	}
	return from.UTC(), to.UTC(), true, nil
}
