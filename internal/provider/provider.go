package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"parking-nav-backend/config"
	"parking-nav-backend/internal/notification"
	"parking-nav-backend/internal/rules"
	"parking-nav-backend/internal/store"
)

// Service pulls the sign corpus from the upstream open-data API, persists it
// through the store, and dispatches street-cleaning alerts for watched signs.
type Service struct {
	cfg        *config.Config
	store      store.Store
	client     *http.Client
	workerPool *notification.WorkerPool
}

// NewService creates and initializes a new provider service.
func NewService(cfg *config.Config, st store.Store) *Service {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.Provider.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.Provider.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Provider will not use a proxy.", cfg.Provider.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.Alerts.WorkerPoolSize, st.DB(), &webpushOptions)

	return &Service{
		cfg:   cfg,
		store: st,
		client: &http.Client{
			Transport: transport,
			Timeout:   60 * time.Second,
		},
		workerPool: workerPool,
	}
}

// Run starts the refresh loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Provider.Enabled {
		log.Println("Sign provider is disabled. Not starting.")
		return
	}
	log.Println("Starting sign provider service...")

	s.workerPool.Start(ctx)

	s.RefreshOnce(ctx)

	timer := time.NewTimer(s.cfg.Provider.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sign provider shutting down.")
			return
		case <-timer.C:
			s.RefreshOnce(ctx)
			timer.Reset(s.cfg.Provider.Interval)
		}
	}
}

// RefreshOnce performs a single full fetch of the sign feed, upserts the
// corpus, and dispatches due cleaning alerts.
func (s *Service) RefreshOnce(ctx context.Context) {
	log.Println("Executing sign refresh cycle...")
	now := time.Now().UTC()

	var allItems []store.SignItem
	pageSize := s.cfg.Provider.Request.PageSize
	var fetchErr error
	for offset := 0; ; offset += pageSize {
		items, err := s.fetchPage(ctx, offset)
		if err != nil {
			log.Printf("Error fetching signs at offset %d: %v", offset, err)
			fetchErr = err
			break
		}
		if len(items) == 0 {
			break
		}
		allItems = append(allItems, items...)
		log.Printf("Fetched %d sign records so far", len(allItems))
		if len(items) < pageSize {
			break
		}
	}

	// If the fetch failed outright, keep the existing corpus untouched.
	if fetchErr != nil && len(allItems) == 0 {
		log.Println("Refresh cycle aborted due to fetch error with no items retrieved. Sign data will not be updated.")
		return
	}

	for i := range allItems {
		resolveItem(&allItems[i])
		allItems[i].FetchedAt = now
	}

	if err := s.store.UpsertSigns(ctx, allItems); err != nil {
		log.Printf("Error upserting signs: %v", err)
		return
	}

	s.dispatchCleaningAlerts(ctx, allItems)

	log.Println("Refresh cycle finished.")
}

// fetchPage fetches one page of sign records using Socrata-style paging.
func (s *Service) fetchPage(ctx context.Context, offset int) ([]store.SignItem, error) {
	u, err := url.Parse(s.cfg.Provider.Request.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid provider URL: %w", err)
	}
	q := u.Query()
	q.Set("$limit", strconv.Itoa(s.cfg.Provider.Request.PageSize))
	q.Set("$offset", strconv.Itoa(offset))
	q.Set("$order", "objectid")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range s.cfg.Provider.Request.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var items []store.SignItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed response: %w", err)
	}
	return items, nil
}

// resolveItem parses the feed's string-typed ID and coordinates. Records
// without geocoding stay unresolved and are skipped by the store.
func resolveItem(item *store.SignItem) {
	id, err := strconv.ParseInt(item.ObjectID, 10, 64)
	if err != nil {
		return
	}
	lat, err := strconv.ParseFloat(item.Latitude, 64)
	if err != nil {
		return
	}
	lon, err := strconv.ParseFloat(item.Longitude, 64)
	if err != nil {
		return
	}
	if lat == 0 || lon == 0 {
		return
	}
	item.ID = id
	item.Lat = lat
	item.Lon = lon
	item.Resolved = true
}

// dispatchCleaningAlerts queues an alert job for every watched sign whose
// street-cleaning window starts within the configured lead time.
func (s *Service) dispatchCleaningAlerts(ctx context.Context, items []store.SignItem) {
	watched, err := s.store.WatchedSignIDs(ctx)
	if err != nil {
		log.Printf("Error listing watched signs: %v", err)
		return
	}
	if len(watched) == 0 {
		return
	}

	loc, err := time.LoadLocation(s.cfg.Alerts.Timezone)
	if err != nil {
		log.Printf("Warning: invalid alerts timezone %q: %v. Using UTC.", s.cfg.Alerts.Timezone, err)
		loc = time.UTC
	}
	localNow := time.Now().In(loc)

	byID := make(map[int64]store.SignItem, len(items))
	for _, item := range items {
		if item.Resolved {
			byID[item.ID] = item
		}
	}

	var dispatched int
	for _, id := range watched {
		item, ok := byID[id]
		if !ok {
			continue
		}
		r := rules.Parse(item.Description)
		if r.Type != rules.RestrictionStreetCleaning {
			continue
		}
		if !cleaningAlertDue(r, localNow, s.cfg.Alerts.LeadTime) {
			continue
		}
		s.workerPool.Dispatch(id)
		dispatched++
	}
	if dispatched > 0 {
		log.Printf("Dispatched cleaning alerts for %d signs", dispatched)
	}
}

// cleaningAlertDue reports whether the rule's window starts within the lead
// time after the given instant, on a day the rule applies to.
func cleaningAlertDue(r rules.Rule, at time.Time, lead time.Duration) bool {
	if r.TimeRange == nil {
		return false
	}
	day := rules.WeekdayIndex(at)
	if len(r.Days) > 0 && !containsInt(r.Days, day) {
		return false
	}
	if containsInt(r.Exceptions, day) {
		return false
	}
	delta := time.Duration(int(r.TimeRange.Start)-int(rules.MinuteOfDay(at))) * time.Minute
	return delta > 0 && delta <= lead
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
