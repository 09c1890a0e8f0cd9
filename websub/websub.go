package websub

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gazette/db"
	"gazette/discovery"
	"gazette/feed"
	"gazette/parser"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	// DefaultLeaseSeconds is assumed until the hub grants a lease (5 days)
	DefaultLeaseSeconds = 432000

	// hubTimeout bounds subscribe/unsubscribe requests to the hub
	hubTimeout = 10 * time.Second

	// renewalWindow is how far ahead of expiry a subscription becomes a
	// renewal candidate. Renewal has to run before expiry or the hub drops
	// the subscription silently
	renewalWindow = 48 * time.Hour

	// maxRenewalsPerRun caps the renewal batch
	maxRenewalsPerRun = 20

	// maxSubscriptionErrors is the consecutive renewal failure count at
	// which a subscription is deactivated, handing the feed back to polling
	maxSubscriptionErrors = 5

	modeSubscribe   = "subscribe"
	modeUnsubscribe = "unsubscribe"
)

var (
	// ErrHubRejected indicates the hub answered a subscription request with
	// a non-2xx status
	ErrHubRejected = errors.New("hub rejected subscription request")

	// ErrHubTimeout indicates the hub did not answer within the timeout
	ErrHubTimeout = errors.New("hub request timed out")

	// ErrUnknownTopic indicates no (active, for notifications) subscription
	// matches the topic
	ErrUnknownTopic = errors.New("no subscription for topic")

	// ErrNoTopic indicates a pushed document without a self link
	ErrNoTopic = errors.New("cannot determine topic from payload")

	// ErrBadPayload indicates a pushed document that failed to parse
	ErrBadPayload = errors.New("failed to parse pushed payload")
)

// Manager owns the hub subscription lifecycle: outbound subscribe and
// unsubscribe requests, the inbound verification and notification callbacks,
// and periodic lease renewal
type Manager struct {
	db          db.DB
	parser      parser.FeedParser
	client      *http.Client
	callbackURL string
}

// NewManager creates a manager whose callback URL is derived from the
// public base URL of this instance
func NewManager(adb db.DB, p parser.FeedParser, baseURL string) *Manager {
	return &Manager{
		db:          adb,
		parser:      p,
		client:      &http.Client{Timeout: hubTimeout},
		callbackURL: strings.TrimRight(baseURL, "/") + "/api/websub/callback",
	}
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	_, err := rand.Read(buf)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate subscription secret")
	}

	return hex.EncodeToString(buf), nil
}

func (m *Manager) postHub(ctx context.Context, hubURL string, form url.Values) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		hubURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to create hub request")
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrHubTimeout
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrHubTimeout
		}

		return errors.Wrap(err, "hub request failed")
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(ErrHubRejected, "HTTP %d", resp.StatusCode)
	}

	return nil
}

// Subscribe registers this instance with the hub for the given topic and
// persists the subscription pending hub confirmation. A fresh secret is
// generated on every attempt; the hub echoes its acceptance through the
// verification callback, which is what flips the subscription active
func (m *Manager) Subscribe(ctx context.Context, feedID int64, hubURL, topicURL string) error {
	secret, err := generateSecret()
	if err != nil {
		return err
	}

	form := url.Values{
		"hub.callback": {m.callbackURL},
		"hub.mode":     {modeSubscribe},
		"hub.topic":    {topicURL},
		"hub.secret":   {secret},
		// Empty lease lets the hub choose
		"hub.lease_seconds": {""},
	}

	err = m.postHub(ctx, hubURL, form)
	if err != nil {
		return err
	}

	sub, err := m.db.Subscription(feedID)
	if err != nil {
		return err
	}

	if sub == nil {
		sub = &feed.Subscription{
			FeedID:       feedID,
			LeaseSeconds: DefaultLeaseSeconds,
			ExpiresAt:    time.Now().Add(DefaultLeaseSeconds * time.Second),
			IsActive:     false,
		}
	}

	// On renewal the existing lease, expiry and active state are left
	// alone; the hub's re-confirmation refreshes them. The secret always
	// changes because the hub now holds the new one
	sub.HubURL = hubURL
	sub.TopicURL = topicURL
	sub.Secret = secret

	return m.db.SaveSubscription(sub)
}

// SubscribeAsync runs Subscribe in the background, logging the outcome. Feed
// creation succeeds regardless of what the hub does
func (m *Manager) SubscribeAsync(feedID int64, hubURL, topicURL string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), hubTimeout)
		defer cancel()

		err := m.Subscribe(ctx, feedID, hubURL, topicURL)
		if err != nil {
			log.Error().
				Err(err).
				Int64("feed_id", feedID).
				Str("hub", hubURL).
				Msg("Subscription request failed")
			return
		}

		log.Info().
			Int64("feed_id", feedID).
			Str("hub", hubURL).
			Msg("Subscription requested, awaiting hub confirmation")
	}()
}

// HandleVerification applies a hub confirmation callback to the matching
// subscription. The caller echoes the challenge; this only mutates state
func (m *Manager) HandleVerification(mode, topic string, leaseSeconds int) error {
	sub, err := m.db.SubscriptionByTopic(topic)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrUnknownTopic
	}

	switch mode {
	case modeSubscribe:
		if leaseSeconds <= 0 {
			leaseSeconds = DefaultLeaseSeconds
		}

		sub.LeaseSeconds = leaseSeconds
		sub.ExpiresAt = time.Now().Add(time.Duration(leaseSeconds) * time.Second)
		sub.IsActive = true
		sub.ErrorCount = 0
		sub.LastError = ""
	case modeUnsubscribe:
		sub.IsActive = false
	}

	return m.db.SaveSubscription(sub)
}

// HandleNotification processes a pushed feed document: resolve the topic
// from the payload's self link, verify the signature when one is present,
// then merge the parsed entries for the subscribed feed
func (m *Manager) HandleNotification(ctx context.Context, body []byte, signatureHeader string) error {
	topic := discovery.SelfLink(body)
	if topic == "" {
		return ErrNoTopic
	}

	sub, err := m.db.SubscriptionByTopic(topic)
	if err != nil {
		return err
	}
	if sub == nil || !sub.IsActive {
		return ErrUnknownTopic
	}

	if signatureHeader != "" {
		err = VerifySignature(body, signatureHeader, sub.Secret)
		if err != nil {
			return err
		}
	}

	parsed, err := m.parser.Parse(body)
	if err != nil {
		return errors.Wrapf(ErrBadPayload, "%v", err)
	}

	inserted, err := m.db.MergeEntries(sub.FeedID, parsed.Entries)
	if err != nil {
		return err
	}

	log.Info().
		Int64("feed_id", sub.FeedID).
		Str("topic", topic).
		Int("inserted", inserted).
		Msg("Push notification applied")

	return nil
}

// RenewExpiring re-subscribes active subscriptions expiring within the
// renewal window, oldest expiry first. A failed renewal increments the
// subscription error count and deactivates it after five consecutive errors
func (m *Manager) RenewExpiring(ctx context.Context) (*feed.RenewalResult, error) {
	subs, err := m.db.ExpiringSubscriptions(
		time.Now().Add(renewalWindow),
		maxRenewalsPerRun)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select expiring subscriptions")
	}

	result := &feed.RenewalResult{Results: []*feed.RenewalOutcome{}}

	for _, sub := range subs {
		err := m.Subscribe(ctx, sub.FeedID, sub.HubURL, sub.TopicURL)
		if err != nil {
			sub.ErrorCount++
			sub.LastError = err.Error()
			sub.IsActive = sub.ErrorCount < maxSubscriptionErrors

			if dbErr := m.db.SaveSubscription(sub); dbErr != nil {
				log.Error().
					Err(dbErr).
					Int64("feed_id", sub.FeedID).
					Msg("Failed to record renewal failure")
			}

			result.Results = append(result.Results, &feed.RenewalOutcome{
				FeedID:     sub.FeedID,
				Status:     "failed",
				Error:      err.Error(),
				ErrorCount: sub.ErrorCount,
			})
			continue
		}

		expiresAt := time.Now().Add(
			time.Duration(sub.LeaseSeconds) * time.Second)
		result.Results = append(result.Results, &feed.RenewalOutcome{
			FeedID:       sub.FeedID,
			Status:       "renewed",
			NewExpiresAt: &expiresAt,
		})
	}

	result.Renewed = lo.CountBy(result.Results, func(o *feed.RenewalOutcome) bool {
		return o.Status == "renewed"
	})
	result.Failed = len(result.Results) - result.Renewed

	return result, nil
}

// Unsubscribe tells the hub to stop pushing for the subscription's topic.
// Best-effort: this runs as a cleanup side-action of feed deletion, so
// failures are logged and swallowed
func (m *Manager) Unsubscribe(ctx context.Context, sub *feed.Subscription) {
	form := url.Values{
		"hub.callback": {m.callbackURL},
		"hub.mode":     {modeUnsubscribe},
		"hub.topic":    {sub.TopicURL},
	}

	err := m.postHub(ctx, sub.HubURL, form)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("feed_id", sub.FeedID).
			Str("hub", sub.HubURL).
			Msg("Unsubscribe request failed")
	}
}
