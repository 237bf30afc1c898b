// Package ban escalates repeated rate-limit violations into temporary bans.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/ayres-originals/originals-api/internal/mail"
	"github.com/ayres-originals/originals-api/internal/redissvc"
	"github.com/redis/go-redis/v9"
)

const DailyBanLogKey = "ratelimit:banlog:daily"

type Options struct {
	MaxStrikes int
	// Window is how long strikes are remembered.
	Window time.Duration
	BanTTL time.Duration
	// AlertTo receives ban alerts and the daily summary. No mail is sent when empty.
	AlertTo string
}

type Tracker struct {
	rdb    *redis.Client
	mailer mail.Mailer
	opts   Options
	now    func() time.Time
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func NewTracker(rs *redissvc.RedisService, mailer mail.Mailer, opts Options) *Tracker {
	if opts.MaxStrikes <= 0 {
		opts.MaxStrikes = 5
	}
	if opts.Window <= 0 {
		opts.Window = 10 * time.Minute
	}
	if opts.BanTTL <= 0 {
		opts.BanTTL = 15 * time.Minute
	}
	return &Tracker{rdb: rs.Rdb(), mailer: mailer, opts: opts, now: time.Now}
}

func strikesKey(target string) string { return "ratelimit:strikes:" + target }
func banKey(target string) string     { return "ratelimit:ban:" + target }

func (t *Tracker) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := t.rdb.Exists(ctx, banKey(target)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordStrike counts a violation for target and bans it once MaxStrikes is reached.
func (t *Tracker) RecordStrike(ctx context.Context, target, route string) (bool, error) {
	key := strikesKey(target)
	strikes, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if strikes == 1 {
		if err := t.rdb.Expire(ctx, key, t.opts.Window).Err(); err != nil {
			return false, err
		}
	}
	if strikes < int64(t.opts.MaxStrikes) {
		return false, nil
	}

	pipe := t.rdb.TxPipeline()
	pipe.Set(ctx, banKey(target), route, t.opts.BanTTL)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	log.Printf("banned %s on %s after %d strikes", target, route, strikes)
	t.logBanEvent(ctx, target, route, int(strikes))
	t.sendAlert(ctx, target, route, int(strikes))
	return true, nil
}

func (t *Tracker) logBanEvent(ctx context.Context, target, route string, strikes int) {
	data, _ := json.Marshal(BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    t.now(),
	})
	if err := t.rdb.RPush(ctx, DailyBanLogKey, data).Err(); err != nil {
		log.Printf("failed to append ban log: %v", err)
	}
}

func (t *Tracker) sendAlert(ctx context.Context, target, route string, strikes int) {
	if t.opts.AlertTo == "" || t.mailer == nil {
		return
	}
	msg := mail.Message{
		To:      []string{t.opts.AlertTo},
		Subject: fmt.Sprintf("BAN ALERT: %s blocked", target),
		Body:    fmt.Sprintf("Target: %s\nRoute: %s\nStrikes: %d\nTime: %s", target, route, strikes, t.now().Format(time.RFC3339)),
	}
	go func() {
		if err := t.mailer.Send(context.WithoutCancel(ctx), msg); err != nil {
			log.Printf("failed to send ban alert: %v", err)
		}
	}()
}

// SendDailySummary mails and clears the ban log. It returns the number of entries summarised.
func (t *Tracker) SendDailySummary(ctx context.Context) (int, error) {
	entries, err := t.rdb.LRange(ctx, DailyBanLogKey, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return 0, err
	}
	if err := t.rdb.Del(ctx, DailyBanLogKey).Err(); err != nil {
		return 0, err
	}

	var logs []BanLogEntry
	for _, item := range entries {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			logs = append(logs, entry)
		}
	}

	if t.opts.AlertTo == "" || t.mailer == nil {
		log.Printf("daily ban summary: %d bans", len(logs))
		return len(logs), nil
	}

	err = t.mailer.Send(ctx, mail.Message{
		To:      []string{t.opts.AlertTo},
		Subject: "Daily Ban Report",
		Body:    summaryHTML(logs),
		HTML:    true,
	})
	if err != nil {
		return len(logs), fmt.Errorf("failed to send ban summary: %w", err)
	}
	log.Println("daily ban summary sent")
	return len(logs), nil
}

func summaryHTML(logs []BanLogEntry) string {
	routeCounts := make(map[string]int)
	targetCounts := make(map[string]int)
	for _, entry := range logs {
		routeCounts[entry.Route]++
		targetCounts[entry.Target]++
	}

	var sb strings.Builder
	sb.WriteString("<h2>Daily Ban Summary</h2>")
	sb.WriteString(fmt.Sprintf("<p>Total bans: <strong>%d</strong></p>", len(logs)))

	sb.WriteString("<h3>By Route</h3><ul>")
	for _, route := range sortedKeys(routeCounts) {
		sb.WriteString(fmt.Sprintf("<li><code>%s</code>: %d</li>", route, routeCounts[route]))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>By Client</h3><ul>")
	for _, target := range sortedKeys(targetCounts) {
		sb.WriteString(fmt.Sprintf("<li>%s: %d</li>", target, targetCounts[target]))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Full Log</h3><ul>")
	for _, entry := range logs {
		sb.WriteString(fmt.Sprintf("<li><b>%s</b> on <code>%s</code> (%d strikes) at %s</li>",
			entry.Target, entry.Route, entry.Strikes, entry.Time.Format(time.RFC822)))
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StartDailySummary sends the summary every day at 23:59 local time until ctx is done.
func (t *Tracker) StartDailySummary(ctx context.Context) {
	for {
		now := t.now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if !now.Before(next) {
			next = next.AddDate(0, 0, 1)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			if _, err := t.SendDailySummary(ctx); err != nil {
				log.Printf("daily ban summary failed: %v", err)
			}
		}
	}
}
